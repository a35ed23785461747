package schema

import "time"

// CacheStatus represents the status of the commit stats store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// ReportCacheStatus represents the status of the file-backed report cache.
type ReportCacheStatus struct {
	Directory    string    `json:"directory"`
	ReportFiles  int       `json:"report_files"`
	HasWorkItems bool      `json:"has_work_items"`
	TotalBytes   int64     `json:"total_bytes"`
	NewestEntry  time.Time `json:"newest_entry"`
	OldestEntry  time.Time `json:"oldest_entry"`
}
