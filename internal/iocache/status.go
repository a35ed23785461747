package iocache

import (
	"fmt"
	"io"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints stats store status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = contract.HeaderColor.Fprintln(w, "Commit Stats Store")
	_, _ = fmt.Fprintf(w, "Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Size: %d bytes\n", status.TableSizeBytes)
}

// PrintReportCacheStatus prints report cache status information.
func PrintReportCacheStatus(w io.Writer, status schema.ReportCacheStatus) {
	_, _ = contract.HeaderColor.Fprintln(w, "Report Cache")
	_, _ = fmt.Fprintf(w, "Directory: %s\n", status.Directory)
	_, _ = fmt.Fprintf(w, "Report Files: %d\n", status.ReportFiles)
	_, _ = fmt.Fprintf(w, "Work Items Cached: %t\n", status.HasWorkItems)
	if status.ReportFiles > 0 || status.HasWorkItems {
		_, _ = fmt.Fprintf(w, "Newest Entry: %s\n", status.NewestEntry.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntry.Format(statusTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Size: %d bytes\n", status.TotalBytes)
}

// PrintMigrationResult prints the outcome of a stats store migration.
func PrintMigrationResult(w io.Writer, result MigrationResult) {
	if !result.Changed {
		_, _ = fmt.Fprintf(w, "No migration needed. Database is already at version %d\n", result.ToVersion)
		return
	}
	_, _ = fmt.Fprintf(w, "Successfully migrated from version %d to version %d\n", result.FromVersion, result.ToVersion)
}
