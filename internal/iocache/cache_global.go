package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
)

// statsTable is the table (or bolt bucket) holding per-commit numstat results.
const statsTable = "commit_stats"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// NewStatsStore opens the per-commit stats store for the backend.
// For SQLite and bolt, connStr is the file path (empty selects the default).
func NewStatsStore(backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if backend == schema.BoltBackend {
		return NewBoltStore(statsTable, connStr)
	}
	return NewSQLStatsStore(statsTable, backend, connStr)
}

// InitCaching initializes the global cache manager: the stats store for the
// backend plus the file caches rooted at cacheDir.
func InitCaching(backend schema.DatabaseBackend, connStr string, cacheDir string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		files, err := NewFileCache(cacheDir)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize report cache: %w", err)
			return
		}

		stats, err := NewStatsStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize stats store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.stats = stats
		Manager.reports = files
		Manager.workItems = files.WorkItems()
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.stats != nil {
			_ = Manager.stats.Close()
		}
	})
}

// ClearCache clears the stats store for the specified backend.
// For SQLite and bolt, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeFile(firstPath(connStr, contract.GetCacheDBFilePath()))

	case schema.BoltBackend:
		return removeFile(firstPath(connStr, contract.GetBoltFilePath()))

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTable(backend, connStr, statsTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

func firstPath(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}

// removeFile deletes a database file; a missing file is fine.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove database file %s: %w", path, err)
	}
	return nil
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	db, err := openSQL(backend, connStr)
	if err != nil {
		return err
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
