package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// dialect holds the SQL that differs between the stats store backends.
// Every template takes the quoted table name.
type dialect struct {
	createTable string
	selectOne   string
	upsert      string
}

var dialects = map[schema.DatabaseBackend]dialect{
	schema.SQLiteBackend: {
		createTable: `CREATE TABLE IF NOT EXISTS %s (
			commit_key TEXT PRIMARY KEY,
			stats BLOB NOT NULL,
			stats_version INTEGER NOT NULL,
			recorded_at INTEGER NOT NULL
		)`,
		selectOne: `SELECT stats, stats_version, recorded_at FROM %s WHERE commit_key = ?`,
		upsert:    `INSERT OR REPLACE INTO %s (commit_key, stats, stats_version, recorded_at) VALUES (?, ?, ?, ?)`,
	},
	schema.MySQLBackend: {
		createTable: `CREATE TABLE IF NOT EXISTS %s (
			commit_key VARCHAR(255) PRIMARY KEY,
			stats BLOB NOT NULL,
			stats_version INT NOT NULL,
			recorded_at BIGINT NOT NULL
		)`,
		selectOne: "SELECT stats, stats_version, recorded_at FROM %s WHERE commit_key = ?",
		upsert: `INSERT INTO %s (commit_key, stats, stats_version, recorded_at) VALUES (?, ?, ?, ?) AS incoming
			ON DUPLICATE KEY UPDATE stats = incoming.stats, stats_version = incoming.stats_version, recorded_at = incoming.recorded_at`,
	},
	schema.PostgreSQLBackend: {
		createTable: `CREATE TABLE IF NOT EXISTS %s (
			commit_key TEXT PRIMARY KEY,
			stats BYTEA NOT NULL,
			stats_version INTEGER NOT NULL,
			recorded_at BIGINT NOT NULL
		)`,
		selectOne: `SELECT stats, stats_version, recorded_at FROM %s WHERE commit_key = $1`,
		upsert: `INSERT INTO %s (commit_key, stats, stats_version, recorded_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (commit_key) DO UPDATE SET stats = EXCLUDED.stats, stats_version = EXCLUDED.stats_version, recorded_at = EXCLUDED.recorded_at`,
	},
}

// SQLStatsStore keeps per-commit numstat totals in a SQL table.
// With the none backend it holds no connection and stores nothing.
type SQLStatsStore struct {
	db      *sql.DB
	table   string
	backend schema.DatabaseBackend
	connStr string

	selectQuery string
	upsertQuery string
}

var _ contract.CacheStore = &SQLStatsStore{} // Compile-time check

// NewSQLStatsStore opens the store for a SQL backend or the none backend.
// The table is created when missing, with the same layout as the first migration.
func NewSQLStatsStore(table string, backend schema.DatabaseBackend, connStr string) (*SQLStatsStore, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	store := &SQLStatsStore{table: table, backend: backend, connStr: connStr}
	if backend == schema.NoneBackend {
		return store, nil
	}

	d, ok := dialects[backend]
	if !ok {
		return nil, fmt.Errorf("unsupported stats backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	db, err := openSQL(backend, connStr)
	if err != nil {
		return nil, err
	}
	quoted := quoteTableName(table, backend)
	if _, err := db.Exec(fmt.Sprintf(d.createTable, quoted)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	store.db = db
	store.selectQuery = fmt.Sprintf(d.selectOne, quoted)
	store.upsertQuery = fmt.Sprintf(d.upsert, quoted)
	return store, nil
}

// Get returns the stored stats blob with its version and record time.
// A missing entry yields sql.ErrNoRows.
func (s *SQLStatsStore) Get(key string) ([]byte, int, int64, error) {
	if s.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}
	var (
		value   []byte
		version int
		ts      int64
	)
	if err := s.db.QueryRow(s.selectQuery, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces the stats of one commit.
func (s *SQLStatsStore) Set(key string, value []byte, version int, timestamp int64) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(s.upsertQuery, key, value, version, timestamp)
	return err
}

func (s *SQLStatsStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus counts the stored commits and reports their time range and the table size.
func (s *SQLStatsStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(s.backend), Connected: s.db != nil}
	if s.db == nil {
		return status, nil
	}
	quoted := quoteTableName(s.table, s.backend)

	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var newest, oldest int64
	if err := s.db.QueryRow(fmt.Sprintf("SELECT MAX(recorded_at), MIN(recorded_at) FROM %s", quoted)).Scan(&newest, &oldest); err != nil {
		return status, fmt.Errorf("failed to get entry time range: %w", err)
	}
	status.LastEntryTime = time.Unix(newest, 0)
	status.OldestEntryTime = time.Unix(oldest, 0)
	status.TableSizeBytes = s.tableSize(int64(status.TotalEntries))
	return status, nil
}

// tableSize asks the backend for the table size and falls back to an estimate
// of 100 bytes per entry.
func (s *SQLStatsStore) tableSize(entries int64) int64 {
	size := entries * 100
	switch s.backend {
	case schema.SQLiteBackend:
		_ = s.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()").Scan(&size)
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		_ = s.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, s.table).Scan(&size)
	case schema.PostgreSQLBackend:
		_ = s.db.QueryRow("SELECT pg_total_relation_size($1)", s.table).Scan(&size)
	}
	return size
}
