package cmd

import (
	"fmt"
	"os"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/iocache"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	cfg.CacheDir = viper.GetString("cache-dir")
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := cacheSetup(); err != nil {
		return err
	}
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheDir); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by report commands. This avoids repository and
// Asana validation for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached reports and commit statistics",
	Long: `Manage the two caches that speed up repeated reports.

The report cache keeps one JSON file per date window and repository set, plus
the Asana task snapshot, under --cache-dir. The commit stats store memoises the
line counts of each commit in SQLite (default), MySQL, PostgreSQL or bolt.

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Run schema migrations on the commit stats table`,
}

// cacheClearCmd clears both caches.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached reports and commit statistics",
	Long: `Delete every file under the cache directory and the commit stats store.

For SQLite and bolt: Deletes the database file
For MySQL/PostgreSQL: Drops the stats table

Examples:
  # Clear the default caches
  gitasana cache clear

  # Clear a MySQL stats store (set connection string via env variable)
  GITASANA_CACHE_BACKEND=mysql GITASANA_CACHE_DB_CONNECT="..." gitasana cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		reports := iocache.Manager.GetReportCache()
		removed, err := reports.Clear()
		if err != nil {
			contract.LogFatal("Failed to clear report cache", err)
		}
		// Release the store before deleting its file.
		iocache.CloseCaching()
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear stats store", err)
		}
		fmt.Printf("Cache cleared successfully (%d report files removed).\n", len(removed))
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the report cache directory contents and the commit stats store state.

Examples:
  gitasana cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		reportStatus, err := iocache.Manager.GetReportCache().Status()
		if err != nil {
			contract.LogFatal("Failed to get report cache status", err)
		}
		iocache.PrintReportCacheStatus(os.Stdout, reportStatus)
		fmt.Println()

		status, err := iocache.Manager.GetStatsStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get stats store status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cacheMigrateCmd runs schema migrations without opening the store first,
// so it also works on a fresh database.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations on the commit stats table",
	Long: `Migrate the commit stats table of a SQL backend.

Examples:
  # Migrate to the latest version
  gitasana cache migrate

  # Roll back all migrations
  gitasana cache migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		result, err := iocache.MigrateStats(cfg.CacheBackend, cfg.CacheDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to migrate stats store", err)
		}
		iocache.PrintMigrationResult(os.Stdout, result)
	},
}
