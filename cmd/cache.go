package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/internal/iocache"
	"github.com/huangsam/scanreport/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseBackend(viper.GetString("cache-backend"), schema.SQLiteBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching only (no history tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands skip sharedSetup so they work without an archive argument.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the decoded report cache.",
	Long: `Manage the cache of decoded reports.

Decoded reports are cached by the BLAKE3 digest of the archive bytes, so
reading the same archive twice skips the decode step.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  scanreport cache status
  scanreport cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached reports.",
	Long: `Delete all cached reports from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  scanreport cache clear
  SCANREPORT_CACHE_BACKEND=mysql SCANREPORT_CACHE_DB_CONNECT="..." scanreport cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the handle opened by setup before the file goes away.
		iocache.CloseStores()
		if err := iocache.ClearCache(cfg.CacheBackend, iocache.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details.",
	Long: `Show the backend, entry count, entry age range and table size of the report cache.

Examples:
  scanreport cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetReportStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
