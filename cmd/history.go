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

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseBackend(viper.GetString("history-backend"), schema.NoneBackend)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	connStr := viper.GetString("history-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyCmd groups run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the run history store.",
	Long: `Manage the store that records one row per report run and one row per unit.

History is off unless --history-backend names a backend.

Subcommands:
  status  - Show run counts and table sizes
  clear   - Remove all recorded runs
  export  - Write runs and unit rows to Parquet files
  migrate - Move the history schema to a given version

Examples:
  scanreport history status --history-backend sqlite
  scanreport history export --history-backend sqlite --output-file history`,
}

// historyClearCmd clears recorded runs.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs.",
	Long: `Delete all run history from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables and migration bookkeeping`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseStores()
		if err := iocache.ClearHistory(cfg.HistoryBackend, iocache.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run history statistics.",
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet files.",
	Long: `Write the recorded runs and unit rows to two Parquet files named after
--output-file: <output-file>.runs.parquet and <output-file>.units.parquet.

Examples:
  scanreport history export --history-backend sqlite --output-file history`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportHistory(iocache.Manager.GetHistoryStore(), viper.GetString("output-file"), os.Stdout); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd moves the history schema between versions.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the history schema.",
	Long: `Apply or roll back history schema migrations.

  --target-version -1  migrate to the latest version (default)
  --target-version 0   roll back every migration
  --target-version N   migrate to version N

Examples:
  scanreport history migrate --history-backend sqlite
  scanreport history migrate --history-backend postgresql --target-version 1`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadConfigFile(); err != nil {
			return err
		}
		backend, err := contract.ParseBackend(viper.GetString("history-backend"), schema.NoneBackend)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		cfg.HistoryBackend = backend
		cfg.HistoryDBConnect = viper.GetString("history-db-connect")
		return contract.ValidateDatabaseConnectionString(backend, cfg.HistoryDBConnect)
	},
	Run: func(_ *cobra.Command, _ []string) {
		result, err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to migrate history", err)
		}
		if !result.Changed {
			fmt.Printf("History schema already at version %d.\n", result.ToVersion)
			return
		}
		fmt.Printf("History schema migrated from version %d to %d.\n", result.FromVersion, result.ToVersion)
	},
}
