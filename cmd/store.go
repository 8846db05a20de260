package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/internal/iocache"
	"github.com/huangsam/gitpet/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeCmd is the parent command for managing the pattern store.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the store holding learned patterns and rotation state.",
	Long:  `The store command provides subcommands to inspect, clear, migrate and export the pet's stored state.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// storeStatusCmd shows the status of the store.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show status of the store.",
	Long: `Display the state of the configured store backend.

Shows:
- Backend type and connection state
- Number of stored entries
- Timestamps of the newest and oldest entries
- How many interaction records the pet has learned from`,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := storeManager.GetKVStore().GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get store status: %w", err)
		}
		counts := newEngine(rootCtx).Counts(rootCtx)

		if cfg.Output == schema.JSONOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Store  schema.StoreStatus   `json:"store"`
				Counts schema.PatternCounts `json:"counts"`
			}{status, counts})
		}
		iocache.PrintStoreStatus(os.Stdout, status)
		iocache.PrintPatternCounts(os.Stdout, counts)
		return nil
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget everything the pet has learned.",
	Long: `Remove all stored patterns, derived insights and message rotation state.

For SQLite this deletes the database file. For MySQL and PostgreSQL it drops
the table. For Redis it deletes every gitpet key. The pet starts cold afterwards.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfigFile(); err != nil {
			return err
		}
		if err := contract.ProcessSettings(cfg, input); err != nil {
			return err
		}
		if err := iocache.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
		cmd.Printf("Store cleared for %s backend.\n", cfg.StoreBackend)
		return nil
	},
}

// storeMigrateCmd runs schema migrations for the store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations for SQL store backends.",
	Long: `Apply the embedded schema migrations to the configured SQL backend.

Use --target-version to migrate to a specific version. Version 0 rolls back
to the initial state. Redis and none backends have no schema to migrate.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := loadConfigFile(); err != nil {
			return err
		}
		if err := contract.ProcessSettings(cfg, input); err != nil {
			return err
		}
		return iocache.MigrateStore(os.Stdout, cfg.StoreBackend, cfg.StoreDBConnect, viper.GetInt("target-version"))
	},
}

// storeExportCmd writes the interaction records to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export learned interaction records to Parquet files.",
	Long: `Write productivity samples, sprint outcomes and feedback reactions to three
Parquet files derived from --output-file, for analysis in DuckDB, Spark or pandas.`,
	Example: `  gitpet store export --output-file gitpet.parquet`,
	PreRunE: storeSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		snapshot := newEngine(rootCtx).Snapshot(rootCtx)
		return iocache.ExecutePatternExport(cmd.OutOrStdout(), snapshot, cfg.OutputFile)
	},
}
