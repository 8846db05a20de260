package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/gitpet/core"
	"github.com/huangsam/gitpet/core/feedback"
	"github.com/huangsam/gitpet/core/learn"
	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/internal/gitclient"
	"github.com/huangsam/gitpet/internal/iocache"
	"github.com/huangsam/gitpet/internal/logging"
	"github.com/huangsam/gitpet/internal/telemetry"
	"github.com/huangsam/gitpet/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the process-wide store manager instance.
var storeManager contract.StoreManager

// logger is replaced during setup once the log level and format are known.
var logger = zap.NewNop()

// registry holds every gitpet collector plus the Go runtime ones.
var registry = newRegistry()

// metrics are the collectors the orchestrator reports to.
var metrics = telemetry.New(registry)

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "gitpet",
	Short: "A commit-habit pet that reads your Git history and learns what keeps you going.",
	Long: `gitpet looks at your recent commits, reacts with a mood and a message,
and learns from your sprints and reactions which advice actually helps.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configureConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("GITPET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("source", string(schema.GitHubSource))
	viper.SetDefault("commit-limit", contract.DefaultCommitLimit)
	viper.SetDefault("fetch-timeout", contract.DefaultFetchTimeout.String())
	viper.SetDefault("store-backend", string(schema.SQLiteBackend))
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("output", string(schema.TextOut))
	viper.SetDefault("log-level", "warn")
	viper.SetDefault("log-format", "console")
	viper.SetDefault("color", "yes")
	viper.SetDefault("emoji", "yes")
}

// configureConfigFile points Viper at --config or the default .gitpet.yaml locations.
func configureConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".gitpet") // Name of config file (without extension)
	viper.SetConfigType("yaml")    // We'll use YAML format
	viper.AddConfigPath(".")       // Look in the current directory
	viper.AddConfigPath("$HOME")   // Look in the home directory
}

// loadConfigFile reads the config file if present and unmarshals every resolved value.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return nil
}

// sharedSetup unmarshals config, resolves the scope and opens the store.
func sharedSetup(ctx context.Context, _ *cobra.Command, args []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Handle positional arguments (which Viper doesn't do).
	input.ScopeStr = ""
	if len(args) == 1 {
		input.ScopeStr = args[0]
	}

	if err := contract.ProcessAndValidate(ctx, cfg, gitclient.NewResolver(), input); err != nil {
		return err
	}
	return initRuntime()
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// storeSetup is the minimal setup for commands that only touch the pattern store.
// It avoids scope resolution so these commands work outside a checkout.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := contract.ProcessSettings(cfg, input); err != nil {
		return err
	}
	return initRuntime()
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store-only commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// initRuntime builds the logger and opens the configured store.
func initRuntime() error {
	l, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger = l

	if err := iocache.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	if storeManager == nil {
		storeManager = iocache.Manager
	}
	return nil
}

// newEngine loads the learning engine over the configured store.
func newEngine(ctx context.Context) *learn.Engine {
	store := learn.NewPatternStore(storeManager.GetKVStore(), logger)
	engine := learn.NewEngine(store, logger)
	engine.Initialize(ctx)
	return engine
}

// newOrchestrator wires the commit feed, classifier and engine into one service.
func newOrchestrator(ctx context.Context, engine *learn.Engine) *core.Orchestrator {
	kv := storeManager.GetKVStore()
	return core.NewOrchestrator(
		gitclient.NewFeed(ctx, cfg, logger),
		feedback.NewClassifier(kv, logger),
		engine,
		core.WithLogger(logger),
		core.WithMetrics(metrics),
		core.WithFetchTimeout(cfg.FetchTimeout),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	_ = logger.Sync()
}
