package contract

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/gitpet/schema"
)

// Default values for configuration.
const (
	DefaultCommitLimit  = 50
	MaxCommitLimit      = 100
	DefaultFetchTimeout = 10 * time.Second
)

// Config holds the runtime configuration for gitpet.
// This struct remains the "final, validated" config.
type Config struct {
	Source       schema.CommitSource
	Scope        string // owner/repo for github, repository root for local
	RepoPath     string // Local checkout, when one is known
	GitHubToken  string // Please use env var as this is plaintext
	CommitLimit  int
	FetchTimeout time.Duration

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	LogLevel    string
	LogFormat   string
	MetricsAddr string

	UseEmojis bool // Enable mood emojis in output
	UseColors bool // Enable colored moods in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ScopeStr string

	Source         string `mapstructure:"source"`
	GitHubToken    string `mapstructure:"github-token"`
	CommitLimit    int    `mapstructure:"commit-limit"`
	FetchTimeout   string `mapstructure:"fetch-timeout"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	LogLevel       string `mapstructure:"log-level"`
	LogFormat      string `mapstructure:"log-format"`
	MetricsAddr    string `mapstructure:"metrics-addr"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, resolver ScopeResolver, input *ConfigRawInput) error {
	if err := ProcessSettings(cfg, input); err != nil {
		return err
	}
	return resolveScope(ctx, cfg, resolver, input)
}

// ProcessSettings validates everything except the scope. Commands that only touch
// the pattern store use it so they work outside a checkout.
func ProcessSettings(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return validateStoreConfig(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of connection strings
// for the networked store backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if strings.HasPrefix(connStr, "redis://") || strings.HasPrefix(connStr, "rediss://") {
			return nil
		}
		if _, _, err := net.SplitHostPort(connStr); err != nil {
			return fmt.Errorf("Redis connection string must be host:port or a redis:// URL: %w", err)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-scope, non-store fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.GitHubToken = input.GitHubToken
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsAddr = input.MetricsAddr

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Source = schema.CommitSource(strings.ToLower(input.Source))
	if _, ok := schema.ValidCommitSources[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be github, local", input.Source)
	}

	if input.CommitLimit <= 0 || input.CommitLimit > MaxCommitLimit {
		return fmt.Errorf("commit-limit must be greater than 0 and cannot exceed %d (received %d)", MaxCommitLimit, input.CommitLimit)
	}
	cfg.CommitLimit = input.CommitLimit

	cfg.FetchTimeout = DefaultFetchTimeout
	if input.FetchTimeout != "" {
		d, err := time.ParseDuration(input.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetch-timeout '%s': %w", input.FetchTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("fetch-timeout must be positive (received %s)", d)
		}
		cfg.FetchTimeout = d
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(input.LogFormat)
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log-format '%s'. must be console, json", input.LogFormat)
	}
	return nil
}

// validateStoreConfig validates the store backend configuration.
func validateStoreConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// resolveScope fills Scope and RepoPath from the positional argument or the current checkout.
func resolveScope(ctx context.Context, cfg *Config, resolver ScopeResolver, input *ConfigRawInput) error {
	arg := strings.TrimSpace(input.ScopeStr)

	switch cfg.Source {
	case schema.GitHubSource:
		if arg != "" && IsRepoSlug(arg) {
			cfg.Scope = arg
			return nil
		}
		path := arg
		if path == "" {
			path = "."
		}
		if resolver == nil {
			return fmt.Errorf("scope must be owner/repo when no checkout is available (received %q)", arg)
		}
		root, err := resolver.RepoRoot(ctx, path)
		if err != nil {
			return fmt.Errorf("scope must be owner/repo or a checkout with an origin remote: %w", err)
		}
		slug, err := resolver.RemoteSlug(ctx, root)
		if err != nil {
			return fmt.Errorf("could not derive owner/repo from %s: %w", root, err)
		}
		cfg.RepoPath = root
		cfg.Scope = slug
	case schema.LocalSource:
		path := arg
		if path == "" {
			path = "."
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		if resolver != nil {
			root, err := resolver.RepoRoot(ctx, abs)
			if err != nil {
				return fmt.Errorf("%s is not inside a Git repository: %w", abs, err)
			}
			abs = root
		}
		cfg.RepoPath = abs
		cfg.Scope = abs
	}
	return nil
}

// IsRepoSlug reports whether s looks like "owner/repo".
func IsRepoSlug(s string) bool {
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return false
	}
	return !strings.HasPrefix(owner, ".") && !strings.HasPrefix(s, "/")
}
