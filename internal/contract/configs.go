package contract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/scanreport/internal/archive"
	"github.com/huangsam/scanreport/internal/wire"
	"github.com/huangsam/scanreport/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit  = 0 // all units
	MaxResultLimit      = 100000
	DefaultMaxEntrySize = "64MiB"
	DefaultMaxFrameSize = "16MiB"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for reading a report archive.
// This struct remains the "final, validated" config.
type Config struct {
	ArchivePath  string
	PathFilter   string
	ResultLimit  int // 0 = no limit
	IncludeTests bool
	Detail       bool
	Output       schema.OutputMode
	OutputFile   string
	Width        int // Terminal width override (0 = auto-detect)
	UseColors    bool

	MaxEntryBytes uint64
	MaxFrameBytes uint64

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel slog.Level
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ArchivePathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Filter           string `mapstructure:"filter"`
	OutputFile       string `mapstructure:"output-file"`
	Limit            int    `mapstructure:"limit"`
	Tests            bool   `mapstructure:"tests"`
	Output           string `mapstructure:"output"`
	Detail           bool   `mapstructure:"detail"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	MaxEntrySize     string `mapstructure:"max-entry-size"`
	MaxFrameSize     string `mapstructure:"max-frame-size"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogLevel         string `mapstructure:"log-level"`
}

// Limits returns the frame decoding limits for this config.
func (c *Config) Limits() wire.Limits {
	if c.MaxFrameBytes == 0 {
		return wire.DefaultLimits()
	}
	return wire.Limits{MaxFrameBytes: c.MaxFrameBytes}
}

// CacheKeyParams returns the settings that change a decoded report.
func (c *Config) CacheKeyParams() string {
	return fmt.Sprintf("entry=%d:frame=%d", c.MaxEntryBytes, c.MaxFrameBytes)
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// RevalidateArchive points the config at a new archive path, applying the
// same checks as the command line.
func RevalidateArchive(cfg *Config, path string) error {
	if path == "" {
		if cfg.ArchivePath == "" {
			return fmt.Errorf("archive_path is required")
		}
		return nil
	}
	return resolveArchivePath(cfg, &ConfigRawInput{ArchivePathStr: path})
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSizeLimits(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := resolveArchivePath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend validates a backend name. An empty name selects the default.
func ParseBackend(name string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, error) {
	if name == "" {
		return fallback, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(name))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", name)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	backend, err := ParseBackend(input.CacheBackend, schema.SQLiteBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	backend, err = ParseBackend(input.HistoryBackend, schema.NoneBackend)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.PathFilter = input.Filter
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.IncludeTests = input.Tests
	cfg.Width = input.Width

	cfg.UseColors = true
	if input.Color != "" {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	level, err := ParseLogLevel(input.LogLevel)
	if err != nil {
		return err
	}
	cfg.LogLevel = level
	return nil
}

// processSizeLimits parses the human-readable size flags.
func processSizeLimits(cfg *Config, input *ConfigRawInput) error {
	entry, err := parseSize("max-entry-size", input.MaxEntrySize, DefaultMaxEntrySize)
	if err != nil {
		return err
	}
	frame, err := parseSize("max-frame-size", input.MaxFrameSize, DefaultMaxFrameSize)
	if err != nil {
		return err
	}
	if frame > entry {
		return fmt.Errorf("max-frame-size (%s) cannot exceed max-entry-size (%s)", humanize.IBytes(frame), humanize.IBytes(entry))
	}
	cfg.MaxEntryBytes = entry
	cfg.MaxFrameBytes = frame
	return nil
}

func parseSize(flag, value, fallback string) (uint64, error) {
	if value == "" {
		value = fallback
	}
	n, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s value %q: %w", flag, value, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("--%s must be greater than 0", flag)
	}
	if n > archive.MaxEntryLimit {
		return 0, fmt.Errorf("--%s must be at most %s", flag, humanize.IBytes(archive.MaxEntryLimit))
	}
	return n, nil
}

// ParseLogLevel maps a level name to a slog level. Empty means warn.
func ParseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid --log-level value %q: must be debug, info, warn, error", s)
	}
	return level, nil
}

// resolveArchivePath makes the archive path absolute and checks that it is a file.
// Commands without an archive argument leave it empty.
func resolveArchivePath(cfg *Config, input *ConfigRawInput) error {
	if input.ArchivePathStr == "" {
		return nil
	}
	absPath, err := filepath.Abs(input.ArchivePathStr)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("archive not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("archive path %s is a directory", absPath)
	}
	cfg.ArchivePath = absPath
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ArchiveLimit returns the archive walker limit for this config.
func (c *Config) ArchiveLimit() uint64 {
	if c.MaxEntryBytes == 0 {
		return archive.DefaultMaxEntryBytes
	}
	return c.MaxEntryBytes
}
