package contract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/whodunit/schema"
	"golang.org/x/term"
)

// Limits for configuration values.
const (
	MaxVerbosity = 2
)

// Config holds the runtime configuration for a whodunit run.
// This struct is the "final, validated" config.
type Config struct {
	Files []string

	P4Binary string
	P4Port   string
	P4User   string
	P4Client string

	Verbosity  int
	OutputFile string
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	Files []string

	// --- Fields from rootCmd.PersistentFlags() ---
	P4Bin          string `mapstructure:"p4-bin"`
	P4Port         string `mapstructure:"p4-port"`
	P4User         string `mapstructure:"p4-user"`
	P4Client       string `mapstructure:"p4-client"`
	Verbose        int    `mapstructure:"verbose"`
	OutputFile     string `mapstructure:"output-file"`
	Color          string `mapstructure:"color"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Files != nil {
		clone.Files = make([]string, len(c.Files))
		copy(clone.Files, c.Files)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateColorMode(cfg, input, os.Stdout); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Files = nil
	for _, f := range input.Files {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("file arguments cannot be empty")
		}
		cfg.Files = append(cfg.Files, f)
	}

	cfg.P4Binary = strings.TrimSpace(input.P4Bin)
	if cfg.P4Binary == "" {
		cfg.P4Binary = DefaultP4Binary
	}
	cfg.P4Port = strings.TrimSpace(input.P4Port)
	cfg.P4User = strings.TrimSpace(input.P4User)
	cfg.P4Client = strings.TrimSpace(input.P4Client)
	cfg.OutputFile = input.OutputFile

	if input.Verbose < 0 {
		return fmt.Errorf("verbose must not be negative (received %d)", input.Verbose)
	}
	cfg.Verbosity = min(input.Verbose, MaxVerbosity)

	return nil
}

// validateColorMode resolves the color flag against the output destination.
func validateColorMode(cfg *Config, input *ConfigRawInput, stdout *os.File) error {
	raw := strings.ToLower(strings.TrimSpace(input.Color))
	if raw == "" {
		raw = string(schema.ColorAuto)
	}
	if raw == string(schema.ColorAuto) {
		cfg.UseColors = cfg.OutputFile == "" && IsTerminal(stdout)
		return nil
	}
	colors, err := ParseBoolString(raw)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors
	return nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
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

// validateBackendConfigs validates the owner cache backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	raw := strings.ToLower(strings.TrimSpace(input.CacheBackend))
	if raw == "" {
		raw = string(schema.NoneBackend)
	}
	cfg.CacheBackend = schema.DatabaseBackend(raw)
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}
