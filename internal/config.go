package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLedgerFile   = "Expenses.xlsx"
	DefaultDatabaseFile = "expenses.db"
)

// Environment variables overriding config file values
const (
	EnvFile      = "EXPENSES_FILE"
	EnvBackend   = "EXPENSES_BACKEND"
	EnvCurrency  = "EXPENSES_CURRENCY"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

type Config struct {
	// File is the ledger location (workbook or database)
	File string `yaml:"file,omitempty"`

	// Backend selects the storage: xlsx (default) or sqlite
	Backend string `yaml:"backend,omitempty"`

	// Currency is the ISO 4217 code used when printing amounts.
	// Empty means detect from the system locale.
	Currency string `yaml:"currency,omitempty"`

	// Categories is the registry of allowed category names, in display order
	Categories []string `yaml:"categories"`

	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`
}

// DefaultConfigPath returns the default config file path (~/.expense-tracker/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".expense-tracker", "config.yaml")
}

// NewDefaultConfig creates the config used when no config file exists
func NewDefaultConfig() *Config {
	return &Config{
		File:       DefaultLedgerFile,
		Backend:    BackendXLSX,
		Categories: slices.Clone(DefaultCategories),
		LogLevel:   "warn",
		LogFormat:  "text",
	}
}

// LoadConfig reads a config file. Fields missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if len(cfg.Categories) == 0 {
		cfg.Categories = slices.Clone(DefaultCategories)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides config values with the non-empty environment variables
// returned by getenv (os.Getenv in production)
func (c *Config) ApplyEnv(getenv func(string) string) {
	overrides := []struct {
		key    string
		target *string
	}{
		{EnvFile, &c.File},
		{EnvBackend, &c.Backend},
		{EnvCurrency, &c.Currency},
		{EnvLogLevel, &c.LogLevel},
		{EnvLogFormat, &c.LogFormat},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(getenv(o.key)); v != "" {
			*o.target = v
		}
	}
}

// Validate rejects settings the program cannot run with
func (c *Config) Validate() error {
	if !slices.Contains(AvailableBackends(), c.Backend) {
		return fmt.Errorf("unknown backend %q (available: %v)", c.Backend, AvailableBackends())
	}
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q (available: text, json)", c.LogFormat)
	}
	if c.File == "" {
		return fmt.Errorf("ledger file is empty")
	}

	seen := make(map[string]bool, len(c.Categories))
	for _, name := range c.Categories {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("category list contains a blank name")
		}
		if seen[name] {
			return fmt.Errorf("category %q is listed twice", name)
		}
		seen[name] = true
	}
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
