package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// Config represents the pgrid config.toml file
type Config struct {
	View    ViewConfig    `toml:"view"`
	Columns ColumnsConfig `toml:"columns"`
	Source  SourceConfig  `toml:"source"`
}

// ViewConfig contains table view defaults
type ViewConfig struct {
	PageSize   int   `toml:"page_size" config:"view.page_size" default:"10" min:"1" max:"10000" desc:"Rows per page on start"`
	PageSizes  []int `toml:"page_sizes" config:"view.page_sizes" default:"10,25,50" desc:"Page size choices"`
	Sortable   bool  `toml:"sortable" config:"view.sortable" default:"true" desc:"Allow sorting by column"`
	Pagination bool  `toml:"pagination" config:"view.pagination" default:"true" desc:"Split rows into pages"`
}

// ColumnsConfig names columns that get special rendering
type ColumnsConfig struct {
	Status    string `toml:"status" config:"columns.status" default:"Status" desc:"Column shown as a status badge"`
	Selection string `toml:"selection" config:"columns.selection" default:"SELECT" desc:"Column shown as a checkbox"`
}

// SourceConfig contains data source settings
type SourceConfig struct {
	PostgresURL  string `toml:"postgres_url" config:"source.postgres_url" desc:"Default PostgreSQL URL for --postgres"`
	Timeout      int    `toml:"timeout" config:"source.timeout" default:"60" min:"1" max:"3600" desc:"Database load timeout in seconds"`
	CSVSeparator string `toml:"csv_separator" config:"source.csv_separator" desc:"CSV separator (empty = detect, tab = \\t)"`
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		View: ViewConfig{
			PageSize:   10,
			PageSizes:  []int{10, 25, 50},
			Sortable:   true,
			Pagination: true,
		},
		Columns: ColumnsConfig{
			Status:    "Status",
			Selection: "SELECT",
		},
		Source: SourceConfig{
			Timeout: 60,
		},
	}
}

// Path returns the path to the config file
// Follows XDG Base Directory spec on Linux, platform conventions elsewhere
func Path() string {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, "Library", "Application Support", "pgrid")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "pgrid")
	default: // Linux and others - follow XDG
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "pgrid")
		} else {
			home, _ := os.UserHomeDir()
			configDir = filepath.Join(home, ".config", "pgrid")
		}
	}

	return filepath.Join(configDir, "config.toml")
}

// Load reads the config file, falling back to defaults if it doesn't exist
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path. A missing file yields defaults.
// Environment overrides are applied last.
func LoadFrom(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// Apply defaults for any missing values. Booleans are not back-filled:
	// false is a valid setting and missing keys keep their default anyway.
	defaults := DefaultConfig()

	if cfg.View.PageSize == 0 {
		cfg.View.PageSize = defaults.View.PageSize
	}
	if len(cfg.View.PageSizes) == 0 {
		cfg.View.PageSizes = defaults.View.PageSizes
	}
	if cfg.Columns.Status == "" {
		cfg.Columns.Status = defaults.Columns.Status
	}
	if cfg.Columns.Selection == "" {
		cfg.Columns.Selection = defaults.Columns.Selection
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = defaults.Source.Timeout
	}

	if url := os.Getenv("PGRID_POSTGRES_URL"); url != "" {
		cfg.Source.PostgresURL = url
	}

	return cfg, nil
}

// Save writes the config file
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config file to path
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// Validate checks settings that depend on each other
func (c *Config) Validate() error {
	for _, s := range c.View.PageSizes {
		if s <= 0 {
			return fmt.Errorf("%w: view.page_sizes contains %d", ErrInvalidConfig, s)
		}
	}
	if !slices.Contains(c.View.PageSizes, c.View.PageSize) {
		return fmt.Errorf("%w: view.page_size %d is not one of view.page_sizes %v",
			ErrInvalidConfig, c.View.PageSize, c.View.PageSizes)
	}
	if _, err := c.Source.Separator(); err != nil {
		return err
	}
	return nil
}

// Separator returns the configured CSV separator, or 0 to detect it.
func (s SourceConfig) Separator() (rune, error) {
	switch s.CSVSeparator {
	case "":
		return 0, nil
	case `\t`, "tab", "\t":
		return '\t', nil
	}
	if utf8.RuneCountInString(s.CSVSeparator) != 1 {
		return 0, fmt.Errorf("%w: source.csv_separator must be a single character, got %q",
			ErrInvalidConfig, s.CSVSeparator)
	}
	r, _ := utf8.DecodeRuneInString(s.CSVSeparator)
	return r, nil
}

// LoadTimeout returns the database load timeout.
func (s SourceConfig) LoadTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// GetValue returns a config value by key (uses reflection)
func (c *Config) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a config value by key (uses reflection with validation)
func (c *Config) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}
