package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv("PGRID_POSTGRES_URL", "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_PartialFile(t *testing.T) {
	t.Setenv("PGRID_POSTGRES_URL", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[view]
page_sizes = [5, 20]
page_size = 5
sortable = false

[source]
csv_separator = ";"
`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, []int{5, 20}, cfg.View.PageSizes)
	assert.Equal(t, 5, cfg.View.PageSize)
	assert.False(t, cfg.View.Sortable)
	assert.True(t, cfg.View.Pagination)
	assert.Equal(t, "Status", cfg.Columns.Status)
	assert.Equal(t, 60, cfg.Source.Timeout)
	assert.Equal(t, time.Minute, cfg.Source.LoadTimeout())

	sep, err := cfg.Source.Separator()
	require.NoError(t, err)
	assert.Equal(t, ';', sep)
}

func TestLoadFrom_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[view\n"), 0o644))
	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("PGRID_POSTGRES_URL", "postgres://env/db")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cfg.Source.PostgresURL)
}

func TestSaveToRoundTrip(t *testing.T) {
	t.Setenv("PGRID_POSTGRES_URL", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	require.NoError(t, cfg.SetValue("view.page_sizes", "25, 100"))
	require.NoError(t, cfg.SetValue("view.page_size", "100"))
	require.NoError(t, cfg.SetValue("view.pagination", "false"))
	require.NoError(t, cfg.SaveTo(path))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestGetValue(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key  string
		want string
	}{
		{"view.page_size", "10"},
		{"view.page_sizes", "10,25,50"},
		{"view.pagesizes", "10,25,50"},
		{"view.sortable", "true"},
		{"columns.selection", "SELECT"},
		{"source.timeout", "60"},
		{"source.postgres_url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := cfg.GetValue(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := cfg.GetValue("view.nope")
	assert.False(t, ok)
	_, ok = cfg.GetValue("nope")
	assert.False(t, ok)
}

func TestSetValue_Validation(t *testing.T) {
	cfg := DefaultConfig()

	assert.ErrorContains(t, cfg.SetValue("view.nope", "1"), "unknown config key")
	assert.ErrorContains(t, cfg.SetValue("view.page_size", "abc"), "invalid integer")
	assert.ErrorContains(t, cfg.SetValue("view.page_size", "0"), "below minimum")
	assert.ErrorContains(t, cfg.SetValue("source.timeout", "9999"), "exceeds maximum")
	assert.ErrorContains(t, cfg.SetValue("view.sortable", "maybe"), "invalid boolean")
	assert.ErrorContains(t, cfg.SetValue("view.page_sizes", " , "), "at least one value")

	assert.Equal(t, DefaultConfig(), cfg, "failed sets leave config unchanged")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.View.PageSize = 7
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Source.CSVSeparator = "ab"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Source.CSVSeparator = "tab"
	sep, err := cfg.Source.Separator()
	require.NoError(t, err)
	assert.Equal(t, '\t', sep)
}

func TestListKeys(t *testing.T) {
	assert.Equal(t, []string{
		"columns.selection",
		"columns.status",
		"source.csv_separator",
		"source.postgres_url",
		"source.timeout",
		"view.page_size",
		"view.page_sizes",
		"view.pagination",
		"view.sortable",
	}, ListKeys())

	help := GenerateHelpText()
	assert.Contains(t, help, "View:")
	assert.Contains(t, help, "view.page_size")
	assert.Contains(t, help, "(default: 10)")
}

func TestPath(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG layout only")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/pgrid/config.toml", Path())
}
