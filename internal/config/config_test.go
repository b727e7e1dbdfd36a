package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, defaultWorkers, cfg.Analysis.Workers)
	assert.Equal(t, "1MiB", cfg.Analysis.MaxFileSize)
	assert.Equal(t, defaultCacheSize, cfg.Analysis.CacheSize)
	assert.True(t, cfg.Discover.SkipVendor)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	require.NoError(t, cfg.Validate())

	n, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), n)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analysis:
  workers: 8
  max_file_size: 256KB
  languages: [python, go]
discover:
  exclude: ["**/testdata/**"]
output:
  format: table
  top: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, []string{"python", "go"}, cfg.Analysis.Languages)
	assert.Equal(t, []string{"**/testdata/**"}, cfg.Discover.Exclude)
	assert.Equal(t, FormatTable, cfg.Output.Format)
	assert.Equal(t, 5, cfg.Output.Top)
	// Untouched keys keep their defaults.
	assert.Equal(t, defaultCacheSize, cfg.Analysis.CacheSize)

	n, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(256000), n)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CODEEXPLAIN_ANALYSIS_WORKERS", "3")
	t.Setenv("CODEEXPLAIN_OUTPUT_FORMAT", "yaml")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Analysis.Workers)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero workers", func(c *Config) { c.Analysis.Workers = 0 }, ErrInvalidWorkers},
		{"bad size", func(c *Config) { c.Analysis.MaxFileSize = "lots" }, ErrInvalidSize},
		{"negative cache", func(c *Config) { c.Analysis.CacheSize = -1 }, ErrInvalidCacheSize},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, ErrInvalidFormat},
		{"negative top", func(c *Config) { c.Output.Top = -2 }, ErrInvalidTop},
		{"bad log format", func(c *Config) { c.Logging.Format = "logfmt" }, ErrInvalidLogFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  workers: -1\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	cfg := Default()
	cfg.Analysis.Workers = 2
	cfg.Output.Format = FormatTOON
	require.NoError(t, WriteYAML(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// An existing file is never overwritten.
	assert.Error(t, WriteYAML(cfg, path))
}
