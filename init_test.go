package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/codeexplain/internal/config"
)

func TestConfigInitCreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "codeexplain.yaml")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"config", "init", path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "wrote default configuration to "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestConfigInitKeepsExistingFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "codeexplain.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  top: 3\n"), 0o644))

	var stdout, stderr bytes.Buffer
	assert.Error(t, run([]string{"config", "init", path}, &stdout, &stderr))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "output:\n  top: 3\n", string(data))
}

func TestConfigInitDryRun(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "codeexplain.yaml")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"config", "init", "--dry-run", path}, &stdout, &stderr))

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "analysis:\n"), out)
	assert.Contains(t, out, "workers: 4")
	assert.Contains(t, out, "max_file_size: 1MiB")
	assert.NoFileExists(t, path)
}

func TestConfigInitTooManyArgs(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	assert.Error(t, run([]string{"config", "init", "a.yaml", "b.yaml"}, &stdout, &stderr))
}

func TestRunWithConfigFile(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  format: toon\n  top: 1\n"), 0o644))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--config", cfgPath, dir}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "files[1]{")

	// Flags win over the file.
	stdout.Reset()
	require.NoError(t, run([]string{"--config", cfgPath, "-n", "0", dir}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "files[2]{")
}
