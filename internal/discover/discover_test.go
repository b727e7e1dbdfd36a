package discover

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/codeexplain/internal/lang"
)

var registry = lang.NewRegistry()

func paths(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = filepath.ToSlash(e.Path)
	}
	return out
}

func TestDiscoverSourceFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.py", "print('hello')")
	writeFile(t, dir, "lib/util.go", "package lib")
	writeFile(t, dir, "web/app.ts", "export {}")
	// Unsupported and hidden files are ignored.
	writeFile(t, dir, "readme.txt", "hello")
	writeFile(t, dir, ".hidden.py", "secret")

	entries, err := Files(registry, dir, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"lib/util.go", "main.py", "web/app.ts"}, paths(entries))
	assert.Equal(t, lang.Go, entries[0].Language)
	assert.Equal(t, lang.Python, entries[1].Language)
	assert.Equal(t, lang.TypeScript, entries[2].Language)
	assert.Equal(t, int64(len("package lib")), entries[0].Size)
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "node_modules/pkg.js", "pass")
	writeFile(t, dir, "__pycache__/cached.py", "pass")
	writeFile(t, dir, ".hidden/secret.py", "pass")

	entries, err := Files(registry, dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, paths(entries))
}

func TestDiscoverLanguageFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "lib.py", "pass")
	writeFile(t, dir, "tool.rb", "puts 1")

	entries, err := Files(registry, dir, Options{Languages: []lang.Language{lang.Python}})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = Files(registry, dir, Options{Languages: []lang.Language{lang.JavaScript}})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiscoverGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "src/a.py", "pass")
	writeFile(t, dir, "src/testdata/fixture.py", "pass")
	writeFile(t, dir, "scripts/run.py", "pass")

	entries, err := Files(registry, dir, Options{
		Include: []string{"src/**"},
		Exclude: []string{"**/testdata/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.py"}, paths(entries))
}

func TestDiscoverVendor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app.go", "package main")
	writeFile(t, dir, "vendor/github.com/x/y/y.go", "package y")

	entries, err := Files(registry, dir, Options{SkipVendor: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.go"}, paths(entries))

	entries, err = Files(registry, dir, Options{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDiscoverMaxFileSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "small.py", "x = 1")
	writeFile(t, dir, "big.py", strings.Repeat("x = 1\n", 100))

	entries, err := Files(registry, dir, Options{MaxFileSize: 64})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.py"}, paths(entries))
}

func TestDiscoverShebang(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bin/tool", "#!/usr/bin/env python\nprint('hi')\n")
	writeFile(t, dir, "LICENSE", "MIT License\n")

	entries, err := Files(registry, dir, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"bin/tool"}, paths(entries))
	assert.Equal(t, lang.Python, entries[0].Language)
}

func TestDiscoverTextOnlyLanguages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "index.php", "<?php\necho 1;\n")
	writeFile(t, dir, "scripts/deploy.sh", "echo deploy\n")
	writeFile(t, dir, "bin/run", "#!/bin/bash\necho run\n")
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "data.json", "{}")

	entries, err := Files(registry, dir, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"bin/run", "index.php", "main.py", "scripts/deploy.sh"}, paths(entries))
	assert.Equal(t, lang.Bash, entries[0].Language)
	assert.Equal(t, lang.PHP, entries[1].Language)
	assert.Equal(t, lang.Bash, entries[3].Language)

	// A language filter only names supported languages.
	entries, err = Files(registry, dir, Options{Languages: []lang.Language{lang.Python}})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, paths(entries))
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "generated/\n*_pb2.py\n")
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "api_pb2.py", "pass")
	writeFile(t, dir, "generated/out.py", "pass")

	entries, err := Files(registry, dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, paths(entries))
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.py", "pass")

	if err := os.Symlink(filepath.Join(dir, "real.py"), filepath.Join(dir, "link.py")); err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(registry, dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"real.py"}, paths(entries))
}

func TestFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "x.rs", "fn main() {}")
	writeFile(t, dir, "notes.txt", "hello")

	e, ok, err := File(registry, filepath.Join(dir, "x.rs"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, lang.Rust, e.Language)
	assert.Equal(t, int64(12), e.Size)

	writeFile(t, dir, "page.php", "<?php\n")
	e, ok, err = File(registry, filepath.Join(dir, "page.php"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, lang.PHP, e.Language)

	_, ok, err = File(registry, filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = File(registry, filepath.Join(dir, "missing.py"))
	assert.Error(t, err)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
