// Package discover finds analyzable source files under a directory.
package discover

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/src-d/enry/v2"

	"github.com/phobologic/codeexplain/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to the discovery root
	Language lang.Language
	Size     int64
}

// Options narrows discovery. The zero value accepts every supported or
// text-only source file.
type Options struct {
	// Languages restricts results to these languages when non-empty.
	Languages []lang.Language
	// Include keeps only paths matching one of these doublestar globs.
	Include []string
	// Exclude drops paths matching any of these doublestar globs.
	Exclude []string
	// SkipVendor drops vendored and third-party paths.
	SkipVendor bool
	// MaxFileSize drops larger files when positive.
	MaxFileSize int64
	Logger      *slog.Logger
}

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"venv":          {},
	".venv":         {},
	"env":           {},
	".env":          {},
	"build":         {},
	"dist":          {},
	"target":        {},
	".tox":          {},
	".mypy_cache":   {},
	".ruff_cache":   {},
	".pytest_cache": {},
	"egg-info":      {},
}

// sniffSize is how much of an extensionless file is read to detect its
// language from a shebang.
const sniffSize = 512

// Files discovers analyzable source files under root, sorted by path.
func Files(registry *lang.Registry, root string, opts Options) ([]FileEntry, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	langSet := make(map[lang.Language]struct{}, len(opts.Languages))
	for _, l := range opts.Languages {
		langSet[l] = struct{}{}
	}
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		if !opts.accepts(rel) {
			return nil
		}

		entry, ok := detect(registry, path, rel)
		if !ok {
			return nil
		}
		if len(langSet) > 0 {
			if _, ok := langSet[entry.Language]; !ok {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		entry.Size = info.Size()
		if opts.MaxFileSize > 0 && entry.Size > opts.MaxFileSize {
			log.Debug("skipping large file", "path", rel, "size", entry.Size)
			return nil
		}

		results = append(results, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

// File describes a single named file, detecting its language the same way
// Files does. ok is false when the language cannot be determined.
func File(registry *lang.Registry, path string) (FileEntry, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileEntry{}, false, err
	}
	entry, ok := detect(registry, path, path)
	entry.Size = info.Size()
	return entry, ok, nil
}

func (o Options) accepts(rel string) bool {
	slashed := filepath.ToSlash(rel)
	if o.SkipVendor && enry.IsVendor(slashed) {
		return false
	}
	for _, pat := range o.Exclude {
		if matched, _ := doublestar.Match(pat, slashed); matched {
			return false
		}
	}
	if len(o.Include) == 0 {
		return true
	}
	for _, pat := range o.Include {
		if matched, _ := doublestar.Match(pat, slashed); matched {
			return true
		}
	}
	return false
}

func detect(registry *lang.Registry, path, rel string) (FileEntry, bool) {
	ext := filepath.Ext(path)
	if l := registry.ForExtension(ext); l != lang.Unknown {
		return FileEntry{Path: rel, Language: l}, true
	}
	// Languages without a grammar are still analyzed, in text mode.
	if l := lang.TextOnly(ext); l != lang.Unknown {
		return FileEntry{Path: rel, Language: l}, true
	}
	if ext != "" {
		return FileEntry{}, false
	}
	// Extensionless scripts are identified by their shebang.
	head, err := readHead(path, sniffSize)
	if err != nil {
		return FileEntry{}, false
	}
	l := registry.Detect(filepath.Base(path), head)
	return FileEntry{Path: rel, Language: l}, l != lang.Unknown
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:read], nil
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
