// Package analyzer assembles analysis records. It runs the structural
// extractor, the complexity engine, the token calculator and the purpose
// classifier over one file and packs their results into an immutable
// model.AnalysisRecord.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/codeexplain/internal/complexity"
	"github.com/phobologic/codeexplain/internal/discover"
	"github.com/phobologic/codeexplain/internal/halstead"
	"github.com/phobologic/codeexplain/internal/lang"
	"github.com/phobologic/codeexplain/internal/model"
	"github.com/phobologic/codeexplain/internal/observability"
	"github.com/phobologic/codeexplain/internal/parse"
	"github.com/phobologic/codeexplain/internal/purpose"
	"github.com/phobologic/codeexplain/internal/structure"
	"github.com/phobologic/codeexplain/internal/syntax"
)

// UnknownLanguage is recorded for files whose language cannot be detected.
const UnknownLanguage = "unknown"

// Input is one unit of analysis. Tree may be nil, in which case the
// analysis runs in text mode.
type Input struct {
	Path     string
	Language string
	Source   []byte
	Tree     *syntax.Node
}

// Analyzer produces analysis records. It is safe for concurrent use.
type Analyzer struct {
	registry *lang.Registry
	log      *slog.Logger
	metrics  *observability.Metrics
	cache    *lru.Cache[uint64, *model.AnalysisRecord]
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithLogger sets the logger for degraded-path reports.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) error {
		if l != nil {
			a.log = l
		}
		return nil
	}
}

// WithMetrics records counters and timings in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Analyzer) error {
		a.metrics = m
		return nil
	}
}

// WithCache keeps up to size records keyed by language and content.
// A size of zero disables the cache.
func WithCache(size int) Option {
	return func(a *Analyzer) error {
		if size <= 0 {
			a.cache = nil
			return nil
		}
		c, err := lru.New[uint64, *model.AnalysisRecord](size)
		if err != nil {
			return fmt.Errorf("creating record cache: %w", err)
		}
		a.cache = c
		return nil
	}
}

// New creates an Analyzer over registry.
func New(registry *lang.Registry, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		registry: registry,
		log:      observability.Discard(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Analyze builds the record for in. Empty or whitespace-only source yields
// a nil record and no error.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*model.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if blank(in.Source) {
		a.metrics.FileSkipped("empty")
		return nil, nil
	}

	key := cacheKey(in.Language, in.Tree != nil, in.Source)
	if rec, ok := a.lookup(key, in.Path); ok {
		return rec, nil
	}
	rec, complete := a.build(in)
	if complete {
		a.store(key, rec)
	}
	return rec, nil
}

// AnalyzeFile reads and analyzes the file at path. An empty language is
// detected from the file name and content. The tree is produced with p,
// which must not be shared between goroutines. A parse failure degrades
// to text mode.
func (a *Analyzer) AnalyzeFile(ctx context.Context, p *parse.Parser, path, language string) (*model.AnalysisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if blank(source) {
		a.log.Debug("skipping empty file", "path", path)
		a.metrics.FileSkipped("empty")
		return nil, nil
	}

	if language == "" {
		language = UnknownLanguage
		if l := a.registry.Detect(path, source); l != lang.Unknown {
			language = string(l)
		}
	}

	def := a.registry.Definition(lang.Parse(language))
	hasGrammar := def.Grammar() != nil
	key := cacheKey(language, hasGrammar, source)
	if rec, ok := a.lookup(key, path); ok {
		return rec, nil
	}

	tree, err := p.Parse(ctx, def, source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		a.log.Warn("parse failed, using text mode", "path", path, "language", language, "error", err)
		a.metrics.Degraded("parse")
		tree = nil
	}

	rec, complete := a.build(Input{Path: path, Language: language, Source: source, Tree: tree})
	// A degraded record must not answer for a later successful analysis.
	if complete && (tree != nil || !hasGrammar) {
		a.store(key, rec)
	}
	return rec, nil
}

// AnalyzeAll analyzes entries below root with a pool of workers, each
// owning its own parser. Records come back in input order with paths
// relative to root. Files that cannot be read are logged and counted as
// skipped; only cancellation of ctx aborts the batch.
func (a *Analyzer) AnalyzeAll(ctx context.Context, root string, entries []discover.FileEntry, workers int) (*model.Report, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	records := make([]*model.AnalysisRecord, len(entries))
	var skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	work := make(chan int)

	g.Go(func() error {
		defer close(work)
		for i := range entries {
			select {
			case work <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range workers {
		g.Go(func() error {
			p := parse.New()
			defer p.Close()

			for idx := range work {
				e := entries[idx]
				rec, err := a.AnalyzeFile(gctx, p, filepath.Join(root, e.Path), string(e.Language))
				if err != nil {
					if ctxErr := gctx.Err(); ctxErr != nil {
						return ctxErr
					}
					a.log.Warn("skipping file", "path", e.Path, "error", err)
					a.metrics.FileSkipped("unreadable")
					skipped.Add(1)
					continue
				}
				if rec != nil {
					rel := filepath.ToSlash(e.Path)
					records[idx] = rec.WithIdentity(rel, filepath.Base(rel))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &model.Report{
		Root:    root,
		Records: make([]*model.AnalysisRecord, 0, len(records)),
		Skipped: int(skipped.Load()),
	}
	for _, rec := range records {
		if rec != nil {
			report.Records = append(report.Records, rec)
		}
	}
	return report, nil
}

// build assembles the record for in. complete is false when the complexity
// traversal failed and the record carries fallback metrics.
func (a *Analyzer) build(in Input) (rec *model.AnalysisRecord, complete bool) {
	start := time.Now()
	def := a.registry.Definition(lang.Parse(in.Language))
	text := string(in.Source)

	st := structure.Extract(def, in.Tree, in.Source)

	cm, err := complexity.Analyze(def.Profile, in.Tree)
	complete = err == nil
	if err != nil {
		a.log.Warn("complexity traversal failed, using defaults", "path", in.Path, "language", in.Language, "error", err)
		a.metrics.Degraded("traversal")
	}

	h := halstead.Compute(text)
	lines := halstead.CountLines(text)

	mode := model.TextMode
	if in.Tree != nil {
		mode = model.TreeMode
	}

	rec = &model.AnalysisRecord{
		Path:     in.Path,
		Filename: filepath.Base(in.Path),
		Language: in.Language,
		Size:     len(in.Source),
		Mode:     mode,
		Lines:    lines,
		Complexity: model.ComplexityMetrics{
			Cyclomatic:      cm.Cyclomatic,
			Cognitive:       cm.Cognitive,
			Nesting:         cm.Nesting,
			Halstead:        h,
			Maintainability: halstead.Maintainability(h.Volume, cm.Cyclomatic, lines.Code),
			Score:           cm.Score,
			Severity:        complexity.Severity(cm.Score),
		},
		Purpose:      purpose.Classify(text, st.Fingerprint),
		Fingerprint:  st.Fingerprint,
		Dependencies: st.Dependencies,
		Functions:    st.Functions,
		Classes:      st.Classes,
	}

	label := string(def.Language)
	if label == "" {
		label = UnknownLanguage
	}
	a.metrics.FileAnalyzed(label, string(mode), time.Since(start))
	a.log.Debug("analyzed file", "path", in.Path, "language", in.Language, "mode", mode)
	return rec, complete
}

func (a *Analyzer) lookup(key uint64, path string) (*model.AnalysisRecord, bool) {
	if a.cache == nil {
		return nil, false
	}
	rec, ok := a.cache.Get(key)
	if !ok {
		a.metrics.CacheMiss()
		return nil, false
	}
	a.metrics.CacheHit()
	return rec.WithIdentity(path, filepath.Base(path)), true
}

func (a *Analyzer) store(key uint64, rec *model.AnalysisRecord) {
	if a.cache != nil {
		a.cache.Add(key, rec)
	}
}

func cacheKey(language string, tree bool, source []byte) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(language)
	mode := []byte{0, 't'}
	if !tree {
		mode[1] = 'x'
	}
	_, _ = d.Write(mode)
	_, _ = d.Write(source)
	return d.Sum64()
}

func blank(source []byte) bool {
	return strings.TrimSpace(string(source)) == ""
}
