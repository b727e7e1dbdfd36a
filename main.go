// codeexplain analyzes source files and reports their structure,
// complexity metrics and purpose.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/codeexplain/internal/analyzer"
	"github.com/phobologic/codeexplain/internal/config"
	"github.com/phobologic/codeexplain/internal/discover"
	"github.com/phobologic/codeexplain/internal/lang"
	"github.com/phobologic/codeexplain/internal/model"
	"github.com/phobologic/codeexplain/internal/observability"
	"github.com/phobologic/codeexplain/internal/parse"
	"github.com/phobologic/codeexplain/internal/ranking"
)

var version = "dev"

// ErrNoFiles is returned when nothing under the given paths can be analyzed.
var ErrNoFiles = errors.New("no analyzable files found")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// options holds the root command flags. Flags that are set override the
// loaded configuration.
type options struct {
	configPath  string
	langs       []string
	top         int
	format      string
	workers     int
	maxFileSize string
	include     []string
	exclude     []string
	noCache     bool
	metricsFile string
	minSeverity string
	verbose     bool
	showVersion bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "codeexplain [flags] [path...]",
		Short: "Explain source files: structure, complexity and purpose",
		Long: `codeexplain analyzes source files one at a time and reports what each
file contains (functions, classes, dependencies), how complex it is
(cyclomatic, cognitive, nesting, Halstead, maintainability index) and
what role it most likely plays.

Each path may be a file or a directory; the default is the current
directory.

Examples:
  codeexplain                         # current directory, JSON output
  codeexplain -f table -n 20 ./src    # 20 most complex files as a table
  codeexplain -l go,python --exclude '**/testdata/**'
  codeexplain -f toon main.py`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				_, _ = fmt.Fprintf(stdout, "codeexplain %s\n", version)
				return nil
			}
			return runAnalyze(cmd, args, &opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ./"+config.DefaultFile+")")
	f.StringSliceVarP(&opts.langs, "langs", "l", nil, "comma-separated languages to include")
	f.IntVarP(&opts.top, "top", "n", 0, "report only the N most complex files")
	f.StringVarP(&opts.format, "format", "f", config.FormatJSON, "output format (json, yaml, toon, table)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "number of files analyzed in parallel")
	f.StringVar(&opts.maxFileSize, "max-file-size", "", "skip files larger than this (e.g. 512KB, 2MiB)")
	f.StringSliceVar(&opts.include, "include", nil, "only analyze paths matching these globs")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "skip paths matching these globs")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the in-memory record cache")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	f.StringVar(&opts.minSeverity, "min-severity", "", "only report files at or above this severity (moderate, complex)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	f.BoolVarP(&opts.showVersion, "version", "V", false, "show version and exit")

	cmd.AddCommand(newLanguagesCmd(stdout))
	cmd.AddCommand(newConfigCmd(stdout, stderr))
	return cmd
}

// loadConfig reads the configuration and applies the flags that were set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("langs") {
		cfg.Analysis.Languages = opts.langs
	}
	if f.Changed("top") {
		cfg.Output.Top = opts.top
	}
	if f.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if f.Changed("workers") {
		cfg.Analysis.Workers = opts.workers
	}
	if f.Changed("max-file-size") {
		cfg.Analysis.MaxFileSize = opts.maxFileSize
	}
	if f.Changed("include") {
		cfg.Discover.Include = opts.include
	}
	if f.Changed("exclude") {
		cfg.Discover.Exclude = opts.exclude
	}
	if opts.noCache {
		cfg.Analysis.CacheSize = 0
	}
	if f.Changed("metrics-file") {
		cfg.Metrics.Textfile = opts.metricsFile
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, paths []string, opts *options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	log := observability.NewLogger(stderr, level, cfg.Logging.Format)

	minSeverity, err := parseSeverity(opts.minSeverity)
	if err != nil {
		return err
	}

	registry := lang.NewRegistry()
	languages, err := parseLanguages(registry, cfg.Analysis.Languages)
	if err != nil {
		return err
	}

	maxSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	an, err := analyzer.New(registry,
		analyzer.WithLogger(log),
		analyzer.WithMetrics(metrics),
		analyzer.WithCache(cfg.Analysis.CacheSize),
	)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}

	discoverOpts := discover.Options{
		Languages:   languages,
		Include:     cfg.Discover.Include,
		Exclude:     cfg.Discover.Exclude,
		SkipVendor:  cfg.Discover.SkipVendor,
		MaxFileSize: maxSize,
		Logger:      log,
	}

	ctx := cmd.Context()
	report := &model.Report{Root: paths[0], Records: []*model.AnalysisRecord{}}
	if len(paths) > 1 {
		report.Root = "."
	}

	found := 0
	for _, p := range paths {
		n, err := analyzePath(ctx, an, registry, p, discoverOpts, cfg.Analysis.Workers, len(paths) > 1, report, log)
		if err != nil {
			return err
		}
		found += n
	}
	if found == 0 {
		return ErrNoFiles
	}

	report = ranking.FilterSeverity(report, minSeverity)
	report = ranking.SelectTop(report, cfg.Output.Top)

	if err := render(stdout, report, cfg.Output.Format); err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return err
		}
	}
	return nil
}

// analyzePath analyzes one command-line path into report and returns the
// number of candidate files it contained. With prefix set, record paths
// are qualified by p so that several roots can share one report.
func analyzePath(ctx context.Context, an *analyzer.Analyzer, registry *lang.Registry, p string, opts discover.Options, workers int, prefix bool, report *model.Report, log *slog.Logger) (int, error) {
	info, err := os.Stat(p)
	if err != nil {
		return 0, fmt.Errorf("path: %w", err)
	}

	if !info.IsDir() {
		rec, ok, err := analyzeSingle(ctx, an, registry, p, opts, log)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}
		if rec != nil {
			report.Records = append(report.Records, rec)
		}
		return 1, nil
	}

	entries, err := discover.Files(registry, p, opts)
	if err != nil {
		return 0, fmt.Errorf("discovering files: %w", err)
	}
	log.Debug("discovered files", "root", p, "count", len(entries))
	if len(entries) == 0 {
		return 0, nil
	}

	sub, err := an.AnalyzeAll(ctx, p, entries, workers)
	if err != nil {
		return 0, err
	}
	for _, rec := range sub.Records {
		if prefix {
			qualified := filepath.ToSlash(filepath.Join(p, rec.Path))
			rec = rec.WithIdentity(qualified, rec.Filename)
		}
		report.Records = append(report.Records, rec)
	}
	report.Skipped += sub.Skipped
	return len(entries), nil
}

// analyzeSingle analyzes a file named on the command line. Files of an
// undetectable language are still analyzed with the default rules; ok is
// false when the file is filtered out.
func analyzeSingle(ctx context.Context, an *analyzer.Analyzer, registry *lang.Registry, path string, opts discover.Options, log *slog.Logger) (*model.AnalysisRecord, bool, error) {
	entry, detected, err := discover.File(registry, path)
	if err != nil {
		return nil, false, fmt.Errorf("path: %w", err)
	}
	if opts.MaxFileSize > 0 && entry.Size > opts.MaxFileSize {
		log.Warn("skipping large file", "path", path, "size", entry.Size)
		return nil, false, nil
	}
	if len(opts.Languages) > 0 && !containsLanguage(opts.Languages, entry.Language) {
		return nil, false, nil
	}

	language := ""
	if detected {
		language = string(entry.Language)
	}

	p := parse.New()
	defer p.Close()

	rec, err := an.AnalyzeFile(ctx, p, path, language)
	if err != nil {
		return nil, false, err
	}
	if rec != nil {
		rec = rec.WithIdentity(filepath.ToSlash(path), rec.Filename)
	}
	return rec, true, nil
}

func containsLanguage(set []lang.Language, l lang.Language) bool {
	for _, s := range set {
		if s == l {
			return true
		}
	}
	return false
}

func parseLanguages(registry *lang.Registry, names []string) ([]lang.Language, error) {
	var out []lang.Language
	for _, name := range names {
		def, err := registry.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("unsupported language %q: %w", name, err)
		}
		out = append(out, def.Language)
	}
	return out, nil
}

func parseSeverity(name string) (model.Severity, error) {
	switch s := model.Severity(name); s {
	case "", model.Simple:
		return model.Simple, nil
	case model.Moderate, model.Complex:
		return s, nil
	}
	return "", fmt.Errorf("unknown severity %q", name)
}
