// Package observability builds the structured logger and the prometheus
// metrics recorded while analyzing files.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps a level name onto a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", name, err)
	}
	return l, nil
}

// NewLogger returns a text or JSON logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

const namespace = "codeexplain"

// Metrics holds the analysis counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	files       *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	degraded    *prometheus.CounterVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	duration    *prometheus.HistogramVec
}

// NewMetrics registers the analysis metrics on a fresh registry, so
// several instances never conflict.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_analyzed_total",
			Help:      "Files analyzed, by language and extraction mode.",
		}, []string{"language", "mode"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      "Files that produced no record, by reason.",
		}, []string{"reason"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_total",
			Help:      "Analyses that fell back to default results, by cause.",
		}, []string{"cause"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Record cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Record cache misses.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Per-file analysis duration.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"language"}),
	}
	m.registry.MustRegister(m.files, m.skipped, m.degraded, m.cacheHits, m.cacheMisses, m.duration)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// FileAnalyzed records a produced record.
func (m *Metrics) FileAnalyzed(language, mode string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(language, mode).Inc()
	m.duration.WithLabelValues(language).Observe(elapsed.Seconds())
}

// FileSkipped records a file that produced no record.
func (m *Metrics) FileSkipped(reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(reason).Inc()
}

// Degraded records a fallback to default results.
func (m *Metrics) Degraded(cause string) {
	if m == nil {
		return
	}
	m.degraded.WithLabelValues(cause).Inc()
}

// CacheHit records a record cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss records a record cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// WriteTextfile writes the current metrics in the text exposition format,
// for pickup by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
