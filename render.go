package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/codeexplain/internal/config"
	"github.com/phobologic/codeexplain/internal/model"
	"github.com/phobologic/codeexplain/internal/ranking"
	"github.com/phobologic/codeexplain/internal/toon"
)

func render(w io.Writer, r *model.Report, format string) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case config.FormatTOON:
		_, err := fmt.Fprintln(w, toon.Encode(r))
		return err
	case config.FormatTable:
		_, err := fmt.Fprintln(w, renderTable(r))
		return err
	}
	return fmt.Errorf("%w: %q", config.ErrInvalidFormat, format)
}

var severityColors = map[model.Severity]*color.Color{
	model.Simple:   color.New(color.FgGreen),
	model.Moderate: color.New(color.FgYellow),
	model.Complex:  color.New(color.FgRed, color.Bold),
}

func colorSeverity(s model.Severity) string {
	if c, ok := severityColors[s]; ok {
		return c.Sprint(string(s))
	}
	return string(s)
}

func renderTable(r *model.Report) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.AppendHeader(table.Row{
		"Path", "Language", "Mode", "Purpose", "Lines", "Size",
		"Cyclomatic", "Cognitive", "Nesting", "MI", "Score", "Severity",
	})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Lines", Align: text.AlignRight},
		{Name: "Size", Align: text.AlignRight},
		{Name: "Cyclomatic", Align: text.AlignRight},
		{Name: "Cognitive", Align: text.AlignRight},
		{Name: "Nesting", Align: text.AlignRight},
		{Name: "MI", Align: text.AlignRight},
		{Name: "Score", Align: text.AlignRight},
	})

	for _, rec := range r.Records {
		c := rec.Complexity
		tbl.AppendRow(table.Row{
			rec.Path,
			rec.Language,
			string(rec.Mode),
			string(rec.Purpose),
			humanize.Comma(int64(rec.Lines.Total)),
			humanize.Bytes(uint64(rec.Size)),
			c.Cyclomatic,
			c.Cognitive,
			fmt.Sprintf("%d/%d", c.Nesting.Average, c.Nesting.Max),
			fmt.Sprintf("%.1f", c.Maintainability),
			fmt.Sprintf("%.2f", c.Score),
			colorSeverity(c.Severity),
		})
	}

	s := ranking.Summarize(r)
	footer := fmt.Sprintf("%d files, %s lines, %s, mean score %.2f",
		s.Files, humanize.Comma(int64(s.Lines)), humanize.Bytes(uint64(s.Bytes)), s.MeanScore)
	if r.Skipped > 0 {
		footer += fmt.Sprintf(", %d skipped", r.Skipped)
	}
	tbl.AppendFooter(table.Row{footer})

	var b strings.Builder
	b.WriteString(tbl.Render())
	if line := severityLine(s); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func severityLine(s ranking.Summary) string {
	var parts []string
	for _, sev := range []model.Severity{model.Simple, model.Moderate, model.Complex} {
		if n := s.BySeverity[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", colorSeverity(sev), n))
		}
	}
	langs := make([]string, 0, len(s.ByLanguage))
	for l, n := range s.ByLanguage {
		langs = append(langs, fmt.Sprintf("%s: %d", l, n))
	}
	sort.Strings(langs)
	if len(parts) == 0 && len(langs) == 0 {
		return ""
	}
	return strings.Join(parts, "  ") + "\n" + strings.Join(langs, "  ")
}
