// Package toon implements TOON (Token-Oriented Object Notation) encoding
// of analysis reports.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/codeexplain/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

var fileColumns = []string{
	"path", "language", "mode", "purpose", "paradigm", "lines", "cyclomatic",
	"cognitive", "max_nesting", "score", "severity", "maintainability",
}

// Encode converts a Report into TOON format. Per-file tables follow the
// record order of the report.
func Encode(r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(r.Root)))
	parts = append(parts, fmt.Sprintf("skipped: %d", r.Skipped))

	var fileRows [][]string
	for _, rec := range r.Records {
		c := &rec.Complexity
		fileRows = append(fileRows, []string{
			rec.Path,
			rec.Language,
			string(rec.Mode),
			string(rec.Purpose),
			rec.Fingerprint.Paradigm(),
			strconv.Itoa(rec.Lines.Total),
			strconv.Itoa(c.Cyclomatic),
			strconv.Itoa(c.Cognitive),
			strconv.Itoa(c.Nesting.Max),
			fmt.Sprintf("%.2f", c.Score),
			string(c.Severity),
			fmt.Sprintf("%.2f", c.Maintainability),
		})
	}
	parts = append(parts, formatTabular("files", fileColumns, fileRows))

	var fnRows [][]string
	for _, rec := range r.Records {
		for _, fn := range rec.Functions {
			fnRows = append(fnRows, []string{
				rec.Path,
				fn.Name,
				strconv.Itoa(fn.Line),
				strings.Join(fn.Params, " "),
			})
		}
	}
	parts = append(parts, formatTabular("functions", []string{"file", "name", "line", "params"}, fnRows))

	var classRows [][]string
	for _, rec := range r.Records {
		for _, cl := range rec.Classes {
			classRows = append(classRows, []string{
				rec.Path,
				cl.Name,
				strconv.Itoa(cl.Line),
				strings.Join(cl.Inherits, " "),
			})
		}
	}
	parts = append(parts, formatTabular("classes", []string{"file", "name", "line", "inherits"}, classRows))

	var depRows [][]string
	for _, rec := range r.Records {
		for _, dep := range rec.Dependencies {
			depRows = append(depRows, []string{rec.Path, dep})
		}
	}
	parts = append(parts, formatTabular("dependencies", []string{"file", "module"}, depRows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) || strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) || strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

var quoter = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quote(value string) string {
	return `"` + quoter.Replace(value) + `"`
}
