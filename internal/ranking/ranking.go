// Package ranking selects and summarizes analysis records for output.
package ranking

import (
	"sort"

	"github.com/phobologic/codeexplain/internal/model"
)

// SelectTop returns a new Report holding the n most complex records,
// ordered by descending score with ties broken by path. If n is <= 0 or
// >= the number of records, the original report is returned.
func SelectTop(r *model.Report, n int) *model.Report {
	if n <= 0 || n >= len(r.Records) {
		return r
	}

	sorted := make([]*model.AnalysisRecord, len(r.Records))
	copy(sorted, r.Records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Complexity.Score != b.Complexity.Score {
			return a.Complexity.Score > b.Complexity.Score
		}
		return a.Path < b.Path
	})

	return &model.Report{
		Root:    r.Root,
		Records: sorted[:n],
		Skipped: r.Skipped,
	}
}

// FilterSeverity returns a new Report with only the records at or above
// threshold. Unknown severities are treated as simple.
func FilterSeverity(r *model.Report, threshold model.Severity) *model.Report {
	floor := severityRank(threshold)
	if floor == 0 {
		return r
	}
	kept := []*model.AnalysisRecord{}
	for _, rec := range r.Records {
		if severityRank(rec.Complexity.Severity) >= floor {
			kept = append(kept, rec)
		}
	}
	return &model.Report{Root: r.Root, Records: kept, Skipped: r.Skipped}
}

func severityRank(s model.Severity) int {
	switch s {
	case model.Moderate:
		return 1
	case model.Complex:
		return 2
	}
	return 0
}

// Summary aggregates a report.
type Summary struct {
	Files      int
	Functions  int
	Classes    int
	Lines      int
	Bytes      int
	BySeverity map[model.Severity]int
	ByLanguage map[string]int
	// MeanScore is the average composite score, 0 for an empty report.
	MeanScore float64
}

// Summarize totals the records of r.
func Summarize(r *model.Report) Summary {
	s := Summary{
		BySeverity: make(map[model.Severity]int),
		ByLanguage: make(map[string]int),
	}
	var total float64
	for _, rec := range r.Records {
		s.Files++
		s.Functions += len(rec.Functions)
		s.Classes += len(rec.Classes)
		s.Lines += rec.Lines.Total
		s.Bytes += rec.Size
		s.BySeverity[rec.Complexity.Severity]++
		s.ByLanguage[rec.Language]++
		total += rec.Complexity.Score
	}
	if s.Files > 0 {
		s.MeanScore = total / float64(s.Files)
	}
	return s
}
