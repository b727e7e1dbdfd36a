// Package halstead computes token-based Halstead metrics, line counts and
// the maintainability index. It works on raw source text and needs no
// syntax tree.
package halstead

import (
	"math"
	"math/bits"
	"strings"
	"unicode"

	"github.com/phobologic/codeexplain/internal/model"
)

// Operators recognized by the tokenizer. Tokens are whitespace separated,
// so an operator only counts when it stands alone.
var operators = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {}, "=": {},
	"==": {}, "!=": {}, "<": {}, ">": {}, "<=": {}, ">=": {},
	"&&": {}, "||": {}, "!": {},
}

// Maintainability index defaults.
const (
	// EmptyMaintainability is used when there are no lines of code.
	EmptyMaintainability = 100.0
	// NeutralMaintainability replaces a result outside the formula's domain.
	NeutralMaintainability = 50.0
)

// IsCommentLine reports whether a line is a full-line comment: its trimmed
// form starts with "#" or "//".
func IsCommentLine(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "#") || strings.HasPrefix(t, "//")
}

// Compute tokenizes source and returns its Halstead metrics. Every metric
// is zero when the source has no operators or no operands.
func Compute(source string) model.Halstead {
	uniqueOps := make(map[string]struct{})
	uniqueOperands := make(map[string]struct{})
	var totalOps, totalOperands int

	for _, line := range strings.Split(source, "\n") {
		if IsCommentLine(line) {
			continue
		}
		for _, tok := range strings.Fields(line) {
			switch {
			case isOperator(tok):
				uniqueOps[tok] = struct{}{}
				totalOps++
			case isOperand(tok):
				uniqueOperands[tok] = struct{}{}
				totalOperands++
			}
		}
	}

	n1, n2 := len(uniqueOps), len(uniqueOperands)
	if n1 == 0 || n2 == 0 {
		return model.Halstead{}
	}

	vocabulary := n1 + n2
	length := totalOps + totalOperands
	volume := float64(length) * float64(bits.Len(uint(vocabulary)))
	difficulty := (float64(n1) / 2) * (float64(totalOperands) / float64(n2))

	return model.Halstead{
		Vocabulary: vocabulary,
		Length:     length,
		Volume:     volume,
		Difficulty: difficulty,
		Effort:     difficulty * volume,
	}
}

func isOperator(tok string) bool {
	_, ok := operators[tok]
	return ok
}

// isOperand accepts tokens made only of letters and digits that are not
// purely numeric.
func isOperand(tok string) bool {
	digits := true
	for _, r := range tok {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
		if !unicode.IsDigit(r) {
			digits = false
		}
	}
	return tok != "" && !digits
}

// CountLines classifies every line of source as blank, comment or code.
func CountLines(source string) model.LineCounts {
	var c model.LineCounts
	for _, line := range strings.Split(source, "\n") {
		c.Total++
		switch {
		case strings.TrimSpace(line) == "":
			c.Blank++
		case IsCommentLine(line):
			c.Comment++
		default:
			c.Code++
		}
	}
	return c
}

// Maintainability computes 171 - 5.2 ln(volume) - 0.23 cyclomatic -
// 16.2 ln(loc), clamped to [0, 100]. Zero lines of code yield
// EmptyMaintainability; a non-positive volume or line count yields
// NeutralMaintainability.
func Maintainability(volume float64, cyclomatic, loc int) float64 {
	if loc == 0 {
		return EmptyMaintainability
	}
	if volume <= 0 || loc < 0 {
		return NeutralMaintainability
	}
	mi := 171 - 5.2*math.Log(volume) - 0.23*float64(cyclomatic) - 16.2*math.Log(float64(loc))
	if math.IsNaN(mi) || math.IsInf(mi, 0) {
		return NeutralMaintainability
	}
	return math.Max(0, math.Min(100, mi))
}
