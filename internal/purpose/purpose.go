// Package purpose classifies the role of a source file with an ordered
// table of case-insensitive pattern rules.
package purpose

import (
	"regexp"
	"strings"

	"github.com/phobologic/codeexplain/internal/model"
)

// Rule maps a purpose to the patterns that select it.
type Rule struct {
	Purpose  model.Purpose
	Patterns []*regexp.Regexp
}

// ScriptLines is the line count under which an unmatched file is a simple
// script.
const ScriptLines = 50

// rules are evaluated top to bottom; the first purpose with any matching
// pattern wins. "^" anchors the start of the text, not of each line.
var rules = []Rule{
	rule(model.MainProgram,
		`def main\(`, `if __name__ == .__main__.`, `main\(`,
		`public static void main`, `int main\(`),
	rule(model.LibraryModule,
		`^class\s+\w+`, `^def\s+\w+`, `^function\s+\w+`,
		`^export\s+`, `^module\.exports`),
	rule(model.Configuration,
		`config`, `settings`, `\.env`, `\.ini`, `\.cfg`),
	rule(model.TestFile,
		`test_`, `_test`, `Test`, `spec`, `Spec`),
	rule(model.DataModel,
		`class.*Model`, `struct\s+\w+`, `interface\s+\w+`),
	rule(model.UtilityFunctions,
		`utils`, `utilities`, `helper`, `tools`),
}

func rule(p model.Purpose, patterns ...string) Rule {
	r := Rule{Purpose: p}
	for _, pat := range patterns {
		r.Patterns = append(r.Patterns, regexp.MustCompile(`(?i)`+pat))
	}
	return r
}

// Rules returns the classification table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify returns the purpose of source. The fingerprint is consulted
// only by the fallback, after every rule has failed.
func Classify(source string, fp model.Fingerprint) model.Purpose {
	for _, r := range rules {
		for _, re := range r.Patterns {
			if re.MatchString(source) {
				return r.Purpose
			}
		}
	}
	return fallback(source, fp)
}

func fallback(source string, fp model.Fingerprint) model.Purpose {
	if len(strings.Split(source, "\n")) < ScriptLines {
		return model.SimpleScript
	}
	if fp.HasClasses || fp.HasFunctions ||
		strings.Contains(source, "class") ||
		strings.Contains(source, "def ") ||
		strings.Contains(source, "function") {
		return model.LibraryModule
	}
	return model.Configuration
}
