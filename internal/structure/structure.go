// Package structure extracts the syntactic inventory of a source file:
// functions, classes, dependencies and a coarse structural fingerprint.
// It works over a syntax tree when one is available and falls back to
// ordered per-line pattern rules otherwise.
package structure

import (
	"sort"
	"strings"

	"github.com/phobologic/codeexplain/internal/lang"
	"github.com/phobologic/codeexplain/internal/model"
	"github.com/phobologic/codeexplain/internal/syntax"
)

// Result is the structural inventory of one file. Slices are never nil.
type Result struct {
	Fingerprint  model.Fingerprint
	Functions    []model.FunctionInfo
	Classes      []model.ClassInfo
	Dependencies []string
}

// Extract runs tree mode when tree is non-nil and text mode otherwise.
func Extract(def *lang.Definition, tree *syntax.Node, source []byte) Result {
	if tree != nil {
		return ExtractTree(def, tree, source)
	}
	return ExtractText(def, source)
}

// ExtractTree walks tree and classifies nodes with the definition's
// profile categories and extraction hooks. Dependencies always come from
// the text rules.
func ExtractTree(def *lang.Definition, tree *syntax.Node, source []byte) Result {
	lines := lineCount(source)
	var counts [5]int

	res := Result{
		Functions: []model.FunctionInfo{},
		Classes:   []model.ClassInfo{},
	}

	type frame struct {
		node, parent *syntax.Node
	}
	stack := []frame{{tree, nil}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node
		if n == nil {
			continue
		}

		if n.Named {
			cat := def.Profile.Category(n.Kind)
			counts[cat]++
			switch cat {
			case lang.CategoryFunction:
				if name, params := def.ExtractFunction(n, f.parent, source); name != "" {
					res.Functions = append(res.Functions, model.FunctionInfo{
						Name:   name,
						Params: nonNil(params),
						Line:   clampLine(n.Line, lines),
					})
				}
			case lang.CategoryClass:
				if name, inherits := def.ExtractClass(n, f.parent, source); name != "" {
					res.Classes = append(res.Classes, model.ClassInfo{
						Name:     name,
						Inherits: nonNil(inherits),
						Line:     clampLine(n.Line, lines),
					})
				}
			}
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n.Children[i], n})
		}
	}

	res.Dependencies = Dependencies(def.Rules, splitLines(source))
	res.Fingerprint = model.NewFingerprint(
		counts[lang.CategoryClass] > 0,
		counts[lang.CategoryFunction] > 0,
		counts[lang.CategoryImport] > 0 || len(res.Dependencies) > 0,
		counts[lang.CategoryComment] > 0,
	)
	return res
}

// ExtractText classifies and extracts line by line. A line that matches a
// rule only partially (no usable name) is skipped.
func ExtractText(def *lang.Definition, source []byte) Result {
	rules := def.Rules
	lines := splitLines(source)
	var counts [5]int

	res := Result{
		Functions: []model.FunctionInfo{},
		Classes:   []model.ClassInfo{},
	}

	for i, line := range lines {
		cat := classifyLine(rules, line)
		counts[cat]++
		if cat == lang.CategoryComment {
			continue
		}
		lineNo := i + 1

		if fn, ok := matchFunction(rules, line); ok {
			fn.Line = lineNo
			res.Functions = append(res.Functions, fn)
		}
		if cls, ok := matchClass(rules, line); ok {
			cls.Line = lineNo
			res.Classes = append(res.Classes, cls)
		}
	}

	res.Dependencies = Dependencies(rules, lines)
	res.Fingerprint = model.NewFingerprint(
		counts[lang.CategoryClass] > 0 || len(res.Classes) > 0,
		counts[lang.CategoryFunction] > 0 || len(res.Functions) > 0,
		counts[lang.CategoryImport] > 0 || len(res.Dependencies) > 0,
		counts[lang.CategoryComment] > 0,
	)
	return res
}

func classifyLine(rules *lang.Rules, line string) lang.Category {
	for _, r := range rules.Categories {
		if r.Pattern.MatchString(line) {
			return r.Category
		}
	}
	return lang.CategoryNone
}

func matchFunction(rules *lang.Rules, line string) (model.FunctionInfo, bool) {
	for _, r := range rules.Functions {
		m := r.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := group(m, r.Name)
		if name == "" || rules.IsKeyword(name) {
			continue
		}
		params := []string{}
		for _, raw := range lang.SplitTopLevel(group(m, r.Params), ",") {
			if p := rules.ParamName(raw); p != "" {
				params = append(params, p)
			}
		}
		return model.FunctionInfo{Name: name, Params: params}, true
	}
	return model.FunctionInfo{}, false
}

func matchClass(rules *lang.Rules, line string) (model.ClassInfo, bool) {
	for _, r := range rules.Classes {
		m := r.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := group(m, r.Name)
		if name == "" {
			continue
		}
		inherits := []string{}
		for _, idx := range r.Inherits {
			inherits = append(inherits, lang.SplitList(group(m, idx))...)
		}
		return model.ClassInfo{Name: name, Inherits: inherits}, true
	}
	return model.ClassInfo{}, false
}

// Dependencies applies the dependency rules to every non-comment line and
// returns the distinct names in lexical order. Block rules only match
// between their open and close lines.
func Dependencies(rules *lang.Rules, lines []string) []string {
	seen := make(map[string]struct{})
	open := make(map[*lang.BlockRule]bool)

	for _, line := range lines {
		if classifyLine(rules, line) == lang.CategoryComment {
			continue
		}

		consumed := false
		for _, r := range rules.Dependencies {
			if r.Block == nil {
				continue
			}
			switch {
			case !open[r.Block] && r.Block.Open.MatchString(line):
				open[r.Block] = true
				consumed = true
			case open[r.Block] && r.Block.Close.MatchString(line):
				open[r.Block] = false
				consumed = true
			}
		}
		if consumed {
			continue
		}

		for _, r := range rules.Dependencies {
			if r.Block != nil && !open[r.Block] {
				continue
			}
			for _, m := range r.Pattern.FindAllStringSubmatch(line, -1) {
				if name := strings.TrimSpace(group(m, 1)); name != "" {
					seen[name] = struct{}{}
				}
			}
		}
	}

	deps := make([]string, 0, len(seen))
	for d := range seen {
		deps = append(deps, d)
	}
	sort.Strings(deps)
	return deps
}

func group(m []string, idx int) string {
	if idx <= 0 || idx >= len(m) {
		return ""
	}
	return strings.TrimSpace(m[idx])
}

func splitLines(source []byte) []string {
	return strings.Split(string(source), "\n")
}

func lineCount(source []byte) int {
	return len(splitLines(source))
}

func clampLine(line, lines int) int {
	if line < 1 {
		return 1
	}
	if line > lines {
		return lines
	}
	return line
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
