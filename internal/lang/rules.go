package lang

import (
	"regexp"
	"strings"
)

// LineRule assigns a structural category to a source line.
type LineRule struct {
	Category Category
	Pattern  *regexp.Regexp
}

// SignatureRule recovers a function or class signature from one line.
// Name, Params and Inherits are submatch indexes; zero means absent.
type SignatureRule struct {
	Pattern  *regexp.Regexp
	Name     int
	Params   int
	Inherits []int
}

// BlockRule delimits a multi-line region, such as a Go import block.
type BlockRule struct {
	Open  *regexp.Regexp
	Close *regexp.Regexp
}

// DependencyRule extracts dependency names (submatch 1) from a line. When
// Block is set the rule only applies to lines inside that block.
type DependencyRule struct {
	Pattern *regexp.Regexp
	Block   *BlockRule
}

// ParamStyle says where the parameter name sits in a declaration.
type ParamStyle int

const (
	// NameFirst: "x: int", "x int", "x = 1".
	NameFirst ParamStyle = iota
	// NameLast: "int x", "final String[] args".
	NameLast
)

// Rules is the ordered text-mode rule set of a language.
type Rules struct {
	Categories   []LineRule
	Functions    []SignatureRule
	Classes      []SignatureRule
	Dependencies []DependencyRule
	Params       ParamStyle

	// Keywords are never accepted as function names.
	Keywords []string
}

// IsKeyword reports whether name is a reserved word of the language.
func (r *Rules) IsKeyword(name string) bool {
	for _, k := range r.Keywords {
		if k == name {
			return true
		}
	}
	return false
}

var (
	identPrefixRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*`)
	identSuffixRe = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*(?:\[[^\]]*\]\s*)*$`)
)

var paramModifiers = map[string]struct{}{
	"mut": {}, "ref": {}, "const": {}, "final": {}, "readonly": {},
	"public": {}, "private": {}, "protected": {}, "var": {},
}

// ParamName reduces a raw parameter declaration to the parameter name.
// It returns "" when no name can be recovered.
func (r *Rules) ParamName(raw string) string {
	s := raw
	if i := strings.Index(s, "="); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "void" {
		return ""
	}

	if r.Params == NameLast {
		s = strings.TrimRight(s, " *&")
		m := identSuffixRe.FindStringSubmatch(s)
		if m == nil {
			return ""
		}
		return m[1]
	}

	s = strings.TrimLeft(s, "*&.@ ")
	for {
		word := identPrefixRe.FindString(s)
		if word == "" {
			return ""
		}
		rest := strings.TrimSpace(s[len(word):])
		if _, mod := paramModifiers[word]; mod && rest != "" && !strings.HasPrefix(rest, ":") {
			s = strings.TrimLeft(rest, "*&")
			continue
		}
		return word
	}
}

// SplitList splits a comma or plus separated type list, dropping access
// specifiers and keyword arguments. Separators nested inside brackets are
// kept, so "Map<K, V>" stays one entry.
func SplitList(raw string) []string {
	var out []string
	for _, part := range SplitTopLevel(raw, ",+") {
		if strings.Contains(part, "=") {
			continue
		}
		fields := strings.Fields(part)
		out = append(out, fields[len(fields)-1])
	}
	return out
}

// SplitTopLevel splits s at any rune of seps that is not nested inside
// (), [], {} or <>. Parts are trimmed; empty parts are dropped.
func SplitTopLevel(s, seps string) []string {
	var (
		out   []string
		depth int
		start int
	)
	flush := func(end int) {
		if part := strings.TrimSpace(s[start:end]); part != "" {
			out = append(out, part)
		}
	}
	for i, r := range s {
		switch {
		case strings.ContainsRune("([{<", r):
			depth++
		case strings.ContainsRune(")]}>", r):
			if depth > 0 {
				depth--
			}
		case depth == 0 && strings.ContainsRune(seps, r):
			flush(i)
			start = i + 1
		}
	}
	flush(len(s))
	return out
}

func re(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}
