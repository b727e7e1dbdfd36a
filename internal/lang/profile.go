package lang

import (
	"fmt"
	"sort"
)

// Category is a coarse structural category of a syntax node or source line.
type Category int

const (
	CategoryNone Category = iota
	CategoryClass
	CategoryFunction
	CategoryImport
	CategoryComment
)

func (c Category) String() string {
	switch c {
	case CategoryClass:
		return "class"
	case CategoryFunction:
		return "function"
	case CategoryImport:
		return "import"
	case CategoryComment:
		return "comment"
	}
	return "none"
}

// KindSet is an immutable set of syntax-node kinds.
type KindSet struct {
	kinds map[string]struct{}
}

// NewKindSet builds a set from kinds.
func NewKindSet(kinds ...string) KindSet {
	m := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		m[k] = struct{}{}
	}
	return KindSet{kinds: m}
}

// Has reports whether kind is in the set.
func (s KindSet) Has(kind string) bool {
	_, ok := s.kinds[kind]
	return ok
}

// Len returns the number of kinds in the set.
func (s KindSet) Len() int { return len(s.kinds) }

// Sorted returns the kinds in lexical order.
func (s KindSet) Sorted() []string {
	out := make([]string, 0, len(s.kinds))
	for k := range s.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ProfileTables is the literal form of a Profile. Kinds listed in Tokens
// count even when the node is anonymous (operator and keyword tokens such
// as "&&" or "and"); every other kind only counts on named nodes.
type ProfileTables struct {
	Decision         []string
	Cognitive        map[string]int
	CognitiveNesting []string
	Depth            []string
	Tokens           []string

	Class    []string
	Function []string
	Import   []string
	Comment  []string
}

// Profile is the per-language table set driving the complexity engine and
// tree-mode structural extraction. Profiles are immutable once built.
type Profile struct {
	name             string
	decision         KindSet
	cognitive        map[string]int
	cognitiveNesting KindSet
	depth            KindSet
	tokens           KindSet
	categories       map[string]Category
}

// NewProfile validates tables and builds a Profile.
func NewProfile(name string, t ProfileTables) (*Profile, error) {
	for kind, w := range t.Cognitive {
		if kind == "" || w <= 0 {
			return nil, fmt.Errorf("profile %s: invalid cognitive weight %q=%d", name, kind, w)
		}
	}
	for _, group := range [][]string{t.Decision, t.CognitiveNesting, t.Depth, t.Tokens, t.Class, t.Function, t.Import, t.Comment} {
		for _, k := range group {
			if k == "" {
				return nil, fmt.Errorf("profile %s: empty node kind", name)
			}
		}
	}

	cognitive := make(map[string]int, len(t.Cognitive))
	for k, w := range t.Cognitive {
		cognitive[k] = w
	}

	categories := make(map[string]Category)
	// Earlier categories win when a kind is listed twice.
	for _, c := range []struct {
		cat   Category
		kinds []string
	}{
		{CategoryClass, t.Class},
		{CategoryFunction, t.Function},
		{CategoryImport, t.Import},
		{CategoryComment, t.Comment},
	} {
		for _, k := range c.kinds {
			if _, ok := categories[k]; !ok {
				categories[k] = c.cat
			}
		}
	}

	return &Profile{
		name:             name,
		decision:         NewKindSet(t.Decision...),
		cognitive:        cognitive,
		cognitiveNesting: NewKindSet(t.CognitiveNesting...),
		depth:            NewKindSet(t.Depth...),
		tokens:           NewKindSet(t.Tokens...),
		categories:       categories,
	}, nil
}

// MustProfile is like NewProfile but panics on invalid tables. It is only
// used for the built-in tables.
func MustProfile(name string, t ProfileTables) *Profile {
	p, err := NewProfile(name, t)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the language name the profile was built for.
func (p *Profile) Name() string { return p.name }

func (p *Profile) counts(kind string, named bool) bool {
	return named || p.tokens.Has(kind)
}

// IsDecision reports whether a node is a decision point.
func (p *Profile) IsDecision(kind string, named bool) bool {
	return p.decision.Has(kind) && p.counts(kind, named)
}

// CognitiveWeight returns the cognitive weight of a node, or 0.
func (p *Profile) CognitiveWeight(kind string, named bool) int {
	w, ok := p.cognitive[kind]
	if !ok || !p.counts(kind, named) {
		return 0
	}
	return w
}

// IncreasesCognitiveNesting reports whether descending into a node of this
// kind raises the cognitive nesting level.
func (p *Profile) IncreasesCognitiveNesting(kind string) bool {
	return p.cognitiveNesting.Has(kind)
}

// IsDepthKind reports whether a kind increases depth for the nesting
// statistic.
func (p *Profile) IsDepthKind(kind string) bool {
	return p.depth.Has(kind)
}

// Category returns the structural category of a node kind.
func (p *Profile) Category(kind string) Category {
	return p.categories[kind]
}

// DecisionKinds returns the decision-point kinds in lexical order.
func (p *Profile) DecisionKinds() []string { return p.decision.Sorted() }
