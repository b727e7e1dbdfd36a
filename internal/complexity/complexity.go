// Package complexity computes tree-based complexity metrics: cyclomatic
// complexity, cognitive complexity, nesting depth statistics and the
// composite score derived from them.
package complexity

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/phobologic/codeexplain/internal/lang"
	"github.com/phobologic/codeexplain/internal/model"
	"github.com/phobologic/codeexplain/internal/syntax"
)

// ErrMalformedTree is reported when a tree cannot be traversed: it holds a
// nil child or is deeper than MaxDepth.
var ErrMalformedTree = errors.New("malformed syntax tree")

// MaxDepth bounds the depth of trees the engine accepts.
const MaxDepth = 10000

// Composite score weights.
const (
	CyclomaticWeight = 0.4
	CognitiveWeight  = 0.4
	NestingWeight    = 0.2
)

// FallbackScore is the composite score reported when a tree cannot be
// traversed.
const FallbackScore = 1.0

// Severity thresholds on the composite score.
const (
	SimpleBelow   = 5.0
	ModerateBelow = 15.0
)

// Metrics is the tree-derived part of a file's complexity metrics.
type Metrics struct {
	Cyclomatic int
	Cognitive  int
	Nesting    model.Nesting
	Score      float64
}

// Default is the metric set used when no tree is available or the tree
// cannot be traversed.
func Default() Metrics {
	m := Metrics{Cyclomatic: 1}
	m.Score = Score(m.Cyclomatic, m.Cognitive, m.Nesting.Max)
	return m
}

// Fallback is the metric set used when a tree cannot be traversed: the
// default counts with FallbackScore.
func Fallback() Metrics {
	m := Default()
	m.Score = FallbackScore
	return m
}

// Score is the weighted blend of cyclomatic, cognitive and maximum nesting.
func Score(cyclomatic, cognitive, maxNesting int) float64 {
	return CyclomaticWeight*float64(cyclomatic) +
		CognitiveWeight*float64(cognitive) +
		NestingWeight*float64(maxNesting)
}

// Severity buckets a composite score.
func Severity(score float64) model.Severity {
	switch {
	case score < SimpleBelow:
		return model.Simple
	case score < ModerateBelow:
		return model.Moderate
	}
	return model.Complex
}

// Analyze computes the metrics of tree with profile p. A nil tree yields
// Default. A tree that cannot be traversed yields Fallback together with
// an error wrapping ErrMalformedTree, so callers can log it and carry on.
func Analyze(p *lang.Profile, tree *syntax.Node) (Metrics, error) {
	if tree == nil {
		return Default(), nil
	}
	m, err := walk(p, tree)
	if err != nil {
		return Fallback(), err
	}
	return m, nil
}

type frame struct {
	node  *syntax.Node
	level int // cognitive nesting level
	depth int // nesting depth for the depth statistic
	tree  int // distance from the root
}

// walk is a single iterative depth-first pass. Decision points, cognitive
// weights and depths are all accumulated from the same frames.
func walk(p *lang.Profile, root *syntax.Node) (Metrics, error) {
	var (
		decisions int
		cognitive int
		depths    []int
	)

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node

		if f.tree > MaxDepth {
			return Metrics{}, fmt.Errorf("%w: deeper than %d", ErrMalformedTree, MaxDepth)
		}

		if p.IsDecision(n.Kind, n.Named) {
			decisions++
		}
		if w := p.CognitiveWeight(n.Kind, n.Named); w > 0 {
			cognitive += w
			if f.level > 0 {
				cognitive += f.level
			}
		}

		isDepth := n.Named && p.IsDepthKind(n.Kind)
		if isDepth || (n.Named && genericNestingKind(n.Kind)) {
			depths = append(depths, f.depth)
		}

		childLevel := f.level
		if n.Named && p.IncreasesCognitiveNesting(n.Kind) {
			childLevel++
		}
		childDepth := f.depth
		if isDepth {
			childDepth++
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			c := n.Children[i]
			if c == nil {
				return Metrics{}, fmt.Errorf("%w: nil child %d of %s", ErrMalformedTree, i, n.Kind)
			}
			stack = append(stack, frame{node: c, level: childLevel, depth: childDepth, tree: f.tree + 1})
		}
	}

	m := Metrics{
		Cyclomatic: 1 + decisions,
		Cognitive:  cognitive,
		Nesting:    nestingStats(depths),
	}
	m.Score = Score(m.Cyclomatic, m.Cognitive, m.Nesting.Max)
	return m, nil
}

// genericNestingKind reports kinds that record their depth without being
// listed explicitly: any statement or definition.
func genericNestingKind(kind string) bool {
	return strings.HasSuffix(kind, "_statement") || strings.HasSuffix(kind, "_definition")
}

// nestingStats returns the half-to-even rounded mean and the maximum.
func nestingStats(depths []int) model.Nesting {
	if len(depths) == 0 {
		return model.Nesting{}
	}
	sum, maxDepth := 0, 0
	for _, d := range depths {
		sum += d
		maxDepth = max(maxDepth, d)
	}
	avg := math.RoundToEven(float64(sum) / float64(len(depths)))
	return model.Nesting{Average: int(avg), Max: maxDepth}
}
