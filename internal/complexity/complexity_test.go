package complexity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/codeexplain/internal/lang"
	"github.com/phobologic/codeexplain/internal/model"
	"github.com/phobologic/codeexplain/internal/parse"
	"github.com/phobologic/codeexplain/internal/syntax"
)

var registry = lang.NewRegistry()

func parsed(t *testing.T, l lang.Language, src string) *syntax.Node {
	t.Helper()
	p := parse.New()
	t.Cleanup(p.Close)
	tree, err := p.Parse(context.Background(), registry.Definition(l), []byte(src))
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

func TestScoreAndSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cyc, cog, nest int
		score          float64
		severity       model.Severity
	}{
		{1, 0, 0, 0.4, model.Simple},
		{5, 5, 2, 4.4, model.Simple},
		{6, 6, 0, 4.8, model.Simple},
		{7, 5, 5, 5.8, model.Moderate},
		{20, 15, 4, 14.8, model.Moderate},
		{20, 16, 0, 14.4, model.Moderate},
		{25, 20, 5, 19.0, model.Complex},
	}
	for _, tt := range tests {
		got := Score(tt.cyc, tt.cog, tt.nest)
		assert.InDelta(t, tt.score, got, 1e-9)
		assert.Equal(t, tt.severity, Severity(got))
	}

	assert.Equal(t, model.Moderate, Severity(5))
	assert.Equal(t, model.Complex, Severity(15))
}

func TestNilTreeDefaults(t *testing.T) {
	t.Parallel()

	m, err := Analyze(registry.Profile(lang.Python), nil)
	require.NoError(t, err)
	assert.Equal(t, Metrics{Cyclomatic: 1, Score: 0.4}, m)
}

func TestSingleFunction(t *testing.T) {
	t.Parallel()

	m, err := Analyze(registry.Profile(lang.Python), parsed(t, lang.Python, "def f(): pass"))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Cyclomatic)
	assert.Equal(t, 0, m.Cognitive)
	// function_definition at depth 0, pass_statement at depth 1.
	assert.Equal(t, model.Nesting{Average: 0, Max: 1}, m.Nesting)
	assert.InDelta(t, 0.6, m.Score, 1e-9)
}

func TestIfElif(t *testing.T) {
	t.Parallel()

	src := "if a:\n    x = 1\nelif b:\n    x = 2\n"
	m, err := Analyze(registry.Profile(lang.Python), parsed(t, lang.Python, src))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Cyclomatic)
	// if at level 0 (+1), elif nested inside the if at level 1 (+1+1).
	assert.Equal(t, 3, m.Cognitive)
}

func TestBooleanOperatorsCount(t *testing.T) {
	t.Parallel()

	m, err := Analyze(registry.Profile(lang.Python), parsed(t, lang.Python, "x = a and b or c\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Cyclomatic)
	assert.Equal(t, 2, m.Cognitive)
}

func TestHandBuiltTree(t *testing.T) {
	t.Parallel()

	// if_statement
	//   block
	//     for_statement
	//       block
	//         if_statement
	tree := syntax.New("module",
		syntax.New("if_statement",
			syntax.Token("if"),
			syntax.New("block",
				syntax.New("for_statement",
					syntax.New("block",
						syntax.New("if_statement"),
					),
				),
			),
		),
	)

	m, err := Analyze(registry.Profile(lang.Python), tree)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Cyclomatic)
	// 1 + (1+1) + (1+2)
	assert.Equal(t, 6, m.Cognitive)
	// depths 0, 1, 2: mean 1, max 2
	assert.Equal(t, model.Nesting{Average: 1, Max: 2}, m.Nesting)
	assert.InDelta(t, 0.4*4+0.4*6+0.2*2, m.Score, 1e-9)
}

func TestAverageRoundsHalfToEven(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.Nesting{}, nestingStats(nil))
	assert.Equal(t, model.Nesting{Average: 0, Max: 1}, nestingStats([]int{0, 1}))
	assert.Equal(t, model.Nesting{Average: 2, Max: 2}, nestingStats([]int{1, 2}))
	assert.Equal(t, model.Nesting{Average: 2, Max: 3}, nestingStats([]int{1, 3}))
	assert.Equal(t, model.Nesting{Average: 2, Max: 4}, nestingStats([]int{1, 4}))
}

func TestGenericStatementKindsRecordDepth(t *testing.T) {
	t.Parallel()

	tree := syntax.New("module",
		syntax.New("expression_statement"),
		syntax.New("decorated_definition"),
		syntax.Token("return_statement"),
	)
	m, err := Analyze(registry.Profile(lang.Python), tree)
	require.NoError(t, err)
	assert.Equal(t, model.Nesting{Average: 0, Max: 0}, m.Nesting)
}

func TestSeparateNestingTables(t *testing.T) {
	t.Parallel()

	// try_statement raises depth but not the cognitive level.
	tree := syntax.New("module",
		syntax.New("try_statement",
			syntax.New("block",
				syntax.New("if_statement"),
			),
		),
	)
	m, err := Analyze(registry.Profile(lang.Python), tree)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Cognitive)
	assert.Equal(t, 1, m.Nesting.Max)
}

func TestMalformedTrees(t *testing.T) {
	t.Parallel()

	p := registry.Profile(lang.Python)

	t.Run("nil child", func(t *testing.T) {
		t.Parallel()
		tree := syntax.New("module", syntax.New("if_statement"), nil)
		m, err := Analyze(p, tree)
		require.ErrorIs(t, err, ErrMalformedTree)
		assert.Equal(t, Metrics{Cyclomatic: 1, Score: FallbackScore}, m)
		assert.Equal(t, model.Simple, Severity(m.Score))
	})

	t.Run("too deep", func(t *testing.T) {
		t.Parallel()
		root := syntax.New("module")
		cur := root
		for i := 0; i < MaxDepth+5; i++ {
			next := syntax.New("block")
			cur.Children = []*syntax.Node{next}
			cur = next
		}
		m, err := Analyze(p, root)
		require.ErrorIs(t, err, ErrMalformedTree)
		assert.Equal(t, Fallback(), m)
	})
}

func TestUnknownLanguageProfile(t *testing.T) {
	t.Parallel()

	tree := syntax.New("module", syntax.New("if_statement"), syntax.New("while_statement"))
	m, err := Analyze(registry.Profile(lang.Language("cobol")), tree)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Cyclomatic)
}

func TestGoSwitchCases(t *testing.T) {
	t.Parallel()

	src := `package main

func classify(n int) string {
	switch {
	case n < 0:
		return "neg"
	case n == 0:
		return "zero"
	default:
		return "pos"
	}
}
`
	m, err := Analyze(registry.Profile(lang.Go), parsed(t, lang.Go, src))
	require.NoError(t, err)
	// Two expression_case arms; the default arm is not a decision.
	assert.Equal(t, 3, m.Cyclomatic)
	// The switch nested in a function: 1 + 1.
	assert.Equal(t, 2, m.Cognitive)
}

func TestDeterministic(t *testing.T) {
	t.Parallel()

	src := "def f(x):\n    for i in x:\n        if i and x:\n            return i\n"
	a, err := Analyze(registry.Profile(lang.Python), parsed(t, lang.Python, src))
	require.NoError(t, err)
	b, err := Analyze(registry.Profile(lang.Python), parsed(t, lang.Python, src))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
