package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewFingerprintParadigm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		classes, functions bool
		want               string
	}{
		{true, true, "object_oriented"},
		{true, false, "object_oriented"},
		{false, true, "functional"},
		{false, false, "procedural"},
	}
	for _, tt := range tests {
		fp := NewFingerprint(tt.classes, tt.functions, false, true)
		assert.Equal(t, tt.want, fp.Paradigm())
		assert.True(t, fp.HasComments)

		set := 0
		for _, flag := range []bool{fp.IsObjectOriented, fp.IsFunctional, fp.IsProcedural} {
			if flag {
				set++
			}
		}
		assert.Equal(t, 1, set, "exactly one paradigm flag for %+v", tt)
	}
}

func TestWithIdentity(t *testing.T) {
	t.Parallel()

	orig := &AnalysisRecord{
		Path:      "a/x.py",
		Filename:  "x.py",
		Language:  "python",
		Functions: []FunctionInfo{{Name: "f", Params: []string{}, Line: 1}},
	}
	moved := orig.WithIdentity("b/y.py", "y.py")

	assert.Equal(t, "a/x.py", orig.Path)
	assert.Equal(t, "b/y.py", moved.Path)
	assert.Equal(t, "y.py", moved.Filename)
	assert.Equal(t, orig.Functions, moved.Functions)
	assert.NotSame(t, orig, moved)
}

func TestRecordFieldNames(t *testing.T) {
	t.Parallel()

	rec := AnalysisRecord{
		Complexity:   ComplexityMetrics{Maintainability: 71.5, Severity: Moderate},
		Purpose:      TestFile,
		Mode:         TextMode,
		Dependencies: []string{},
		Functions:    []FunctionInfo{},
		Classes:      []ClassInfo{},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Equal(t, "test_file", generic["purpose"])
	assert.Equal(t, "text", generic["mode"])
	assert.Equal(t, []any{}, generic["functions"])
	cx := generic["complexity"].(map[string]any)
	assert.Equal(t, 71.5, cx["maintainability_index"])
	assert.Equal(t, "moderate", cx["severity"])

	out, err := yaml.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(out), "maintainability_index: 71.5")
	assert.Contains(t, string(out), "is_procedural: false")
}
