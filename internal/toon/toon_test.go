package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/codeexplain/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"true keyword", "true", `"true"`},
		{"null keyword", "NULL", `"NULL"`},
		{"integer", "42", "42"},
		{"negative float", "-3.5", "-3.5"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "std::vector", `"std::vector"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"generic", "List[int]", `"List[int]"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "src/main.py", "src/main.py"},
		{"dotted module", "os.path", "os.path"},
		{"params", "self key loader", "self key loader"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	r := &model.Report{
		Root:    "myrepo",
		Skipped: 2,
		Records: []*model.AnalysisRecord{
			{
				Path:        "src/cache.py",
				Language:    "python",
				Mode:        model.TreeMode,
				Purpose:     model.LibraryModule,
				Lines:       model.LineCounts{Total: 16},
				Fingerprint: model.NewFingerprint(true, true, true, false),
				Complexity: model.ComplexityMetrics{
					Cyclomatic:      5,
					Cognitive:       9,
					Nesting:         model.Nesting{Average: 2, Max: 4},
					Score:           6.4,
					Severity:        model.Moderate,
					Maintainability: 61.237,
				},
				Functions:    []model.FunctionInfo{{Name: "get_or_load", Params: []string{"self", "key"}, Line: 6}},
				Classes:      []model.ClassInfo{{Name: "Cache", Inherits: []string{"OrderedDict"}, Line: 5}},
				Dependencies: []string{"collections", "os"},
			},
			{
				Path:         "cmd/main.go",
				Language:     "go",
				Mode:         model.TextMode,
				Purpose:      model.MainProgram,
				Lines:        model.LineCounts{Total: 3},
				Fingerprint:  model.NewFingerprint(false, true, false, false),
				Complexity:   model.ComplexityMetrics{Cyclomatic: 1, Score: 0.4, Severity: model.Simple, Maintainability: 100},
				Functions:    []model.FunctionInfo{{Name: "main", Params: []string{}, Line: 3}},
				Classes:      []model.ClassInfo{},
				Dependencies: []string{},
			},
		},
	}

	got := Encode(r)
	want := strings.Join([]string{
		"root: myrepo",
		"skipped: 2",
		"files[2]{path,language,mode,purpose,paradigm,lines,cyclomatic,cognitive,max_nesting,score,severity,maintainability}:",
		"  src/cache.py,python,tree,library_module,object_oriented,16,5,9,4,6.40,moderate,61.24",
		"  cmd/main.go,go,text,main_program,functional,3,1,0,0,0.40,simple,100.00",
		"functions[2]{file,name,line,params}:",
		"  src/cache.py,get_or_load,6,self key",
		`  cmd/main.go,main,3,""`,
		"classes[1]{file,name,line,inherits}:",
		"  src/cache.py,Cache,5,OrderedDict",
		"dependencies[2]{file,module}:",
		"  src/cache.py,collections",
		"  src/cache.py,os",
	}, "\n")

	if got != want {
		t.Errorf("Encode mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(&model.Report{Root: "empty"})
	for _, section := range []string{"files[0]{", "functions[0]{", "classes[0]{", "dependencies[0]{file,module}:"} {
		if !strings.Contains(got, section) {
			t.Errorf("expected %q section, got:\n%s", section, got)
		}
	}
}
