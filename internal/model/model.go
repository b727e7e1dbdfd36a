// Package model defines the analysis record and its parts.
package model

// Purpose is the coarse role of a file.
type Purpose string

const (
	MainProgram      Purpose = "main_program"
	LibraryModule    Purpose = "library_module"
	Configuration    Purpose = "configuration"
	TestFile         Purpose = "test_file"
	DataModel        Purpose = "data_model"
	UtilityFunctions Purpose = "utility_functions"
	SimpleScript     Purpose = "simple_script"
)

// Severity buckets a composite complexity score.
type Severity string

const (
	Simple   Severity = "simple"
	Moderate Severity = "moderate"
	Complex  Severity = "complex"
)

// Mode says how the structure and metrics of a file were obtained.
type Mode string

const (
	// TreeMode means a syntax tree was available.
	TreeMode Mode = "tree"
	// TextMode means extraction fell back to line rules.
	TextMode Mode = "text"
)

// FunctionInfo describes one function or method occurrence.
type FunctionInfo struct {
	Name   string   `json:"name" yaml:"name"`
	Params []string `json:"params" yaml:"params"`
	Line   int      `json:"line" yaml:"line"`
}

// ClassInfo describes one class-like declaration.
type ClassInfo struct {
	Name     string   `json:"name" yaml:"name"`
	Inherits []string `json:"inherits" yaml:"inherits"`
	Line     int      `json:"line" yaml:"line"`
}

// Fingerprint summarizes which constructs a file contains. The paradigm
// flags are derived: exactly one of them is set.
type Fingerprint struct {
	HasClasses       bool `json:"has_classes" yaml:"has_classes"`
	HasFunctions     bool `json:"has_functions" yaml:"has_functions"`
	HasImports       bool `json:"has_imports" yaml:"has_imports"`
	HasComments      bool `json:"has_comments" yaml:"has_comments"`
	IsObjectOriented bool `json:"is_object_oriented" yaml:"is_object_oriented"`
	IsFunctional     bool `json:"is_functional" yaml:"is_functional"`
	IsProcedural     bool `json:"is_procedural" yaml:"is_procedural"`
}

// NewFingerprint builds a Fingerprint and derives the paradigm flags.
func NewFingerprint(classes, functions, imports, comments bool) Fingerprint {
	return Fingerprint{
		HasClasses:       classes,
		HasFunctions:     functions,
		HasImports:       imports,
		HasComments:      comments,
		IsObjectOriented: classes,
		IsFunctional:     functions && !classes,
		IsProcedural:     !classes && !functions,
	}
}

// Paradigm returns the name of the single paradigm flag that is set.
func (f Fingerprint) Paradigm() string {
	switch {
	case f.IsObjectOriented:
		return "object_oriented"
	case f.IsFunctional:
		return "functional"
	}
	return "procedural"
}

// Nesting holds nesting depth statistics.
type Nesting struct {
	Average int `json:"average" yaml:"average"`
	Max     int `json:"max" yaml:"max"`
}

// Halstead holds token-based Halstead metrics.
type Halstead struct {
	Vocabulary int     `json:"vocabulary" yaml:"vocabulary"`
	Length     int     `json:"length" yaml:"length"`
	Volume     float64 `json:"volume" yaml:"volume"`
	Difficulty float64 `json:"difficulty" yaml:"difficulty"`
	Effort     float64 `json:"effort" yaml:"effort"`
}

// LineCounts breaks down the lines of a file.
type LineCounts struct {
	Total   int `json:"total" yaml:"total"`
	Code    int `json:"code" yaml:"code"`
	Comment int `json:"comment" yaml:"comment"`
	Blank   int `json:"blank" yaml:"blank"`
}

// ComplexityMetrics is the full metric set of one file.
type ComplexityMetrics struct {
	Cyclomatic      int      `json:"cyclomatic" yaml:"cyclomatic"`
	Cognitive       int      `json:"cognitive" yaml:"cognitive"`
	Nesting         Nesting  `json:"nesting" yaml:"nesting"`
	Halstead        Halstead `json:"halstead" yaml:"halstead"`
	Maintainability float64  `json:"maintainability_index" yaml:"maintainability_index"`
	Score           float64  `json:"score" yaml:"score"`
	Severity        Severity `json:"severity" yaml:"severity"`
}

// AnalysisRecord is the result of analyzing one file. Records are built
// once by the analyzer and never modified afterwards.
type AnalysisRecord struct {
	Path         string            `json:"path" yaml:"path"`
	Filename     string            `json:"filename" yaml:"filename"`
	Language     string            `json:"language" yaml:"language"`
	Size         int               `json:"size" yaml:"size"`
	Mode         Mode              `json:"mode" yaml:"mode"`
	Lines        LineCounts        `json:"lines" yaml:"lines"`
	Complexity   ComplexityMetrics `json:"complexity" yaml:"complexity"`
	Purpose      Purpose           `json:"purpose" yaml:"purpose"`
	Fingerprint  Fingerprint       `json:"fingerprint" yaml:"fingerprint"`
	Dependencies []string          `json:"dependencies" yaml:"dependencies"`
	Functions    []FunctionInfo    `json:"functions" yaml:"functions"`
	Classes      []ClassInfo       `json:"classes" yaml:"classes"`
}

// WithIdentity returns a copy of r carrying a different path identity.
// Slices are shared; records are read-only.
func (r *AnalysisRecord) WithIdentity(path, filename string) *AnalysisRecord {
	c := *r
	c.Path = path
	c.Filename = filename
	return &c
}

// Report is a batch of records for output.
type Report struct {
	Root    string            `json:"root" yaml:"root"`
	Records []*AnalysisRecord `json:"records" yaml:"records"`
	Skipped int               `json:"skipped" yaml:"skipped"`
}
