// Package lang provides the language registry: the closed set of supported
// languages, their tree-sitter grammars, complexity profiles, text-mode
// extraction rules and tree-mode extraction hooks.
package lang

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/src-d/enry/v2"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/codeexplain/internal/syntax"
)

// ErrUnknownLanguage is returned by Lookup for names outside the supported set.
var ErrUnknownLanguage = errors.New("unknown language")

// Language identifies one of the supported languages.
type Language string

const (
	Unknown    Language = ""
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Java       Language = "java"
	C          Language = "c"
	Cpp        Language = "cpp"
	Go         Language = "go"
	Ruby       Language = "ruby"
	Rust       Language = "rust"
)

// DefaultLanguage supplies the profile and rules for languages outside the
// supported set.
const DefaultLanguage = Python

// aliases maps alternative spellings (including enry language names,
// lowercased) onto the supported set.
var aliases = map[string]Language{
	"py":      Python,
	"python3": Python,
	"js":      JavaScript,
	"node":    JavaScript,
	"jsx":     JavaScript,
	"ts":      TypeScript,
	"tsx":     TypeScript,
	"c++":     Cpp,
	"cxx":     Cpp,
	"golang":  Go,
	"rb":      Ruby,
	"rs":      Rust,
}

// Text-only languages have no grammar. Their files are analyzed in text
// mode with the default definition and keep their own language name.
const (
	PHP        Language = "php"
	Swift      Language = "swift"
	Kotlin     Language = "kotlin"
	CSharp     Language = "c_sharp"
	Bash       Language = "bash"
	PowerShell Language = "powershell"
	Perl       Language = "perl"
	Lua        Language = "lua"
)

var textOnlyExtensions = map[string]Language{
	".php":   PHP,
	".phtml": PHP,
	".php3":  PHP,
	".php4":  PHP,
	".php5":  PHP,
	".swift": Swift,
	".kt":    Kotlin,
	".kts":   Kotlin,
	".cs":    CSharp,
	".sh":    Bash,
	".bash":  Bash,
	".ps1":   PowerShell,
	".psm1":  PowerShell,
	".pl":    Perl,
	".pm":    Perl,
	".lua":   Lua,
}

// textOnlyNames maps lowercased enry language names onto text-only languages.
var textOnlyNames = map[string]Language{
	"php":        PHP,
	"swift":      Swift,
	"kotlin":     Kotlin,
	"c#":         CSharp,
	"shell":      Bash,
	"powershell": PowerShell,
	"perl":       Perl,
	"lua":        Lua,
}

// TextOnly returns the grammar-less language for a file extension, or
// Unknown.
func TextOnly(ext string) Language {
	return textOnlyExtensions[strings.ToLower(ext)]
}

// Parse maps a language name onto the supported set. Names outside the set
// map to Unknown.
func Parse(name string) Language {
	n := strings.ToLower(strings.TrimSpace(name))
	switch l := Language(n); l {
	case Python, JavaScript, TypeScript, Java, C, Cpp, Go, Ruby, Rust:
		return l
	}
	return aliases[n]
}

// ExtractFunc recovers a name and an ordered list of secondary names
// (parameters for functions, inherited types for classes) from a tree
// node. parent may be nil. An empty name means the node is skipped.
type ExtractFunc func(n, parent *syntax.Node, source []byte) (string, []string)

// Definition holds everything the analyzer knows about one language.
type Definition struct {
	Language   Language
	Extensions []string
	Profile    *Profile
	Rules      *Rules

	grammar func() *sitter.Language

	// ExtractFunction is applied to nodes of the profile's function kinds.
	ExtractFunction ExtractFunc

	// ExtractClass is applied to nodes of the profile's class kinds.
	ExtractClass ExtractFunc
}

// Grammar returns the tree-sitter grammar, or nil when none is available.
func (d *Definition) Grammar() *sitter.Language {
	if d.grammar == nil {
		return nil
	}
	return d.grammar()
}

// NewParser creates a fresh tree-sitter parser for this language, or nil
// when no grammar is available. Each goroutine must use its own parser.
func (d *Definition) NewParser() *sitter.Parser {
	g := d.Grammar()
	if g == nil {
		return nil
	}
	p := sitter.NewParser()
	p.SetLanguage(g)
	return p
}

// Registry is the read-only table of language definitions. It is built
// once with NewRegistry and is safe for concurrent use.
type Registry struct {
	defs     map[Language]*Definition
	byExt    map[string]Language
	fallback *Definition
}

// NewRegistry builds the registry of all supported languages.
func NewRegistry() *Registry {
	js := javascriptDefinition()
	cpp := cppDefinition()
	defs := []*Definition{
		pythonDefinition(),
		js,
		typescriptDefinition(js),
		javaDefinition(),
		cDefinition(cpp),
		cpp,
		goDefinition(),
		rubyDefinition(),
		rustDefinition(),
	}

	r := &Registry{
		defs:  make(map[Language]*Definition, len(defs)),
		byExt: make(map[string]Language),
	}
	for _, d := range defs {
		r.defs[d.Language] = d
		for _, ext := range d.Extensions {
			// First registration wins so ".h" stays with c.
			if _, ok := r.byExt[ext]; !ok {
				r.byExt[ext] = d.Language
			}
		}
	}

	base := r.defs[DefaultLanguage]
	r.fallback = &Definition{
		Language:        Unknown,
		Profile:         base.Profile,
		Rules:           base.Rules,
		ExtractFunction: base.ExtractFunction,
		ExtractClass:    base.ExtractClass,
	}
	return r
}

// Definition returns the definition for l. Languages outside the supported
// set resolve to the default definition, which has no grammar.
func (r *Registry) Definition(l Language) *Definition {
	if d, ok := r.defs[l]; ok {
		return d
	}
	return r.fallback
}

// Profile returns the complexity profile for l; it never fails.
func (r *Registry) Profile(l Language) *Profile {
	return r.Definition(l).Profile
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, error) {
	l := Parse(name)
	d, ok := r.defs[l]
	if !ok {
		return nil, ErrUnknownLanguage
	}
	return d, nil
}

// Languages returns the supported languages in name order.
func (r *Registry) Languages() []Language {
	out := make([]Language, 0, len(r.defs))
	for l := range r.defs {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ForExtension returns the language for a file extension, or Unknown.
func (r *Registry) ForExtension(ext string) Language {
	return r.byExt[strings.ToLower(ext)]
}

// Detect determines the language of a file from its name and, when the
// extension is not conclusive, from its content (shebang, heuristics).
// The result may be a text-only language, which Definition resolves to the
// default definition.
func (r *Registry) Detect(filename string, content []byte) Language {
	ext := filepath.Ext(filename)
	if l := r.ForExtension(ext); l != Unknown {
		return l
	}
	if l := TextOnly(ext); l != Unknown {
		return l
	}
	name := enry.GetLanguage(filepath.Base(filename), content)
	if l := Parse(name); l != Unknown {
		return l
	}
	return textOnlyNames[strings.ToLower(name)]
}

// NodeText returns the collapsed source text of a node.
func NodeText(n *syntax.Node, source []byte) string {
	return syntax.CollapseWhitespace(n.Text(source))
}
