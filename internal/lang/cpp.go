package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/phobologic/codeexplain/internal/syntax"
)

var cppTables = ProfileTables{
	Decision: []string{
		"if_statement", "else_clause", "while_statement", "for_statement",
		"for_range_loop", "do_statement", "switch_statement", "case_statement",
		"catch_clause", "conditional_expression", "&&", "||",
	},
	Cognitive: map[string]int{
		"if_statement":           1,
		"else_clause":            1,
		"while_statement":        1,
		"for_statement":          1,
		"for_range_loop":         1,
		"do_statement":           1,
		"switch_statement":       1,
		"catch_clause":           1,
		"conditional_expression": 1,
		"&&":                     1,
		"||":                     1,
		"lambda_expression":      1,
	},
	CognitiveNesting: []string{
		"if_statement", "while_statement", "for_statement", "for_range_loop",
		"do_statement", "switch_statement", "catch_clause",
		"function_definition", "class_specifier", "lambda_expression",
	},
	Depth: []string{
		"if_statement", "while_statement", "for_statement", "for_range_loop",
		"do_statement", "switch_statement", "function_definition",
		"class_specifier", "struct_specifier", "catch_clause",
	},
	Tokens:   []string{"&&", "||"},
	Class:    []string{"class_specifier", "struct_specifier"},
	Function: []string{"function_definition"},
	Import:   []string{"preproc_include"},
	Comment:  []string{"comment"},
}

// cppOnlyKinds lists the C++ kinds that do not exist in the C grammar.
var cppOnlyKinds = map[string]struct{}{
	"for_range_loop":    {},
	"catch_clause":      {},
	"lambda_expression": {},
	"class_specifier":   {},
}

func cppDefinition() *Definition {
	return &Definition{
		Language:        Cpp,
		Extensions:      []string{".cpp", ".cc", ".cxx", ".c++", ".hpp", ".hh", ".hxx", ".h"},
		Profile:         MustProfile("cpp", cppTables),
		Rules:           cRules(),
		grammar:         func() *sitter.Language { return cpp.GetLanguage() },
		ExtractFunction: cExtractFunction,
		ExtractClass:    cExtractClass,
	}
}

// cDefinition derives the C tables from the C++ ones by dropping the kinds
// only C++ has.
func cDefinition(cppDef *Definition) *Definition {
	return &Definition{
		Language:        C,
		Extensions:      []string{".c", ".h"},
		Profile:         MustProfile("c", withoutKinds(cppTables, cppOnlyKinds)),
		Rules:           cppDef.Rules,
		grammar:         func() *sitter.Language { return c.GetLanguage() },
		ExtractFunction: cExtractFunction,
		ExtractClass:    cExtractClass,
	}
}

func withoutKinds(t ProfileTables, drop map[string]struct{}) ProfileTables {
	filter := func(kinds []string) []string {
		var out []string
		for _, k := range kinds {
			if _, ok := drop[k]; !ok {
				out = append(out, k)
			}
		}
		return out
	}
	weights := make(map[string]int, len(t.Cognitive))
	for k, w := range t.Cognitive {
		if _, ok := drop[k]; !ok {
			weights[k] = w
		}
	}
	return ProfileTables{
		Decision:         filter(t.Decision),
		Cognitive:        weights,
		CognitiveNesting: filter(t.CognitiveNesting),
		Depth:            filter(t.Depth),
		Tokens:           filter(t.Tokens),
		Class:            filter(t.Class),
		Function:         filter(t.Function),
		Import:           filter(t.Import),
		Comment:          filter(t.Comment),
	}
}

func cRules() *Rules {
	return &Rules{
		Categories: []LineRule{
			{CategoryComment, re(`^\s*(?://|/\*|\*)`)},
			{CategoryImport, re(`^\s*#\s*include\b`)},
			{CategoryClass, re(`^\s*(?:typedef\s+)?(?:class|struct)\s+\w+`)},
			{CategoryFunction, re(`^\s*[\w:<>*&\s]+\s+[*&]*[\w:~]+\s*\([^;]*$`)},
		},
		Functions: []SignatureRule{
			{
				Pattern: re(`^\s*(?:(?:static|inline|extern|virtual|constexpr|explicit)\s+)*[\w:<>,]+[\s*&]+([A-Za-z_~][\w:~]*)\s*\(([^)]*)\)?\s*(?:const\s*)?(?:noexcept\s*)?(?:override\s*)?\{?\s*$`),
				Name:    1,
				Params:  2,
			},
		},
		Classes: []SignatureRule{
			{
				Pattern:  re(`^\s*(?:typedef\s+)?(?:class|struct)\s+(\w+)\s*(?:final\s*)?(?::\s*([^{]+?))?\s*\{?\s*$`),
				Name:     1,
				Inherits: []int{2},
			},
		},
		Dependencies: []DependencyRule{
			{Pattern: re(`^\s*#\s*include\s*[<"]([^>"]+)[>"]`)},
		},
		Params:   NameLast,
		Keywords: []string{"if", "for", "while", "switch", "catch", "return", "sizeof", "else", "new", "delete"},
	}
}

// cExtractFunction follows the declarator chain of a function_definition:
// pointer and reference declarators wrap the function_declarator, whose own
// declarator names the function.
func cExtractFunction(n, _ *syntax.Node, source []byte) (string, []string) {
	decl := n.ChildByField("declarator")
	for decl != nil && decl.Kind != "function_declarator" {
		decl = decl.ChildByField("declarator")
	}
	if decl == nil {
		return "", nil
	}
	nameNode := decl.ChildByField("declarator")
	if nameNode == nil {
		return "", nil
	}
	name := NodeText(nameNode, source)
	if name == "" {
		return "", nil
	}
	if params := decl.ChildByField("parameters"); params != nil {
		return name, ParamNames(params, source)
	}
	return name, nil
}

// cExtractClass names a class or struct specifier that has a body. Forward
// declarations and struct-typed variables are skipped.
func cExtractClass(n, _ *syntax.Node, source []byte) (string, []string) {
	if n.ChildByField("body") == nil {
		return "", nil
	}
	name := fieldText(n, "name", source)
	if name == "" {
		return "", nil
	}
	return name, namedTexts(n.ChildOfKind("base_class_clause"), source, "access_specifier", "comment")
}
