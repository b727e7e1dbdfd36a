package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/phobologic/codeexplain/internal/syntax"
)

func pythonDefinition() *Definition {
	return &Definition{
		Language:        Python,
		Extensions:      []string{".py", ".pyx", ".pyi"},
		Profile:         pythonProfile(),
		Rules:           pythonRules(),
		grammar:         func() *sitter.Language { return python.GetLanguage() },
		ExtractFunction: nameFunction,
		ExtractClass:    pythonExtractClass,
	}
}

func pythonProfile() *Profile {
	return MustProfile("python", ProfileTables{
		Decision: []string{
			"if_statement", "elif_clause", "while_statement", "for_statement",
			"except_clause", "with_statement", "and", "or",
		},
		Cognitive: map[string]int{
			"if_statement":             1,
			"elif_clause":              1,
			"else_clause":              1,
			"while_statement":          1,
			"for_statement":            1,
			"except_clause":            1,
			"with_statement":           1,
			"and":                      1,
			"or":                       1,
			"lambda":                   1,
			"list_comprehension":       1,
			"dictionary_comprehension": 1,
			"generator_expression":     1,
		},
		CognitiveNesting: []string{
			"if_statement", "while_statement", "for_statement",
			"function_definition", "class_definition",
		},
		Depth: []string{
			"if_statement", "while_statement", "for_statement",
			"function_definition", "class_definition", "with_statement",
			"try_statement", "except_clause",
		},
		Tokens:   []string{"and", "or"},
		Class:    []string{"class_definition"},
		Function: []string{"function_definition"},
		Import:   []string{"import_statement", "import_from_statement", "future_import_statement"},
		Comment:  []string{"comment"},
	})
}

func pythonRules() *Rules {
	return &Rules{
		Categories: []LineRule{
			{CategoryComment, re(`^\s*#`)},
			{CategoryClass, re(`^\s*class\s+\w+`)},
			{CategoryFunction, re(`^\s*(?:async\s+)?def\s+\w+`)},
			{CategoryImport, re(`^\s*(?:import|from)\s+[\w.]+`)},
		},
		Functions: []SignatureRule{
			{Pattern: re(`^\s*(?:async\s+)?def\s+(\w+)\s*\(([^)]*)`), Name: 1, Params: 2},
		},
		Classes: []SignatureRule{
			{Pattern: re(`^\s*class\s+(\w+)\s*(?:\(([^)]*)\))?\s*:`), Name: 1, Inherits: []int{2}},
		},
		Dependencies: []DependencyRule{
			{Pattern: re(`^\s*(?:import|from)\s+(\w+)`)},
		},
		Params: NameFirst,
	}
}

// pythonExtractClass reads the class name and its superclasses argument
// list, ignoring keyword arguments such as metaclass=.
func pythonExtractClass(n, _ *syntax.Node, source []byte) (string, []string) {
	name := fieldText(n, "name", source)
	if name == "" {
		return "", nil
	}
	supers := n.ChildByField("superclasses")
	if supers == nil {
		supers = n.ChildOfKind("argument_list")
	}
	return name, namedTexts(supers, source, "keyword_argument", "comment")
}
