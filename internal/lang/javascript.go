package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/phobologic/codeexplain/internal/syntax"
)

var jsTables = ProfileTables{
	Decision: []string{
		"if_statement", "else_clause", "while_statement", "for_statement",
		"for_in_statement", "do_statement", "switch_statement", "switch_case",
		"catch_clause", "ternary_expression", "&&", "||", "??",
	},
	Cognitive: map[string]int{
		"if_statement":       1,
		"else_clause":        1,
		"while_statement":    1,
		"for_statement":      1,
		"for_in_statement":   1,
		"do_statement":       1,
		"switch_statement":   1,
		"switch_case":        1,
		"catch_clause":       1,
		"ternary_expression": 1,
		"&&":                 1,
		"||":                 1,
		"arrow_function":     1,
	},
	CognitiveNesting: []string{
		"if_statement", "while_statement", "for_statement", "for_in_statement",
		"do_statement", "function_declaration", "function_expression",
		"arrow_function", "method_definition", "class_declaration",
	},
	Depth: []string{
		"if_statement", "while_statement", "for_statement", "for_in_statement",
		"do_statement", "function_declaration", "arrow_function",
		"function_expression", "class_declaration", "switch_statement",
		"catch_clause",
	},
	Tokens: []string{"&&", "||", "??"},
	Class:  []string{"class_declaration", "class"},
	Function: []string{
		"function_declaration", "generator_function_declaration",
		"function_expression", "function", "arrow_function", "method_definition",
	},
	Import:  []string{"import_statement"},
	Comment: []string{"comment"},
}

func javascriptDefinition() *Definition {
	return &Definition{
		Language:        JavaScript,
		Extensions:      []string{".js", ".jsx", ".mjs", ".cjs"},
		Profile:         MustProfile("javascript", jsTables),
		Rules:           javascriptRules(),
		grammar:         func() *sitter.Language { return javascript.GetLanguage() },
		ExtractFunction: nameFunction,
		ExtractClass:    jsExtractClass,
	}
}

// typescriptDefinition extends the javascript tables with the abstract
// class declaration kind and reuses its rules.
func typescriptDefinition(js *Definition) *Definition {
	tables := jsTables
	tables.Class = append([]string{"abstract_class_declaration"}, jsTables.Class...)
	tables.CognitiveNesting = append([]string{"abstract_class_declaration"}, jsTables.CognitiveNesting...)

	return &Definition{
		Language:        TypeScript,
		Extensions:      []string{".ts", ".tsx", ".mts", ".cts"},
		Profile:         MustProfile("typescript", tables),
		Rules:           js.Rules,
		grammar:         func() *sitter.Language { return typescript.GetLanguage() },
		ExtractFunction: nameFunction,
		ExtractClass:    jsExtractClass,
	}
}

func javascriptRules() *Rules {
	return &Rules{
		Categories: []LineRule{
			{CategoryComment, re(`^\s*(?://|/\*|\*)`)},
			{CategoryImport, re(`^\s*import\b|\brequire\s*\(`)},
			{CategoryClass, re(`\bclass\s+\w+`)},
			{CategoryFunction, re(`\bfunction\b|=>`)},
		},
		Functions: []SignatureRule{
			{Pattern: re(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)\s*\(([^)]*)`), Name: 1, Params: 2},
			{Pattern: re(`^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?(?:function\s*\*?\s*\w*\s*)?\(([^)]*)\)\s*(?::[^=]*)?(?:=>|\{)`), Name: 1, Params: 2},
			{Pattern: re(`^\s*([\w.]+)\s*=\s*function\s*\(([^)]*)\)`), Name: 1, Params: 2},
			{Pattern: re(`^\s*(?:(?:public|private|protected|static|async|get|set|readonly|override)\s+)*(\w+)\s*\(([^)]*)\)\s*(?::\s*[^{]+)?\{\s*$`), Name: 1, Params: 2},
		},
		Classes: []SignatureRule{
			{
				Pattern:  re(`^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+(\w+)(?:<[^>]*>)?(?:\s+extends\s+([\w.]+)(?:<[^>]*>)?)?(?:\s+implements\s+([\w.,\s]+?))?\s*\{`),
				Name:     1,
				Inherits: []int{2, 3},
			},
		},
		Dependencies: []DependencyRule{
			{Pattern: re(`import\s+.*?\s+from\s+['"]([^'"]+)['"]`)},
			{Pattern: re(`^\s*import\s+['"]([^'"]+)['"]`)},
			{Pattern: re(`^\s*export\s+.*?\s+from\s+['"]([^'"]+)['"]`)},
			{Pattern: re(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)},
		},
		Params:   NameFirst,
		Keywords: []string{"if", "for", "while", "switch", "catch", "function", "return", "with", "else"},
	}
}

// jsExtractClass reads the class name and the extends/implements clauses.
func jsExtractClass(n, _ *syntax.Node, source []byte) (string, []string) {
	name := fieldText(n, "name", source)
	if name == "" {
		return "", nil
	}
	heritage := n.ChildOfKind("class_heritage")
	if heritage == nil {
		return name, nil
	}

	var inherits []string
	for _, c := range heritage.NamedChildren() {
		switch c.Kind {
		case "extends_clause", "implements_clause":
			inherits = append(inherits, namedTexts(c, source, "type_arguments", "arguments")...)
		default:
			inherits = append(inherits, NodeText(c, source))
		}
	}
	return name, inherits
}
