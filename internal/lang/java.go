package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/phobologic/codeexplain/internal/syntax"
)

func javaDefinition() *Definition {
	return &Definition{
		Language:        Java,
		Extensions:      []string{".java"},
		Profile:         javaProfile(),
		Rules:           javaRules(),
		grammar:         func() *sitter.Language { return java.GetLanguage() },
		ExtractFunction: nameFunction,
		ExtractClass:    javaExtractClass,
	}
}

func javaProfile() *Profile {
	return MustProfile("java", ProfileTables{
		Decision: []string{
			"if_statement", "while_statement", "for_statement",
			"enhanced_for_statement", "do_statement", "switch_expression",
			"switch_statement", "switch_label", "catch_clause",
			"ternary_expression", "&&", "||",
		},
		Cognitive: map[string]int{
			"if_statement":           1,
			"while_statement":        1,
			"for_statement":          1,
			"enhanced_for_statement": 1,
			"do_statement":           1,
			"switch_expression":      1,
			"switch_statement":       1,
			"catch_clause":           1,
			"ternary_expression":     1,
			"&&":                     1,
			"||":                     1,
			"lambda_expression":      1,
		},
		CognitiveNesting: []string{
			"if_statement", "while_statement", "for_statement",
			"enhanced_for_statement", "do_statement", "switch_expression",
			"switch_statement", "catch_clause", "method_declaration",
			"constructor_declaration", "class_declaration", "lambda_expression",
		},
		Depth: []string{
			"if_statement", "while_statement", "for_statement",
			"enhanced_for_statement", "do_statement", "method_declaration",
			"class_declaration", "switch_statement", "switch_expression",
			"catch_clause", "try_statement",
		},
		Tokens: []string{"&&", "||"},
		Class: []string{
			"class_declaration", "interface_declaration",
			"enum_declaration", "record_declaration",
		},
		Function: []string{"method_declaration", "constructor_declaration"},
		Import:   []string{"import_declaration"},
		Comment:  []string{"line_comment", "block_comment", "comment"},
	})
}

func javaRules() *Rules {
	return &Rules{
		Categories: []LineRule{
			{CategoryComment, re(`^\s*(?://|/\*|\*)`)},
			{CategoryImport, re(`^\s*import\s+`)},
			{CategoryClass, re(`\b(?:class|interface|enum|record)\s+\w+`)},
			{CategoryFunction, re(`^\s*(?:(?:public|private|protected|static|final|abstract|synchronized|native|default)\s+)*[\w<>\[\],.?\s]+\s+\w+\s*\([^;]*$`)},
		},
		Functions: []SignatureRule{
			{
				Pattern: re(`^\s*(?:@\w+\s+)*(?:(?:public|private|protected|static|final|abstract|synchronized|native|default)\s+)*(?:<[^>]+>\s+)?[\w<>\[\],.?]+(?:\s*\[\])*\s+(\w+)\s*\(([^)]*)\)?\s*(?:throws\s+[\w.,\s]+)?\{?\s*$`),
				Name:    1,
				Params:  2,
			},
			{
				Pattern: re(`^\s*(?:(?:public|private|protected)\s+)([A-Z]\w*)\s*\(([^)]*)\)?\s*(?:throws\s+[\w.,\s]+)?\{?\s*$`),
				Name:    1,
				Params:  2,
			},
		},
		Classes: []SignatureRule{
			{
				Pattern:  re(`^\s*(?:(?:public|private|protected|static|final|abstract|sealed|non-sealed)\s+)*(?:class|interface|enum|record)\s+(\w+)(?:<[^>]*>)?(?:\s*\([^)]*\))?(?:\s+extends\s+([\w.<>,\s]+?))?(?:\s+implements\s+([\w.<>,\s]+?))?\s*\{?\s*$`),
				Name:     1,
				Inherits: []int{2, 3},
			},
		},
		Dependencies: []DependencyRule{
			{Pattern: re(`^\s*import\s+(?:static\s+)?([\w.]+(?:\.\*)?)\s*;`)},
		},
		Params:   NameLast,
		Keywords: []string{"if", "for", "while", "switch", "catch", "return", "new", "else", "synchronized", "try"},
	}
}

// javaExtractClass reads the declaration name plus its superclass and
// implemented or extended interfaces.
func javaExtractClass(n, _ *syntax.Node, source []byte) (string, []string) {
	name := fieldText(n, "name", source)
	if name == "" {
		return "", nil
	}

	var inherits []string
	if sc := n.ChildByField("superclass"); sc != nil {
		inherits = append(inherits, namedTexts(sc, source)...)
	}
	if ifaces := n.ChildByField("interfaces"); ifaces != nil {
		inherits = append(inherits, typeListTexts(ifaces, source)...)
	}
	// interface_declaration lists its parents in extends_interfaces.
	if ext := n.ChildOfKind("extends_interfaces"); ext != nil {
		inherits = append(inherits, typeListTexts(ext, source)...)
	}
	return name, inherits
}

// typeListTexts flattens a clause wrapping a type_list into type names.
func typeListTexts(clause *syntax.Node, source []byte) []string {
	if list := clause.ChildOfKind("type_list"); list != nil {
		return namedTexts(list, source)
	}
	return namedTexts(clause, source)
}
