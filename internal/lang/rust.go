package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/phobologic/codeexplain/internal/syntax"
)

func rustDefinition() *Definition {
	return &Definition{
		Language:        Rust,
		Extensions:      []string{".rs"},
		Profile:         rustProfile(),
		Rules:           rustRules(),
		grammar:         func() *sitter.Language { return rust.GetLanguage() },
		ExtractFunction: nameFunction,
		ExtractClass:    rustExtractItem,
	}
}

func rustProfile() *Profile {
	return MustProfile("rust", ProfileTables{
		Decision: []string{
			"if_expression", "while_expression", "loop_expression",
			"for_expression", "match_arm", "&&", "||",
		},
		Cognitive: map[string]int{
			"if_expression":      1,
			"else_clause":        1,
			"while_expression":   1,
			"loop_expression":    1,
			"for_expression":     1,
			"match_expression":   1,
			"closure_expression": 1,
			"&&":                 1,
			"||":                 1,
		},
		CognitiveNesting: []string{
			"if_expression", "while_expression", "loop_expression",
			"for_expression", "match_expression", "function_item",
			"closure_expression", "impl_item", "trait_item",
		},
		Depth: []string{
			"if_expression", "while_expression", "loop_expression",
			"for_expression", "match_expression", "function_item",
			"closure_expression", "impl_item", "trait_item", "mod_item",
		},
		Tokens:   []string{"&&", "||"},
		Class:    []string{"struct_item", "enum_item", "trait_item"},
		Function: []string{"function_item"},
		Import:   []string{"use_declaration", "extern_crate_declaration"},
		Comment:  []string{"line_comment", "block_comment"},
	})
}

func rustRules() *Rules {
	return &Rules{
		Categories: []LineRule{
			{CategoryComment, re(`^\s*(?://|/\*)`)},
			{CategoryImport, re(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:use|extern\s+crate)\s+`)},
			{CategoryClass, re(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum|trait)\s+\w+`)},
			{CategoryFunction, re(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:(?:const|async|unsafe|extern\s+"[^"]*")\s+)*fn\s+\w+`)},
		},
		Functions: []SignatureRule{
			{
				Pattern: re(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:(?:const|async|unsafe|extern\s+"[^"]*")\s+)*fn\s+(\w+)\s*(?:<[^>]*>)?\s*\(([^)]*)`),
				Name:    1,
				Params:  2,
			},
		},
		Classes: []SignatureRule{
			{
				Pattern:  re(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:unsafe\s+)?(?:struct|enum|trait)\s+(\w+)(?:<[^>]*>)?(?:\s*:\s*([^{;]+?))?\s*(?:where\b.*)?[{;(]?\s*$`),
				Name:     1,
				Inherits: []int{2},
			},
		},
		Dependencies: []DependencyRule{
			{Pattern: re(`^\s*(?:pub(?:\([^)]*\))?\s+)?use\s+:{0,2}(\w+)`)},
			{Pattern: re(`^\s*extern\s+crate\s+(\w+)`)},
		},
		Params: NameFirst,
	}
}

// rustExtractItem names a struct, enum or trait. Traits report their
// supertrait bounds as inherited.
func rustExtractItem(n, _ *syntax.Node, source []byte) (string, []string) {
	name := fieldText(n, "name", source)
	if name == "" {
		return "", nil
	}
	bounds := n.ChildByField("bounds")
	if bounds == nil {
		bounds = n.ChildOfKind("trait_bounds")
	}
	return name, namedTexts(bounds, source, "lifetime")
}
