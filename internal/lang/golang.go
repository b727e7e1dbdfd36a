package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/phobologic/codeexplain/internal/syntax"
)

func goDefinition() *Definition {
	return &Definition{
		Language:        Go,
		Extensions:      []string{".go"},
		Profile:         goProfile(),
		Rules:           goRules(),
		grammar:         func() *sitter.Language { return golang.GetLanguage() },
		ExtractFunction: nameFunction,
		ExtractClass:    goExtractType,
	}
}

func goProfile() *Profile {
	control := []string{
		"if_statement", "for_statement", "expression_switch_statement",
		"type_switch_statement", "select_statement",
	}
	scopes := []string{"function_declaration", "method_declaration", "func_literal"}
	nesting := append(append([]string{}, control...), scopes...)

	return MustProfile("go", ProfileTables{
		Decision: []string{
			"if_statement", "for_statement", "expression_case", "type_case",
			"communication_case", "&&", "||",
		},
		Cognitive: map[string]int{
			"if_statement":                1,
			"for_statement":               1,
			"expression_switch_statement": 1,
			"type_switch_statement":       1,
			"select_statement":            1,
			"&&":                          1,
			"||":                          1,
			"func_literal":                1,
		},
		CognitiveNesting: nesting,
		Depth:            nesting,
		Tokens:           []string{"&&", "||"},
		Class:            []string{"struct_type", "interface_type"},
		Function:         []string{"function_declaration", "method_declaration"},
		Import:           []string{"import_declaration"},
		Comment:          []string{"comment"},
	})
}

func goRules() *Rules {
	importBlock := &BlockRule{
		Open:  re(`^\s*import\s*\(\s*$`),
		Close: re(`^\s*\)`),
	}
	return &Rules{
		Categories: []LineRule{
			{CategoryComment, re(`^\s*(?://|/\*)`)},
			{CategoryImport, re(`^\s*import\b`)},
			{CategoryClass, re(`^\s*type\s+\w+(?:\[[^\]]*\])?\s+(?:struct|interface)\b`)},
			{CategoryFunction, re(`^\s*func\b`)},
		},
		Functions: []SignatureRule{
			{Pattern: re(`^func\s+(?:\([^)]*\)\s*)?(\w+)\s*(?:\[[^\]]*\])?\s*\(([^)]*)`), Name: 1, Params: 2},
		},
		Classes: []SignatureRule{
			{Pattern: re(`^\s*type\s+(\w+)(?:\[[^\]]*\])?\s+(?:struct|interface)\b`), Name: 1},
		},
		Dependencies: []DependencyRule{
			{Pattern: re(`^\s*import\s+(?:[\w.]+\s+)?"([^"]+)"`)},
			{Pattern: re(`^\s*(?:[\w.]+\s+)?"([^"]+)"`), Block: importBlock},
		},
		Params: NameFirst,
	}
}

// goExtractType names a struct or interface type by its enclosing type_spec
// and reports embedded types as inherited. Anonymous struct and interface
// literals have no type_spec parent and are skipped.
func goExtractType(n, parent *syntax.Node, source []byte) (string, []string) {
	if parent == nil || parent.Kind != "type_spec" {
		return "", nil
	}
	name := fieldText(parent, "name", source)
	if name == "" {
		return "", nil
	}

	var embedded []string
	switch n.Kind {
	case "struct_type":
		fields := n.ChildOfKind("field_declaration_list")
		if fields == nil {
			return name, nil
		}
		for _, f := range fields.NamedChildren() {
			if f.Kind != "field_declaration" || f.ChildByField("name") != nil {
				continue
			}
			if t := f.ChildByField("type"); t != nil {
				embedded = append(embedded, NodeText(t, source))
			}
		}
	case "interface_type":
		for _, c := range n.NamedChildren() {
			switch c.Kind {
			case "method_spec", "method_elem", "comment":
				continue
			}
			embedded = append(embedded, NodeText(c, source))
		}
	}
	return name, embedded
}
