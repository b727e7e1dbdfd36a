package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/phobologic/codeexplain/internal/syntax"
)

func rubyDefinition() *Definition {
	return &Definition{
		Language:        Ruby,
		Extensions:      []string{".rb", ".rake", ".gemspec"},
		Profile:         rubyProfile(),
		Rules:           rubyRules(),
		grammar:         func() *sitter.Language { return ruby.GetLanguage() },
		ExtractFunction: rubyExtractMethod,
		ExtractClass:    rubyExtractClass,
	}
}

func rubyProfile() *Profile {
	decision := []string{
		"if", "elsif", "unless", "while", "until", "for", "when", "rescue",
		"conditional", "if_modifier", "unless_modifier", "while_modifier",
		"until_modifier", "&&", "||", "and", "or",
	}
	cognitive := make(map[string]int, len(decision)+3)
	for _, k := range decision {
		cognitive[k] = 1
	}
	cognitive["else"] = 1
	cognitive["case"] = 1
	cognitive["lambda"] = 1
	delete(cognitive, "when")

	return MustProfile("ruby", ProfileTables{
		Decision:  decision,
		Cognitive: cognitive,
		CognitiveNesting: []string{
			"if", "unless", "while", "until", "for", "case", "begin",
			"method", "singleton_method", "class", "module", "block", "do_block",
		},
		Depth: []string{
			"if", "unless", "while", "until", "for", "case", "begin",
			"method", "singleton_method", "class", "module", "do_block",
		},
		Tokens:   []string{"&&", "||", "and", "or"},
		Class:    []string{"class", "module"},
		Function: []string{"method", "singleton_method"},
		Comment:  []string{"comment"},
	})
}

func rubyRules() *Rules {
	return &Rules{
		Categories: []LineRule{
			{CategoryComment, re(`^\s*#`)},
			{CategoryClass, re(`^\s*(?:class|module)\s+[A-Z]`)},
			{CategoryFunction, re(`^\s*def\s+`)},
			{CategoryImport, re(`^\s*(?:require|require_relative|load)\b`)},
		},
		Functions: []SignatureRule{
			{Pattern: re(`^\s*def\s+(?:self\.)?([\w?!=]+)\s*(?:\(([^)]*))?`), Name: 1, Params: 2},
		},
		Classes: []SignatureRule{
			{Pattern: re(`^\s*class\s+([\w:]+)(?:\s*<\s*([\w:]+))?`), Name: 1, Inherits: []int{2}},
			{Pattern: re(`^\s*module\s+([\w:]+)`), Name: 1},
		},
		Dependencies: []DependencyRule{
			{Pattern: re(`^\s*(?:require|require_relative)\s*\(?\s*['"]([^'"]+)['"]`)},
		},
		Params: NameFirst,
	}
}

// rubyExtractMethod handles method and singleton_method nodes. Singleton
// methods keep their bare name.
func rubyExtractMethod(n, _ *syntax.Node, source []byte) (string, []string) {
	name := fieldText(n, "name", source)
	if name == "" {
		return "", nil
	}
	params := n.ChildByField("parameters")
	if params == nil {
		params = n.ChildOfKind("method_parameters")
	}
	if params == nil {
		return name, nil
	}
	return name, ParamNames(params, source)
}

// rubyExtractClass reads the class or module name and the superclass.
func rubyExtractClass(n, _ *syntax.Node, source []byte) (string, []string) {
	name := fieldText(n, "name", source)
	if name == "" {
		return "", nil
	}
	sc := n.ChildByField("superclass")
	if sc == nil {
		return name, nil
	}
	return name, namedTexts(sc, source)
}
