package lang

import (
	"github.com/phobologic/codeexplain/internal/syntax"
)

// identifierKinds are node kinds that carry a plain name.
var identifierKinds = []string{
	"identifier",
	"shorthand_property_identifier_pattern",
	"self",
}

// skippedParamKinds never name a parameter.
var skippedParamKinds = map[string]struct{}{
	"comment":              {},
	"line_comment":         {},
	"block_comment":        {},
	"keyword_separator":    {},
	"positional_separator": {},
	"type_annotation":      {},
}

// nameFunction is the default function hook: the "name" field plus the
// "parameters" field (or the single "parameter" of an arrow function).
// Anonymous functions bound by a variable declarator take its name.
func nameFunction(n, parent *syntax.Node, source []byte) (string, []string) {
	name := fieldText(n, "name", source)
	if name == "" && parent != nil && parent.Kind == "variable_declarator" {
		name = fieldText(parent, "name", source)
	}
	if name == "" {
		return "", nil
	}
	if params := n.ChildByField("parameters"); params != nil {
		return name, ParamNames(params, source)
	}
	if single := n.ChildByField("parameter"); single != nil {
		return name, []string{NodeText(single, source)}
	}
	return name, nil
}

// nameClass is the default class hook: the "name" field and no inherits.
func nameClass(n, _ *syntax.Node, source []byte) (string, []string) {
	return fieldText(n, "name", source), nil
}

func fieldText(n *syntax.Node, field string, source []byte) string {
	c := n.ChildByField(field)
	if c == nil {
		return ""
	}
	return NodeText(c, source)
}

// ParamNames returns the ordered parameter names of a parameter-list node.
func ParamNames(list *syntax.Node, source []byte) []string {
	var names []string
	for _, c := range list.NamedChildren() {
		if _, skip := skippedParamKinds[c.Kind]; skip {
			continue
		}
		names = append(names, paramNodeNames(c, source)...)
	}
	return names
}

func paramNodeNames(c *syntax.Node, source []byte) []string {
	// Go declares several names per parameter_declaration.
	var named []string
	for _, ch := range c.Children {
		if ch != nil && ch.Field == "name" {
			named = append(named, NodeText(ch, source))
		}
	}
	if len(named) > 0 {
		return named
	}

	for _, field := range []string{"pattern", "declarator", "left"} {
		if ch := c.ChildByField(field); ch != nil {
			if id := ch.FindFirst(identifierKinds...); id != nil {
				return []string{NodeText(id, source)}
			}
		}
	}

	if id := c.FindFirst(identifierKinds...); id != nil {
		return []string{NodeText(id, source)}
	}

	text := NodeText(c, source)
	if text == "" || text == "void" {
		return nil
	}
	return []string{text}
}

// namedTexts returns the collapsed text of every named child of n except
// those whose kind is listed in skip.
func namedTexts(n *syntax.Node, source []byte, skip ...string) []string {
	if n == nil {
		return nil
	}
	var out []string
next:
	for _, c := range n.NamedChildren() {
		for _, k := range skip {
			if c.Kind == k {
				continue next
			}
		}
		if t := NodeText(c, source); t != "" {
			out = append(out, t)
		}
	}
	return out
}
