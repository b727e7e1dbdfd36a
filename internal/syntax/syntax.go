// Package syntax defines the read-only syntax tree consumed by the
// extractor and the complexity engine. Trees are produced by the parse
// package from tree-sitter output, or built by hand in tests.
package syntax

import "strings"

// Node is a single syntax-tree node. Children are owned by their parent;
// the whole tree is owned by its root for the duration of an analysis.
type Node struct {
	Kind      string
	Named     bool
	Field     string // field name within the parent, "" when unnamed
	StartByte uint32
	EndByte   uint32
	Line      int // 1-based line of StartByte
	Children  []*Node
}

// New returns a named node of the given kind with children.
func New(kind string, children ...*Node) *Node {
	return &Node{Kind: kind, Named: true, Line: 1, Children: children}
}

// Token returns an anonymous node, such as an operator or keyword token.
func Token(kind string) *Node {
	return &Node{Kind: kind, Line: 1}
}

// WithField sets the node's field name and returns the node.
func (n *Node) WithField(field string) *Node {
	n.Field = field
	return n
}

// WithSpan sets the byte span and line of the node and returns the node.
func (n *Node) WithSpan(start, end uint32, line int) *Node {
	n.StartByte = start
	n.EndByte = end
	n.Line = line
	return n
}

// Text returns the source text covered by the node, or "" when the span
// falls outside source.
func (n *Node) Text(source []byte) string {
	if n == nil || n.EndByte < n.StartByte || int(n.EndByte) > len(source) {
		return ""
	}
	return string(source[n.StartByte:n.EndByte])
}

// ChildByField returns the first child with the given field name.
func (n *Node) ChildByField(field string) *Node {
	for _, c := range n.Children {
		if c != nil && c.Field == field {
			return c
		}
	}
	return nil
}

// ChildOfKind returns the first child whose kind is one of kinds.
func (n *Node) ChildOfKind(kinds ...string) *Node {
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		for _, k := range kinds {
			if c.Kind == k {
				return c
			}
		}
	}
	return nil
}

// NamedChildren returns the named children of n in order.
func (n *Node) NamedChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c != nil && c.Named {
			out = append(out, c)
		}
	}
	return out
}

// FindFirst returns the first node in pre-order (n included) whose kind is
// one of kinds.
func (n *Node) FindFirst(kinds ...string) *Node {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		for _, k := range kinds {
			if cur.Kind == k {
				return cur
			}
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return nil
}

// Walk visits every node in pre-order. Returning false from fn skips the
// node's subtree. Nil children are skipped.
func Walk(root *Node, fn func(*Node) bool) {
	stack := []*Node{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		if !fn(cur) {
			continue
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// CountKinds returns how many nodes of each kind the tree contains.
func CountKinds(root *Node) map[string]int {
	counts := make(map[string]int)
	Walk(root, func(n *Node) bool {
		counts[n.Kind]++
		return true
	})
	return counts
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
