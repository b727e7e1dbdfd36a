// Package parse turns source text into syntax trees using tree-sitter.
package parse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/codeexplain/internal/lang"
	"github.com/phobologic/codeexplain/internal/syntax"
)

// Parser caches one tree-sitter parser per language. A Parser is not safe
// for concurrent use; give each worker goroutine its own.
type Parser struct {
	parsers map[lang.Language]*sitter.Parser
}

// New returns an empty Parser. Per-language parsers are created lazily.
func New() *Parser {
	return &Parser{parsers: make(map[lang.Language]*sitter.Parser)}
}

// Parse parses source with the grammar of def. It returns (nil, nil) when
// the language has no grammar, in which case callers fall back to text mode.
func (p *Parser) Parse(ctx context.Context, def *lang.Definition, source []byte) (*syntax.Node, error) {
	if def == nil || len(source) == 0 {
		return nil, nil
	}
	sp, ok := p.parsers[def.Language]
	if !ok {
		sp = def.NewParser()
		if sp == nil {
			return nil, nil
		}
		p.parsers[def.Language] = sp
	}

	tree, err := sp.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s source: %w", def.Language, err)
	}
	defer tree.Close()

	return Convert(tree.RootNode()), nil
}

// Close releases the underlying tree-sitter parsers.
func (p *Parser) Close() {
	for l, sp := range p.parsers {
		sp.Close()
		delete(p.parsers, l)
	}
}

// Convert copies a tree-sitter subtree into a syntax tree. The copy does
// not reference tree-sitter memory, so the source tree may be closed
// afterwards. Conversion is iterative so deep trees cannot overflow the
// stack.
func Convert(root *sitter.Node) *syntax.Node {
	if root == nil {
		return nil
	}

	type frame struct {
		src *sitter.Node
		dst *syntax.Node
	}

	out := convertNode(root)
	stack := []frame{{root, out}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		count := int(f.src.ChildCount())
		if count == 0 {
			continue
		}
		f.dst.Children = make([]*syntax.Node, count)
		for i := 0; i < count; i++ {
			child := f.src.Child(i)
			if child == nil {
				continue
			}
			c := convertNode(child)
			c.Field = f.src.FieldNameForChild(i)
			f.dst.Children[i] = c
			stack = append(stack, frame{child, c})
		}
	}
	return out
}

func convertNode(n *sitter.Node) *syntax.Node {
	return &syntax.Node{
		Kind:      n.Type(),
		Named:     n.IsNamed(),
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		Line:      int(n.StartPoint().Row) + 1,
	}
}
