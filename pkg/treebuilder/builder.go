// Package treebuilder assembles a flat token sequence into a node tree.
//
// Nesting is recovered purely from adjacency: an element ends at the first
// close tag with the same name found where its next child would start.
// Every node records how many tokens it consumed, so a parent can skip
// over a finished child without rescanning.
package treebuilder

import (
	"github.com/yaklabco/tagtree/pkg/htmlast"
)

// Options controls tree building.
type Options struct {
	// MaxDepth limits node nesting, counting the root as depth 1.
	// Zero means unlimited.
	MaxDepth int
}

// Build assembles the tree rooted at the first token.
//
// A text or void token yields a leaf. An open tag yields an element whose
// children are built in turn until its close tag is reached. Tokens after
// the root's last token are ignored; the root's TokenCount says how many
// were used. Nodes reference the token strings, not copies.
func Build(tokens []htmlast.Token) (*htmlast.Node, error) {
	return BuildWithOptions(tokens, Options{})
}

// BuildWithOptions is Build with explicit options.
func BuildWithOptions(tokens []htmlast.Token, opts Options) (*htmlast.Node, error) {
	if len(tokens) == 0 {
		return nil, ErrNoTokens
	}

	b := builder{tokens: tokens, opts: opts}
	return b.run()
}

type builder struct {
	tokens []htmlast.Token
	opts   Options

	// open holds the elements whose close tag has not been reached yet.
	open []*htmlast.Node
}

func (b *builder) run() (*htmlast.Node, error) {
	pos := 0
	for {
		if len(b.open) > 0 {
			top := b.open[len(b.open)-1]
			if pos >= len(b.tokens) {
				return nil, b.fail(ErrUnclosed, top.FirstToken)
			}

			if b.tokens[pos].Closes(b.tokens[top.FirstToken]) {
				top.TokenCount = pos - top.FirstToken + 1
				b.open = b.open[:len(b.open)-1]
				pos++

				if root := b.attach(top); root != nil {
					return root, nil
				}
				continue
			}
		}

		tok := b.tokens[pos]
		if tok.Kind == htmlast.TokCloseTag {
			return nil, b.fail(ErrUnexpectedClose, pos)
		}

		// Open tags and leaves both add a level below the innermost
		// open element.
		if b.opts.MaxDepth > 0 && len(b.open)+1 > b.opts.MaxDepth {
			return nil, b.fail(ErrMaxDepth, pos)
		}

		switch tok.Kind {
		case htmlast.TokOpenTag:
			node := htmlast.NewElement(tok.Tag)
			node.FirstToken = pos
			b.open = append(b.open, node)
			pos++

		default:
			node := leaf(tok)
			node.FirstToken = pos
			pos++

			if root := b.attach(node); root != nil {
				return root, nil
			}
		}
	}
}

// attach adds a finished node to the innermost open element. It returns
// the node itself when nothing is open, meaning the root is complete.
func (b *builder) attach(node *htmlast.Node) *htmlast.Node {
	if len(b.open) == 0 {
		return node
	}
	htmlast.AppendChild(b.open[len(b.open)-1], node)
	return nil
}

func (b *builder) fail(err error, index int) error {
	return &StructuralError{Err: err, Index: index, Token: b.tokens[index]}
}

func leaf(tok htmlast.Token) *htmlast.Node {
	if tok.Kind == htmlast.TokText {
		return htmlast.NewTextNode(tok.Text)
	}

	node := htmlast.NewElement(tok.Tag)
	node.Void = true
	node.TokenCount = 1
	return node
}
