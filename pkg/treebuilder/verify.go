package treebuilder

import (
	"fmt"

	"github.com/yaklabco/tagtree/pkg/htmlast"
)

// Verify checks the token-count bookkeeping of a built tree.
//
// Text and void nodes must count 1 token, other elements 2 plus the sum of
// their children, and each child must start right after its previous
// sibling. The first violation is returned wrapped in ErrCountMismatch.
func Verify(root *htmlast.Node) error {
	return htmlast.Walk(root, func(n *htmlast.Node) error {
		if n.IsText() || n.Void {
			if n.TokenCount != 1 || len(n.Children) != 0 {
				return fmt.Errorf("%w: leaf %q counts %d tokens with %d children",
					ErrCountMismatch, nodeLabel(n), n.TokenCount, len(n.Children))
			}
			return nil
		}

		expected := 2
		next := n.FirstToken + 1
		for _, child := range n.Children {
			if child.FirstToken != next {
				return fmt.Errorf("%w: child %q of <%s> starts at token %d, expected %d",
					ErrCountMismatch, nodeLabel(child), n.Tag.Name, child.FirstToken, next)
			}
			next += child.TokenCount
			expected += child.TokenCount
		}

		if n.TokenCount != expected {
			return fmt.Errorf("%w: <%s> counts %d tokens, expected %d",
				ErrCountMismatch, n.Tag.Name, n.TokenCount, expected)
		}
		return nil
	})
}

func nodeLabel(n *htmlast.Node) string {
	if n.IsText() {
		return "#text"
	}
	return n.Tag.Name
}
