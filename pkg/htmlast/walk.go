package htmlast

import "errors"

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns a non-nil error, the walk stops and returns it.
func Walk(root *Node, walkFunc WalkFunc) error {
	return WalkWithContext(root, walkFunc, nil)
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Enter is called before visiting children, leave is called after.
// Either callback may be nil.
//
// The traversal keeps its own stack, so arbitrarily deep trees do not
// grow the goroutine stack.
func WalkWithContext(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}

	type frame struct {
		node *Node
		next int
	}

	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.next < len(top.node.Children) {
			child := top.node.Children[top.next]
			top.next++

			if enter != nil {
				if err := enter(child); err != nil {
					return err
				}
			}
			stack = append(stack, frame{node: child})
			continue
		}

		if leave != nil {
			if err := leave(top.node); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
	}

	return nil
}

// FindAll returns all nodes matching the predicate in pre-order.
func FindAll(root *Node, pred func(*Node) bool) []*Node {
	var result []*Node
	_ = Walk(root, func(n *Node) error {
		if pred(n) {
			result = append(result, n)
		}
		return nil
	})
	return result
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = errors.New("stop walk")

// FindFirst returns the first node matching the predicate in pre-order.
func FindFirst(root *Node, pred func(*Node) bool) *Node {
	var result *Node
	_ = Walk(root, func(n *Node) error {
		if pred(n) {
			result = n
			return errStopWalk
		}
		return nil
	})
	return result
}

// FindByName returns all elements with the given tag name.
func FindByName(root *Node, name string) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.IsElement() && n.Tag.Name == name
	})
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes    int
	Elements int
	Voids    int
	Texts    int
	MaxDepth int
}

// Collect computes Stats for the tree rooted at root.
// The root is at depth 1.
func Collect(root *Node) Stats {
	var (
		stats Stats
		depth int
	)

	_ = WalkWithContext(root,
		func(n *Node) error {
			depth++
			stats.Nodes++
			switch {
			case n.IsText():
				stats.Texts++
			case n.Void:
				stats.Elements++
				stats.Voids++
			default:
				stats.Elements++
			}
			stats.MaxDepth = max(stats.MaxDepth, depth)
			return nil
		},
		func(*Node) error {
			depth--
			return nil
		},
	)

	return stats
}
