package htmlast

import "strconv"

// NodeKind identifies the type of a tree node.
type NodeKind uint8

// Node kinds.
const (
	NodeElement NodeKind = iota
	NodeText
)

// String returns the name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeElement:
		return "Element"
	case NodeText:
		return "Text"
	default:
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is an element or text node of the tree.
//
// TokenCount is the number of tokens the node was built from:
// 1 for text and void elements, 2 for an element whose close tag
// immediately follows its open tag, and 2 plus the sum of the
// children's counts otherwise.
type Node struct {
	Kind NodeKind

	// Tag is the open (or void) tag of an element node.
	Tag TagData

	// Text is the raw text of a text node.
	Text string

	// Void is true for elements built from a single void tag.
	Void bool

	// Children holds the element's children in source order.
	Children []*Node

	// TokenCount is the number of tokens consumed to build this node.
	TokenCount int

	// FirstToken is the index of the node's first token in the sequence
	// the tree was built from.
	FirstToken int
}

// NewElement creates an element node for the given tag.
func NewElement(tag TagData) *Node {
	return &Node{Kind: NodeElement, Tag: tag}
}

// NewTextNode creates a text node with a token count of 1.
func NewTextNode(text string) *Node {
	return &Node{Kind: NodeText, Text: text, TokenCount: 1}
}

// AppendChild adds child as the last child of parent.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	parent.Children = append(parent.Children, child)
}

// IsElement returns true for element nodes.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == NodeElement
}

// IsText returns true for text nodes.
func (n *Node) IsText() bool {
	return n != nil && n.Kind == NodeText
}

// Name returns the element name, or "" for text nodes.
func (n *Node) Name() string {
	if !n.IsElement() {
		return ""
	}
	return n.Tag.Name
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// LastToken returns the index of the node's last token.
func (n *Node) LastToken() int {
	return n.FirstToken + n.TokenCount - 1
}

// TokenRange returns the half-open token index range [first, last+1).
func (n *Node) TokenRange() (int, int) {
	return n.FirstToken, n.FirstToken + n.TokenCount
}

// SourceRange returns the byte range of the node in the tokenized input.
// tokens must be the sequence the node was built from.
func (n *Node) SourceRange(tokens []Token) SourceRange {
	first, end := n.TokenRange()
	if first < 0 || end > len(tokens) || first >= end {
		return SourceRange{}
	}
	return SourceRange{
		StartOffset: tokens[first].Span.StartOffset,
		EndOffset:   tokens[end-1].Span.EndOffset,
	}
}
