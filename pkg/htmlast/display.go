package htmlast

import (
	"bufio"
	"io"
	"strings"
)

// DefaultIndent is the number of spaces per nesting level in tree output.
const DefaultIndent = 4

// DisplayOptions controls FormatTree output.
type DisplayOptions struct {
	// Indent is the number of spaces per level. Zero means DefaultIndent.
	Indent int

	// KeepText disables trimming of surrounding whitespace in text nodes.
	KeepText bool

	// Decorate, if set, rewrites each printed tag or text before it is
	// written. Indentation is not passed through it.
	Decorate func(part DisplayPart, s string, depth int) string
}

// DisplayPart identifies what a decorated string is.
type DisplayPart uint8

const (
	PartOpenTag DisplayPart = iota
	PartCloseTag
	PartVoidTag
	PartText
)

func (o DisplayOptions) decorate(part DisplayPart, s string, depth int) string {
	if o.Decorate == nil {
		return s
	}
	return o.Decorate(part, s, depth)
}

// String renders the tree with the default options.
func (n *Node) String() string {
	var sb strings.Builder
	_ = FormatTree(&sb, n, DisplayOptions{})
	return sb.String()
}

// FormatTree writes an indented rendering of the tree to w.
//
// Elements print as an opening line, their children separated by newlines,
// and a closing line at the element's own indentation. Void elements print
// as a single self-closing line. No trailing newline is written.
func FormatTree(w io.Writer, root *Node, opts DisplayOptions) error {
	if root == nil {
		return nil
	}

	indent := opts.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}

	bw := bufio.NewWriter(w)
	depth := 0
	pad := func() {
		for range depth * indent {
			_ = bw.WriteByte(' ')
		}
	}

	// Separators are written when a node is entered, so that siblings
	// are newline-joined and the last child has no trailing newline.
	first := true
	err := WalkWithContext(root,
		func(n *Node) error {
			if !first {
				_ = bw.WriteByte('\n')
			}
			first = false
			pad()

			switch {
			case n.IsText():
				text := n.Text
				if !opts.KeepText {
					text = strings.TrimSpace(text)
				}
				_, _ = bw.WriteString(opts.decorate(PartText, text, depth))
			case n.Void:
				_, _ = bw.WriteString(opts.decorate(PartVoidTag, "<"+n.Tag.Name+"/>", depth))
			default:
				_, _ = bw.WriteString(opts.decorate(PartOpenTag, "<"+n.Tag.Name+">", depth))
				if len(n.Children) == 0 {
					_ = bw.WriteByte('\n')
					pad()
					_, _ = bw.WriteString(opts.decorate(PartCloseTag, "</"+n.Tag.Name+">", depth))
				}
			}
			depth++
			return nil
		},
		func(n *Node) error {
			depth--
			if n.IsElement() && !n.Void && len(n.Children) > 0 {
				_ = bw.WriteByte('\n')
				pad()
				_, _ = bw.WriteString(opts.decorate(PartCloseTag, "</"+n.Tag.Name+">", depth))
			}
			return nil
		},
	)
	if err != nil {
		return err
	}

	return bw.Flush()
}
