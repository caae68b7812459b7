package pretty

import (
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/tagtree/pkg/htmlast"
)

// minTextWidth keeps some text visible however deep a node is.
const minTextWidth = 16

const ellipsis = "…"

// TreeFormatter renders node trees with styled tags.
type TreeFormatter struct {
	styles   *Styles
	indent   int
	keepText bool
	width    int
}

// TreeOptions configures a TreeFormatter.
type TreeOptions struct {
	// Indent is the number of spaces per level. Zero means htmlast.DefaultIndent.
	Indent int

	// KeepText disables trimming of text nodes.
	KeepText bool

	// Width truncates text lines to this many columns. Zero disables
	// truncation. Tags are never truncated.
	Width int
}

// NewTreeFormatter creates a tree formatter.
func NewTreeFormatter(styles *Styles, opts TreeOptions) *TreeFormatter {
	indent := opts.Indent
	if indent <= 0 {
		indent = htmlast.DefaultIndent
	}
	return &TreeFormatter{
		styles:   styles,
		indent:   indent,
		keepText: opts.KeepText,
		width:    opts.Width,
	}
}

// Format writes the tree rooted at root to w. With color disabled and
// no width limit the output equals htmlast.FormatTree.
func (f *TreeFormatter) Format(w io.Writer, root *htmlast.Node) error {
	return htmlast.FormatTree(w, root, htmlast.DisplayOptions{
		Indent:   f.indent,
		KeepText: f.keepText,
		Decorate: f.decorate,
	})
}

func (f *TreeFormatter) decorate(part htmlast.DisplayPart, s string, depth int) string {
	switch part {
	case htmlast.PartOpenTag:
		return f.styles.OpenTag.Render(s)
	case htmlast.PartCloseTag:
		return f.styles.CloseTag.Render(s)
	case htmlast.PartVoidTag:
		return f.styles.VoidTag.Render(s)
	default:
		return f.styles.RenderLines(f.styles.Text, f.truncate(s, depth))
	}
}

func (f *TreeFormatter) truncate(s string, depth int) string {
	if f.width <= 0 {
		return s
	}
	avail := max(f.width-depth*f.indent, minTextWidth)
	return runewidth.Truncate(s, avail, ellipsis)
}
