package pretty

import (
	"fmt"

	"github.com/yaklabco/tagtree/pkg/htmlast"
)

// kindColumnWidth fits the longest kind name, "CloseTag".
const kindColumnWidth = 8

// FormatToken renders one line of a token listing: index, kind, source
// span and the token's debug form.
func (s *Styles) FormatToken(index int, tok htmlast.Token) string {
	var body string
	switch tok.Kind {
	case htmlast.TokOpenTag:
		body = s.OpenTag.Render(tok.String())
	case htmlast.TokCloseTag:
		body = s.CloseTag.Render(tok.String())
	case htmlast.TokVoidTag:
		body = s.VoidTag.Render(tok.String())
	default:
		body = s.Text.Render(tok.String())
	}

	return fmt.Sprintf("%s %s %s %s",
		s.Dim.Render(fmt.Sprintf("%5d", index)),
		s.Kind.Render(fmt.Sprintf("%-*s", kindColumnWidth, tok.Kind.String())),
		s.Offset.Render(fmt.Sprintf("%d:%d", tok.Span.StartOffset, tok.Span.EndOffset)),
		body,
	)
}
