package tokenizer

import "github.com/yaklabco/tagtree/pkg/htmlast"

// voidNames lists the elements that never have children.
var voidNames = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "command": {}, "embed": {},
	"hr": {}, "img": {}, "input": {}, "keygen": {}, "link": {}, "meta": {},
	"param": {}, "source": {}, "track": {}, "wbr": {},
	// SVG shapes.
	"circle": {}, "ellipse": {}, "line": {}, "path": {}, "polygon": {},
	"polyline": {}, "rect": {}, "stop": {}, "use": {},
	"!DOCTYPE": {},
}

// IsVoidName reports whether name is in the fixed void element set.
// The comparison is case-sensitive.
func IsVoidName(name string) bool {
	_, ok := voidNames[name]
	return ok
}

// VoidNames returns the void element names in no particular order.
func VoidNames() []string {
	names := make([]string, 0, len(voidNames))
	for name := range voidNames {
		names = append(names, name)
	}
	return names
}

// Classify turns the text of a single "<...>" tag into a token.
//
// It returns false when text is not a tag or when the tag name is empty
// or contains anything other than ASCII letters and digits. Such text is
// dropped by the tokenizer. The returned token has no Span set.
func Classify(text string) (htmlast.Token, bool) {
	if len(text) < 2 || text[0] != '<' {
		return htmlast.Token{}, false
	}

	// Start two bytes in so the '/' of a close tag is not taken as the end.
	nameEnd := 2
	for nameEnd < len(text) && !isNameTerminator(text[nameEnd]) {
		nameEnd++
	}

	var (
		kind htmlast.TokenKind
		name string
	)

	switch {
	case nameEnd < len(text) && text[nameEnd] == '/', IsVoidName(text[1:nameEnd]):
		kind, name = htmlast.TokVoidTag, text[1:nameEnd]
	case text[1] == '/':
		kind, name = htmlast.TokCloseTag, text[2:nameEnd]
	default:
		kind, name = htmlast.TokOpenTag, text[1:nameEnd]
	}

	if !validName(name) {
		return htmlast.Token{}, false
	}

	return htmlast.NewTag(kind, name, text), true
}

func isNameTerminator(b byte) bool {
	return b == ' ' || b == '/' || b == '>' || b == '\n' || b == '\r'
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := range len(name) {
		c := name[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
