package htmlast

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind classifies a token produced by the tokenizer.
type TokenKind uint8

// Token kinds. A token is either one of the three tag shapes or a run of text.
const (
	TokOpenTag  TokenKind = iota // <div ...>
	TokCloseTag                  // </div>
	TokVoidTag                   // <br>, <img .../>, <foo/>
	TokText                      // character data between tags
)

var tokenKindNames = [...]string{
	TokOpenTag:  "OpenTag",
	TokCloseTag: "CloseTag",
	TokVoidTag:  "VoidTag",
	TokText:     "Text",
}

// String returns the name of the token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// ParseTokenKind parses a kind name as returned by TokenKind.String,
// ignoring case.
func ParseTokenKind(name string) (TokenKind, bool) {
	for i, n := range tokenKindNames {
		if strings.EqualFold(n, name) {
			return TokenKind(i), true
		}
	}
	return 0, false
}

// IsTag reports whether the kind is one of the tag kinds.
func (k TokenKind) IsTag() bool {
	return k == TokOpenTag || k == TokCloseTag || k == TokVoidTag
}

// TagData is the payload shared by the three tag kinds.
type TagData struct {
	// Name is the tag name exactly as written. It never contains '/'.
	Name string

	// FullText is the source text of the tag, from '<' through its terminator.
	FullText string
}

// Token is one lexical unit of the input.
//
// Tag and Text are substrings of the tokenized input; they share its
// backing storage and are only valid as long as the caller keeps it.
type Token struct {
	Kind TokenKind

	// Tag is set for OpenTag, CloseTag and VoidTag.
	Tag TagData

	// Text is set for Text tokens and includes surrounding whitespace.
	Text string

	// Span is the byte range of the token in the input.
	Span SourceRange
}

// NewTag returns a tag token of the given kind.
func NewTag(kind TokenKind, name, fullText string) Token {
	return Token{Kind: kind, Tag: TagData{Name: name, FullText: fullText}}
}

// NewText returns a text token.
func NewText(text string) Token {
	return Token{Kind: TokText, Text: text}
}

// Raw returns the source text of the token.
func (t Token) Raw() string {
	if t.Kind == TokText {
		return t.Text
	}
	return t.Tag.FullText
}

// Name returns the tag name, or "" for text tokens.
func (t Token) Name() string {
	if t.Kind == TokText {
		return ""
	}
	return t.Tag.Name
}

// Equal reports whether two tokens have the same kind and content.
// Spans are not compared.
func (t Token) Equal(other Token) bool {
	return t.Kind == other.Kind && t.Tag == other.Tag && t.Text == other.Text
}

// Closes reports whether t is the close tag matching opener.
func (t Token) Closes(opener Token) bool {
	return opener.Kind == TokOpenTag && t.Kind == TokCloseTag && opener.Tag.Name == t.Tag.Name
}

// String returns a compact debug form of the token.
func (t Token) String() string {
	switch t.Kind {
	case TokOpenTag:
		return "<OT-" + t.Tag.Name + ">"
	case TokCloseTag:
		return "<CT-/" + t.Tag.Name + ">"
	case TokVoidTag:
		return "<VT-" + t.Tag.Name + "/>"
	case TokText:
		return "<TEXT>" + strconv.Quote(t.Text) + "</TEXT>"
	default:
		return fmt.Sprintf("<%s>", t.Kind)
	}
}

// EqualTokens reports whether two token sequences are element-wise Equal.
func EqualTokens(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// CountKinds returns how many tokens of each kind appear in tokens.
func CountKinds(tokens []Token) map[TokenKind]int {
	counts := make(map[TokenKind]int, len(tokenKindNames))
	for _, tok := range tokens {
		counts[tok.Kind]++
	}
	return counts
}
