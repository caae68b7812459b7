// Package tokenizer splits HTML-like markup into a flat sequence of tag
// and text tokens.
//
// The tokenizer is not an HTML5 parser. It recognizes open, close and
// void tags by shape, skips comments and inline script bodies, keeps
// text runs verbatim and silently drops anything that looks like a tag
// but has a non-alphanumeric name, such as template placeholders.
package tokenizer

import (
	"strings"

	"github.com/yaklabco/tagtree/pkg/htmlast"
)

// RootMarker is the text scanning is anchored to by default.
const RootMarker = "<html"

const (
	commentOpen  = "<!--"
	commentClose = "-->"
	scriptOpen   = "<script>"
	scriptClose  = "</script>"
)

// Options controls tokenization.
type Options struct {
	// ScanPreamble starts scanning at the beginning of the input instead
	// of at the first RootMarker. Input without a root marker is then
	// accepted.
	ScanPreamble bool
}

// Tokenize splits input into tokens, starting at the first "<html".
//
// Token strings are substrings of input. Malformed tags are dropped
// without error. An error is returned if input has no root marker or
// if a comment, script body or tag is not terminated.
func Tokenize(input string) ([]htmlast.Token, error) {
	return TokenizeWithOptions(input, Options{})
}

// TokenizeWithOptions is Tokenize with explicit options.
func TokenizeWithOptions(input string, opts Options) ([]htmlast.Token, error) {
	start := 0
	if !opts.ScanPreamble {
		start = strings.Index(input, RootMarker)
		if start < 0 {
			return nil, ErrNoRoot
		}
	}

	s := &scanner{input: input, pos: start}
	if err := s.run(); err != nil {
		return nil, err
	}

	return s.tokens, nil
}

// scanner holds the tokenization state for one input.
type scanner struct {
	input  string
	pos    int
	tokens []htmlast.Token
}

func (s *scanner) run() error {
	for s.pos < len(s.input) {
		runStart := s.pos

		at := s.skipWhitespace(s.pos)
		if at == len(s.input) {
			return nil
		}

		rest := s.input[at:]
		switch {
		case strings.HasPrefix(rest, commentOpen):
			// Searched from '<', so "<!-->" closes itself.
			end, err := s.skipPast(at, commentClose, ConstructComment)
			if err != nil {
				return err
			}
			s.pos = end

		case strings.HasPrefix(rest, scriptOpen):
			end, err := s.skipPast(at, scriptClose, ConstructScript)
			if err != nil {
				return err
			}
			s.pos = end

		case rest[0] == '<':
			end, err := s.scanTag(at)
			if err != nil {
				return err
			}
			if tok, ok := Classify(s.input[at:end]); ok {
				s.emit(tok, at, end)
			}
			s.pos = end

		default:
			end := s.scanText(at)
			s.emit(htmlast.NewText(s.input[runStart:end]), runStart, end)
			s.pos = end
		}
	}

	return nil
}

func (s *scanner) skipWhitespace(pos int) int {
	for pos < len(s.input) {
		switch s.input[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// skipPast returns the offset just after the first terminator at or after pos.
func (s *scanner) skipPast(pos int, terminator, construct string) (int, error) {
	idx := strings.Index(s.input[pos:], terminator)
	if idx < 0 {
		return 0, &ScanError{Construct: construct, Offset: pos}
	}
	return pos + idx + len(terminator), nil
}

// scanTag returns the offset just after the tag starting at pos.
//
// The tag ends at the first '>' outside a double-quoted value. An
// unquoted '<' before that ends the tag just before the '<'.
func (s *scanner) scanTag(pos int) (int, error) {
	inQuote := false
	i := pos + 1
	for {
		if i >= len(s.input) {
			return 0, &ScanError{Construct: ConstructTag, Offset: pos}
		}

		c := s.input[i]
		if c == '>' && !inQuote {
			return i + 1, nil
		}
		if c == '<' && !inQuote {
			return i, nil
		}

		i++
		if i < len(s.input) && s.input[i] == '"' {
			inQuote = !inQuote
		}
	}
}

// scanText returns the offset of the next '<' after pos, or the end of input.
func (s *scanner) scanText(pos int) int {
	idx := strings.IndexByte(s.input[pos+1:], '<')
	if idx < 0 {
		return len(s.input)
	}
	return pos + 1 + idx
}

func (s *scanner) emit(tok htmlast.Token, start, end int) {
	tok.Span = htmlast.SourceRange{StartOffset: start, EndOffset: end}
	s.tokens = append(s.tokens, tok)
}
