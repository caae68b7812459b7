package tokenizer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tagtree/pkg/htmlast"
	"github.com/yaklabco/tagtree/pkg/tokenizer"
)

func openTag(name, full string) htmlast.Token  { return htmlast.NewTag(htmlast.TokOpenTag, name, full) }
func closeTag(name, full string) htmlast.Token { return htmlast.NewTag(htmlast.TokCloseTag, name, full) }
func voidTag(name, full string) htmlast.Token  { return htmlast.NewTag(htmlast.TokVoidTag, name, full) }
func text(s string) htmlast.Token              { return htmlast.NewText(s) }

func assertTokens(t *testing.T, expected, got []htmlast.Token) {
	t.Helper()

	if !htmlast.EqualTokens(expected, got) {
		t.Errorf("tokens mismatch\nexpected: %v\ngot:      %v", expected, got)
	}
}

func TestTokenize_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []htmlast.Token
	}{
		{
			name:  "void input inside div",
			input: `<html><div><input type="text">Some Text</div></html>`,
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("div", "<div>"),
				voidTag("input", `<input type="text">`),
				text("Some Text"),
				closeTag("div", "</div>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "comment is elided",
			input: "<html><!-- <div></div> --></html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "script body is opaque",
			input: "<html><script><div></div></script></html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "placeholder inside quoted attribute",
			input: `<html><div name="<% v %>"></div></html>`,
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("div", `<div name="<% v %>">`),
				closeTag("div", "</div>"),
				closeTag("html", "</html>"),
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := tokenizer.Tokenize(testCase.input)
			require.NoError(t, err)
			assertTokens(t, testCase.expected, got)
		})
	}
}

func TestTokenize_Behavior(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []htmlast.Token
	}{
		{
			name:  "preamble before root is skipped",
			input: "junk <p>ignored</p>\n<html></html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "whitespace between tags is dropped",
			input: "<html>\n\t <body> \r\n</body>\n</html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("body", "<body>"),
				closeTag("body", "</body>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "text keeps leading and trailing whitespace",
			input: "<html><p>\n  hello world  </p></html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("p", "<p>"),
				text("\n  hello world  "),
				closeTag("p", "</p>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "self-closing syntax makes a void tag",
			input: "<html><foo/><bar attr=1 /></html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				voidTag("foo", "<foo/>"),
				openTag("bar", "<bar attr=1 />"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "void set is case-sensitive",
			input: "<html><BR><br></html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("BR", "<BR>"),
				voidTag("br", "<br>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "svg shapes are void",
			input: `<html><svg><path d="M0 0"><circle r="1"></svg></html>`,
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("svg", "<svg>"),
				voidTag("path", `<path d="M0 0">`),
				voidTag("circle", `<circle r="1">`),
				closeTag("svg", "</svg>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "quoted greater-than does not end the tag",
			input: `<html><a title="a > b">x</a></html>`,
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("a", `<a title="a > b">`),
				text("x"),
				closeTag("a", "</a>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "unclosed tag ends before the next tag",
			input: "<html><div class=x<span>y</span></div></html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("div", "<div class=x"),
				openTag("span", "<span>"),
				text("y"),
				closeTag("span", "</span>"),
				closeTag("div", "</div>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "placeholders are dropped",
			input: "<html><%- include('x') %><p>a</p><% } %></html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("p", "<p>"),
				text("a"),
				closeTag("p", "</p>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "empty tag names are dropped",
			input: "<html><></><p></p></html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("p", "<p>"),
				closeTag("p", "</p>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "comment opener that closes itself",
			input: "<html><!-->x</html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				text("x"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "script with attributes is not opaque",
			input: `<html><script type="module">a</script></html>`,
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				openTag("script", `<script type="module">`),
				text("a"),
				closeTag("script", "</script>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "trailing text runs to end of input",
			input: "<html></html>\n tail",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				closeTag("html", "</html>"),
				text("\n tail"),
			},
		},
		{
			name:  "doctype inside the document is dropped",
			input: "<html><!DOCTYPE html></html>",
			expected: []htmlast.Token{
				openTag("html", "<html>"),
				closeTag("html", "</html>"),
			},
		},
		{
			name:  "root marker matches longer names",
			input: "<htmlx></htmlx>",
			expected: []htmlast.Token{
				openTag("htmlx", "<htmlx>"),
				closeTag("htmlx", "</htmlx>"),
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := tokenizer.Tokenize(testCase.input)
			require.NoError(t, err)
			assertTokens(t, testCase.expected, got)
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		construct string
		offset    int
	}{
		{"unterminated comment", "<html><!-- open", tokenizer.ConstructComment, 6},
		{"unterminated script", "<html><script>var a;", tokenizer.ConstructScript, 6},
		{"unterminated tag", `<html><div class="x>`, tokenizer.ConstructTag, 6},
		{"unterminated root", "<html", tokenizer.ConstructTag, 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := tokenizer.Tokenize(testCase.input)
			require.Error(t, err)
			assert.Nil(t, tokens)
			require.ErrorIs(t, err, tokenizer.ErrUnterminated)

			var scanErr *tokenizer.ScanError
			require.ErrorAs(t, err, &scanErr)
			assert.Equal(t, testCase.construct, scanErr.Construct)
			assert.Equal(t, testCase.offset, scanErr.Offset)
			assert.Contains(t, err.Error(), testCase.construct)
		})
	}
}

func TestTokenize_NoRoot(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "<div></div>", "<HTML></HTML>", "<htm"} {
		_, err := tokenizer.Tokenize(input)
		require.ErrorIs(t, err, tokenizer.ErrNoRoot, "input %q", input)
	}
}

// The doctype is listed as void, but it is skipped by the root anchor and
// its name fails validation, so it never becomes a token either way.
func TestTokenize_DoctypeNeverTokenized(t *testing.T) {
	t.Parallel()

	input := "<!DOCTYPE html>\n<html><body></body></html>"

	anchored, err := tokenizer.Tokenize(input)
	require.NoError(t, err)

	preamble, err := tokenizer.TokenizeWithOptions(input, tokenizer.Options{ScanPreamble: true})
	require.NoError(t, err)

	assert.Len(t, anchored, 4)
	assertTokens(t, anchored, preamble)
	assert.True(t, tokenizer.IsVoidName("!DOCTYPE"))

	_, ok := tokenizer.Classify("<!DOCTYPE html>")
	assert.False(t, ok)
}

func TestTokenizeWithOptions_ScanPreamble(t *testing.T) {
	t.Parallel()

	got, err := tokenizer.TokenizeWithOptions("<div>a</div>", tokenizer.Options{ScanPreamble: true})
	require.NoError(t, err)
	assertTokens(t, []htmlast.Token{
		openTag("div", "<div>"),
		text("a"),
		closeTag("div", "</div>"),
	}, got)

	got, err = tokenizer.TokenizeWithOptions("", tokenizer.Options{ScanPreamble: true})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTokenize_Spans(t *testing.T) {
	t.Parallel()

	input := "xx<html> <p> a </p></html>"
	tokens, err := tokenizer.Tokenize(input)
	require.NoError(t, err)

	for _, tok := range tokens {
		assert.Equal(t, tok.Raw(), tok.Span.Slice(input), "token %v", tok)
	}

	assert.Equal(t, htmlast.SourceRange{StartOffset: 2, EndOffset: 8}, tokens[0].Span)
	assert.Equal(t, htmlast.SourceRange{StartOffset: 12, EndOffset: 15}, tokens[2].Span)
}

func TestTokenize_CommentsElided(t *testing.T) {
	t.Parallel()

	input := "<html><!-- a --><p><!--<b>x</b>-->y</p>\n<!--\n<i>\n--></html>"
	tokens, err := tokenizer.Tokenize(input)
	require.NoError(t, err)

	var comments []htmlast.SourceRange
	for offset := 0; ; {
		start := strings.Index(input[offset:], "<!--")
		if start < 0 {
			break
		}
		start += offset
		end := start + strings.Index(input[start:], "-->") + len("-->")
		comments = append(comments, htmlast.SourceRange{StartOffset: start, EndOffset: end})
		offset = end
	}
	require.Len(t, comments, 3)

	for _, tok := range tokens {
		for _, c := range comments {
			overlap := tok.Span.StartOffset < c.EndOffset && c.StartOffset < tok.Span.EndOffset
			assert.False(t, overlap, "token %v overlaps comment %v", tok, c)
		}
	}
	assert.Len(t, tokens, 5)
}

func TestTokenize_ScriptBodyOpaque(t *testing.T) {
	t.Parallel()

	input := "<html><body><script>if (a < b) { document.write('<div>x</div>'); }</script><p>ok</p></body></html>"
	tokens, err := tokenizer.Tokenize(input)
	require.NoError(t, err)

	for _, tok := range tokens {
		assert.NotEqual(t, "div", tok.Name())
		assert.NotContains(t, tok.Raw(), "document")
	}
	assert.Len(t, tokens, 7)
}

func TestTokenize_ClassificationIdempotent(t *testing.T) {
	t.Parallel()

	input := `<html lang="en"><head><meta charset="utf-8"><link rel=x /></head>` +
		`<body><div id="a"><img src="b.png"/><p>t</p><x1/></div></body></html>`

	tokens, err := tokenizer.Tokenize(input)
	require.NoError(t, err)

	for _, tok := range tokens {
		if tok.Kind == htmlast.TokText {
			continue
		}
		again, ok := tokenizer.Classify(tok.Tag.FullText)
		require.True(t, ok, "re-classify %q", tok.Tag.FullText)
		assert.True(t, tok.Equal(again), "expected %v, got %v", tok, again)
	}
}

func TestTokenize_Concurrent(t *testing.T) {
	t.Parallel()

	input := `<html><body><div class="a"><p>one</p><br><p>two</p></div></body></html>`
	expected, err := tokenizer.Tokenize(input)
	require.NoError(t, err)

	errs := make(chan error, 16)
	for range 16 {
		go func() {
			got, err := tokenizer.Tokenize(input)
			if err == nil && !htmlast.EqualTokens(expected, got) {
				err = errors.New("token mismatch")
			}
			errs <- err
		}()
	}
	for range 16 {
		require.NoError(t, <-errs)
	}
}

func BenchmarkTokenize(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><title>bench</title></head><body>")
	for i := range 500 {
		sb.WriteString(`<div class="row"><span data-i="`)
		sb.WriteString(strings.Repeat("x", i%7))
		sb.WriteString(`">cell</span><br><!-- c --><img src="a.png"/></div>`)
	}
	sb.WriteString("</body></html>")
	input := sb.String()

	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for b.Loop() {
		if _, err := tokenizer.Tokenize(input); err != nil {
			b.Fatal(err)
		}
	}
}
