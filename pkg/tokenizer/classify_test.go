package tokenizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/tagtree/pkg/htmlast"
	"github.com/yaklabco/tagtree/pkg/tokenizer"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		ok       bool
		kind     htmlast.TokenKind
		expected string
	}{
		{text: "<div>", ok: true, kind: htmlast.TokOpenTag, expected: "div"},
		{text: `<div class="x">`, ok: true, kind: htmlast.TokOpenTag, expected: "div"},
		{text: "<div\nclass=x>", ok: true, kind: htmlast.TokOpenTag, expected: "div"},
		{text: "<div\r\n>", ok: true, kind: htmlast.TokOpenTag, expected: "div"},
		{text: "</div>", ok: true, kind: htmlast.TokCloseTag, expected: "div"},
		{text: "</div >", ok: true, kind: htmlast.TokCloseTag, expected: "div"},
		{text: "<br>", ok: true, kind: htmlast.TokVoidTag, expected: "br"},
		{text: "<br/>", ok: true, kind: htmlast.TokVoidTag, expected: "br"},
		{text: "<hr class=a>", ok: true, kind: htmlast.TokVoidTag, expected: "hr"},
		{text: "<custom/>", ok: true, kind: htmlast.TokVoidTag, expected: "custom"},
		{text: "<a/>", ok: true, kind: htmlast.TokVoidTag, expected: "a"},
		{text: "<h1>", ok: true, kind: htmlast.TokOpenTag, expected: "h1"},
		{text: "<Table>", ok: true, kind: htmlast.TokOpenTag, expected: "Table"},
		{text: "<p", ok: true, kind: htmlast.TokOpenTag, expected: "p"},
		{text: "</br>", ok: true, kind: htmlast.TokCloseTag, expected: "br"},
		{text: "<%= x %>"},
		{text: "<my-element>"},
		{text: "<svg:rect/>"},
		{text: "<!DOCTYPE html>"},
		{text: "<!-- x -->"},
		{text: "<?xml ?>"},
		{text: "<>"},
		{text: "</>"},
		{text: "<"},
		{text: ""},
		{text: "div>"},
	}

	for _, testCase := range tests {
		t.Run(testCase.text, func(t *testing.T) {
			t.Parallel()

			tok, ok := tokenizer.Classify(testCase.text)
			assert.Equal(t, testCase.ok, ok)
			if !testCase.ok {
				return
			}
			assert.Equal(t, testCase.kind, tok.Kind)
			assert.Equal(t, testCase.expected, tok.Tag.Name)
			assert.Equal(t, testCase.text, tok.Tag.FullText)
			assert.NotContains(t, tok.Tag.Name, "/")
		})
	}
}

func TestIsVoidName(t *testing.T) {
	t.Parallel()

	names := tokenizer.VoidNames()
	assert.Len(t, names, 26)
	for _, name := range names {
		assert.True(t, tokenizer.IsVoidName(name), name)
	}

	for _, name := range []string{"div", "IMG", "Br", "", "script"} {
		assert.False(t, tokenizer.IsVoidName(name), name)
	}
}
