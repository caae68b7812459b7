// Package source loads input documents for tagtree.
//
// HTML files are used as they are. Markdown files are rendered to HTML
// with goldmark and wrapped in an <html><body> root so they can be fed
// to the tokenizer. File kinds are detected by extension, falling back
// to go-enry for files without a recognized one.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yaklabco/tagtree/pkg/config"
	"github.com/yaklabco/tagtree/pkg/fsutil"
)

// Kind is the detected type of an input document.
type Kind string

const (
	KindHTML     Kind = "html"
	KindMarkdown Kind = "markdown"
	KindUnknown  Kind = "unknown"
)

// ErrUnsupported is returned for files that are neither HTML nor Markdown.
var ErrUnsupported = errors.New("unsupported document type")

// Document is an input ready for tokenization.
type Document struct {
	// Path is the file path, or a label for in-memory input.
	Path string

	// Kind is the detected document kind.
	Kind Kind

	// Language is the linguist language name reported by go-enry.
	Language string

	// Markup is the HTML to tokenize. For Markdown inputs it is the
	// rendered document, otherwise the file content.
	Markup string

	// Info holds file metadata. It is nil for in-memory input.
	Info *fsutil.FileInfo
}

// Options configures a Loader.
type Options struct {
	// Flavor selects the Markdown dialect. Empty means GFM.
	Flavor config.Flavor

	// MaxFileSize rejects larger files. Zero means no limit.
	MaxFileSize int64
}

// Loader reads and prepares documents. It is safe for concurrent use.
type Loader struct {
	md      goldmark.Markdown
	maxSize int64
}

// NewLoader creates a Loader for the given options.
func NewLoader(opts Options) *Loader {
	return &Loader{
		md:      newMarkdown(opts.Flavor),
		maxSize: opts.MaxFileSize,
	}
}

func newMarkdown(flavor config.Flavor) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case config.FlavorCommonMark:
		// No extensions for pure CommonMark.
	default:
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}

	return goldmark.New(opts...)
}

// Load reads path from disk and prepares it for tokenization.
func (l *Loader) Load(ctx context.Context, path string) (*Document, error) {
	content, info, err := fsutil.ReadFile(ctx, path, l.maxSize)
	if err != nil {
		return nil, err
	}

	doc, err := l.FromBytes(path, content)
	if err != nil {
		return nil, err
	}
	doc.Info = info

	return doc, nil
}

// FromBytes prepares in-memory content. The path is used for detection only.
func (l *Loader) FromBytes(path string, content []byte) (*Document, error) {
	kind, language := DetectKind(path, content)

	doc := &Document{Path: path, Kind: kind, Language: language}

	switch kind {
	case KindHTML:
		doc.Markup = string(content)
	case KindMarkdown:
		markup, err := l.Render(content)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", path, err)
		}
		doc.Markup = markup
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupported, path, languageOrUnknown(language))
	}

	return doc, nil
}

// Render converts Markdown to a complete HTML document.
func (l *Loader) Render(content []byte) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("<html>\n<body>\n")
	if err := l.md.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	buf.WriteString("</body>\n</html>\n")

	return buf.String(), nil
}

// DetectKind classifies a document by its path and, when the extension
// is not conclusive, by its content. It also returns the linguist
// language name, which is empty when nothing matched.
func DetectKind(path string, content []byte) (Kind, string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return KindHTML, "HTML"
	case ".md", ".markdown":
		return KindMarkdown, "Markdown"
	}

	if lang, safe := enry.GetLanguageByExtension(path); safe {
		return kindOf(lang), lang
	}

	if lang := enry.GetLanguage(filepath.Base(path), content); lang != "" {
		if kind := kindOf(lang); kind != KindUnknown {
			return kind, lang
		}
	}

	// Extension-less markup that starts like a document is taken as HTML.
	trimmed := bytes.TrimSpace(content)
	if bytes.HasPrefix(trimmed, []byte("<!DOCTYPE")) || bytes.HasPrefix(trimmed, []byte("<html")) {
		return KindHTML, "HTML"
	}

	return KindUnknown, ""
}

func kindOf(language string) Kind {
	switch strings.ToLower(language) {
	case "html", "html+razor", "html+erb", "html+php", "html+ecr", "html+eex", "xhtml":
		return KindHTML
	case "markdown", "rmarkdown":
		return KindMarkdown
	default:
		return KindUnknown
	}
}

func languageOrUnknown(language string) string {
	if language == "" {
		return "unknown language"
	}
	return language
}

// IsVendor reports whether path looks like vendored or generated third-party
// content, such as node_modules or vendor directories.
func IsVendor(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}
