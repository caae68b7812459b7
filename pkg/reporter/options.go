package reporter

import (
	"io"
	"os"
	"path/filepath"

	"github.com/yaklabco/tagtree/pkg/htmlast"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// Indent is the number of spaces per tree level.
	Indent int

	// KeepText prints text nodes without trimming.
	KeepText bool

	// Width truncates text lines in tree output. Zero uses the terminal
	// width when writing to a terminal, negative disables truncation.
	Width int

	// Kinds restricts token listings to these kinds. Empty means all.
	Kinds []htmlast.TokenKind

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Compact uses compact/minified output where applicable.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		Indent:      htmlast.DefaultIndent,
		ShowSummary: true,
	}
}

// relPath makes path relative to WorkingDir when possible.
func (o Options) relPath(path string) string {
	if o.WorkingDir == "" {
		return path
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil {
		return path
	}
	return rel
}

// wantKind reports whether tokens of kind are listed.
func (o Options) wantKind(kind htmlast.TokenKind) bool {
	if len(o.Kinds) == 0 {
		return true
	}
	for _, k := range o.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
