package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/tagtree/internal/ui/pretty"
	"github.com/yaklabco/tagtree/pkg/runner"
)

// TextReporter prints each file's tree as indented, styled text.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	tree   *pretty.TreeFormatter
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	width := opts.Width
	if width == 0 && pretty.IsTerminal(opts.Writer) {
		width = pretty.TerminalWidth(opts.Writer)
	}

	return &TextReporter{
		opts:   opts,
		styles: styles,
		tree: pretty.NewTreeFormatter(styles, pretty.TreeOptions{
			Indent:   opts.Indent,
			KeepText: opts.KeepText,
			Width:    max(width, 0),
		}),
		bw: bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to process."))
		}
		return 0, nil
	}

	// A single file prints its bare tree, as a header adds nothing.
	single := len(result.Files) == 1

	var failed int
	for _, file := range result.Files {
		path := r.opts.relPath(file.Path)

		if file.Error != nil {
			fmt.Fprintln(r.bw, r.styles.FormatFileError(path, file.Error))
			failed++
			continue
		}

		if !single {
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Tokens)))
		}
		if err := r.tree.Format(r.bw, file.Root); err != nil {
			return failed, fmt.Errorf("format %s: %w", path, err)
		}
		fmt.Fprintln(r.bw)
		if !single {
			fmt.Fprintln(r.bw)
		}
	}

	if r.opts.ShowSummary && !single {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return failed, nil
}
