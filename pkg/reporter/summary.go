package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/tagtree/internal/ui/pretty"
	"github.com/yaklabco/tagtree/pkg/runner"
)

// SummaryReporter prints aggregate statistics and failed files only.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	fmt.Fprint(r.bw, r.styles.FormatStats(result.Stats))

	failures := result.Failures()
	if len(failures) == 0 {
		return 0, nil
	}

	fmt.Fprintln(r.bw)
	fmt.Fprintln(r.bw, r.styles.SummaryTitle.Render("Failures"))
	for _, file := range failures {
		fmt.Fprintf(r.bw, "  %s\n", r.styles.FormatFileError(r.opts.relPath(file.Path), file.Error))
	}

	return len(failures), nil
}
