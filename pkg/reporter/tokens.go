package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/tagtree/internal/ui/pretty"
	"github.com/yaklabco/tagtree/pkg/runner"
)

// TokensReporter lists each file's tokens, one per line.
type TokensReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTokensReporter creates a new token listing reporter.
func NewTokensReporter(opts Options) *TokensReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TokensReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. Files that failed after tokenizing still
// have their tokens listed, followed by the error.
func (r *TokensReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var failed int
	for _, file := range result.Files {
		path := r.opts.relPath(file.Path)

		if len(result.Files) > 1 {
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Tokens)))
		}

		for i, tok := range file.Tokens {
			if r.opts.wantKind(tok.Kind) {
				fmt.Fprintln(r.bw, r.styles.FormatToken(i, tok))
			}
		}

		if file.Error != nil {
			fmt.Fprintln(r.bw, r.styles.FormatFileError(path, file.Error))
			failed++
		}

		if len(result.Files) > 1 {
			fmt.Fprintln(r.bw)
		}
	}

	return failed, nil
}
