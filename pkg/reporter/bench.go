package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yaklabco/tagtree/internal/ui/pretty"
	"github.com/yaklabco/tagtree/pkg/runner"
)

// BenchReporter writes bench results as a table or as JSON.
type BenchReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// JSONBench is the JSON form of a bench run.
type JSONBench struct {
	Iterations int             `json:"iterations"`
	Files      []JSONBenchFile `json:"files"`
}

// JSONBenchFile holds one file's timings, in nanoseconds.
type JSONBenchFile struct {
	Path     string      `json:"path"`
	Bytes    int         `json:"bytes"`
	Tokens   int         `json:"tokens"`
	Nodes    int         `json:"nodes"`
	Tokenize *JSONTiming `json:"tokenize,omitempty"`
	Build    *JSONTiming `json:"build,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// JSONTiming is a stage timing in nanoseconds.
type JSONTiming struct {
	Runs int           `json:"runs"`
	Mean time.Duration `json:"meanNs"`
	Min  time.Duration `json:"minNs"`
	Max  time.Duration `json:"maxNs"`
}

// NewBenchReporter creates a bench reporter. Only FormatJSON changes the
// output; every other format prints a table.
func NewBenchReporter(opts Options) *BenchReporter {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &BenchReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report writes result and returns the number of files that could not be
// measured.
func (r *BenchReporter) Report(_ context.Context, result *runner.BenchResult) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.BenchResult{}
	}

	var failed int
	for _, file := range result.Files {
		if file.Error != nil {
			failed++
		}
	}

	if r.opts.Format == FormatJSON {
		return failed, r.writeJSON(result)
	}

	if len(result.Files) == 0 {
		fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to benchmark."))
		return 0, nil
	}

	width := r.opts.Width
	if width <= 0 {
		width = pretty.TerminalWidth(r.opts.Writer)
	}
	table := pretty.NewTableFormatter(r.styles, width)
	fmt.Fprint(r.bw, table.FormatBench(pretty.BenchRows(result, r.opts.relPath), result.Iterations))

	return failed, nil
}

func (r *BenchReporter) writeJSON(result *runner.BenchResult) error {
	output := JSONBench{
		Iterations: result.Iterations,
		Files:      make([]JSONBenchFile, 0, len(result.Files)),
	}

	for _, file := range result.Files {
		entry := JSONBenchFile{
			Path:   r.opts.relPath(file.Path),
			Bytes:  file.Bytes,
			Tokens: file.Tokens,
			Nodes:  file.Nodes,
		}
		if file.Error != nil {
			entry.Error = file.Error.Error()
		} else {
			entry.Tokenize = jsonTiming(file.Tokenize)
			entry.Build = jsonTiming(file.Build)
		}
		output.Files = append(output.Files, entry)
	}

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func jsonTiming(t runner.Timing) *JSONTiming {
	return &JSONTiming{Runs: t.Runs, Mean: t.Mean(), Min: t.Min, Max: t.Max}
}
