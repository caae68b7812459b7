package pretty_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tagtree/internal/ui/pretty"
	"github.com/yaklabco/tagtree/pkg/runner"
)

func TestTableFormatter_FormatBench(t *testing.T) {
	t.Parallel()

	result := &runner.BenchResult{
		Iterations: 10,
		Files: []runner.FileBench{
			{
				Path:     "/work/site/index.html",
				Bytes:    2048,
				Tokens:   120,
				Nodes:    90,
				Tokenize: runner.Timing{Runs: 10, Total: 500 * time.Microsecond},
				Build:    runner.Timing{Runs: 10, Total: 200 * time.Microsecond},
			},
			{Path: "/work/site/broken.html", Error: errors.New("no root")},
		},
	}

	rows := pretty.BenchRows(result, func(p string) string {
		return strings.TrimPrefix(p, "/work/")
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "site/index.html", rows[0].File)
	assert.Equal(t, 50*time.Microsecond, rows[0].Tokenize)
	assert.Equal(t, 20*time.Microsecond, rows[0].Build)

	out := pretty.NewTableFormatter(pretty.NewStyles(false), 120).FormatBench(rows, result.Iterations)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)

	assert.True(t, strings.HasPrefix(lines[0], " FILE"))
	assert.Contains(t, lines[0], "TOKENIZE")
	assert.Equal(t, strings.Repeat("=", len(lines[0])), lines[1])
	assert.Contains(t, lines[2], "site/index.html")
	assert.Contains(t, lines[2], "50µs")
	assert.Contains(t, lines[2], "20µs")
	assert.Contains(t, lines[3], "error: no root")
	assert.Equal(t, " mean of 10 iterations per stage", lines[5])
}

func TestTableFormatter_NarrowTerminal(t *testing.T) {
	t.Parallel()

	long := "/" + strings.Repeat("deep/", 30) + "page.html"
	rows := []pretty.BenchRow{{File: long, Tokens: 1}}

	out := pretty.NewTableFormatter(pretty.NewStyles(false), 80).FormatBench(rows, 1)
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines[2], "...")
	assert.Contains(t, lines[2], "page.html")
	assert.LessOrEqual(t, len(lines[1]), 80)
}

func TestTableFormatter_Empty(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 0)
	assert.Empty(t, formatter.FormatBench(nil, 1))
	assert.Nil(t, pretty.BenchRows(nil, nil))
}
