package pretty_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/tagtree/internal/ui/pretty"
	"github.com/yaklabco/tagtree/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name: "no files",
			want: "No files found\n",
		},
		{
			name:  "single file",
			stats: runner.Stats{FilesDiscovered: 1, FilesProcessed: 1, Tokens: 5, Nodes: 3, MaxDepth: 3},
			want:  "1 file processed, 5 tokens, 3 nodes, max depth 3\n",
		},
		{
			name: "with failures",
			stats: runner.Stats{
				FilesDiscovered: 4,
				FilesProcessed:  1,
				FilesFailed:     3,
				FailuresByStage: map[runner.Stage]int{runner.StageBuild: 1, runner.StageLoad: 2},
				Tokens:          8,
				Nodes:           6,
				MaxDepth:        4,
			},
			want: "1 file processed, 8 tokens, 6 nodes, max depth 4, 3 failed (2 load, 1 build)\n",
		},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatFileLines(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.html (12 tokens)", styles.FormatFileHeader("a.html", 12))
	assert.Equal(t, "a.html: error: boom", styles.FormatFileError("a.html", errors.New("boom")))
}

func TestFormatStats(t *testing.T) {
	t.Parallel()

	out := pretty.NewStyles(false).FormatStats(runner.Stats{
		FilesProcessed:   2,
		FilesFailed:      1,
		Bytes:            1024,
		Tokens:           40,
		Nodes:            30,
		MaxDepth:         6,
		TokenizeDuration: 3 * time.Millisecond,
		BuildDuration:    time.Millisecond,
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, []string{
		"Summary",
		"  Files:     2 processed, 1 failed",
		"  Bytes:     1024",
		"  Tokens:    40",
		"  Nodes:     30",
		"  Max depth: 6",
		"  Tokenize:  3ms",
		"  Build:     1ms",
	}, lines)
}
