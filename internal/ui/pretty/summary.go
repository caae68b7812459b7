package pretty

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/tagtree/pkg/runner"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files processed, 412 tokens, 260 nodes, max depth 9".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files found") + "\n"
	}

	var parts []string

	processed := fmt.Sprintf("%d %s processed", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))
	if stats.FilesFailed == 0 {
		parts = append(parts, s.Success.Render(processed))
	} else {
		parts = append(parts, processed)
	}

	parts = append(parts,
		fmt.Sprintf("%d tokens", stats.Tokens),
		fmt.Sprintf("%d nodes", stats.Nodes),
		fmt.Sprintf("max depth %d", stats.MaxDepth),
	)

	line := strings.Join(parts, ", ")

	if stats.FilesFailed > 0 {
		failed := fmt.Sprintf("%d failed", stats.FilesFailed)
		if stages := formatStages(stats.FailuresByStage); stages != "" {
			failed += " (" + stages + ")"
		}
		line += ", " + s.Failure.Render(failed)
	}

	return line + "\n"
}

// formatStages lists failure counts in processing order.
func formatStages(byStage map[runner.Stage]int) string {
	order := []runner.Stage{runner.StageLoad, runner.StageTokenize, runner.StageBuild}

	var parts []string
	for _, stage := range order {
		if n := byStage[stage]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, stage))
		}
	}

	// Unknown stages sort after the known ones.
	var extra []string
	for stage, n := range byStage {
		if n > 0 && !slices.Contains(order, stage) {
			extra = append(extra, fmt.Sprintf("%d %s", n, stage))
		}
	}
	slices.Sort(extra)

	return strings.Join(append(parts, extra...), ", ")
}

// FormatFileHeader formats the heading printed above a file's tree.
func (s *Styles) FormatFileHeader(path string, tokens int) string {
	return s.FilePath.Render(path) + s.Dim.Render(fmt.Sprintf(" (%d tokens)", tokens))
}

// FormatFileError formats a per-file failure line.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s", s.FilePath.Render(path), s.Error.Render("error: "+err.Error()))
}

// FormatStats formats a labelled block of aggregate statistics.
func (s *Styles) FormatStats(stats runner.Stats) string {
	rows := []struct {
		label string
		value string
	}{
		{"Files", fmt.Sprintf("%d processed, %d failed", stats.FilesProcessed, stats.FilesFailed)},
		{"Bytes", fmt.Sprintf("%d", stats.Bytes)},
		{"Tokens", fmt.Sprintf("%d", stats.Tokens)},
		{"Nodes", fmt.Sprintf("%d", stats.Nodes)},
		{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)},
		{"Tokenize", stats.TokenizeDuration.String()},
		{"Build", stats.BuildDuration.String()},
	}

	var sb strings.Builder
	sb.WriteString(s.SummaryTitle.Render("Summary"))
	sb.WriteString("\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "  %s %s\n",
			s.Dim.Render(fmt.Sprintf("%-10s", row.label+":")),
			s.SummaryValue.Render(row.value),
		)
	}

	return sb.String()
}
