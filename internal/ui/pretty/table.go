package pretty

import (
	"fmt"
	"strings"
	"time"

	"github.com/yaklabco/tagtree/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	numColumnWidth   = 8
	timeColumnWidth  = 11
	numColumnCount   = 3 // BYTES, TOKENS, NODES
	timeColumnCount  = 2 // TOKENIZE, BUILD
	minFileWidth     = 20
	heavySeparator   = "="
	lightSeparator   = "-"
	truncationMarker = "..."
)

// BenchRow is one row of a bench table.
type BenchRow struct {
	File     string
	Bytes    int
	Tokens   int
	Nodes    int
	Tokenize time.Duration
	Build    time.Duration
	Err      error
}

// TableFormatter formats bench results as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = DefaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// BenchRows converts bench results into table rows using mean timings.
// Paths are passed through rel, which may be nil.
func BenchRows(result *runner.BenchResult, rel func(string) string) []BenchRow {
	if result == nil {
		return nil
	}

	rows := make([]BenchRow, 0, len(result.Files))
	for _, file := range result.Files {
		path := file.Path
		if rel != nil {
			path = rel(path)
		}
		rows = append(rows, BenchRow{
			File:     path,
			Bytes:    file.Bytes,
			Tokens:   file.Tokens,
			Nodes:    file.Nodes,
			Tokenize: file.Tokenize.Mean(),
			Build:    file.Build.Mean(),
			Err:      file.Error,
		})
	}
	return rows
}

// FormatBench formats rows as a table with a heading, a separator after
// the heading and a footer separator.
func (t *TableFormatter) FormatBench(rows []BenchRow, iterations int) string {
	if len(rows) == 0 {
		return ""
	}

	fileWidth := t.fileColumnWidth(rows)

	var builder strings.Builder

	header := fmt.Sprintf(" %-*s  %*s  %*s  %*s  %*s  %*s",
		fileWidth, "FILE",
		numColumnWidth, "BYTES",
		numColumnWidth, "TOKENS",
		numColumnWidth, "NODES",
		timeColumnWidth, "TOKENIZE",
		timeColumnWidth, "BUILD",
	)
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.separator(fileWidth, heavySeparator))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, fileWidth))
		builder.WriteString("\n")
	}

	builder.WriteString(t.separator(fileWidth, lightSeparator))
	builder.WriteString("\n")
	builder.WriteString(t.styles.Dim.Render(fmt.Sprintf(" mean of %d iterations per stage", iterations)))
	builder.WriteString("\n")

	return builder.String()
}

func (t *TableFormatter) formatRow(row BenchRow, fileWidth int) string {
	file := truncateFilePath(row.File, fileWidth)

	if row.Err != nil {
		content := fmt.Sprintf(" %-*s  error: %v", fileWidth, file, row.Err)
		return t.styles.TableErrorRow.Render(content)
	}

	return fmt.Sprintf(" %-*s  %*d  %*d  %*d  %*s  %*s",
		fileWidth, file,
		numColumnWidth, row.Bytes,
		numColumnWidth, row.Tokens,
		numColumnWidth, row.Nodes,
		timeColumnWidth, formatDuration(row.Tokenize),
		timeColumnWidth, formatDuration(row.Build),
	)
}

// fileColumnWidth fits the longest path, shrunk to the terminal width.
func (t *TableFormatter) fileColumnWidth(rows []BenchRow) int {
	width := minFileWidth
	for _, row := range rows {
		width = max(width, len(row.File))
	}

	fixed := numColumnWidth*numColumnCount + timeColumnWidth*timeColumnCount +
		tablePadding*(numColumnCount+timeColumnCount) + 1
	if width+fixed > t.termWidth {
		width = max(minFileWidth, t.termWidth-fixed)
	}
	return width
}

func (t *TableFormatter) separator(fileWidth int, char string) string {
	total := fileWidth + 1 + numColumnWidth*numColumnCount + timeColumnWidth*timeColumnCount +
		tablePadding*(numColumnCount+timeColumnCount)
	return t.styles.TableSeparator.Render(strings.Repeat(char, total))
}

// formatDuration rounds d for display.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(time.Microsecond).String()
	default:
		return d.String()
	}
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= len(truncationMarker) {
		return path[len(path)-maxLen:]
	}
	return truncationMarker + path[len(path)-maxLen+len(truncationMarker):]
}
