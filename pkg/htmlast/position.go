package htmlast

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Slice returns the text covered by the range, or "" if the range does not fit.
func (r SourceRange) Slice(content string) string {
	if r.StartOffset < 0 || r.EndOffset > len(content) || r.StartOffset > r.EndOffset {
		return ""
	}
	return content[r.StartOffset:r.EndOffset]
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// PositionAt converts a byte offset into a line/column position.
// Offsets outside the content return an invalid position.
func PositionAt(content string, offset int) Position {
	if offset < 0 || offset > len(content) {
		return Position{}
	}

	line, col := 1, 1
	for i := range offset {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}

	return Position{Line: line, Column: col}
}
