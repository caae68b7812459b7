package tokenizer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRoot is returned when the input contains no "<html" marker.
	ErrNoRoot = errors.New("no <html root marker in input")

	// ErrUnterminated is returned when a comment, script body or tag
	// runs to the end of input without its terminator.
	ErrUnterminated = errors.New("unterminated construct")
)

// Constructs reported by ScanError.
const (
	ConstructComment = "comment"
	ConstructScript  = "script"
	ConstructTag     = "tag"
)

// ScanError describes an unterminated construct.
type ScanError struct {
	// Construct is one of ConstructComment, ConstructScript or ConstructTag.
	Construct string

	// Offset is the byte offset where the construct starts.
	Offset int
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("unterminated %s starting at offset %d", e.Construct, e.Offset)
}

// Unwrap returns ErrUnterminated.
func (e *ScanError) Unwrap() error {
	return ErrUnterminated
}
