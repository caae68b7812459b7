package treebuilder

import (
	"errors"
	"fmt"

	"github.com/yaklabco/tagtree/pkg/htmlast"
)

var (
	// ErrNoTokens is returned for an empty token sequence.
	ErrNoTokens = errors.New("no tokens to build from")

	// ErrUnexpectedClose is returned when a close tag appears where a
	// node must start.
	ErrUnexpectedClose = errors.New("unexpected close tag")

	// ErrUnclosed is returned when the sequence ends inside an element.
	ErrUnclosed = errors.New("element is not closed")

	// ErrMaxDepth is returned when nesting exceeds Options.MaxDepth.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")

	// ErrCountMismatch is returned by Verify.
	ErrCountMismatch = errors.New("token count mismatch")
)

// StructuralError reports where in the token sequence building failed.
type StructuralError struct {
	// Err is one of the sentinel errors of this package.
	Err error

	// Index is the position of Token in the sequence.
	Index int

	// Token is the offending token: the stray close tag, the unclosed
	// opener, or the opener that went too deep.
	Token htmlast.Token
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("%v: %v at token %d", e.Err, e.Token, e.Index)
}

// Unwrap returns the underlying sentinel error.
func (e *StructuralError) Unwrap() error {
	return e.Err
}
