package cli

import (
	"errors"

	"github.com/yaklabco/tagtree/internal/configloader"
	"github.com/yaklabco/tagtree/pkg/runner"
)

// ErrParseFailures is returned when at least one file could not be
// tokenized or built into a tree.
var ErrParseFailures = errors.New("some files failed to parse")

// Exit codes for tagtree.
const (
	// ExitSuccess indicates every file was processed.
	ExitSuccess = 0

	// ExitParseFailures indicates the run completed but some files failed.
	ExitParseFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code for a finished run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitParseFailures
	}
	return ExitSuccess
}

// usageError marks errors caused by bad flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// ioError marks errors writing output.
type ioError struct {
	err error
}

func (e *ioError) Error() string { return e.err.Error() }
func (e *ioError) Unwrap() error { return e.err }

// ExitCodeFromError maps a command error to an exit code.
func ExitCodeFromError(err error) int {
	var (
		validationErr *configloader.ValidationError
		usageErr      *usageError
		ioErr         *ioError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrParseFailures):
		return ExitParseFailures
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.As(err, &usageErr):
		return ExitInvalidUsage
	case errors.As(err, &ioErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
