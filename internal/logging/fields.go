// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Document fields.
	FieldLanguage = "language"
	FieldBytes    = "bytes"
	FieldTokens   = "tokens"
	FieldNodes    = "nodes"
	FieldDepth    = "depth"

	// Run fields.
	FieldJobs       = "jobs"
	FieldIterations = "iterations"
	FieldDuration   = "duration"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesFailed     = "files_failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
