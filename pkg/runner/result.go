package runner

import (
	"time"

	"github.com/yaklabco/tagtree/pkg/htmlast"
	"github.com/yaklabco/tagtree/pkg/source"
)

// Stage names the step of per-file processing.
type Stage string

const (
	StageLoad     Stage = "load"
	StageTokenize Stage = "tokenize"
	StageBuild    Stage = "build"
)

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	// Path is the absolute file path.
	Path string

	// Doc is the loaded document. Nil if loading failed.
	Doc *source.Document

	// Tokens is the token sequence. Nil if tokenizing failed.
	Tokens []htmlast.Token

	// Root is the built tree. Nil if building failed.
	Root *htmlast.Node

	// Tree summarizes Root.
	Tree htmlast.Stats

	TokenizeDuration time.Duration
	BuildDuration    time.Duration

	// Stage is the step that failed, set together with Error.
	Stage Stage

	// Error is set if the file could not be processed.
	Error error
}

// Failed reports whether the file could not be processed.
func (o *FileOutcome) Failed() bool {
	return o.Error != nil
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesFailed     int

	// FailuresByStage counts failed files per Stage.
	FailuresByStage map[Stage]int

	Bytes  int64
	Tokens int
	Nodes  int

	// MaxDepth is the deepest tree seen across all files.
	MaxDepth int

	TokenizeDuration time.Duration
	BuildDuration    time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	return len(r.Failures()) > 0
}

// Failures returns the failed outcomes in path order.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}

	var failed []FileOutcome
	for _, outcome := range r.Files {
		if outcome.Failed() {
			failed = append(failed, outcome)
		}
	}
	return failed
}

func newStats() Stats {
	return Stats{FailuresByStage: make(map[Stage]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Doc != nil && outcome.Doc.Info != nil {
		r.Stats.Bytes += outcome.Doc.Info.Size
	}
	r.Stats.TokenizeDuration += outcome.TokenizeDuration
	r.Stats.BuildDuration += outcome.BuildDuration

	if outcome.Error != nil {
		r.Stats.FilesFailed++
		r.Stats.FailuresByStage[outcome.Stage]++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.Tokens += len(outcome.Tokens)
	r.Stats.Nodes += outcome.Tree.Nodes
	r.Stats.MaxDepth = max(r.Stats.MaxDepth, outcome.Tree.MaxDepth)
}
