package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaklabco/tagtree/pkg/htmlast"
	"github.com/yaklabco/tagtree/pkg/runner"
)

// jsonVersion is the schema version of JSON output.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string    `json:"path"`
	Kind     string    `json:"kind,omitempty"`
	Language string    `json:"language,omitempty"`
	Tokens   int       `json:"tokens"`
	Nodes    int       `json:"nodes"`
	MaxDepth int       `json:"maxDepth"`
	Tree     *JSONNode `json:"tree,omitempty"`
	Stage    string    `json:"stage,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// JSONNode is a tree node. Elements have a name, text nodes have text.
type JSONNode struct {
	Type       string      `json:"type"`
	Name       string      `json:"name,omitempty"`
	Void       bool        `json:"void,omitempty"`
	Text       string      `json:"text,omitempty"`
	TokenCount int         `json:"tokenCount"`
	Children   []*JSONNode `json:"children,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int            `json:"filesDiscovered"`
	FilesProcessed  int            `json:"filesProcessed"`
	FilesFailed     int            `json:"filesFailed"`
	FailuresByStage map[string]int `json:"failuresByStage"`
	Tokens          int            `json:"tokens"`
	Nodes           int            `json:"nodes"`
	MaxDepth        int            `json:"maxDepth"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesFailed, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{FailuresByStage: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:     r.opts.relPath(file.Path),
			Tokens:   len(file.Tokens),
			Nodes:    file.Tree.Nodes,
			MaxDepth: file.Tree.MaxDepth,
		}
		if file.Doc != nil {
			fileResult.Kind = string(file.Doc.Kind)
			fileResult.Language = file.Doc.Language
		}
		if file.Error != nil {
			fileResult.Stage = string(file.Stage)
			fileResult.Error = file.Error.Error()
		}
		if file.Root != nil {
			fileResult.Tree = r.convertTree(file.Root)
		}
		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary.FilesDiscovered = stats.FilesDiscovered
	output.Summary.FilesProcessed = stats.FilesProcessed
	output.Summary.FilesFailed = stats.FilesFailed
	output.Summary.Tokens = stats.Tokens
	output.Summary.Nodes = stats.Nodes
	output.Summary.MaxDepth = stats.MaxDepth
	for stage, n := range stats.FailuresByStage {
		output.Summary.FailuresByStage[string(stage)] = n
	}

	return output
}

// convertTree mirrors root as JSONNodes without recursion.
func (r *JSONReporter) convertTree(root *htmlast.Node) *JSONNode {
	var (
		top   *JSONNode
		stack []*JSONNode
	)

	_ = htmlast.WalkWithContext(root,
		func(n *htmlast.Node) error {
			node := &JSONNode{TokenCount: n.TokenCount}
			if n.IsText() {
				node.Type = "text"
				node.Text = n.Text
				if !r.opts.KeepText {
					node.Text = strings.TrimSpace(n.Text)
				}
			} else {
				node.Type = "element"
				node.Name = n.Tag.Name
				node.Void = n.Void
			}

			if len(stack) == 0 {
				top = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
			return nil
		},
		func(*htmlast.Node) error {
			stack = stack[:len(stack)-1]
			return nil
		},
	)

	return top
}
