package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/tagtree/internal/logging"
	"github.com/yaklabco/tagtree/pkg/config"
	"github.com/yaklabco/tagtree/pkg/htmlast"
	"github.com/yaklabco/tagtree/pkg/source"
	"github.com/yaklabco/tagtree/pkg/tokenizer"
	"github.com/yaklabco/tagtree/pkg/treebuilder"
)

// Runner processes documents into token sequences and trees.
// It is safe for concurrent use.
type Runner struct {
	// Loader reads and renders input files.
	Loader *source.Loader

	Tokenize tokenizer.Options
	Build    treebuilder.Options
}

// New creates a Runner configured from cfg. A nil cfg uses defaults.
func New(cfg *config.Config) *Runner {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	return &Runner{
		Loader: source.NewLoader(source.Options{
			Flavor:      cfg.Flavor,
			MaxFileSize: cfg.MaxFileSize,
		}),
		Tokenize: tokenizer.Options{ScanPreamble: cfg.ScanPreambleEnabled()},
		Build:    treebuilder.Options{MaxDepth: cfg.MaxDepth},
	}
}

// Run discovers files under opts.Paths and processes them concurrently.
// Outcomes are returned in path order. Per-file failures are recorded in
// the outcome and do not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logging.FromContext(ctx).Debug("processing files",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs,
	)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.ProcessFile(ctx, path)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ProcessFile loads, tokenizes and builds a single file.
func (r *Runner) ProcessFile(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	doc, err := r.Loader.Load(ctx, path)
	if err != nil {
		outcome.Stage, outcome.Error = StageLoad, err
		return outcome
	}

	r.process(ctx, doc, &outcome)
	return outcome
}

// ProcessDocument tokenizes and builds an already loaded document.
func (r *Runner) ProcessDocument(ctx context.Context, doc *source.Document) FileOutcome {
	outcome := FileOutcome{Path: doc.Path}
	r.process(ctx, doc, &outcome)
	return outcome
}

func (r *Runner) process(ctx context.Context, doc *source.Document, outcome *FileOutcome) {
	logger := logging.FromContext(ctx)
	outcome.Doc = doc

	start := time.Now()
	tokens, err := tokenizer.TokenizeWithOptions(doc.Markup, r.Tokenize)
	outcome.TokenizeDuration = time.Since(start)
	if err != nil {
		outcome.Stage, outcome.Error = StageTokenize, fmt.Errorf("tokenize %s: %w", doc.Path, err)
		logger.Debug("tokenize failed", logging.FieldPath, doc.Path, logging.FieldError, err)
		return
	}
	outcome.Tokens = tokens

	start = time.Now()
	root, err := treebuilder.BuildWithOptions(tokens, r.Build)
	outcome.BuildDuration = time.Since(start)
	if err != nil {
		outcome.Stage, outcome.Error = StageBuild, fmt.Errorf("build %s: %w", doc.Path, err)
		logger.Debug("build failed", logging.FieldPath, doc.Path, logging.FieldError, err)
		return
	}
	outcome.Root = root
	outcome.Tree = htmlast.Collect(root)

	logger.Debug("processed file",
		logging.FieldPath, doc.Path,
		logging.FieldLanguage, doc.Language,
		logging.FieldTokens, len(tokens),
		logging.FieldNodes, outcome.Tree.Nodes,
		logging.FieldDepth, outcome.Tree.MaxDepth,
	)
}
