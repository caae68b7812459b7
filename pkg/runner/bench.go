package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/tagtree/internal/logging"
	"github.com/yaklabco/tagtree/pkg/htmlast"
	"github.com/yaklabco/tagtree/pkg/tokenizer"
	"github.com/yaklabco/tagtree/pkg/treebuilder"
)

// DefaultIterations is the bench iteration count used when none is given.
const DefaultIterations = 100

// Timing aggregates repeated measurements of one stage.
type Timing struct {
	Runs  int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

func (t *Timing) add(d time.Duration) {
	if t.Runs == 0 || d < t.Min {
		t.Min = d
	}
	if d > t.Max {
		t.Max = d
	}
	t.Total += d
	t.Runs++
}

// Mean returns the average duration, or zero if nothing was measured.
func (t Timing) Mean() time.Duration {
	if t.Runs == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Runs)
}

// FileBench is the timing result for one file.
type FileBench struct {
	Path   string
	Bytes  int
	Tokens int
	Nodes  int

	Tokenize Timing
	Build    Timing

	// Error is set if the file could not be loaded or processed once.
	Error error
}

// BenchResult is the outcome of a bench run, ordered by path.
type BenchResult struct {
	Iterations int
	Files      []FileBench
}

// Bench times tokenizing and tree building separately for every file
// discovered under opts. Each file is loaded once, then each stage is run
// iterations times. Files are measured concurrently, one file per worker.
func (r *Runner) Bench(ctx context.Context, opts Options, iterations int) (*BenchResult, error) {
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &BenchResult{
		Iterations: iterations,
		Files:      make([]FileBench, len(files)),
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		group.Go(func() error {
			result.Files[i] = r.benchFile(gctx, path, iterations)
			return gctx.Err()
		})
	}

	if err := group.Wait(); err != nil {
		return result, fmt.Errorf("bench cancelled: %w", err)
	}

	return result, nil
}

func (r *Runner) benchFile(ctx context.Context, path string, iterations int) FileBench {
	bench := FileBench{Path: path}

	doc, err := r.Loader.Load(ctx, path)
	if err != nil {
		bench.Error = err
		return bench
	}
	bench.Bytes = len(doc.Markup)

	// A single warm-up pass validates the input and provides the token
	// sequence that the build stage is timed against.
	tokens, err := tokenizer.TokenizeWithOptions(doc.Markup, r.Tokenize)
	if err != nil {
		bench.Error = fmt.Errorf("tokenize %s: %w", path, err)
		return bench
	}
	root, err := treebuilder.BuildWithOptions(tokens, r.Build)
	if err != nil {
		bench.Error = fmt.Errorf("build %s: %w", path, err)
		return bench
	}
	bench.Tokens = len(tokens)
	bench.Nodes = htmlast.Collect(root).Nodes

	for range iterations {
		if ctx.Err() != nil {
			return bench
		}

		start := time.Now()
		_, _ = tokenizer.TokenizeWithOptions(doc.Markup, r.Tokenize)
		bench.Tokenize.add(time.Since(start))

		start = time.Now()
		_, _ = treebuilder.BuildWithOptions(tokens, r.Build)
		bench.Build.add(time.Since(start))
	}

	logging.FromContext(ctx).Debug("benchmarked file",
		logging.FieldPath, path,
		logging.FieldIterations, iterations,
		logging.FieldDuration, bench.Tokenize.Mean()+bench.Build.Mean(),
	)

	return bench
}
