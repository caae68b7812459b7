package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tagtree/internal/logging"
	"github.com/yaklabco/tagtree/pkg/reporter"
	"github.com/yaklabco/tagtree/pkg/runner"
)

type benchFlags struct {
	runFlags
	iterations int
	format     string
}

func newBenchCommand() *cobra.Command {
	flags := &benchFlags{}

	cmd := &cobra.Command{
		Use:   "bench [paths...]",
		Short: "Time tokenizing and tree building per file",
		Long: `Load each file once, then tokenize it and build its tree repeatedly,
timing the two stages separately. The table shows mean durations.

Examples:
  tagtree bench pages/                    # Default iteration count
  tagtree bench -n 1000 page.html         # More iterations
  tagtree bench --format json pages/ > bench.json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, args, flags)
		},
	}

	addRunFlags(cmd, &flags.runFlags)
	cmd.Flags().IntVarP(&flags.iterations, "iterations", "n", runner.DefaultIterations, "iterations per stage")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runBench(cmd *cobra.Command, args []string, flags *benchFlags) error {
	if flags.iterations <= 0 {
		return &usageError{err: errNonPositive("iterations", flags.iterations)}
	}

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return &usageError{err: err}
	}

	sess, err := newSession(cmd, flags.toConfig(cmd))
	if err != nil {
		return err
	}

	sess.logger.Debug("starting bench",
		logging.FieldPaths, args,
		logging.FieldIterations, flags.iterations,
	)

	result, err := runner.New(sess.cfg).Bench(sess.ctx, sess.runOptions(args, flags.vendored), flags.iterations)
	if err != nil {
		return err
	}

	var failed int
	err = sess.withOutput(cmd, func(w io.Writer) error {
		rep := reporter.NewBenchReporter(sess.reporterOptions(cmd, w, format))
		failed, err = rep.Report(sess.ctx, result)
		return err
	})
	if err != nil {
		return err
	}

	return failuresError(failed)
}

func errNonPositive(name string, value int) error {
	return fmt.Errorf("%s must be positive, got %d", name, value)
}
