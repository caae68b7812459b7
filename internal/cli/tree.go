package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tagtree/pkg/config"
	"github.com/yaklabco/tagtree/pkg/reporter"
)

type treeFlags struct {
	runFlags
	format   string
	indent   int
	keepText bool
	width    int
	compact  bool
}

func newTreeCommand() *cobra.Command {
	flags := &treeFlags{}

	cmd := &cobra.Command{
		Use:   "tree [paths...]",
		Short: "Print the element tree of HTML and Markdown files",
		Long:  treeLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args, flags)
		},
	}

	addRunFlags(cmd, &flags.runFlags)
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, summary")
	cmd.Flags().IntVar(&flags.indent, "indent", 0, "spaces per nesting level (0 = config default)")
	cmd.Flags().BoolVar(&flags.keepText, "keep-text", false, "print text nodes without trimming whitespace")
	cmd.Flags().IntVar(&flags.width, "width", 0, "truncate text lines to this width (0 = terminal, -1 = never)")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")

	return cmd
}

const treeLongDescription = `Tokenize each file and print the rebuilt element tree.

By default, processes all .html, .htm, .xhtml, .md and .markdown files in
the current directory and subdirectories. Files without a <html root are
reported as failures unless --scan-preamble is set.

Examples:
  tagtree tree                      # Every document under the current directory
  tagtree tree index.html           # A single file
  tagtree tree --format json site/  # JSON trees for CI
  tagtree tree --format summary     # Aggregate statistics only
  tagtree tree -o tree.txt docs/    # Write output to a file`

func runTree(cmd *cobra.Command, args []string, flags *treeFlags) error {
	if flags.format != "" && !config.OutputFormat(flags.format).IsValid() {
		return &usageError{err: errInvalidTreeFormat(config.OutputFormat(flags.format))}
	}

	cliCfg := flags.toConfig(cmd)
	cliCfg.Format = config.OutputFormat(flags.format)
	cliCfg.Indent = flags.indent
	if cmd.Flags().Changed("keep-text") {
		cliCfg.TrimText = config.Bool(!flags.keepText)
	}

	sess, err := newSession(cmd, cliCfg)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(sess.cfg.Format))
	if err != nil || format == reporter.FormatTokens {
		return &usageError{err: errInvalidTreeFormat(sess.cfg.Format)}
	}

	result, err := sess.run(args, flags.vendored)
	if err != nil {
		return err
	}

	err = sess.withOutput(cmd, func(w io.Writer) error {
		opts := sess.reporterOptions(cmd, w, format)
		opts.Width = flags.width
		opts.Compact = flags.compact

		rep, err := reporter.New(opts)
		if err != nil {
			return err
		}
		_, err = rep.Report(sess.ctx, result)
		return err
	})
	if err != nil {
		return err
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return failuresError(len(result.Failures()))
	}

	return nil
}

func errInvalidTreeFormat(format config.OutputFormat) error {
	return fmt.Errorf("invalid format %q; valid formats: text, json, summary", format)
}
