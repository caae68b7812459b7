package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tagtree/pkg/config"
	"github.com/yaklabco/tagtree/pkg/htmlast"
	"github.com/yaklabco/tagtree/pkg/reporter"
)

type tokensFlags struct {
	runFlags
	kinds []string
}

func newTokensCommand() *cobra.Command {
	flags := &tokensFlags{}

	cmd := &cobra.Command{
		Use:   "tokens [paths...]",
		Short: "List the tokens of HTML and Markdown files",
		Long: `Tokenize each file and list its tokens with their kind and byte span.

Tokens are listed even for files whose tree cannot be built, which helps
locate a stray close tag or an element that is never closed.

Examples:
  tagtree tokens page.html                 # Every token
  tagtree tokens --kind OpenTag page.html  # Only open tags
  tagtree tokens --kind Text,VoidTag docs/`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, flags)
		},
	}

	addRunFlags(cmd, &flags.runFlags)
	cmd.Flags().StringSliceVar(&flags.kinds, "kind", nil, "token kinds to list: OpenTag, CloseTag, VoidTag, Text")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, flags *tokensFlags) error {
	kinds, err := parseKinds(flags.kinds)
	if err != nil {
		return &usageError{err: err}
	}

	cliCfg := flags.toConfig(cmd)
	cliCfg.Format = config.FormatText

	sess, err := newSession(cmd, cliCfg)
	if err != nil {
		return err
	}

	result, err := sess.run(args, flags.vendored)
	if err != nil {
		return err
	}

	err = sess.withOutput(cmd, func(w io.Writer) error {
		opts := sess.reporterOptions(cmd, w, reporter.FormatTokens)
		opts.Kinds = kinds

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

func parseKinds(names []string) ([]htmlast.TokenKind, error) {
	kinds := make([]htmlast.TokenKind, 0, len(names))
	for _, name := range names {
		kind, ok := htmlast.ParseTokenKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown token kind %q; valid kinds: OpenTag, CloseTag, VoidTag, Text", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
