// Package cli provides the Cobra command structure for tagtree.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tagtree/internal/configloader"
	"github.com/yaklabco/tagtree/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root tagtree command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "tagtree",
		Short: "Tokenize HTML and rebuild its element tree",
		Long: `tagtree splits HTML-like markup into open, close, void and text tokens
and rebuilds the element tree from them.

Comments and inline script bodies are skipped, malformed tags such as
template placeholders are dropped, and every tree node records how many
tokens it spans. Markdown files are rendered to HTML first.` + envHelp(),
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newTreeCommand())
	rootCmd.AddCommand(newTokensCommand())
	rootCmd.AddCommand(newBenchCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// envHelp lists the supported environment variables for the root help.
func envHelp() string {
	vars := configloader.ListEnvVars()

	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}

	var b strings.Builder
	b.WriteString("\n\nEnvironment:\n")
	for _, v := range vars {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, v.Name, v.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
