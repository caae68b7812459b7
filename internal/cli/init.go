package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tagtree/internal/configloader"
	"github.com/yaklabco/tagtree/internal/logging"
	"github.com/yaklabco/tagtree/pkg/config"
	"github.com/yaklabco/tagtree/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new tagtree configuration file",
		Long: `Create a new .tagtree.yml configuration file in the current directory
with every setting documented at its default value.

Examples:
  tagtree init                       Create .tagtree.yml
  tagtree init --format json         Create .tagtree.json instead
  tagtree init --output custom.yml   Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: "+configloader.ProjectConfigFiles[0]+" or .tagtree.json)")

	return cmd
}

func runInit(ctx context.Context, flags *initFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return &usageError{err: fmt.Errorf("invalid format %q: must be yaml or json", flags.format)}
	}

	outputPath := flags.output
	if outputPath == "" {
		if flags.format == "json" {
			outputPath = ".tagtree.json"
		} else {
			outputPath = configloader.ProjectConfigFiles[0]
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	exists := false
	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return &usageError{err: fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)}
		}
		exists = true
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Format: flags.format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	changed, err := fsutil.WriteAtomicIfChanged(ctx, absPath, content, configFilePermissions)
	if err != nil {
		return &ioError{err: fmt.Errorf("write file: %w", err)}
	}

	switch {
	case !changed:
		logger.Info("configuration file already up to date", logging.FieldPath, outputPath)
	case exists:
		logger.Warn("overwrote existing file", logging.FieldPath, outputPath)
	default:
		logger.Info("created configuration file", logging.FieldPath, outputPath)
	}

	if flags.format == "json" {
		logger.Info("JSON output is a reference; tagtree reads YAML config files")
	}
	logger.Info("run 'tagtree tree' to print the element tree of your documents")

	return nil
}
