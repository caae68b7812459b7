package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/tagtree/internal/configloader"
	"github.com/yaklabco/tagtree/internal/logging"
	"github.com/yaklabco/tagtree/pkg/config"
	"github.com/yaklabco/tagtree/pkg/fsutil"
	"github.com/yaklabco/tagtree/pkg/reporter"
	"github.com/yaklabco/tagtree/pkg/runner"
)

// outputFilePermissions is the file mode for --output files.
const outputFilePermissions = 0o644

// runFlags are the flags shared by commands that process documents.
type runFlags struct {
	scanPreamble bool
	flavor       string
	ignore       []string
	extensions   []string
	jobs         int
	maxDepth     int
	maxFileSize  int64
	output       string
	vendored     bool
}

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().BoolVar(&flags.scanPreamble, "scan-preamble", false,
		"tokenize content before the first <html marker")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "Markdown flavor for .md inputs: commonmark, gfm")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to process in directories")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "maximum element nesting (0 = config or unlimited)")
	cmd.Flags().Int64Var(&flags.maxFileSize, "max-file-size", 0, "largest input accepted in bytes (0 = config default)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write output to a file instead of stdout")
	cmd.Flags().BoolVar(&flags.vendored, "include-vendored", false, "do not skip vendored paths such as node_modules")
}

// toConfig converts explicitly set flags into a CLI config layer.
func (f *runFlags) toConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		Flavor:      config.Flavor(f.flavor),
		Jobs:        f.jobs,
		MaxDepth:    f.maxDepth,
		MaxFileSize: f.maxFileSize,
		Output:      f.output,
	}
	if cmd.Flags().Changed("scan-preamble") {
		cfg.ScanPreamble = config.Bool(f.scanPreamble)
	}
	if cmd.Flags().Changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if cmd.Flags().Changed("ext") {
		cfg.Extensions = f.extensions
	}
	return cfg
}

// session is the resolved state a command runs with.
type session struct {
	ctx     context.Context
	cfg     *config.Config
	workDir string
	color   string
	logger  *log.Logger
}

// newSession loads configuration layered under cliCfg.
func newSession(cmd *cobra.Command, cliCfg *config.Config) (*session, error) {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, loadResult.LoadedFrom)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	return &session{
		ctx:     ctx,
		cfg:     loadResult.Config,
		workDir: workDir,
		color:   colorMode,
		logger:  logger,
	}, nil
}

func (s *session) runOptions(paths []string, vendored bool) runner.Options {
	opts := runner.FromConfig(s.cfg, paths)
	opts.WorkingDir = s.workDir
	opts.IncludeVendored = vendored
	return opts
}

// run processes paths and returns the result. Discovery errors abort.
func (s *session) run(paths []string, vendored bool) (*runner.Result, error) {
	opts := s.runOptions(paths, vendored)

	s.logger.Debug("starting run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
	)

	result, err := runner.New(s.cfg).Run(s.ctx, opts)
	if err != nil {
		return nil, errors.Join(errors.New("run failed"), err)
	}

	s.logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldTokens, result.Stats.Tokens,
	)
	return result, nil
}

// reporterOptions returns options writing to w.
func (s *session) reporterOptions(cmd *cobra.Command, w io.Writer, format reporter.Format) reporter.Options {
	return reporter.Options{
		Writer:      w,
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       s.color,
		Indent:      s.cfg.Indent,
		KeepText:    !s.cfg.TrimTextEnabled(),
		ShowSummary: true,
		WorkingDir:  s.workDir,
	}
}

// withOutput calls write with the command's stdout, or with a buffer
// that is written atomically to the configured output file.
func (s *session) withOutput(cmd *cobra.Command, write func(w io.Writer) error) error {
	if s.cfg.Output == "" {
		return write(cmd.OutOrStdout())
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}

	if err := fsutil.WriteAtomic(s.ctx, s.cfg.Output, buf.Bytes(), outputFilePermissions); err != nil {
		return &ioError{err: fmt.Errorf("write output: %w", err)}
	}
	s.logger.Debug("wrote output", logging.FieldOutput, s.cfg.Output, logging.FieldBytes, buf.Len())
	return nil
}

// failuresError converts failed files into ErrParseFailures.
func failuresError(failed int) error {
	if failed > 0 {
		return fmt.Errorf("%w: %d failed", ErrParseFailures, failed)
	}
	return nil
}
