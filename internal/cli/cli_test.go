package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tagtree/internal/cli"
	"github.com/yaklabco/tagtree/internal/configloader"
	"github.com/yaklabco/tagtree/pkg/runner"
	"github.com/yaklabco/tagtree/pkg/tokenizer"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}
}

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "tagtree", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"tree", "tokens", "bench", "init", "version"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
}

func TestRunFlags(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCommand(testInfo())
	shared := []string{
		"scan-preamble", "flavor", "ignore", "ext", "jobs",
		"max-depth", "max-file-size", "output", "include-vendored",
	}

	for _, name := range []string{"tree", "tokens", "bench"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)

		for _, flag := range shared {
			assert.NotNil(t, sub.Flags().Lookup(flag), "%s is missing --%s", name, flag)
		}
	}

	tree, _, err := root.Find([]string{"tree"})
	require.NoError(t, err)
	for _, flag := range []string{"format", "indent", "keep-text", "width", "compact"} {
		assert.NotNil(t, tree.Flags().Lookup(flag), "tree is missing --%s", flag)
	}

	bench, _, err := root.Find([]string{"bench"})
	require.NoError(t, err)
	iterations := bench.Flags().Lookup("iterations")
	require.NotNil(t, iterations)
	assert.Equal(t, "n", iterations.Shorthand)
	assert.Equal(t, fmt.Sprint(runner.DefaultIterations), iterations.DefValue)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "tagtree")
	assert.Contains(t, out, "test-version")
	assert.Contains(t, out, "test-commit")
	assert.Contains(t, out, "test-date")
}

func TestHelp(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "tagtree [command]")
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "tree")
	assert.Contains(t, out, "--color")
	assert.Contains(t, out, "TAGTREE_MAX_DEPTH")

	out, err = execute(t, "tree", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Examples:")
	assert.Contains(t, out, "--keep-text")
	assert.Contains(t, out, "Global Flags:")
}

func TestExitCodeFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"parse failures", fmt.Errorf("%w: 2 failed", cli.ErrParseFailures), cli.ExitParseFailures},
		{"config", errors.Join(errors.New("load"), &configloader.ValidationError{Field: "indent"}), cli.ExitConfigError},
		{"other", errors.New("boom"), cli.ExitInternalError},
		{"wrapped tokenizer error", fmt.Errorf("run: %w", tokenizer.ErrNoRoot), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromError(tt.err))
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil))
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(&runner.Result{
		Files: []runner.FileOutcome{{Path: "a.html"}},
	}))
	assert.Equal(t, cli.ExitParseFailures, cli.ExitCodeFromResult(&runner.Result{
		Files: []runner.FileOutcome{{Path: "a.html", Error: tokenizer.ErrNoRoot}},
	}))
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(file, []byte("<html></html>"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{"tree format", []string{"tree", "--format", "xml", file}},
		{"tree tokens format", []string{"tree", "--format", "tokens", file}},
		{"unknown kind", []string{"tokens", "--kind", "Comment", file}},
		{"zero iterations", []string{"bench", "-n", "0", file}},
		{"bench format", []string{"bench", "--format", "xml", file}},
		{"init format", []string{"init", "--format", "toml", "--output", filepath.Join(t.TempDir(), "x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(err), "error: %v", err)
		})
	}
}

func TestConfigErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(file, []byte("<html></html>"), 0o644))

	badConfig := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(badConfig, []byte("indent: -3\n"), 0o644))

	_, err := execute(t, "--config", badConfig, "tree", file)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeFromError(err))

	_, err = execute(t, "tree", "--flavor", "wiki", file)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeFromError(err))
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".tagtree.yml")

	_, err := execute(t, "init", "--output", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "indent: 4")
	assert.Contains(t, string(content), "scan_preamble: false")

	_, err = execute(t, "init", "--output", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(err))

	require.NoError(t, os.WriteFile(path, []byte("indent: 2\n"), 0o644))
	_, err = execute(t, "init", "--force", "--output", path)
	require.NoError(t, err)

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "indent: 4")
}

func TestInitCommand_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tagtree.json")

	_, err := execute(t, "init", "--format", "json", "--output", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(content))
	assert.Contains(t, string(content), `"indent": 4`)
}

func TestInitCommand_LoadsBack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".tagtree.yml")

	_, err := execute(t, "init", "--output", path)
	require.NoError(t, err)

	file := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(file, []byte("<html><p>x</p></html>"), 0o644))

	out, err := execute(t, "--config", path, "tree", file)
	require.NoError(t, err)
	assert.Equal(t, "<html>\n    <p>\n        x\n    </p>\n</html>\n", out)
}
