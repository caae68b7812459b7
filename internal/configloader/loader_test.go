package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tagtree/pkg/config"
)

func isolatedOptions(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.DefaultIndent, result.Config.Indent)
	assert.True(t, result.Config.TrimTextEnabled())
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Paths.Project)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	configPath := filepath.Join(tmpDir, ".tagtree.yml")
	writeFile(t, configPath, `
indent: 2
trim_text: false
max_depth: 128
ignore:
  - "vendor/**"
`)

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Config.Indent)
	assert.False(t, result.Config.TrimTextEnabled())
	assert.Equal(t, 128, result.Config.MaxDepth)
	assert.Equal(t, []string{"vendor/**"}, result.Config.Ignore)
	assert.Equal(t, config.DefaultExtensions(), result.Config.Extensions, "unset fields keep defaults")
	assert.Equal(t, []string{configPath}, result.LoadedFrom)
}

func TestLoad_UpwardSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".tagtree.yml"), "indent: 8\n")

	repo := filepath.Join(outer, "repo")
	nested := filepath.Join(repo, "a", "b")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindProjectConfig(context.Background(), nested)
	require.NoError(t, err)
	assert.Empty(t, found)

	writeFile(t, filepath.Join(repo, "tagtree.yaml"), "indent: 6\n")
	found, err = FindProjectConfig(context.Background(), nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, "tagtree.yaml"), found)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".tagtree.yml"), "indent: 2\nmax_depth: 10\n")

	explicit := filepath.Join(tmpDir, "explicit.yml")
	writeFile(t, explicit, "max_depth: 20\nflavor: commonmark\n")

	opts := isolatedOptions(tmpDir)
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{Indent: 3, Format: config.FormatJSON, ScanPreamble: config.Bool(true)}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Config.Indent, "CLI beats project")
	assert.Equal(t, 20, result.Config.MaxDepth, "explicit beats project")
	assert.Equal(t, config.FlavorCommonMark, result.Config.Flavor)
	assert.Equal(t, config.FormatJSON, result.Config.Format)
	assert.True(t, result.Config.ScanPreambleEnabled())
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "bad flavor", content: "flavor: rst\n", field: "flavor"},
		{name: "negative depth", content: "max_depth: -1\n", field: "max_depth"},
		{name: "huge indent", content: "indent: 99\n", field: "indent"},
		{name: "bad glob", content: "ignore: [\"[\"]\n", field: "ignore[0]"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
			path := filepath.Join(tmpDir, ".tagtree.yml")
			writeFile(t, path, testCase.content)

			_, err := Load(context.Background(), isolatedOptions(tmpDir))
			require.Error(t, err)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, testCase.field, valErr.Field)
			assert.Equal(t, path, valErr.FilePath)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".tagtree.yml"), "indent: [1, 2\n")

	_, err := Load(context.Background(), isolatedOptions(tmpDir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load project config")
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolatedOptions(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TAGTREE_INDENT", "2")
	t.Setenv("TAGTREE_TRIM_TEXT", "false")
	t.Setenv("TAGTREE_EXTENSIONS", ".html, .svg ,")
	t.Setenv("TAGTREE_FORMAT", "json")
	t.Setenv("TAGTREE_MAX_FILE_SIZE", "1024")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, 2, cfg.Indent)
	assert.False(t, cfg.TrimTextEnabled())
	assert.Equal(t, []string{".html", ".svg"}, cfg.Extensions)
	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.EqualValues(t, 1024, cfg.MaxFileSize)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("TAGTREE_SCAN_PREAMBLE", "maybe")

	err := LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TAGTREE_SCAN_PREAMBLE")
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	require.Len(t, vars, len(envMappings))
	assert.Equal(t, "TAGTREE_EXTENSIONS", vars[0].Name)
	assert.Equal(t, "TAGTREE_MAX_DEPTH", GetEnvVarName("max_depth"))
	assert.Empty(t, GetEnvVarName("nope"))
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	layer := &config.Config{TrimText: config.Bool(false), Extensions: []string{".htm"}}
	top := &config.Config{Indent: 1}

	merged := MergeAll(base, layer, top)

	assert.Equal(t, 1, merged.Indent)
	assert.False(t, merged.TrimTextEnabled())
	assert.Equal(t, []string{".htm"}, merged.Extensions)
	assert.True(t, base.TrimTextEnabled(), "base is not modified")
	assert.Nil(t, MergeAll())
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Extensions = []string{"html"}

	result := Validate(cfg)
	assert.True(t, result.Valid())
	require.True(t, result.HasWarnings())
	assert.Contains(t, result.Warnings[0].Error(), "extensions[0]")
}
