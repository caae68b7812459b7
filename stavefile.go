//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"i":   Install,
	"fmt": Lint.Fmt,
	"fz":  Test.Fuzz,
	"bc":  Bench.Corpus,
	"bcf": Bench.Fast,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// ---------------------------------------------------------------------------
// Top-level targets
// ---------------------------------------------------------------------------

// Build compiles the tagtree binary with version info.
// Skips recompilation when source files have not changed.
func Build() error {
	rebuild, err := target.Dir("bin/tagtree", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/tagtree is up to date")
		return nil
	}
	fmt.Println("Building tagtree...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/tagtree", "./cmd/tagtree")
}

// Check formats, lints and tests, then runs the binary over the corpus.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, Lint.Corpus)
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	if err := sh.Rm("coverage.out"); err != nil {
		return err
	}
	return sh.Rm("coverage.html")
}

// Install installs tagtree to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing tagtree...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/tagtree")
}

// Uninstall removes tagtree from $GOBIN or $GOPATH/bin.
func Uninstall() error {
	fmt.Println("Uninstalling tagtree...")
	binPath, err := findInstalledBinary("tagtree")
	if err != nil {
		return err
	}
	if err := os.Remove(binPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println("tagtree is not installed")
			return nil
		}
		return fmt.Errorf("remove binary: %w", err)
	}
	fmt.Printf("Removed %s\n", binPath)
	return nil
}

// Deps ensures all dependencies are downloaded.
func Deps() error {
	fmt.Println("Downloading dependencies...")
	if err := sh.RunV("go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Coverage generates a test coverage report and opens it.
func Coverage() error {
	st.Deps(Test.Default)
	fmt.Println("Generating coverage report...")
	if err := sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html"); err != nil {
		return err
	}
	return sh.RunV("open", "coverage.html")
}

// ---------------------------------------------------------------------------
// Test namespace
// ---------------------------------------------------------------------------

// Default runs all tests using gotestsum with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-v", "-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Verbose runs all tests with standard-verbose output.
func (Test) Verbose() error {
	fmt.Println("Running tests (verbose)...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "standard-verbose",
		"--",
		"-v", "-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Fuzz runs the tokenizer fuzz target for FUZZ_TIME (default 30s).
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZ_TIME"), "30s")
	fmt.Printf("Fuzzing tokenizer for %s...\n", fuzzTime)
	return sh.RunV("go", "test", "-run", "^$", "-fuzz", "^FuzzTokenize$", "-fuzztime", fuzzTime, "./pkg/tokenizer")
}

// ---------------------------------------------------------------------------
// Lint namespace
// ---------------------------------------------------------------------------

// Default runs golangci-lint with auto-fix, stavefile included.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "--build-tags", "stave", "./...")
}

// CI runs golangci-lint without auto-fix (for CI pipelines).
func (Lint) CI() error {
	fmt.Println("Running linters (CI mode)...")
	return sh.RunV("golangci-lint", "run", "--build-tags", "stave", "./...")
}

// Fmt simplifies and formats the module sources.
func (Lint) Fmt() error {
	fmt.Println("Formatting code...")
	return sh.RunV("gofmt", append([]string{"-s", "-w"}, sourceRoots...)...)
}

// FmtCheck verifies code formatting without modifying files.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", append([]string{"-s", "-l"}, sourceRoots...)...)
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	fmt.Println("✓ Code formatting OK")
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	fmt.Println("Running go vet...")
	return sh.RunV("go", "vet", "./...")
}

// Corpus checks that every sample document tokenizes and builds.
// tagtree exits 1 when any file fails.
func (Lint) Corpus() error {
	st.Deps(Build)
	fmt.Println("Checking testdata/corpus...")
	return sh.RunWithV(map[string]string{"NO_COLOR": "1"},
		"bin/tagtree", "tree", "--format", "summary", "--max-depth", corpusMaxDepth, "testdata/corpus")
}

// Config checks that the generated config template loads back cleanly.
func (Lint) Config() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "tagtree-config-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	for _, format := range []string{"yaml", "json"} {
		path := filepath.Join(dir, "tagtree."+format)
		fmt.Printf("Checking %s template...\n", format)
		if err := sh.Run("bin/tagtree", "init", "--format", format, "--output", path); err != nil {
			return err
		}
		if err := sh.Run("bin/tagtree", "tree", "--config", path, "--format", "summary", "testdata/corpus"); err != nil {
			return fmt.Errorf("%s template: %w", format, err)
		}
	}
	fmt.Println("✓ Config templates load")
	return nil
}

// ---------------------------------------------------------------------------
// CI namespace
// ---------------------------------------------------------------------------

// Gate runs all CI checks in idiomatic Go order.
func (CI) Gate() error {
	fmt.Println("Running CI gate checks...")
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		Lint.Corpus,
		Lint.Config,
		CI.ModTidy,
		CI.Cross,
	)
	fmt.Println("\n✓ All CI gate checks passed!")
	return nil
}

// ModTidy checks that go.mod and go.sum are tidy.
func (CI) ModTidy() error {
	fmt.Println("Checking go.mod/go.sum are tidy...")
	modBefore, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod: %w", err)
	}
	sumBefore, err := os.ReadFile("go.sum")
	if err != nil {
		return fmt.Errorf("read go.sum: %w", err)
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	modAfter, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod after tidy: %w", err)
	}
	sumAfter, err := os.ReadFile("go.sum")
	if err != nil {
		return fmt.Errorf("read go.sum after tidy: %w", err)
	}

	if string(modBefore) != string(modAfter) || string(sumBefore) != string(sumAfter) {
		return errors.New("go.mod or go.sum changed after 'go mod tidy' - please commit the changes")
	}
	fmt.Println("✓ go.mod/go.sum are tidy")
	return nil
}

// Cross builds the binary for the release platforms, including 32-bit
// targets where token offsets are 32-bit ints, and the pure parsing
// packages for WebAssembly.
func (CI) Cross() error {
	fmt.Println("Cross-compiling tagtree...")
	for _, p := range releasePlatforms {
		if err := crossBuild(p.goos, p.goarch, "./cmd/tagtree"); err != nil {
			return err
		}
	}

	for _, p := range wasmPlatforms {
		if err := crossBuild(p.goos, p.goarch, parserPackages...); err != nil {
			return err
		}
	}

	fmt.Println("✓ All platforms build successfully")
	return nil
}

// ---------------------------------------------------------------------------
// Bench namespace
// ---------------------------------------------------------------------------

// Default runs Go benchmarks.
func (Bench) Default() error {
	fmt.Println("Running benchmarks...")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-bench=.", "-benchmem",
		"./...",
	)
}

// Corpus runs the tagtree bench command over the sample documents.
func (Bench) Corpus() error {
	st.Deps(Build)
	iterations := cmp.Or(os.Getenv("BENCH_ITERATIONS"), "200")
	fmt.Printf("Benchmarking testdata/corpus (%s iterations)...\n", iterations)
	return sh.RunV("bin/tagtree", "bench", "-n", iterations, "testdata/corpus")
}

// Fast runs a single-iteration corpus pass as a smoke test.
func (Bench) Fast() error {
	st.Deps(Build)
	return sh.RunWithV(map[string]string{"NO_COLOR": "1"}, "bin/tagtree", "bench", "-n", "1", "testdata/corpus")
}

// ---------------------------------------------------------------------------
// Helpers (unexported, not targets)
// ---------------------------------------------------------------------------

// sourceRoots are the paths gofmt walks. Other directories may hold
// fixtures or checked-out reference trees.
//
//nolint:gochecknoglobals // Read-only lookup table.
var sourceRoots = []string{"cmd", "internal", "pkg", "stavefile.go"}

// parserPackages have no terminal or process dependencies.
//
//nolint:gochecknoglobals // Read-only lookup table.
var parserPackages = []string{"./pkg/htmlast", "./pkg/tokenizer", "./pkg/treebuilder"}

type platform struct{ goos, goarch string }

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	releasePlatforms = []platform{
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"linux", "386"},
		{"linux", "arm"},
		{"darwin", "amd64"},
		{"darwin", "arm64"},
		{"windows", "amd64"},
		{"windows", "arm64"},
		{"freebsd", "amd64"},
	}
	wasmPlatforms = []platform{
		{"js", "wasm"},
		{"wasip1", "wasm"},
	}
)

// corpusMaxDepth bounds nesting for the corpus check.
const corpusMaxDepth = "64"

func crossBuild(goos, goarch string, pkgs ...string) error {
	fmt.Printf("  Building %s/%s...\n", goos, goarch)
	env := map[string]string{
		"GOOS":        goos,
		"GOARCH":      goarch,
		"CGO_ENABLED": "0",
	}
	args := append([]string{"build", "-o", os.DevNull}, pkgs...)
	if len(pkgs) > 1 {
		// go build discards the output of multiple packages.
		args = append([]string{"build"}, pkgs...)
	}
	if err := sh.RunWith(env, "go", args...); err != nil {
		return fmt.Errorf("build failed for %s/%s: %w", goos, goarch, err)
	}
	return nil
}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}

// findInstalledBinary returns the path where go install would place the binary.
func findInstalledBinary(name string) (string, error) {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return filepath.Join(gobin, name), nil
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin", name), nil
}
