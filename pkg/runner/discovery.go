package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/tagtree/pkg/fsutil"
	"github.com/yaklabco/tagtree/pkg/source"
)

// Discover resolves opts.Paths into a sorted, de-duplicated list of
// absolute file paths.
//
// Directories are walked recursively. Hidden entries, vendored paths and
// paths matching IgnoreGlobs are skipped, and only files with one of the
// configured extensions are kept. A file named directly in Paths is kept
// unless it matches an ignore glob.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	ignore, err := fsutil.CompileGlobs(opts.IgnoreGlobs)
	if err != nil {
		return nil, err
	}

	walker := &walker{
		workDir:    workDir,
		extensions: normalizeExtensions(opts.effectiveExtensions()),
		ignore:     ignore,
		vendored:   opts.IncludeVendored,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			walker.root = filepath.Dir(absPath)
			if !walker.ignored(absPath, false) {
				walker.add(absPath)
			}
			continue
		}

		walker.root = absPath
		if err := walker.walk(ctx, absPath); err != nil {
			return nil, err
		}
	}

	slices.Sort(walker.files)

	return walker.files, nil
}

type walker struct {
	workDir    string
	root       string
	extensions []string
	ignore     *fsutil.GlobSet
	vendored   bool
	seen       map[string]struct{}
	files      []string
}

func (w *walker) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if path == root {
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") || w.ignored(path, entry.IsDir()) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil || info.IsDir() {
				// Broken links and directory links are not followed.
				return nil //nolint:nilerr // skipped on purpose
			}
		}

		if w.hasExtension(path) {
			w.add(path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}

	return nil
}

// ignored matches path against the ignore globs relative to the working
// directory, or to the current walk root when path lies outside it. The
// vendor check only looks below the walk root, so a root named on the
// command line is never skipped for its own location. Directories carry a
// trailing slash so "vendor/**" prunes vendor itself.
func (w *walker) ignored(path string, isDir bool) bool {
	fromRoot := relSlash(w.root, path, isDir)

	fromWork := relSlash(w.workDir, path, isDir)
	if fromWork == "" || fromWork == "../" || strings.HasPrefix(fromWork, "../") {
		fromWork = fromRoot
	}

	if w.ignore.Match(fromWork) {
		return true
	}

	return !w.vendored && source.IsVendor(fromRoot)
}

// relSlash returns path relative to base in slash form, or its base name
// when no relative path exists.
func relSlash(base, path string, isDir bool) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return rel
}

func (w *walker) hasExtension(path string) bool {
	return slices.Contains(w.extensions, strings.ToLower(filepath.Ext(path)))
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}

	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}
