// Package runner tokenizes and builds trees for many documents at once.
package runner

import "github.com/yaklabco/tagtree/pkg/config"

// Options controls a multi-file run.
type Options struct {
	// Paths are files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process
	// working directory.
	WorkingDir string

	// Extensions are the lowercase extensions, with leading dot, that
	// directory walks pick up. Empty means config.DefaultExtensions().
	// Files named explicitly in Paths are always kept.
	Extensions []string

	// IgnoreGlobs skip matching files and directories, relative to WorkingDir.
	IgnoreGlobs []string

	// IncludeVendored disables skipping of vendored paths such as
	// node_modules or third_party.
	IncludeVendored bool

	// Jobs is the number of concurrent workers. 0 or negative means
	// runtime.NumCPU().
	Jobs int
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// FromConfig fills the discovery fields of Options from cfg.
func FromConfig(cfg *config.Config, paths []string) Options {
	return Options{
		Paths:       paths,
		Extensions:  cfg.Extensions,
		IgnoreGlobs: cfg.Ignore,
		Jobs:        cfg.Jobs,
	}
}
