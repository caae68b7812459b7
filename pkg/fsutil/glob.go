package fsutil

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// GlobSet matches slash-separated relative paths against ignore patterns.
//
// A single "*" does not cross directory separators, "**" does. A pattern
// without a separator also matches the base name, so "*.min.html" skips
// such files at any depth.
type GlobSet struct {
	patterns []string
	globs    []glob.Glob
}

// CompileGlobs compiles patterns into a GlobSet.
func CompileGlobs(patterns []string) (*GlobSet, error) {
	set := &GlobSet{
		patterns: make([]string, 0, len(patterns)),
		globs:    make([]glob.Glob, 0, len(patterns)),
	}

	for _, pattern := range patterns {
		g, err := CompileGlob(pattern)
		if err != nil {
			return nil, err
		}
		set.patterns = append(set.patterns, filepath.ToSlash(pattern))
		set.globs = append(set.globs, g)
	}

	return set, nil
}

// CompileGlob compiles a single pattern with '/' as separator.
func CompileGlob(pattern string) (glob.Glob, error) {
	g, err := glob.Compile(filepath.ToSlash(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
	}
	return g, nil
}

// Match reports whether rel matches any pattern in the set.
func (s *GlobSet) Match(rel string) bool {
	if s == nil {
		return false
	}

	rel = filepath.ToSlash(rel)
	base := path.Base(rel)

	for i, g := range s.globs {
		if g.Match(rel) {
			return true
		}
		if !strings.Contains(s.patterns[i], "/") && g.Match(base) {
			return true
		}
	}

	return false
}

// Len returns the number of patterns.
func (s *GlobSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.globs)
}
