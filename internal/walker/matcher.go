package walker

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher decides which paths are left out of a walk, using gitignore
// pattern syntax. A nil Matcher excludes nothing.
type Matcher struct {
	matcher gitignore.Matcher
}

// NewMatcher compiles patterns. Blank lines and comments are ignored.
func NewMatcher(patterns []string) *Matcher {
	var ps []gitignore.Pattern
	for _, line := range patterns {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	if len(ps) == 0 {
		return nil
	}
	return &Matcher{matcher: gitignore.NewMatcher(ps)}
}

// Excluded reports whether path, relative to rootPath, matches a pattern.
func (m *Matcher) Excluded(rootPath, path string, isDir bool) bool {
	if m == nil {
		return false
	}
	rel, err := filepath.Rel(rootPath, path)
	if err != nil {
		return false
	}
	segments := splitPath(rel)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

// splitPath splits a path into segments for gitignore matching.
func splitPath(path string) []string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
