package watcher

import (
	"path/filepath"
	"strings"
)

// FileFilter decides which filesystem events are noise, such as partial
// downloads and editor lock files.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a filter from glob patterns. Patterns are matched
// case-insensitively against the base name. An empty list ignores nothing.
func NewFileFilter(patterns []string) *FileFilter {
	folded := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			folded = append(folded, strings.ToLower(p))
		}
	}
	return &FileFilter{patterns: folded}
}

// ShouldIgnore reports whether path's base name matches any pattern.
// A pattern without wildcards that starts with a dot is treated as a suffix.
func (f *FileFilter) ShouldIgnore(path string) bool {
	name := strings.ToLower(filepath.Base(path))

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, ".") && !strings.ContainsAny(pattern, "*?[") && strings.HasSuffix(name, pattern) {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the folded patterns.
func (f *FileFilter) Patterns() []string {
	return append([]string(nil), f.patterns...)
}
