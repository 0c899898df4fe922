// Package matcher handles filename keyword matching for subjectsort.
package matcher

import (
	"strings"

	"subjectsort/internal/config"
	"subjectsort/internal/normalizer"
)

// MatchResult represents the result of matching a filename against subjects.
type MatchResult struct {
	Matched bool
	Subject *config.Subject
	Keyword string // The configured keyword that decided the match
}

// Matcher resolves filenames to subjects.
// Subjects and their keywords are tried in declaration order and the first
// keyword contained in the filename wins. There is no scoring.
type Matcher struct {
	subjects []config.Subject
	folded   [][]string
}

// New creates a Matcher over subjects. The slice is copied and keywords are
// folded once here so Match only folds the filename.
func New(subjects []config.Subject) *Matcher {
	m := &Matcher{
		subjects: make([]config.Subject, len(subjects)),
		folded:   make([][]string, len(subjects)),
	}
	copy(m.subjects, subjects)
	for i, s := range m.subjects {
		m.folded[i] = normalizer.FoldAll(s.Keywords)
	}
	return m
}

// Match returns the first subject having a keyword that is a case-insensitive
// substring of filename.
func (m *Matcher) Match(filename string) *MatchResult {
	name := normalizer.Fold(filename)

	for i := range m.subjects {
		for j, keyword := range m.folded[i] {
			if keyword == "" {
				continue
			}
			if strings.Contains(name, keyword) {
				return &MatchResult{
					Matched: true,
					Subject: &m.subjects[i],
					Keyword: m.subjects[i].Keywords[j],
				}
			}
		}
	}

	return &MatchResult{Matched: false}
}

// Match is a convenience wrapper that builds a Matcher for a single lookup.
func Match(filename string, subjects []config.Subject) *MatchResult {
	return New(subjects).Match(filename)
}
