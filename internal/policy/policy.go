// Package policy decides which type folders each subject may hold.
package policy

import (
	"subjectsort/internal/catalog"
	"subjectsort/internal/config"
)

// DefaultFolders returns the type folders a subject gets when none are configured.
func DefaultFolders() []string {
	return []string{catalog.PDF, catalog.WordDocuments, catalog.Presentations}
}

// Policy resolves the allowed type folders per subject.
type Policy struct {
	custom map[string][]string
}

// New builds a Policy from subjects. A subject with a non-empty folder list
// uses it; every other subject falls back to DefaultFolders.
func New(subjects []config.Subject) *Policy {
	p := &Policy{custom: make(map[string][]string)}
	for _, s := range subjects {
		if len(s.Folders) > 0 {
			p.custom[s.Name] = append([]string(nil), s.Folders...)
		}
	}
	return p
}

// AllowedTypes returns the type folder names allowed for subject, in order.
func (p *Policy) AllowedTypes(subject string) []string {
	if folders, ok := p.custom[subject]; ok {
		return append([]string(nil), folders...)
	}
	return DefaultFolders()
}

// Allows reports whether typeName has a destination folder under subject.
func (p *Policy) Allows(subject, typeName string) bool {
	for _, folder := range p.AllowedTypes(subject) {
		if folder == typeName {
			return true
		}
	}
	return false
}

// IsCustom reports whether subject has its own folder list.
func (p *Policy) IsCustom(subject string) bool {
	_, ok := p.custom[subject]
	return ok
}
