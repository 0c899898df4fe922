// Package structure creates the subject/type folder tree under the root.
package structure

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"subjectsort/internal/config"
	"subjectsort/internal/logging"
	"subjectsort/internal/policy"
)

// Result lists the directories a Build call created, relative to the root.
// Directories that already existed are not listed.
type Result struct {
	Created  []string
	Failures []error
}

// Builder creates one folder per subject and one subfolder per allowed type.
type Builder struct {
	root     string
	subjects []config.Subject
	policy   *policy.Policy
	logger   *slog.Logger
}

// New creates a Builder.
func New(root string, subjects []config.Subject, p *policy.Policy, logger *slog.Logger) *Builder {
	return &Builder{
		root:     root,
		subjects: append([]config.Subject(nil), subjects...),
		policy:   p,
		logger:   logging.NewComponentLogger(logger, "structure"),
	}
}

// Build creates root/<subject> and root/<subject>/<type> for every allowed
// type. It is idempotent. A folder that cannot be created is recorded in
// Result.Failures and the remaining subjects are still processed; the type
// folders of a subject whose own folder failed are skipped.
func (b *Builder) Build() *Result {
	result := &Result{}

	for _, subject := range b.subjects {
		if err := b.ensure(subject.Name, result); err != nil {
			b.logger.Warn("could not create subject folder", slog.String(logging.FieldPath, subject.Name), logging.Err(err))
			result.Failures = append(result.Failures, err)
			continue
		}
		for _, typeName := range b.policy.AllowedTypes(subject.Name) {
			rel := filepath.Join(subject.Name, typeName)
			if err := b.ensure(rel, result); err != nil {
				b.logger.Warn("could not create type folder", slog.String(logging.FieldPath, rel), logging.Err(err))
				result.Failures = append(result.Failures, err)
			}
		}
	}

	return result
}

// Plan returns the directories Build would create, without creating them.
func (b *Builder) Plan() []string {
	var missing []string
	for _, subject := range b.subjects {
		rels := []string{subject.Name}
		for _, typeName := range b.policy.AllowedTypes(subject.Name) {
			rels = append(rels, filepath.Join(subject.Name, typeName))
		}
		for _, rel := range rels {
			if _, err := os.Stat(filepath.Join(b.root, rel)); errors.Is(err, os.ErrNotExist) {
				missing = append(missing, rel)
			}
		}
	}
	return missing
}

func (b *Builder) ensure(rel string, result *Result) error {
	path := filepath.Join(b.root, rel)

	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("create %s: a file with that name already exists", rel)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("create %s: %w", rel, err)
	}

	if err := os.Mkdir(path, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create %s: %w", rel, err)
	}
	b.logger.Debug("created folder", slog.String(logging.FieldPath, rel))
	result.Created = append(result.Created, rel)
	return nil
}
