// Package flattener collapses nested folders under the root before organizing.
package flattener

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"subjectsort/internal/logging"
	"subjectsort/internal/organizer"
	"subjectsort/internal/scanner"
)

// RemoveError reports a directory that could not be removed.
type RemoveError struct {
	Path string
	Err  error
}

func (e *RemoveError) Error() string {
	return fmt.Sprintf("remove %s: %v", e.Path, e.Err)
}

func (e *RemoveError) Unwrap() error {
	return e.Err
}

// Moved records a file relocated to the root.
type Moved struct {
	From    string // Path relative to the root before the move
	To      string // Filename in the root after the move
	Renamed bool
}

// Result summarizes a flatten pass.
type Result struct {
	Moved           []Moved
	Removed         []string // Removed directories, relative to the root
	MoveFailures    []error
	RemovalFailures []error
	ScanErrors      []error
}

// Flattener relocates files from nested folders to the root.
// Folders whose path mentions a subject name are left alone, since they
// belong to an already organized tree.
type Flattener struct {
	root     string
	subjects []string
	logger   *slog.Logger
}

// New creates a Flattener for root. subjects are the configured subject names.
func New(root string, subjects []string, logger *slog.Logger) *Flattener {
	return &Flattener{
		root:     root,
		subjects: append([]string(nil), subjects...),
		logger:   logging.NewComponentLogger(logger, "flattener"),
	}
}

// Candidates returns the nested files a Flatten call would relocate, without
// touching the filesystem.
func (f *Flattener) Candidates() ([]scanner.FileEntry, error) {
	tree, err := scanner.Walk(f.root)
	if err != nil {
		return nil, err
	}
	return f.candidates(tree), nil
}

func (f *Flattener) candidates(tree *scanner.Tree) []scanner.FileEntry {
	var out []scanner.FileEntry
	for _, file := range tree.Files {
		parent := filepath.Dir(file.Rel)
		if parent == "." {
			continue
		}
		if f.mentionsSubject(parent) {
			continue
		}
		out = append(out, file)
	}
	return out
}

// Flatten moves every candidate file into the root, renaming on collision,
// then removes directories left empty, deepest first.
// Per-file and per-directory failures are collected in the result and never
// stop the pass; only an unreadable root is returned as an error.
func (f *Flattener) Flatten() (*Result, error) {
	tree, err := scanner.Walk(f.root)
	if err != nil {
		return nil, err
	}

	result := &Result{ScanErrors: tree.Errors}

	for _, file := range f.candidates(tree) {
		moved, err := organizer.Move(file.Path, f.root)
		if err != nil {
			f.logger.Warn("could not move file to root", slog.String(logging.FieldPath, file.Rel), logging.Err(err))
			result.MoveFailures = append(result.MoveFailures, err)
			continue
		}
		to := filepath.Base(moved.DestinationPath)
		f.logger.Debug("moved file to root", slog.String(logging.FieldPath, file.Rel), slog.String("to", to))
		result.Moved = append(result.Moved, Moved{From: file.Rel, To: to, Renamed: moved.Renamed})
	}

	f.prune(result)
	return result, nil
}

// prune removes empty directories that are not part of a subject tree.
// Directories are re-listed after the moves and visited deepest first so a
// chain of directories that only held other empty directories goes in one pass.
func (f *Flattener) prune(result *Result) {
	tree, err := scanner.Walk(f.root)
	if err != nil {
		result.ScanErrors = append(result.ScanErrors, err)
		return
	}

	for _, dir := range scanner.DirsDeepestFirst(tree.Dirs) {
		if f.isSubjectName(filepath.Base(dir.Rel)) {
			continue
		}
		if f.mentionsSubject(filepath.Dir(dir.Rel)) {
			continue
		}

		empty, err := scanner.IsEmptyDir(dir.Path)
		if err != nil {
			result.RemovalFailures = append(result.RemovalFailures, &RemoveError{Path: dir.Rel, Err: err})
			f.logger.Warn("could not inspect directory", slog.String(logging.FieldPath, dir.Rel), logging.Err(err))
			continue
		}
		if !empty {
			continue
		}

		if err := os.Remove(dir.Path); err != nil {
			result.RemovalFailures = append(result.RemovalFailures, &RemoveError{Path: dir.Rel, Err: err})
			f.logger.Warn("could not remove directory", slog.String(logging.FieldPath, dir.Rel), logging.Err(err))
			continue
		}
		f.logger.Debug("removed empty directory", slog.String(logging.FieldPath, dir.Rel))
		result.Removed = append(result.Removed, dir.Rel)
	}
}

// MentionsSubject reports whether rel, a path relative to the root, contains
// any of the subject names as a substring. The root itself (".") mentions
// nothing.
func MentionsSubject(rel string, subjects []string) bool {
	if rel == "." || rel == "" {
		return false
	}
	for _, subject := range subjects {
		if subject != "" && strings.Contains(rel, subject) {
			return true
		}
	}
	return false
}

func (f *Flattener) mentionsSubject(rel string) bool {
	return MentionsSubject(rel, f.subjects)
}

func (f *Flattener) isSubjectName(name string) bool {
	for _, subject := range f.subjects {
		if name == subject {
			return true
		}
	}
	return false
}
