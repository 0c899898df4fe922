// Package scanner handles directory scanning for subjectsort.
package scanner

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// NotADirectory indicates the path exists but is not a directory.
	NotADirectory ScanErrorType = "NOT_A_DIRECTORY"
	// ReadFailed covers any other failure to list a directory.
	ReadFailed ScanErrorType = "READ_FAILED"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Path + " (" + e.Err.Error() + ")"
	}
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// FileEntry represents a file found during scanning.
type FileEntry struct {
	Name string // Filename only
	Path string // Absolute path
	Rel  string // Path relative to the walk root (Walk only)
	Ext  string // Extension as returned by Extension, original casing
	Size int64
}

// DirEntry represents a directory found during a recursive walk.
type DirEntry struct {
	Path  string // Absolute path
	Rel   string // Path relative to the walk root
	Depth int    // Number of path elements in Rel
}

// Tree is the result of a recursive walk.
type Tree struct {
	Files  []FileEntry
	Dirs   []DirEntry
	Errors []error // Subdirectories that could not be read; the walk skips them
}

// Extension returns the final dot-suffix of name, including the dot.
// A dot in first position does not start an extension and a trailing dot
// yields none, so ".bashrc" and "notes." have no extension while
// "archive.tar.gz" has ".gz".
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// Stem returns name without its Extension.
func Stem(name string) string {
	return strings.TrimSuffix(name, Extension(name))
}

// checkDirectory verifies that directory exists and is a directory.
func checkDirectory(directory string) error {
	info, err := os.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return &ScanError{Type: DirectoryNotFound, Path: directory, Err: err}
		}
		if os.IsPermission(err) {
			return &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return &ScanError{Type: ReadFailed, Path: directory, Err: err}
	}
	if !info.IsDir() {
		return &ScanError{Type: NotADirectory, Path: directory, Err: errors.New("path is not a directory")}
	}
	return nil
}

// ScanTopLevel enumerates the files directly inside directory, sorted by name.
// Symbolic links are followed to decide whether an entry is a file; links to
// directories and broken links are skipped.
func ScanTopLevel(directory string) ([]FileEntry, error) {
	if err := checkDirectory(directory); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, &ScanError{Type: ReadFailed, Path: directory, Err: err}
	}

	files := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		fullPath := filepath.Join(directory, entry.Name())

		info, err := os.Stat(fullPath)
		if err != nil {
			continue // Broken symlink or entry removed since listing
		}
		if !info.Mode().IsRegular() {
			continue
		}

		files = append(files, newFileEntry(entry.Name(), fullPath, info.Size()))
	}

	return files, nil
}

// Walk enumerates every file and directory below root.
// Symbolic links are reported neither as files nor as directories and are
// never followed. Unreadable subdirectories are recorded in Tree.Errors.
func Walk(root string) (*Tree, error) {
	if err := checkDirectory(root); err != nil {
		return nil, err
	}
	// WalkDir does not descend into a symlinked root.
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	tree := &Tree{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			errType := ReadFailed
			if os.IsPermission(err) {
				errType = PermissionDenied
			}
			tree.Errors = append(tree.Errors, &ScanError{Type: errType, Path: path, Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		switch {
		case d.IsDir():
			tree.Dirs = append(tree.Dirs, DirEntry{Path: path, Rel: rel, Depth: Depth(rel)})
		case d.Type().IsRegular():
			var size int64
			if info, infoErr := d.Info(); infoErr == nil {
				size = info.Size()
			}
			entry := newFileEntry(d.Name(), path, size)
			entry.Rel = rel
			tree.Files = append(tree.Files, entry)
		}
		return nil
	})
	if err != nil {
		return nil, &ScanError{Type: ReadFailed, Path: root, Err: err}
	}

	return tree, nil
}

// DirsDeepestFirst returns dirs ordered by descending depth.
// Directories of equal depth keep lexical order.
func DirsDeepestFirst(dirs []DirEntry) []DirEntry {
	sorted := make([]DirEntry, len(dirs))
	copy(sorted, dirs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Depth != sorted[j].Depth {
			return sorted[i].Depth > sorted[j].Depth
		}
		return sorted[i].Rel < sorted[j].Rel
	})
	return sorted
}

// Depth returns the number of elements in a relative path.
func Depth(rel string) int {
	if rel == "" || rel == "." {
		return 0
	}
	return len(strings.Split(filepath.ToSlash(rel), "/"))
}

// IsEmptyDir reports whether dir currently has no entries.
func IsEmptyDir(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	names, err := f.Readdirnames(1)
	if len(names) > 0 {
		return false, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return true, nil
}

func newFileEntry(name, path string, size int64) FileEntry {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	return FileEntry{
		Name: name,
		Path: absPath,
		Ext:  Extension(name),
		Size: size,
	}
}
