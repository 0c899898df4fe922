// Package organizer handles file movement for subjectsort.
package organizer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MoveErrorType represents the type of move error.
type MoveErrorType string

const (
	// SourceNotFound indicates the source file does not exist.
	SourceNotFound MoveErrorType = "SOURCE_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied MoveErrorType = "PERMISSION_DENIED"
	// CrossDevice indicates the rename crossed filesystems and the copy fallback failed.
	CrossDevice MoveErrorType = "CROSS_DEVICE"
	// IOError covers every other filesystem failure.
	IOError MoveErrorType = "IO_ERROR"
)

// MoveError represents an error that occurred during file movement.
type MoveError struct {
	Type MoveErrorType
	Path string
	Err  error
}

func (e *MoveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// MoveResult represents the result of a successful file move operation.
type MoveResult struct {
	SourcePath      string
	DestinationPath string
	Renamed         bool   // True if the file was renamed to avoid a collision
	OriginalName    string // Filename before collision renaming (empty if not renamed)
	Size            int64
}

// Move moves the file at src into destDir, keeping its name unless a file of
// that name already exists there, in which case FreeName picks a new one.
// destDir is created if missing. A rename that crosses filesystems falls back
// to copy and delete.
func Move(src, destDir string) (*MoveResult, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return nil, classify(src, err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, classify(destDir, err)
	}

	filename := filepath.Base(src)
	destName := FreeName(destDir, filename)
	destPath := filepath.Join(destDir, destName)

	if err := os.Rename(src, destPath); err != nil {
		if !isCrossDevice(err) {
			return nil, classify(src, err)
		}
		if err := copyAndDelete(src, destPath, info); err != nil {
			var moveErr *MoveError
			if errors.As(err, &moveErr) {
				return nil, err
			}
			return nil, &MoveError{Type: CrossDevice, Path: src, Err: err}
		}
	}

	result := &MoveResult{
		SourcePath:      src,
		DestinationPath: destPath,
		Size:            info.Size(),
	}
	if destName != filename {
		result.Renamed = true
		result.OriginalName = filename
	}
	return result, nil
}

// classify wraps err in a MoveError with the matching type.
func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return &MoveError{Type: SourceNotFound, Path: path, Err: err}
	case os.IsPermission(err):
		return &MoveError{Type: PermissionDenied, Path: path, Err: err}
	default:
		return &MoveError{Type: IOError, Path: path, Err: err}
	}
}

// copyAndDelete copies a file to a new location and deletes the original.
// Used as a fallback when os.Rename fails across devices.
func copyAndDelete(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return classify(src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return classify(dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())

	in.Close()
	if err := os.Remove(src); err != nil {
		// If we can't delete source, try to clean up destination
		os.Remove(dst)
		return classify(src, err)
	}
	return nil
}
