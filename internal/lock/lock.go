// Package lock keeps two subjectsort runs from organizing the same root at once.
package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the lock for the same root.
var ErrLocked = errors.New("another subjectsort run is already organizing this folder")

// RunLock is an exclusive advisory lock tied to one root directory.
type RunLock struct {
	path  string
	flock *flock.Flock
}

// PathFor returns the lock file used for root. Lock files live in dir
// (the OS temp dir when dir is empty), never inside the root itself, so they
// are not picked up as files to organize.
func PathFor(dir, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if dir == "" {
		dir = os.TempDir()
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(dir, "subjectsort-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

// Acquire takes the lock for root without blocking.
// It returns ErrLocked if the lock is already held.
func Acquire(dir, root string) (*RunLock, error) {
	path, err := PathFor(dir, root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock dir: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &RunLock{path: path, flock: fl}, nil
}

// Path returns the lock file path.
func (l *RunLock) Path() string {
	return l.path
}

// Release gives up the lock. Calling it on a nil lock is a no-op.
func (l *RunLock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
