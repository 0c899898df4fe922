package watcher

import (
	"context"
	"errors"
	"os"
	"time"
)

// ErrFileNotFound is returned when the file disappears while being checked.
var ErrFileNotFound = errors.New("file not found")

// ErrFileUnstable is returned when the file keeps changing until the timeout.
var ErrFileUnstable = errors.New("file did not stabilize within timeout")

const (
	defaultStabilityTimeout = 30 * time.Second
	minStabilityInterval    = 50 * time.Millisecond
)

// StabilityChecker waits until a file's size stops changing, so files that
// are still being copied in are not moved halfway.
type StabilityChecker struct {
	threshold time.Duration // How long the size must stay unchanged
	timeout   time.Duration
	interval  time.Duration
}

// NewStabilityChecker creates a checker that polls at a quarter of threshold.
func NewStabilityChecker(threshold time.Duration) *StabilityChecker {
	interval := threshold / 4
	if interval < minStabilityInterval {
		interval = minStabilityInterval
	}
	return &StabilityChecker{threshold: threshold, timeout: defaultStabilityTimeout, interval: interval}
}

// NewStabilityCheckerWithOptions creates a checker with explicit timing.
func NewStabilityCheckerWithOptions(threshold, timeout, interval time.Duration) *StabilityChecker {
	return &StabilityChecker{threshold: threshold, timeout: timeout, interval: interval}
}

// WaitForStable blocks until path's size has been unchanged for the
// threshold, the timeout expires or ctx is cancelled.
// A zero threshold returns as soon as the file is known to exist.
func (s *StabilityChecker) WaitForStable(ctx context.Context, path string) error {
	return s.WaitForAll(ctx, []string{path})[path]
}

// WaitForAll polls every path in one loop under a single timeout, so a batch
// settles in about one threshold rather than one threshold per file. The
// result maps each path to the error WaitForStable would have returned.
func (s *StabilityChecker) WaitForAll(ctx context.Context, paths []string) map[string]error {
	type sample struct {
		size       int64
		lastChange time.Time
	}

	results := make(map[string]error, len(paths))
	pending := make(map[string]*sample, len(paths))
	now := time.Now()
	for _, path := range paths {
		size, err := fileSize(path)
		if err != nil || s.threshold <= 0 {
			results[path] = err
			continue
		}
		pending[path] = &sample{size: size, lastChange: now}
	}
	if len(pending) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			err := ctx.Err()
			if errors.Is(err, context.DeadlineExceeded) {
				err = ErrFileUnstable
			}
			for path := range pending {
				results[path] = err
			}
			return results
		case <-ticker.C:
			for path, last := range pending {
				size, err := fileSize(path)
				switch {
				case err != nil:
					results[path] = err
					delete(pending, path)
				case size != last.size:
					last.size = size
					last.lastChange = time.Now()
				case time.Since(last.lastChange) >= s.threshold:
					results[path] = nil
					delete(pending, path)
				}
			}
		}
	}
	return results
}

// Threshold returns the required quiet period.
func (s *StabilityChecker) Threshold() time.Duration {
	return s.threshold
}

// Timeout returns the maximum wait.
func (s *StabilityChecker) Timeout() time.Duration {
	return s.timeout
}

// Interval returns the polling interval.
func (s *StabilityChecker) Interval() time.Duration {
	return s.interval
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrFileNotFound
		}
		return 0, err
	}
	return info.Size(), nil
}
