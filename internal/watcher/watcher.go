// Package watcher re-runs the organizer when files land in the root.
package watcher

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"subjectsort/internal/config"
	"subjectsort/internal/flattener"
	"subjectsort/internal/logging"
	"subjectsort/internal/scanner"
)

// RunFunc performs one full organize pass.
type RunFunc func() error

// Options configures a Watcher.
type Options struct {
	Root     string
	Subjects []string // Subject names; events under folders mentioning one are ignored
	Config   config.WatchConfig
	Run      RunFunc
	Logger   *slog.Logger
}

// Summary contains stats from a watch session.
type Summary struct {
	Runs     int
	Failures int // Runs that returned an error
	Events   int // Events that scheduled a run
	Ignored  int // Events dropped by the filter or inside subject folders
	Duration time.Duration
}

// Watcher serializes organize passes over one root. Bursts of filesystem
// events are debounced into one trigger, and a trigger that arrives while a
// pass is running queues at most one follow-up pass.
type Watcher struct {
	root      string
	subjects  []string
	run       RunFunc
	logger    *slog.Logger
	filter    *FileFilter
	stability *StabilityChecker
	debouncer *Debouncer

	fsWatcher *fsnotify.Watcher
	trigger   chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startTime time.Time

	mu       sync.Mutex
	running  bool
	runs     int
	failures int
	events   int
	ignored  int
	pending  map[string]struct{} // Files touched since the last pass
}

// New creates a Watcher. Zero timing values in opts.Config disable the
// debounce delay and the stability wait.
func New(opts Options) *Watcher {
	w := &Watcher{
		root:      opts.Root,
		subjects:  opts.Subjects,
		run:       opts.Run,
		logger:    logging.NewComponentLogger(opts.Logger, "watcher"),
		filter:    NewFileFilter(opts.Config.IgnorePatterns),
		stability: NewStabilityChecker(time.Duration(opts.Config.StableThresholdMs) * time.Millisecond),
		trigger:   make(chan struct{}, 1),
		pending:   make(map[string]struct{}),
	}
	w.debouncer = NewDebouncer(time.Duration(opts.Config.DebounceSeconds)*time.Second, w.Trigger)
	return w
}

// Start watches the root and its nested folders outside the subject tree.
// It returns once the watches are in place; passes run in the background
// until Stop is called.
func (w *Watcher) Start() error {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return err
	}
	w.root = root

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsWatcher = fsw

	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return err
	}
	w.addNested(root)

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.startTime = time.Now()
	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	w.wg.Add(2)
	go w.processEvents()
	go w.processRuns()

	w.logger.Info("watching for new files", slog.String(logging.FieldPath, root))
	return nil
}

// Trigger schedules a pass. It never blocks; if a pass is already queued
// the call is absorbed.
func (w *Watcher) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Stop shuts the watcher down, waits for a running pass to finish and
// returns the session summary.
func (w *Watcher) Stop() *Summary {
	w.debouncer.Stop()
	if w.cancel != nil {
		w.cancel()
	}
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = false
	return &Summary{
		Runs:     w.runs,
		Failures: w.failures,
		Events:   w.events,
		Ignored:  w.ignored,
		Duration: time.Since(w.startTime),
	}
}

// IsRunning reports whether the watcher has been started and not stopped.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.Err(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, statErr := os.Lstat(event.Name)
	isDir := statErr == nil && info.IsDir()

	if w.shouldIgnore(event.Name, isDir) {
		w.mu.Lock()
		w.ignored++
		w.mu.Unlock()
		return
	}

	if isDir && event.Has(fsnotify.Create) {
		if err := w.fsWatcher.Add(event.Name); err != nil {
			w.logger.Warn("could not watch folder", slog.String(logging.FieldPath, event.Name), logging.Err(err))
		}
		w.addNested(event.Name)
	}

	w.mu.Lock()
	w.events++
	if !isDir {
		w.pending[event.Name] = struct{}{}
	}
	w.mu.Unlock()
	w.logger.Debug("change detected", slog.String(logging.FieldPath, event.Name), slog.String("op", event.Op.String()))
	w.debouncer.Touch()
}

// shouldIgnore drops temporary files and anything the flattener would leave
// alone: files whose parent path mentions a subject, and folders whose own
// path does. That covers the moves and folders a pass makes itself.
func (w *Watcher) shouldIgnore(path string, isDir bool) bool {
	if w.filter.ShouldIgnore(path) {
		return true
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	if !isDir {
		rel = filepath.Dir(rel)
	}
	return flattener.MentionsSubject(rel, w.subjects)
}

// addNested watches every folder below dir that is outside the subject tree.
func (w *Watcher) addNested(dir string) {
	tree, err := scanner.Walk(dir)
	if err != nil {
		return
	}
	for _, d := range tree.Dirs {
		if w.shouldIgnore(d.Path, true) {
			continue
		}
		if err := w.fsWatcher.Add(d.Path); err != nil {
			w.logger.Warn("could not watch folder", slog.String(logging.FieldPath, d.Path), logging.Err(err))
		}
	}
}

func (w *Watcher) processRuns() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.trigger:
			if !w.waitForStableFiles() {
				return
			}
			w.execute()
		}
	}
}

// waitForStableFiles blocks until the files touched since the last pass
// stopped growing. They are polled together, so the wait is bounded by one
// quiet period however many files arrived. It returns false if the watcher
// was stopped while waiting.
func (w *Watcher) waitForStableFiles() bool {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()
	sort.Strings(paths)

	results := w.stability.WaitForAll(w.ctx, paths)
	if w.ctx.Err() != nil {
		return false
	}
	for _, path := range paths {
		err := results[path]
		switch {
		case err == nil, errors.Is(err, ErrFileNotFound):
		case errors.Is(err, ErrFileUnstable):
			w.logger.Warn("file still changing, organizing anyway", slog.String(logging.FieldPath, path))
		default:
			w.logger.Warn("stability check failed", slog.String(logging.FieldPath, path), logging.Err(err))
		}
	}
	return true
}

func (w *Watcher) execute() {
	var err error
	if w.run != nil {
		err = w.run()
	}

	w.mu.Lock()
	w.runs++
	if err != nil {
		w.failures++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("organize pass failed", logging.Err(err))
	}
}
