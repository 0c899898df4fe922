// Package orchestrator runs the flatten, structure and organize stages
// against one root folder.
package orchestrator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"subjectsort/internal/classifier"
	"subjectsort/internal/config"
	"subjectsort/internal/flattener"
	"subjectsort/internal/lock"
	"subjectsort/internal/logging"
	"subjectsort/internal/organizer"
	"subjectsort/internal/scanner"
	"subjectsort/internal/structure"
)

// Progress receives per-file updates while top-level files are dispatched.
type Progress interface {
	Start(total int)
	Update(done int, name string)
	End()
}

// Options selects the stages of a run.
type Options struct {
	Flatten        bool
	BuildStructure bool
	LockDir        string   // Directory for the run lock file; empty means the OS temp dir
	Progress       Progress // Optional
}

// DefaultOptions enables every stage.
func DefaultOptions() Options {
	return Options{Flatten: true, BuildStructure: true}
}

// Placement records a file moved into its subject/type folder.
type Placement struct {
	Filename    string // Name in the root before the move
	Subject     string
	Type        string
	Destination string // Path relative to the root after the move
	Renamed     bool
	Size        int64
}

// Unplaced records a top-level file left in the root.
type Unplaced struct {
	Filename string
	Subject  string // Empty when no subject matched
	Type     string // Empty when the extension is unknown
	Reasons  []classifier.Reason
	Err      error // Set when the reason is a move failure
}

// ReasonText joins the reasons with ", ".
func (u Unplaced) ReasonText() string {
	d := classifier.Decision{Reasons: u.Reasons}
	return d.ReasonText()
}

// Report is the structured outcome of one Organize call.
type Report struct {
	RunID             string
	Root              string
	FlattenMoved      []flattener.Moved
	DirsRemoved       []string
	DirsCreated       []string
	Placements        []Placement
	Unplaced          []Unplaced
	MoveFailures      []error // Flatten stage move failures
	RemovalFailures   []error
	StructureFailures []error
	ScanErrors        []error
	BytesOrganized    int64
	Duration          time.Duration
}

// Organized returns the number of files placed in the tree.
func (r *Report) Organized() int {
	return len(r.Placements)
}

// HasFailures reports whether any stage recorded an I/O failure.
// Files left unplaced for classification reasons are not failures.
func (r *Report) HasFailures() bool {
	if len(r.MoveFailures) > 0 || len(r.RemovalFailures) > 0 ||
		len(r.StructureFailures) > 0 || len(r.ScanErrors) > 0 {
		return true
	}
	for _, u := range r.Unplaced {
		if u.Err != nil {
			return true
		}
	}
	return false
}

// UnplacedByReason counts unplaced files per reason. A file with two
// reasons is counted under both.
func (r *Report) UnplacedByReason() map[classifier.Reason]int {
	counts := make(map[classifier.Reason]int)
	for _, u := range r.Unplaced {
		for _, reason := range u.Reasons {
			counts[reason]++
		}
	}
	return counts
}

// Orchestrator runs the organize workflow for one configuration.
// The configuration is treated as read-only for the orchestrator's lifetime.
type Orchestrator struct {
	config     *config.Configuration
	classifier *classifier.Classifier
	base       *slog.Logger
}

// New creates an Orchestrator. A nil logger discards output.
func New(cfg *config.Configuration, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		config:     cfg,
		classifier: classifier.NewFromConfig(cfg),
		base:       logger,
	}
}

// NewFromPath loads and validates the configuration at configPath.
func NewFromPath(configPath string, logger *slog.Logger) (*Orchestrator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return New(cfg, logger), nil
}

// Config returns the configuration the orchestrator was built with.
func (o *Orchestrator) Config() *config.Configuration {
	return o.config
}

// Classifier returns the classifier used for placement decisions.
func (o *Orchestrator) Classifier() *classifier.Classifier {
	return o.classifier
}

// Organize runs the enabled stages and then moves every placeable top-level
// file into root/<subject>/<type>. Per-file problems end up in the report;
// an error is returned only for an invalid configuration, a held lock or an
// unreadable root.
func (o *Orchestrator) Organize(opts Options) (*Report, error) {
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	root := o.config.Root

	runLock, err := lock.Acquire(opts.LockDir, root)
	if err != nil {
		return nil, err
	}
	defer runLock.Release()

	start := time.Now()
	report := &Report{RunID: uuid.NewString(), Root: root}
	runLogger := o.base.With(slog.String(logging.FieldRunID, report.RunID))
	logger := logging.NewComponentLogger(runLogger, "orchestrator")
	logger.Info("run started", slog.String(logging.FieldPath, root),
		slog.Bool("flatten", opts.Flatten), slog.Bool("structure", opts.BuildStructure))

	if opts.Flatten {
		flat, err := flattener.New(root, o.config.SubjectNames(), runLogger).Flatten()
		if err != nil {
			return nil, fmt.Errorf("flatten: %w", err)
		}
		report.FlattenMoved = flat.Moved
		report.DirsRemoved = flat.Removed
		report.MoveFailures = flat.MoveFailures
		report.RemovalFailures = flat.RemovalFailures
		report.ScanErrors = flat.ScanErrors
	}

	if opts.BuildStructure {
		built := structure.New(root, o.config.Subjects, o.classifier.Policy(), runLogger).Build()
		report.DirsCreated = built.Created
		report.StructureFailures = built.Failures
	}

	files, err := scanner.ScanTopLevel(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}

	if opts.Progress != nil {
		opts.Progress.Start(len(files))
	}
	for i, file := range files {
		o.dispatch(file, report, logger)
		if opts.Progress != nil {
			opts.Progress.Update(i+1, file.Name)
		}
	}
	if opts.Progress != nil {
		opts.Progress.End()
	}

	report.Duration = time.Since(start)
	logger.Info("run finished",
		slog.Int("flattened", len(report.FlattenMoved)),
		slog.Int("removed", len(report.DirsRemoved)),
		slog.Int("created", len(report.DirsCreated)),
		slog.Int("organized", report.Organized()),
		slog.Int("unplaced", len(report.Unplaced)),
		slog.Duration("duration", report.Duration))
	return report, nil
}

// dispatch classifies one top-level file and moves it when permitted.
func (o *Orchestrator) dispatch(file scanner.FileEntry, report *Report, logger *slog.Logger) {
	decision := o.classifier.Classify(file.Name)
	if !decision.Placeable() {
		logger.Debug("file left in root",
			slog.String(logging.FieldPath, file.Name),
			slog.String("reason", decision.ReasonText()))
		report.Unplaced = append(report.Unplaced, Unplaced{
			Filename: file.Name,
			Subject:  decision.Subject,
			Type:     decision.Type,
			Reasons:  decision.Reasons,
		})
		return
	}

	moved, err := organizer.Move(file.Path, decision.DestinationDir(report.Root))
	if err != nil {
		logger.Warn("could not move file", slog.String(logging.FieldPath, file.Name), logging.Err(err))
		report.Unplaced = append(report.Unplaced, Unplaced{
			Filename: file.Name,
			Subject:  decision.Subject,
			Type:     decision.Type,
			Reasons:  []classifier.Reason{classifier.MoveFailed},
			Err:      err,
		})
		return
	}

	dest := relTo(report.Root, moved.DestinationPath)
	logger.Debug("organized file", slog.String(logging.FieldPath, file.Name), slog.String("to", dest))
	report.Placements = append(report.Placements, Placement{
		Filename:    file.Name,
		Subject:     decision.Subject,
		Type:        decision.Type,
		Destination: dest,
		Renamed:     moved.Renamed,
		Size:        moved.Size,
	})
	report.BytesOrganized += moved.Size
}
