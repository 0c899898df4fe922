package orchestrator

import (
	"time"

	"subjectsort/internal/classifier"
)

// Summary holds the counts printed after a run.
type Summary struct {
	Flattened int
	Removed   int
	Created   int
	Organized int
	Unplaced  int
	Failures  int // I/O failures across all stages
	Bytes     int64
	Duration  time.Duration
	BySubject map[string]int            // Only populated in verbose mode
	ByReason  map[classifier.Reason]int // Only populated in verbose mode
}

// Summarize reduces a report to counts. When verbose is true the per-subject
// and per-reason breakdowns are filled in.
func Summarize(report *Report, verbose bool) *Summary {
	if report == nil {
		return &Summary{}
	}

	summary := &Summary{
		Flattened: len(report.FlattenMoved),
		Removed:   len(report.DirsRemoved),
		Created:   len(report.DirsCreated),
		Organized: report.Organized(),
		Unplaced:  len(report.Unplaced),
		Failures:  len(report.MoveFailures) + len(report.RemovalFailures) + len(report.StructureFailures) + len(report.ScanErrors),
		Bytes:     report.BytesOrganized,
		Duration:  report.Duration,
	}
	for _, u := range report.Unplaced {
		if u.Err != nil {
			summary.Failures++
		}
	}

	if verbose {
		summary.BySubject = make(map[string]int)
		for _, p := range report.Placements {
			summary.BySubject[p.Subject]++
		}
		summary.ByReason = report.UnplacedByReason()
	}

	return summary
}
