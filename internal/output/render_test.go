package output

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subjectsort/internal/classifier"
	"subjectsort/internal/config"
	"subjectsort/internal/orchestrator"
)

func TestRenderTable(t *testing.T) {
	got := RenderTable([]string{"Name", "Count"}, [][]string{{"a", "1"}, {"b"}}, []Align{AlignLeft, AlignRight})

	assert.Contains(t, got, "╭")
	assert.Contains(t, got, "NAME")
	assert.Len(t, strings.Split(got, "\n"), 6, "top, header, separator, two rows, bottom: %q", got)
	assert.Empty(t, RenderTable(nil, nil, nil))
}

func testReport() *orchestrator.Report {
	return &orchestrator.Report{
		DirsCreated: []string{"Database", "Database/pdf"},
		Placements: []orchestrator.Placement{
			{Filename: "report.pdf", Subject: "Database", Type: "pdf", Destination: "Database/pdf/report_1.pdf", Renamed: true, Size: 2048},
		},
		Unplaced: []orchestrator.Unplaced{
			{Filename: "notes.txt", Reasons: []classifier.Reason{classifier.SubjectNotIdentified, classifier.TypeNotRecognized}},
			{Filename: "sql.pdf", Subject: "Database", Type: "pdf", Reasons: []classifier.Reason{classifier.MoveFailed}, Err: errors.New("permission denied")},
		},
		RemovalFailures: []error{errors.New("remove A: busy")},
		BytesOrganized:  2048,
		Duration:        1500 * time.Millisecond,
	}
}

func TestRenderReport(t *testing.T) {
	got := RenderReport(testReport(), false)

	assert.Contains(t, got, "2.0 kB")
	assert.Contains(t, got, "notes.txt")
	assert.Contains(t, got, "subject not identified, file type not recognized")
	assert.Contains(t, got, "move error: permission denied")
	assert.Contains(t, got, "remove A: busy")
	assert.NotContains(t, got, "Organized files", "placements are verbose-only")
}

func TestRenderReport_Verbose(t *testing.T) {
	got := RenderReport(testReport(), true)

	assert.Contains(t, got, "Organized files")
	assert.Contains(t, got, "Database/pdf/report_1.pdf (renamed)")
}

func TestRenderPlan(t *testing.T) {
	plan := &orchestrator.Plan{
		Root:       "/data",
		Flatten:    []string{"inbox/report.pdf"},
		CreateDirs: []string{"Database"},
		Entries: []orchestrator.PlanEntry{
			{Source: "inbox/report.pdf", Nested: true, Decision: &classifier.Decision{Filename: "report.pdf", Subject: "Database", Type: "pdf", Allowed: true}, Destination: "Database/pdf"},
			{Source: "notes.txt", Decision: &classifier.Decision{Filename: "notes.txt", Reasons: []classifier.Reason{classifier.TypeNotRecognized}}},
		},
	}

	got := RenderPlan(plan)
	assert.Contains(t, got, "Plan for /data")
	assert.Contains(t, got, "1 nested files would be moved")
	assert.Contains(t, got, "stays: file type not recognized")
	assert.Contains(t, got, "1 would be organized, 1 would stay in the root")

	empty := RenderPlan(&orchestrator.Plan{Root: "/data"})
	assert.Contains(t, empty, "No files to organize.")
}

func TestRenderCatalog(t *testing.T) {
	cfg := &config.Configuration{
		Root: t.TempDir(),
		Subjects: []config.Subject{
			{Name: "Database", Keywords: []string{"sql"}, Folders: []string{"pdf", "archives"}},
			{Name: "Networking", Keywords: []string{"tcp", "network"}},
		},
	}
	require.NoError(t, cfg.Validate())

	got := RenderCatalog(cfg, classifier.NewFromConfig(cfg))
	assert.Contains(t, got, "source-code")
	assert.Contains(t, got, "pdf, archives")
	assert.Contains(t, got, "pdf, word-documents, presentations (default)")
	assert.Less(t, strings.Index(got, "Database"), strings.Index(got, "Networking"))
}
