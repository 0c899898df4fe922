package flattener

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"subjectsort/internal/organizer"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
}

func exists(root, rel string) bool {
	_, err := os.Lstat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("Failed to read %s: %v", rel, err)
	}
	return string(data)
}

func TestFlatten_MovesNestedFilesAndPrunes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "A/B/report.pdf", "report")
	writeFile(t, root, "A/notes.txt", "notes")
	writeFile(t, root, "top.docx", "top")

	result, err := New(root, []string{"Database"}, nil).Flatten()
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if len(result.Moved) != 2 {
		t.Fatalf("Expected 2 moved files, got %+v", result.Moved)
	}
	for _, rel := range []string{"report.pdf", "notes.txt", "top.docx"} {
		if !exists(root, rel) {
			t.Errorf("Expected %s in root", rel)
		}
	}
	if exists(root, "A/B") || exists(root, "A") {
		t.Error("Expected A/B and A to be removed")
	}

	removed := append([]string(nil), result.Removed...)
	if len(removed) != 2 || filepath.ToSlash(removed[0]) != "A/B" || removed[1] != "A" {
		t.Errorf("Expected removal order [A/B A], got %v", removed)
	}
}

func TestFlatten_CollisionGetsCounterSuffix(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "x.pdf", "original")
	writeFile(t, root, "sub/x.pdf", "nested")
	writeFile(t, root, "other/x.pdf", "other")

	result, err := New(root, nil, nil).Flatten()
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if got := readFile(t, root, "x.pdf"); got != "original" {
		t.Errorf("x.pdf was overwritten: %q", got)
	}

	var names []string
	for _, m := range result.Moved {
		if !m.Renamed {
			t.Errorf("Expected %s to be renamed", m.From)
		}
		names = append(names, m.To)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "x_1.pdf" || names[1] != "x_2.pdf" {
		t.Errorf("Expected x_1.pdf and x_2.pdf, got %v", names)
	}

	contents := []string{readFile(t, root, "x_1.pdf"), readFile(t, root, "x_2.pdf")}
	sort.Strings(contents)
	if contents[0] != "nested" || contents[1] != "other" {
		t.Errorf("Data lost during collision handling: %v", contents)
	}
}

func TestFlatten_LeavesSubjectTreesAlone(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Database/pdf/placed.pdf", "placed")
	writeFile(t, root, "Database/loose.pdf", "loose")
	if err := os.MkdirAll(filepath.Join(root, "Database", "word-documents"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "misc", "Networking"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, root, "old Networking notes/slides.pptx", "slides")

	result, err := New(root, []string{"Database", "Networking"}, nil).Flatten()
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if len(result.Moved) != 0 {
		t.Errorf("Expected nothing moved, got %+v", result.Moved)
	}
	for _, rel := range []string{
		"Database/pdf/placed.pdf",
		"Database/loose.pdf",
		"Database/word-documents",
		"misc/Networking",
		"old Networking notes/slides.pptx",
	} {
		if !exists(root, rel) {
			t.Errorf("Expected %s to be kept", rel)
		}
	}
}

func TestFlatten_SubjectCheckIgnoresRootPath(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "Networking archive")
	writeFile(t, root, "deep/wan.pdf", "wan")

	result, err := New(root, []string{"Networking"}, nil).Flatten()
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if len(result.Moved) != 1 || !exists(root, "wan.pdf") {
		t.Errorf("Expected deep/wan.pdf to move to root, got %+v", result.Moved)
	}
	if exists(root, "deep") {
		t.Error("Expected deep to be removed")
	}
}

func TestFlatten_MoveFailureIsNotFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	writeFile(t, root, "locked/stuck.pdf", "stuck")
	writeFile(t, root, "open/free.pdf", "free")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	result, err := New(root, nil, nil).Flatten()
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if len(result.MoveFailures) != 1 {
		t.Fatalf("Expected 1 move failure, got %v", result.MoveFailures)
	}
	var moveErr *organizer.MoveError
	if !errors.As(result.MoveFailures[0], &moveErr) || moveErr.Type != organizer.PermissionDenied {
		t.Errorf("Expected PermissionDenied, got %v", result.MoveFailures[0])
	}
	if !exists(root, "locked/stuck.pdf") {
		t.Error("Failed file must stay at its original location")
	}
	if !exists(root, "free.pdf") || exists(root, "open") {
		t.Error("Other files must still be flattened and their folders pruned")
	}
}

func TestFlatten_RemovalFailureIsNotFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	for _, rel := range []string{"locked/empty", "loose/inner"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel)), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	result, err := New(root, nil, nil).Flatten()
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if len(result.RemovalFailures) != 1 {
		t.Fatalf("Expected 1 removal failure, got %v", result.RemovalFailures)
	}
	var removeErr *RemoveError
	if !errors.As(result.RemovalFailures[0], &removeErr) || filepath.ToSlash(removeErr.Path) != "locked/empty" {
		t.Errorf("Expected a RemoveError for locked/empty, got %v", result.RemovalFailures[0])
	}
	if !exists(root, "locked/empty") {
		t.Error("Directory that could not be removed must still exist")
	}
	if exists(root, "loose/inner") || exists(root, "loose") {
		t.Error("Other empty directories must still be removed")
	}
	if len(result.Removed) != 2 {
		t.Errorf("Expected loose and loose/inner removed, got %v", result.Removed)
	}
}

func TestMentionsSubject(t *testing.T) {
	subjects := []string{"Database", "Networking"}
	tests := []struct {
		rel  string
		want bool
	}{
		{".", false},
		{"", false},
		{"Database", true},
		{"old Database notes/week1", true},
		{"inbox/Networking", true},
		{"inbox", false},
		{"database", false},
	}
	for _, tt := range tests {
		if got := MentionsSubject(filepath.FromSlash(tt.rel), subjects); got != tt.want {
			t.Errorf("MentionsSubject(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestCandidates_DoesNotModify(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "A/B/report.pdf", "report")
	writeFile(t, root, "Database/pdf/x.pdf", "x")
	writeFile(t, root, "top.pdf", "top")

	candidates, err := New(root, []string{"Database"}, nil).Candidates()
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}

	if len(candidates) != 1 || filepath.ToSlash(candidates[0].Rel) != "A/B/report.pdf" {
		t.Errorf("Expected only A/B/report.pdf, got %+v", candidates)
	}
	if !exists(root, "A/B/report.pdf") {
		t.Error("Candidates must not move files")
	}
}
