package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"report.pdf":     ".pdf",
		"Report.PDF":     ".PDF",
		"archive.tar.gz": ".gz",
		".bashrc":        "",
		"..pdf":          ".pdf",
		"notes.":         "",
		"README":         "",
		"":               "",
	}
	for name, want := range tests {
		if got := Extension(name); got != want {
			t.Errorf("Extension(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"x.pdf":          "x",
		"archive.tar.gz": "archive.tar",
		".bashrc":        ".bashrc",
		"README":         "README",
	}
	for name, want := range tests {
		if got := Stem(name); got != want {
			t.Errorf("Stem(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestScanTopLevel_OnlyImmediateFiles(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "b.pdf"))
	mustWrite(t, filepath.Join(root, "a.docx"))
	mustWrite(t, filepath.Join(root, "sub", "nested.pdf"))

	files, err := ScanTopLevel(root)
	if err != nil {
		t.Fatalf("ScanTopLevel failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(files))
	}
	if files[0].Name != "a.docx" || files[1].Name != "b.pdf" {
		t.Errorf("Expected sorted names [a.docx b.pdf], got [%s %s]", files[0].Name, files[1].Name)
	}
	if files[1].Ext != ".pdf" {
		t.Errorf("Expected extension .pdf, got %q", files[1].Ext)
	}
	if !filepath.IsAbs(files[0].Path) {
		t.Errorf("Expected absolute path, got %q", files[0].Path)
	}
	if files[0].Size != int64(len("content")) {
		t.Errorf("Expected size %d, got %d", len("content"), files[0].Size)
	}
}

func TestScanTopLevel_FollowsFileSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "target.pdf")
	mustWrite(t, target)
	if err := os.Symlink(target, filepath.Join(root, "link.pdf")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(t.TempDir(), filepath.Join(root, "dirlink")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	files, err := ScanTopLevel(root)
	if err != nil {
		t.Fatalf("ScanTopLevel failed: %v", err)
	}
	if len(files) != 1 || files[0].Name != "link.pdf" {
		t.Errorf("Expected only link.pdf, got %+v", files)
	}
}

func TestScanTopLevel_Errors(t *testing.T) {
	root := t.TempDir()

	_, err := ScanTopLevel(filepath.Join(root, "missing"))
	var scanErr *ScanError
	if !errors.As(err, &scanErr) || scanErr.Type != DirectoryNotFound {
		t.Errorf("Expected DirectoryNotFound, got %v", err)
	}

	file := filepath.Join(root, "file.txt")
	mustWrite(t, file)
	_, err = ScanTopLevel(file)
	if !errors.As(err, &scanErr) || scanErr.Type != NotADirectory {
		t.Errorf("Expected NotADirectory, got %v", err)
	}
}

func TestWalk_CollectsFilesAndDirs(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "top.pdf"))
	mustWrite(t, filepath.Join(root, "A", "B", "report.pdf"))
	mustWrite(t, filepath.Join(root, "A", "notes.txt"))
	if err := os.MkdirAll(filepath.Join(root, "empty", "deeper"), 0o755); err != nil {
		t.Fatal(err)
	}

	tree, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	var rels []string
	for _, f := range tree.Files {
		rels = append(rels, filepath.ToSlash(f.Rel))
	}
	sort.Strings(rels)
	want := []string{"A/B/report.pdf", "A/notes.txt", "top.pdf"}
	if len(rels) != len(want) {
		t.Fatalf("Expected files %v, got %v", want, rels)
	}
	for i := range want {
		if rels[i] != want[i] {
			t.Errorf("file[%d] = %q, want %q", i, rels[i], want[i])
		}
	}

	if len(tree.Dirs) != 4 {
		t.Fatalf("Expected 4 directories, got %d: %+v", len(tree.Dirs), tree.Dirs)
	}

	ordered := DirsDeepestFirst(tree.Dirs)
	if ordered[0].Depth != 2 || ordered[len(ordered)-1].Depth != 1 {
		t.Errorf("Expected deepest first, got %+v", ordered)
	}
	if filepath.ToSlash(ordered[0].Rel) != "A/B" || filepath.ToSlash(ordered[1].Rel) != "empty/deeper" {
		t.Errorf("Expected equal depths in lexical order, got %q then %q", ordered[0].Rel, ordered[1].Rel)
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		rel  string
		want int
	}{
		{"", 0},
		{".", 0},
		{"A", 1},
		{filepath.Join("A", "B"), 2},
	}
	for _, tt := range tests {
		if got := Depth(tt.rel); got != tt.want {
			t.Errorf("Depth(%q) = %d, want %d", tt.rel, got, tt.want)
		}
	}
}

func TestIsEmptyDir(t *testing.T) {
	root := t.TempDir()

	empty, err := IsEmptyDir(root)
	if err != nil || !empty {
		t.Errorf("Expected fresh temp dir to be empty, got %v, %v", empty, err)
	}

	mustWrite(t, filepath.Join(root, "x"))
	empty, err = IsEmptyDir(root)
	if err != nil || empty {
		t.Errorf("Expected dir with a file to be non-empty, got %v, %v", empty, err)
	}

	if _, err := IsEmptyDir(filepath.Join(root, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
