package classifier

import (
	"path/filepath"
	"testing"

	"subjectsort/internal/config"
)

func testClassifier() *Classifier {
	cfg := &config.Configuration{
		Subjects: []config.Subject{
			{Name: "Database", Keywords: []string{"report", "sql"}, Folders: []string{"pdf"}},
			{Name: "Networking", Keywords: []string{"redes", "wan"}},
		},
	}
	return NewFromConfig(cfg)
}

func TestClassify_Placeable(t *testing.T) {
	d := testClassifier().Classify("Report_final.PDF")

	if !d.Placeable() {
		t.Fatalf("expected placeable decision, got reasons %v", d.Reasons)
	}
	if d.Subject != "Database" || d.Type != "pdf" || d.Keyword != "report" {
		t.Errorf("unexpected decision %+v", d)
	}
	if got, want := d.DestinationDir("/root"), filepath.Join("/root", "Database", "pdf"); got != want {
		t.Errorf("DestinationDir = %q, want %q", got, want)
	}
	if len(d.Reasons) != 0 {
		t.Errorf("placeable decision should carry no reasons, got %v", d.Reasons)
	}
}

func TestClassify_TypeNotPermitted(t *testing.T) {
	d := testClassifier().Classify("redes_lab.zip")

	if d.Placeable() {
		t.Fatal("archives are not in Networking's default folders")
	}
	if d.Subject != "Networking" || d.Type != "archives" {
		t.Errorf("expected Networking/archives, got %q/%q", d.Subject, d.Type)
	}
	if len(d.Reasons) != 1 || d.Reasons[0] != TypeNotPermitted {
		t.Errorf("expected only %q, got %v", TypeNotPermitted, d.Reasons)
	}
	if d.DestinationDir("/root") != "" {
		t.Error("unplaceable decision must not have a destination")
	}
}

func TestClassify_UnresolvedReasons(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		filename string
		want     []Reason
	}{
		{"notes.txt", []Reason{SubjectNotIdentified, TypeNotRecognized}},
		{"holiday.jpg", []Reason{SubjectNotIdentified}},
		{"wan-notes.md", []Reason{TypeNotRecognized}},
		{"sql", []Reason{TypeNotRecognized}},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			d := c.Classify(tt.filename)
			if d.Placeable() {
				t.Fatalf("did not expect %q to be placeable", tt.filename)
			}
			if len(d.Reasons) != len(tt.want) {
				t.Fatalf("reasons = %v, want %v", d.Reasons, tt.want)
			}
			for i := range tt.want {
				if d.Reasons[i] != tt.want[i] {
					t.Errorf("reason[%d] = %q, want %q", i, d.Reasons[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecision_ReasonText(t *testing.T) {
	d := testClassifier().Classify("notes.txt")

	if got, want := d.ReasonText(), "subject not identified, file type not recognized"; got != want {
		t.Errorf("ReasonText() = %q, want %q", got, want)
	}
	if !d.HasReason(TypeNotRecognized) || d.HasReason(MoveFailed) {
		t.Error("HasReason reports the wrong reasons")
	}
}
