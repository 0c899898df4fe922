package matcher

import (
	"strings"
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"subjectsort/internal/config"
)

// randomizeCase applies random casing to a string
func randomizeCase(s string, seed int64) string {
	runes := []rune(s)
	for i := range runes {
		if (seed>>uint(i%64))&1 == 1 {
			runes[i] = unicode.ToUpper(runes[i])
		} else {
			runes[i] = unicode.ToLower(runes[i])
		}
	}
	return string(runes)
}

func genKeyword() gopter.Gen {
	return gen.AlphaString().Map(func(s string) string {
		if len(s) > 6 {
			s = s[:6]
		}
		if s == "" {
			s = "k"
		}
		return s
	})
}

func genSubjects() gopter.Gen {
	return gen.SliceOfN(4, gen.SliceOfN(3, genKeyword())).Map(func(lists [][]string) []config.Subject {
		subjects := make([]config.Subject, len(lists))
		for i, kw := range lists {
			subjects[i] = config.Subject{Name: "subject-" + string(rune('a'+i)), Keywords: kw}
		}
		return subjects
	})
}

// reference is the plain nested-loop definition of a match.
func reference(filename string, subjects []config.Subject) string {
	lower := strings.ToLower(filename)
	for _, s := range subjects {
		for _, k := range s.Keywords {
			if strings.Contains(lower, strings.ToLower(k)) {
				return s.Name
			}
		}
	}
	return ""
}

func TestMatch_FirstDeclaredSubjectWins(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("Match agrees with declaration-order scan", prop.ForAll(
		func(subjects []config.Subject, filename string) bool {
			result := Match(filename, subjects)
			want := reference(filename, subjects)
			if want == "" {
				return !result.Matched
			}
			return result.Matched && result.Subject.Name == want
		},
		genSubjects(),
		gen.AlphaString(),
	))

	properties.Property("a keyword embedded in any casing matches its subject", prop.ForAll(
		func(keyword string, seed int64, left, right string) bool {
			subjects := []config.Subject{{Name: "Only", Keywords: []string{keyword}}}
			filename := left + randomizeCase(keyword, seed) + right + ".pdf"
			result := Match(filename, subjects)
			return result.Matched && result.Subject.Name == "Only" && result.Keyword == keyword
		},
		genKeyword(),
		gen.Int64(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestMatch_Examples(t *testing.T) {
	subjects := []config.Subject{
		{Name: "Database", Keywords: []string{"base", "sql", "BD"}},
		{Name: "Networking", Keywords: []string{"redes", "wan", "sql"}},
		{Name: "Programming", Keywords: []string{"programación"}},
	}
	m := New(subjects)

	tests := []struct {
		filename string
		want     string
		keyword  string
	}{
		{"Tarea_SQL_redes.pdf", "Database", "sql"},
		{"apuntes WAN.docx", "Networking", "wan"},
		{"proyecto-bd.zip", "Database", "BD"},
		{"Programación_final.py", "Programming", "programación"},
		{"notes.txt", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := m.Match(tt.filename)
			if tt.want == "" {
				if result.Matched {
					t.Errorf("expected no match for %q, got %q", tt.filename, result.Subject.Name)
				}
				return
			}
			if !result.Matched {
				t.Fatalf("expected %q to match %q", tt.filename, tt.want)
			}
			if result.Subject.Name != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.filename, result.Subject.Name, tt.want)
			}
			if result.Keyword != tt.keyword {
				t.Errorf("Match(%q) keyword = %q, want %q", tt.filename, result.Keyword, tt.keyword)
			}
		})
	}
}

func TestMatch_EmptyKeywordNeverMatches(t *testing.T) {
	result := Match("anything.pdf", []config.Subject{{Name: "A", Keywords: []string{""}}})
	if result.Matched {
		t.Error("an empty keyword must not match every filename")
	}
}

func TestNew_CopiesSubjects(t *testing.T) {
	subjects := []config.Subject{{Name: "A", Keywords: []string{"alpha"}}}
	m := New(subjects)
	subjects[0].Name = "changed"

	result := m.Match("alpha.pdf")
	if !result.Matched || result.Subject.Name != "A" {
		t.Errorf("matcher must not observe later changes to its input, got %+v", result)
	}
}
