package config

import (
	"fmt"
	"os"
	"strings"

	"subjectsort/internal/catalog"
	"subjectsort/internal/normalizer"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string             // Config field with issue (e.g., "subjects[0].folders[2]")
	Message  string             // Human-readable description
	Severity ValidationSeverity // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

// ValidateConfig checks the configuration and returns every finding.
// Unlike Validate it does not stop at the first problem, and it also reports
// warnings for settings that load but probably do not do what was intended.
func ValidateConfig(cfg *Configuration) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
	}

	var findings []ConfigValidationError
	findings = append(findings, ValidateRoot(cfg)...)
	findings = append(findings, ValidateSubjects(cfg)...)
	findings = append(findings, ValidateTypes(cfg)...)
	findings = append(findings, ValidateKeywordReach(cfg)...)

	for _, f := range findings {
		if f.Severity == SeverityError {
			result.Errors = append(result.Errors, f)
		} else {
			result.Warnings = append(result.Warnings, f)
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateRoot checks that the root directory exists.
func ValidateRoot(cfg *Configuration) []ConfigValidationError {
	if strings.TrimSpace(cfg.Root) == "" {
		return []ConfigValidationError{{Field: "root", Message: "root must be set", Severity: SeverityError}}
	}
	info, err := os.Stat(cfg.Root)
	switch {
	case os.IsNotExist(err):
		return []ConfigValidationError{{Field: "root", Message: "directory does not exist: " + cfg.Root, Severity: SeverityError}}
	case os.IsPermission(err):
		return []ConfigValidationError{{Field: "root", Message: "directory is not accessible: " + cfg.Root, Severity: SeverityError}}
	case err != nil:
		return []ConfigValidationError{{Field: "root", Message: "error accessing directory: " + err.Error(), Severity: SeverityError}}
	case !info.IsDir():
		return []ConfigValidationError{{Field: "root", Message: "path is not a directory: " + cfg.Root, Severity: SeverityError}}
	}
	return nil
}

// ValidateSubjects checks names, keywords and folder lists of every subject.
func ValidateSubjects(cfg *Configuration) []ConfigValidationError {
	var errs []ConfigValidationError

	if len(cfg.Subjects) == 0 {
		return append(errs, ConfigValidationError{
			Field:    "subjects",
			Message:  "at least one subject is required",
			Severity: SeverityError,
		})
	}

	known := cfg.Catalog()
	names := make(map[string]int)

	for i, subject := range cfg.Subjects {
		field := formatField("subjects", i)

		if err := checkFolderName(subject.Name); err != nil {
			errs = append(errs, ConfigValidationError{Field: field + ".name", Message: "name " + err.Error(), Severity: SeverityError})
		} else if first, ok := names[subject.Name]; ok {
			errs = append(errs, ConfigValidationError{
				Field:    field + ".name",
				Message:  fmt.Sprintf("duplicate subject %q conflicts with subject at index %d", subject.Name, first),
				Severity: SeverityError,
			})
		} else {
			names[subject.Name] = i
		}

		if len(subject.Keywords) == 0 {
			errs = append(errs, ConfigValidationError{
				Field:    field + ".keywords",
				Message:  fmt.Sprintf("subject %q has no keywords and will never match", subject.Name),
				Severity: SeverityWarning,
			})
		}
		for j, keyword := range subject.Keywords {
			if strings.TrimSpace(keyword) == "" {
				errs = append(errs, ConfigValidationError{
					Field:    fmt.Sprintf("%s.keywords[%d]", field, j),
					Message:  "keyword cannot be empty",
					Severity: SeverityError,
				})
			}
		}

		folders := make(map[string]bool)
		for j, folder := range subject.Folders {
			folderField := fmt.Sprintf("%s.folders[%d]", field, j)
			if err := checkFolderName(folder); err != nil {
				errs = append(errs, ConfigValidationError{Field: folderField, Message: "folder " + err.Error(), Severity: SeverityError})
				continue
			}
			if folders[folder] {
				errs = append(errs, ConfigValidationError{
					Field:    folderField,
					Message:  fmt.Sprintf("folder %q is listed twice", folder),
					Severity: SeverityWarning,
				})
			}
			folders[folder] = true
			if !known.Has(folder) {
				errs = append(errs, ConfigValidationError{
					Field:    folderField,
					Message:  fmt.Sprintf("folder %q is not a known file type; it will be created but nothing is ever placed in it", folder),
					Severity: SeverityWarning,
				})
			}
		}
	}

	return errs
}

// ValidateTypes checks a custom type catalog.
func ValidateTypes(cfg *Configuration) []ConfigValidationError {
	var errs []ConfigValidationError

	names := make(map[string]bool)
	owner := make(map[string]string) // extension -> first tag that declares it

	for i, rule := range cfg.Types {
		field := formatField("types", i)
		if err := checkFolderName(rule.Name); err != nil {
			errs = append(errs, ConfigValidationError{Field: field + ".name", Message: "name " + err.Error(), Severity: SeverityError})
			continue
		}
		if names[rule.Name] {
			errs = append(errs, ConfigValidationError{
				Field:    field + ".name",
				Message:  fmt.Sprintf("duplicate type %q", rule.Name),
				Severity: SeverityError,
			})
			continue
		}
		names[rule.Name] = true

		if len(rule.Extensions) == 0 {
			errs = append(errs, ConfigValidationError{
				Field:    field + ".extensions",
				Message:  fmt.Sprintf("type %q has no extensions", rule.Name),
				Severity: SeverityWarning,
			})
		}
		for j, ext := range rule.Extensions {
			normalized := catalog.NormalizeExtension(ext)
			if normalized == "" {
				errs = append(errs, ConfigValidationError{
					Field:    fmt.Sprintf("%s.extensions[%d]", field, j),
					Message:  "extension cannot be empty",
					Severity: SeverityError,
				})
				continue
			}
			if first, ok := owner[normalized]; ok && first != rule.Name {
				errs = append(errs, ConfigValidationError{
					Field:    fmt.Sprintf("%s.extensions[%d]", field, j),
					Message:  fmt.Sprintf("extension %q is already claimed by type %q, which is declared first", normalized, first),
					Severity: SeverityWarning,
				})
				continue
			}
			owner[normalized] = rule.Name
		}
	}

	return errs
}

// ValidateKeywordReach warns about keywords that can never decide a match.
// A keyword of a later subject is unreachable when an earlier subject has a
// keyword contained in it: any filename holding the later keyword also holds
// the earlier one, and earlier subjects are checked first.
func ValidateKeywordReach(cfg *Configuration) []ConfigValidationError {
	var errs []ConfigValidationError

	for i, subject := range cfg.Subjects {
		for j, keyword := range subject.Keywords {
			folded := normalizer.Fold(keyword)
			if strings.TrimSpace(folded) == "" {
				continue
			}
		earlier:
			for k := 0; k < i; k++ {
				for _, other := range cfg.Subjects[k].Keywords {
					otherFolded := normalizer.Fold(other)
					if strings.TrimSpace(otherFolded) == "" || !strings.Contains(folded, otherFolded) {
						continue
					}
					errs = append(errs, ConfigValidationError{
						Field: fmt.Sprintf("%s.keywords[%d]", formatField("subjects", i), j),
						Message: fmt.Sprintf("keyword %q of %q never matches: subject %q is checked first and its keyword %q is contained in it",
							keyword, subject.Name, cfg.Subjects[k].Name, other),
						Severity: SeverityWarning,
					})
					break earlier
				}
			}
		}
	}

	return errs
}
