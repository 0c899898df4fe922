// Package classifier computes placement decisions for files in subjectsort.
package classifier

import (
	"path/filepath"
	"strings"

	"subjectsort/internal/catalog"
	"subjectsort/internal/config"
	"subjectsort/internal/matcher"
	"subjectsort/internal/policy"
	"subjectsort/internal/scanner"
)

// Reason explains why a file was left unplaced.
type Reason string

const (
	SubjectNotIdentified Reason = "subject not identified"
	TypeNotRecognized    Reason = "file type not recognized"
	TypeNotPermitted     Reason = "type not permitted for subject"
	MoveFailed           Reason = "move error"
)

// Decision is the placement outcome for a single file.
// It is derived on demand and never stored.
type Decision struct {
	Filename string
	Subject  string // Empty when no subject matched
	Keyword  string // Keyword that decided Subject
	Type     string // Empty when the extension is not in the catalog
	Allowed  bool   // Subject and Type both resolved and the policy permits the pair
	Reasons  []Reason
}

// Placeable reports whether the file has a destination folder.
func (d *Decision) Placeable() bool {
	return d.Allowed
}

// DestinationDir returns root/<subject>/<type> for a placeable decision,
// or "" otherwise.
func (d *Decision) DestinationDir(root string) string {
	if !d.Allowed {
		return ""
	}
	return filepath.Join(root, d.Subject, d.Type)
}

// ReasonText joins the reasons for display.
func (d *Decision) ReasonText() string {
	parts := make([]string, len(d.Reasons))
	for i, r := range d.Reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

// HasReason reports whether r is among the decision's reasons.
func (d *Decision) HasReason(r Reason) bool {
	for _, existing := range d.Reasons {
		if existing == r {
			return true
		}
	}
	return false
}

// Classifier combines the subject matcher, type catalog and folder policy.
type Classifier struct {
	matcher *matcher.Matcher
	catalog *catalog.Catalog
	policy  *policy.Policy
}

// New creates a Classifier from its three parts.
func New(m *matcher.Matcher, c *catalog.Catalog, p *policy.Policy) *Classifier {
	return &Classifier{matcher: m, catalog: c, policy: p}
}

// NewFromConfig builds a Classifier for cfg's subjects and catalog.
func NewFromConfig(cfg *config.Configuration) *Classifier {
	return New(matcher.New(cfg.Subjects), cfg.Catalog(), policy.New(cfg.Subjects))
}

// Policy returns the folder policy in use.
func (c *Classifier) Policy() *policy.Policy {
	return c.policy
}

// Catalog returns the type catalog in use.
func (c *Classifier) Catalog() *catalog.Catalog {
	return c.catalog
}

// Classify determines subject, type and permission for filename.
func (c *Classifier) Classify(filename string) *Decision {
	d := &Decision{Filename: filename}

	if tag, ok := c.catalog.Classify(scanner.Extension(filename)); ok {
		d.Type = tag.Name
	}
	if match := c.matcher.Match(filename); match.Matched {
		d.Subject = match.Subject.Name
		d.Keyword = match.Keyword
	}

	switch {
	case d.Subject != "" && d.Type != "":
		if c.policy.Allows(d.Subject, d.Type) {
			d.Allowed = true
		} else {
			d.Reasons = append(d.Reasons, TypeNotPermitted)
		}
	default:
		if d.Subject == "" {
			d.Reasons = append(d.Reasons, SubjectNotIdentified)
		}
		if d.Type == "" {
			d.Reasons = append(d.Reasons, TypeNotRecognized)
		}
	}

	return d
}
