package orchestrator

import (
	"path/filepath"

	"subjectsort/internal/classifier"
	"subjectsort/internal/flattener"
	"subjectsort/internal/scanner"
	"subjectsort/internal/structure"
)

// PlanEntry is the predicted outcome for one file.
type PlanEntry struct {
	Source      string // Path relative to the root
	Nested      bool   // True if the flatten stage would first bring the file to the root
	Decision    *classifier.Decision
	Destination string // Destination folder relative to the root; empty when the file stays
}

// Plan describes what Organize would do with the same options.
// Collision renames are not predicted.
type Plan struct {
	Root       string
	Flatten    []string // Nested files the flatten stage would move, relative to the root
	CreateDirs []string // Folders the structure stage would create
	Entries    []PlanEntry
}

// Placeable returns the entries that would be moved into the tree.
func (p *Plan) Placeable() []PlanEntry {
	var out []PlanEntry
	for _, e := range p.Entries {
		if e.Decision.Placeable() {
			out = append(out, e)
		}
	}
	return out
}

// Unplaceable returns the entries that would stay in the root.
func (p *Plan) Unplaceable() []PlanEntry {
	var out []PlanEntry
	for _, e := range p.Entries {
		if !e.Decision.Placeable() {
			out = append(out, e)
		}
	}
	return out
}

// ByDestination groups placeable sources by destination folder.
func (p *Plan) ByDestination() map[string][]string {
	groups := make(map[string][]string)
	for _, e := range p.Placeable() {
		groups[e.Destination] = append(groups[e.Destination], e.Source)
	}
	return groups
}

// Plan inspects the root and predicts the outcome of Organize(opts) without
// modifying anything. It does not take the run lock.
func (o *Orchestrator) Plan(opts Options) (*Plan, error) {
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	root := o.config.Root
	plan := &Plan{Root: root}

	if opts.Flatten {
		candidates, err := flattener.New(root, o.config.SubjectNames(), o.base).Candidates()
		if err != nil {
			return nil, err
		}
		for _, file := range candidates {
			plan.Flatten = append(plan.Flatten, file.Rel)
			plan.Entries = append(plan.Entries, o.predict(file.Rel, file.Name, true))
		}
	}

	if opts.BuildStructure {
		plan.CreateDirs = structure.New(root, o.config.Subjects, o.classifier.Policy(), o.base).Plan()
	}

	files, err := scanner.ScanTopLevel(root)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		plan.Entries = append(plan.Entries, o.predict(file.Name, file.Name, false))
	}

	return plan, nil
}

func (o *Orchestrator) predict(source, name string, nested bool) PlanEntry {
	decision := o.classifier.Classify(name)
	entry := PlanEntry{Source: source, Nested: nested, Decision: decision}
	if decision.Placeable() {
		entry.Destination = filepath.Join(decision.Subject, decision.Type)
	}
	return entry
}

// relTo returns path relative to root, or path unchanged if it is not below root.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
