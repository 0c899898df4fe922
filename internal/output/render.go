package output

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"subjectsort/internal/classifier"
	"subjectsort/internal/config"
	"subjectsort/internal/orchestrator"
)

const none = "-"

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

// RenderReport formats the outcome of a run. Placements are listed only in
// verbose mode; unplaced files and failures are always listed.
func RenderReport(report *orchestrator.Report, verbose bool) string {
	summary := orchestrator.Summarize(report, verbose)
	var b strings.Builder

	rows := [][]string{
		{"Files flattened to root", humanize.Comma(int64(summary.Flattened))},
		{"Empty folders removed", humanize.Comma(int64(summary.Removed))},
		{"Folders created", humanize.Comma(int64(summary.Created))},
		{"Files organized", humanize.Comma(int64(summary.Organized))},
		{"Data organized", humanize.Bytes(uint64(summary.Bytes))},
		{"Files left in root", humanize.Comma(int64(summary.Unplaced))},
		{"Failures", humanize.Comma(int64(summary.Failures))},
		{"Duration", summary.Duration.Round(time.Millisecond).String()},
	}
	b.WriteString(RenderTable([]string{"Result", "Count"}, rows, []Align{AlignLeft, AlignRight}))
	b.WriteString("\n")

	if verbose && len(report.Placements) > 0 {
		placed := make([][]string, 0, len(report.Placements))
		for _, p := range report.Placements {
			dest := p.Destination
			if p.Renamed {
				dest += " (renamed)"
			}
			placed = append(placed, []string{p.Filename, p.Subject, p.Type, dest})
		}
		b.WriteString("\nOrganized files\n")
		b.WriteString(RenderTable([]string{"File", "Subject", "Type", "Destination"}, placed, nil))
		b.WriteString("\n")
	}

	if verbose && len(summary.BySubject) > 0 {
		subjects := make([]string, 0, len(summary.BySubject))
		for name := range summary.BySubject {
			subjects = append(subjects, name)
		}
		sort.Strings(subjects)
		perSubject := make([][]string, 0, len(subjects))
		for _, name := range subjects {
			perSubject = append(perSubject, []string{name, humanize.Comma(int64(summary.BySubject[name]))})
		}
		b.WriteString("\n")
		b.WriteString(RenderTable([]string{"Subject", "Files"}, perSubject, []Align{AlignLeft, AlignRight}))
		b.WriteString("\n")
	}

	if report != nil && len(report.Unplaced) > 0 {
		left := make([][]string, 0, len(report.Unplaced))
		for _, u := range report.Unplaced {
			reason := u.ReasonText()
			if u.Err != nil {
				reason += ": " + u.Err.Error()
			}
			left = append(left, []string{u.Filename, orNone(u.Subject), orNone(u.Type), reason})
		}
		b.WriteString("\nFiles not organized\n")
		b.WriteString(RenderTable([]string{"File", "Subject", "Type", "Reason"}, left, nil))
		b.WriteString("\n")
	}

	if report != nil {
		var failures []error
		for _, group := range [][]error{report.ScanErrors, report.MoveFailures, report.RemovalFailures, report.StructureFailures} {
			failures = append(failures, group...)
		}
		if len(failures) > 0 {
			b.WriteString("\nProblems\n")
			for _, err := range failures {
				fmt.Fprintf(&b, "  - %v\n", err)
			}
		}
	}

	return b.String()
}

// RenderPlan formats a dry-run plan.
func RenderPlan(plan *orchestrator.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan for %s\n", plan.Root)

	if len(plan.Flatten) > 0 {
		fmt.Fprintf(&b, "\n%s nested files would be moved to the root:\n", humanize.Comma(int64(len(plan.Flatten))))
		for _, rel := range plan.Flatten {
			fmt.Fprintf(&b, "  %s\n", rel)
		}
	}
	if len(plan.CreateDirs) > 0 {
		fmt.Fprintf(&b, "\n%s folders would be created:\n", humanize.Comma(int64(len(plan.CreateDirs))))
		for _, rel := range plan.CreateDirs {
			fmt.Fprintf(&b, "  %s\n", rel)
		}
	}

	if len(plan.Entries) == 0 {
		b.WriteString("\nNo files to organize.\n")
		return b.String()
	}

	rows := make([][]string, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		outcome := e.Destination
		if !e.Decision.Placeable() {
			outcome = "stays: " + e.Decision.ReasonText()
		}
		rows = append(rows, []string{e.Source, orNone(e.Decision.Subject), orNone(e.Decision.Type), outcome})
	}
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"File", "Subject", "Type", "Outcome"}, rows, nil))
	b.WriteString("\n")
	fmt.Fprintf(&b, "\n%d would be organized, %d would stay in the root\n",
		len(plan.Placeable()), len(plan.Unplaceable()))
	return b.String()
}

// RenderCatalog formats the type catalog and each subject's resolved folders.
func RenderCatalog(cfg *config.Configuration, c *classifier.Classifier) string {
	var b strings.Builder

	tags := c.Catalog().Tags()
	typeRows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		typeRows = append(typeRows, []string{tag.Name, strings.Join(tag.Extensions, " ")})
	}
	b.WriteString("File types\n")
	b.WriteString(RenderTable([]string{"Type", "Extensions"}, typeRows, nil))
	b.WriteString("\n")

	subjectRows := make([][]string, 0, len(cfg.Subjects))
	for i, subject := range cfg.Subjects {
		folders := strings.Join(c.Policy().AllowedTypes(subject.Name), ", ")
		if !c.Policy().IsCustom(subject.Name) {
			folders += " (default)"
		}
		subjectRows = append(subjectRows, []string{
			strconv.Itoa(i + 1),
			subject.Name,
			strings.Join(subject.Keywords, ", "),
			folders,
		})
	}
	b.WriteString("\nSubjects, in match order\n")
	b.WriteString(RenderTable([]string{"#", "Subject", "Keywords", "Folders"}, subjectRows,
		[]Align{AlignRight, AlignLeft, AlignLeft, AlignLeft}))
	b.WriteString("\n")

	return b.String()
}
