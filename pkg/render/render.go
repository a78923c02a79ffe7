// Package render produces terminal output for hierarchy previews and run
// results: a styled issue tree and a run summary, with a plain variant for
// quiet and non-interactive use.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/lerenn/spec-sync/pkg/creator"
	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/ticketing"
)

// Renderer renders hierarchies, run results and validation reports.
type Renderer struct {
	styles styleSet
}

// NewRenderer creates a renderer using the colored terminal styles.
func NewRenderer() *Renderer {
	return &Renderer{styles: coloredStyles()}
}

// NewPlainRenderer creates a renderer that applies no styling, for quiet
// mode and non-interactive output.
func NewPlainRenderer() *Renderer {
	return &Renderer{styles: plainStyles()}
}

// RenderHierarchy renders the issue tree, one line per node indented by
// depth, followed by a per-category count summary.
func (r *Renderer) RenderHierarchy(h *issue.Hierarchy) string {
	if h == nil || h.Size() == 0 {
		return r.styles.muted.Render("No issues found") + "\n"
	}

	var b strings.Builder
	var epics, stories, tasks int
	_ = h.Walk(func(s *issue.Spec) error {
		switch s.Type.Category() {
		case issue.CategoryEpic:
			epics++
		case issue.CategoryStory:
			stories++
		default:
			tasks++
		}

		b.WriteString(strings.Repeat("  ", s.Depth()))
		b.WriteString(r.marker(s.Type.Category()))
		b.WriteString(" ")
		b.WriteString(s.Title)
		if badge := r.priorityBadge(s.Priority); badge != "" {
			b.WriteString(" ")
			b.WriteString(badge)
		}
		if n := len(s.AcceptanceCriteria); n > 0 {
			b.WriteString(" ")
			b.WriteString(r.styles.muted.Render(fmt.Sprintf("(%d %s)", n, plural(n, "criterion", "criteria"))))
		}
		b.WriteString("\n")
		return nil
	})

	b.WriteString("\n")
	b.WriteString(r.styles.muted.Render(countLine(h.Size(), epics, stories, tasks)))
	b.WriteString("\n")
	return b.String()
}

// RenderResult renders the outcome of a synchronization run: created issues
// indented by remote parent depth, failures and warnings, and a closing
// summary line.
func (r *Renderer) RenderResult(res *creator.Result) string {
	var b strings.Builder

	b.WriteString(r.styles.title.Render(resultHeader(res)))
	b.WriteString("\n")

	if len(res.CreatedIssues) > 0 {
		b.WriteString("\n")
		byID := make(map[string]*ticketing.CreatedIssue, len(res.CreatedIssues))
		for _, rec := range res.CreatedIssues {
			byID[rec.ID] = rec
		}
		for _, rec := range res.CreatedIssues {
			b.WriteString(strings.Repeat("  ", recordDepth(rec, byID)))
			b.WriteString(r.styles.success.Render("✓"))
			b.WriteString(" ")
			b.WriteString(rec.Identifier)
			b.WriteString(" ")
			b.WriteString(rec.Title)
			if rec.URL != "" {
				b.WriteString("  ")
				b.WriteString(r.styles.muted.Render(rec.URL))
			}
			b.WriteString("\n")
		}
	}

	if len(res.Errors) > 0 {
		b.WriteString("\n")
		for _, issueErr := range res.Errors {
			if issueErr.FailedDependency {
				b.WriteString(r.styles.muted.Render("○ " + issueErr.Error()))
			} else {
				b.WriteString(r.styles.failure.Render("✗ " + issueErr.Error()))
			}
			b.WriteString("\n")
		}
	}

	if len(res.Warnings) > 0 {
		b.WriteString("\n")
		for _, warning := range res.Warnings {
			b.WriteString(r.styles.warning.Render("⚠ " + warning))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(r.resultFooter(res))
	b.WriteString("\n")
	if res.SourceAnnotated {
		b.WriteString(r.styles.muted.Render("Source annotated with issue links"))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderReport renders a validation report: a verdict line, the issue
// counts, and one line per problem.
func (r *Renderer) RenderReport(report *creator.ValidationReport) string {
	var b strings.Builder

	if report.Valid {
		b.WriteString(r.styles.success.Render(fmt.Sprintf("✓ %s is valid", report.SpecFile)))
	} else {
		n := len(report.Problems)
		b.WriteString(r.styles.failure.Render(fmt.Sprintf("✗ %s has %d %s", report.SpecFile, n, plural(n, "problem", "problems"))))
	}
	b.WriteString("\n")
	b.WriteString(r.styles.muted.Render(countLine(report.TotalIssues, report.Epics, report.Stories, report.Tasks)))
	b.WriteString("\n")

	for _, problem := range report.Problems {
		b.WriteString(r.styles.failure.Render("✗ " + problem))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) marker(c issue.Category) string {
	switch c {
	case issue.CategoryEpic:
		return r.styles.epic.Render("◆")
	case issue.CategoryStory:
		return r.styles.story.Render("▸")
	default:
		return r.styles.task.Render("•")
	}
}

// priorityBadge returns the styled badge for p, or an empty string for the
// default medium priority.
func (r *Renderer) priorityBadge(p issue.Priority) string {
	switch p {
	case issue.PriorityUrgent:
		return r.styles.urgent.Render("[urgent]")
	case issue.PriorityHigh:
		return r.styles.high.Render("[high]")
	case issue.PriorityLow:
		return r.styles.muted.Render("[low]")
	case issue.PriorityNone:
		return r.styles.muted.Render("[none]")
	default:
		return ""
	}
}

func (r *Renderer) resultFooter(res *creator.Result) string {
	total := res.TotalCreated + res.TotalFailed
	if total == 0 {
		return r.styles.muted.Render("No issues created")
	}

	text := fmt.Sprintf("Created %d of %d %s (%.0f%% success) in %s",
		res.TotalCreated, total, plural(total, "issue", "issues"),
		res.SuccessRate()*100, res.Elapsed.Round(time.Millisecond))
	if res.Success {
		return r.styles.success.Render(text)
	}
	return r.styles.failure.Render(text)
}

func resultHeader(res *creator.Result) string {
	details := make([]string, 0, 2)
	if res.System != "" {
		details = append(details, res.System)
	}
	if res.DryRun {
		details = append(details, "dry run")
	}
	if len(details) == 0 {
		return res.SpecFile
	}
	return res.SpecFile + " (" + strings.Join(details, ", ") + ")"
}

// recordDepth counts the parent links from rec to its topmost ancestor
// within the run's records.
func recordDepth(rec *ticketing.CreatedIssue, byID map[string]*ticketing.CreatedIssue) int {
	depth := 0
	for parent := byID[rec.ParentID]; parent != nil; parent = byID[parent.ParentID] {
		depth++
	}
	return depth
}

func countLine(total, epics, stories, tasks int) string {
	parts := make([]string, 0, 3)
	if epics > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", epics, plural(epics, "epic", "epics")))
	}
	if stories > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", stories, plural(stories, "story", "stories")))
	}
	if tasks > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", tasks, plural(tasks, "task", "tasks")))
	}

	line := fmt.Sprintf("%d %s", total, plural(total, "issue", "issues"))
	if len(parts) > 0 {
		line += ": " + strings.Join(parts, ", ")
	}
	return line
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
