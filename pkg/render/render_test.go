//go:build unit

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/lerenn/spec-sync/pkg/creator"
	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/ticketing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHierarchy(t *testing.T) *issue.Hierarchy {
	t.Helper()

	epic := issue.NewSpec("Billing revamp")
	epic.Type = issue.TypeEpic

	story := issue.NewSpec("Invoice exports")
	story.Type = issue.TypeStory
	story.Priority = issue.PriorityHigh
	story.AcceptanceCriteria = []issue.Criterion{{Text: "CSV download works"}}

	task := issue.NewSpec("Wire export job")
	task.Type = issue.TypeTask

	h := issue.NewHierarchy()
	require.NoError(t, h.AddIssue(epic))
	require.NoError(t, h.AddIssue(story))
	require.NoError(t, h.AddIssue(task))
	require.NoError(t, h.AddChild(epic, story))
	require.NoError(t, h.AddChild(story, task))
	return h
}

func TestRenderHierarchy_Tree(t *testing.T) {
	out := NewPlainRenderer().RenderHierarchy(buildHierarchy(t))

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "◆ Billing revamp", lines[0])
	assert.Equal(t, "  ▸ Invoice exports [high] (1 criterion)", lines[1])
	assert.Equal(t, "    • Wire export job", lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "3 issues: 1 epic, 1 story, 1 task", lines[4])
}

func TestRenderHierarchy_Empty(t *testing.T) {
	assert.Equal(t, "No issues found\n", NewPlainRenderer().RenderHierarchy(issue.NewHierarchy()))
	assert.Equal(t, "No issues found\n", NewPlainRenderer().RenderHierarchy(nil))
}

func TestRenderHierarchy_PriorityBadges(t *testing.T) {
	urgent := issue.NewSpec("Hotfix rollout")
	urgent.Type = issue.TypeBug
	urgent.Priority = issue.PriorityUrgent

	medium := issue.NewSpec("Cleanup pass")

	h := issue.NewHierarchy()
	require.NoError(t, h.AddIssue(urgent))
	require.NoError(t, h.AddIssue(medium))

	out := NewPlainRenderer().RenderHierarchy(h)
	assert.Contains(t, out, "▸ Hotfix rollout [urgent]")
	assert.Contains(t, out, "• Cleanup pass\n")
	assert.NotContains(t, out, "[medium]")
}

func TestRenderHierarchy_Styled(t *testing.T) {
	out := NewRenderer().RenderHierarchy(buildHierarchy(t))

	assert.Contains(t, out, "Billing revamp")
	assert.Contains(t, out, "Invoice exports")
	assert.Contains(t, out, "Wire export job")
}

func TestRenderResult_CreatedTree(t *testing.T) {
	res := &creator.Result{
		SpecFile:     "docs/spec.md",
		System:       "github",
		Success:      true,
		TotalCreated: 2,
		Elapsed:      1200 * time.Millisecond,
		CreatedIssues: []*ticketing.CreatedIssue{
			{ID: "1", Identifier: "#1", Title: "Billing revamp", URL: "https://github.com/acme/backend/issues/1"},
			{ID: "2", Identifier: "#2", Title: "Invoice exports", ParentID: "1"},
		},
	}

	out := NewPlainRenderer().RenderResult(res)
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "docs/spec.md (github)", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "✓ #1 Billing revamp  https://github.com/acme/backend/issues/1", lines[2])
	assert.Equal(t, "  ✓ #2 Invoice exports", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "Created 2 of 2 issues (100% success) in 1.2s", lines[5])
}

func TestRenderResult_DryRunHeader(t *testing.T) {
	res := &creator.Result{SpecFile: "docs/spec.md", System: "github", DryRun: true, Success: true}

	out := NewPlainRenderer().RenderResult(res)
	assert.Contains(t, out, "docs/spec.md (github, dry run)")
}

func TestRenderResult_FailuresAndWarnings(t *testing.T) {
	res := &creator.Result{
		SpecFile:      "docs/spec.md",
		System:        "github",
		TotalCreated:  1,
		TotalFailed:   2,
		CreatedIssues: []*ticketing.CreatedIssue{{ID: "1", Identifier: "#1", Title: "Billing revamp"}},
		Errors: []creator.IssueError{
			{Title: "Invoice exports", Err: ticketing.ErrRateLimited},
			{Title: "Wire export job", Err: ticketing.ErrDependencyFailed, FailedDependency: true},
		},
		Warnings: []string{"post-creation hook failed for #1: boom"},
	}

	out := NewPlainRenderer().RenderResult(res)
	assert.Contains(t, out, "✗ Invoice exports: rate limited by ticketing API")
	assert.Contains(t, out, "○ Wire export job: parent issue creation failed")
	assert.Contains(t, out, "⚠ post-creation hook failed for #1: boom")
	assert.Contains(t, out, "Created 1 of 3 issues (33% success)")
}

func TestRenderResult_NothingCreated(t *testing.T) {
	out := NewPlainRenderer().RenderResult(&creator.Result{SpecFile: "docs/spec.md", Success: true})

	assert.Equal(t, "docs/spec.md\n\nNo issues created\n", out)
}

func TestRenderResult_SourceAnnotated(t *testing.T) {
	res := &creator.Result{
		SpecFile:        "docs/spec.md",
		System:          "github",
		Success:         true,
		TotalCreated:    1,
		CreatedIssues:   []*ticketing.CreatedIssue{{ID: "1", Identifier: "#1", Title: "Billing revamp"}},
		SourceAnnotated: true,
	}

	out := NewPlainRenderer().RenderResult(res)
	assert.Contains(t, out, "Source annotated with issue links")
}

func TestRenderReport_Valid(t *testing.T) {
	report := &creator.ValidationReport{
		SpecFile:    "docs/spec.md",
		TotalIssues: 3,
		Epics:       1,
		Stories:     1,
		Tasks:       1,
		Valid:       true,
	}

	out := NewPlainRenderer().RenderReport(report)
	assert.Equal(t, "✓ docs/spec.md is valid\n3 issues: 1 epic, 1 story, 1 task\n", out)
}

func TestRenderReport_Problems(t *testing.T) {
	report := &creator.ValidationReport{
		SpecFile:    "docs/spec.md",
		TotalIssues: 2,
		Stories:     1,
		Tasks:       1,
		Problems:    []string{"Billing revamp > Invoice exports: invalid estimate"},
	}

	out := NewPlainRenderer().RenderReport(report)
	assert.Contains(t, out, "✗ docs/spec.md has 1 problem\n")
	assert.Contains(t, out, "2 issues: 1 story, 1 task\n")
	assert.Contains(t, out, "✗ Billing revamp > Invoice exports: invalid estimate\n")
}
