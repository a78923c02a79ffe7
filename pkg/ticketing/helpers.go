package ticketing

import (
	"fmt"
	"strings"

	"github.com/lerenn/spec-sync/pkg/issue"
)

// MapIssueType maps an issue type onto the backend's type vocabulary. Jira
// uses named issue types; Linear and GitHub carry the type as a label, so
// the neutral name passes through.
func MapIssueType(system string, t issue.Type) string {
	if system != JiraName {
		return string(t)
	}

	switch t {
	case issue.TypeEpic:
		return "Epic"
	case issue.TypeStory, issue.TypeFeature:
		return "Story"
	case issue.TypeBug:
		return "Bug"
	default:
		return "Task"
	}
}

// MapPriority maps a priority onto the backend's named priority vocabulary.
// Linear uses numeric priorities; see LinearPriority.
func MapPriority(system string, p issue.Priority) string {
	if system != JiraName {
		return string(p)
	}

	switch p {
	case issue.PriorityUrgent:
		return "Highest"
	case issue.PriorityHigh:
		return "High"
	case issue.PriorityLow:
		return "Low"
	case issue.PriorityNone:
		return "Lowest"
	default:
		return "Medium"
	}
}

// LinearPriority maps a priority onto Linear's numeric scale
// (0 none, 1 urgent, 2 high, 3 normal, 4 low).
func LinearPriority(p issue.Priority) int {
	switch p {
	case issue.PriorityUrgent:
		return 1
	case issue.PriorityHigh:
		return 2
	case issue.PriorityMedium:
		return 3
	case issue.PriorityLow:
		return 4
	default:
		return 0
	}
}

// BuildDescription assembles the remote issue description: the spec's
// description, the acceptance criteria rendered for the system, and a
// provenance footer when the source location is known.
func BuildDescription(spec *issue.Spec, system string) string {
	var b strings.Builder

	if spec.Description != "" {
		b.WriteString(spec.Description)
	}

	if len(spec.AcceptanceCriteria) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if system == JiraName {
			b.WriteString("Acceptance Criteria:\n")
		} else {
			b.WriteString("### Acceptance Criteria\n\n")
		}
		b.WriteString(issue.RenderCriteria(spec.AcceptanceCriteria, system))
	}

	if spec.SpecFile != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("Source: %s", spec.SpecFile))
		if spec.SourceSection != "" {
			b.WriteString(fmt.Sprintf(" (%s)", spec.SourceSection))
		}
	}

	return b.String()
}

// GenerateLabels assembles the label set for a spec: backend defaults, then
// the spec's own labels, the type label, and a priority label when the
// priority differs from the medium default. Deduplicated, first-seen order.
func GenerateLabels(spec *issue.Spec, config SystemConfig) []string {
	var labels []string
	seen := make(map[string]struct{})

	add := func(label string) {
		label = strings.TrimSpace(label)
		if label == "" {
			return
		}
		if _, ok := seen[label]; ok {
			return
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}

	for _, label := range config.DefaultLabels {
		add(label)
	}
	for _, label := range spec.Labels {
		add(label)
	}
	add("type:" + string(spec.Type))
	if spec.Priority != "" && spec.Priority != issue.PriorityMedium {
		add("priority:" + string(spec.Priority))
	}

	return labels
}
