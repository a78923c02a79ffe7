// Package parser extracts issue hierarchies from specification documents.
//
// The supported input is a deterministic markdown subset: heading depth
// maps to tree depth, checkbox list items become acceptance criteria,
// and a small set of metadata lines (Type, Priority, Labels, Assignee,
// Estimate) set issue fields. Everything else under a heading
// accumulates into the issue description.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lerenn/spec-sync/pkg/fs"
	"github.com/lerenn/spec-sync/pkg/issue"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=parser.go -destination=mocks/parser.gen.go -package=mocks

// Parser interface provides specification document parsing.
type Parser interface {
	// ParseFile reads and parses a specification document from disk.
	ParseFile(path string) (*issue.Hierarchy, error)
	// Parse parses specification content. The source name is recorded
	// as provenance on every extracted issue.
	Parse(content, sourceName string) (*issue.Hierarchy, error)
}

type realParser struct {
	fs fs.FS
}

// NewParser creates a new Parser instance.
func NewParser(fsys fs.FS) Parser {
	if fsys == nil {
		fsys = fs.NewFS()
	}
	return &realParser{
		fs: fsys,
	}
}

// ParseFile reads and parses a specification document from disk.
func (p *realParser) ParseFile(path string) (*issue.Hierarchy, error) {
	data, err := p.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification file: %w", err)
	}

	return p.Parse(string(data), path)
}

// stackEntry tracks an open section while walking the document.
type stackEntry struct {
	level int
	spec  *issue.Spec
}

// Parse parses specification content into an issue hierarchy.
func (p *realParser) Parse(content, sourceName string) (*issue.Hierarchy, error) {
	hierarchy := issue.NewHierarchy()

	var stack []stackEntry
	var current *issue.Spec
	var body []string

	flush := func() {
		if current != nil {
			current.Description = joinBody(body)
		}
		body = nil
	}

	for i, raw := range strings.Split(content, "\n") {
		lineNumber := i + 1
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		if level, title := splitHeading(trimmed); level > 0 {
			flush()

			spec, err := newSection(title, level, sourceName, lineNumber)
			if err != nil {
				return nil, err
			}

			// Close sections at the same or a deeper level.
			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}

			if err := hierarchy.AddIssue(spec); err != nil {
				return nil, fmt.Errorf("failed to add issue to hierarchy: %w", err)
			}
			if len(stack) > 0 {
				if err := hierarchy.AddChild(stack[len(stack)-1].spec, spec); err != nil {
					return nil, fmt.Errorf("failed to attach issue to parent: %w", err)
				}
			}

			stack = append(stack, stackEntry{level: level, spec: spec})
			current = spec
			continue
		}

		// Prose before the first heading has no section to belong to.
		if current == nil {
			continue
		}

		if criterion, ok := parseCriterion(trimmed); ok {
			current.AcceptanceCriteria = append(current.AcceptanceCriteria, criterion)
			continue
		}

		applied, err := applyMetadata(current, trimmed, lineNumber)
		if err != nil {
			return nil, err
		}
		if applied {
			continue
		}

		body = append(body, line)
	}
	flush()

	if hierarchy.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoIssuesFound, sourceName)
	}

	return hierarchy, nil
}

// newSection builds the issue node for a heading. An explicit [type]
// marker suffix wins over the depth heuristic and is stripped from the
// title.
func newSection(title string, level int, sourceName string, lineNumber int) (*issue.Spec, error) {
	issueType, title := splitTypeMarker(title)
	if issueType == "" {
		issueType = typeForDepth(level - 1)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: line %d: heading has no title", ErrMalformedSpec, lineNumber)
	}

	spec := issue.NewSpec(title)
	spec.Type = issueType
	spec.SpecFile = sourceName
	spec.SourceSection = title
	spec.SourceLine = lineNumber
	return spec, nil
}

// splitHeading reports the heading level (1-6) and title of a markdown
// heading line, or level 0 for any other line.
func splitHeading(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, ""
	}

	rest := line[level:]
	if !strings.HasPrefix(rest, " ") {
		return 0, ""
	}

	title := strings.TrimSpace(rest)
	if title == "" {
		return 0, ""
	}
	return level, title
}

// splitTypeMarker extracts a trailing [type] marker from a heading
// title. Unknown markers stay part of the title.
func splitTypeMarker(title string) (issue.Type, string) {
	if !strings.HasSuffix(title, "]") {
		return "", title
	}

	open := strings.LastIndex(title, "[")
	if open < 0 {
		return "", title
	}

	marker := issue.Type(strings.ToLower(strings.TrimSpace(title[open+1 : len(title)-1])))
	if !marker.Valid() {
		return "", title
	}

	return marker, strings.TrimSpace(title[:open])
}

// typeForDepth is the fallback classification when a heading carries no
// explicit type: top level sections are epics, their children stories,
// anything deeper a task.
func typeForDepth(depth int) issue.Type {
	switch depth {
	case 0:
		return issue.TypeEpic
	case 1:
		return issue.TypeStory
	default:
		return issue.TypeTask
	}
}

// parseCriterion parses a checkbox list item into an acceptance
// criterion.
func parseCriterion(line string) (issue.Criterion, bool) {
	var completed bool
	var rest string

	switch {
	case strings.HasPrefix(line, "- [ ] "):
		rest = line[len("- [ ] "):]
	case strings.HasPrefix(line, "- [x] "), strings.HasPrefix(line, "- [X] "):
		completed = true
		rest = line[len("- [x] "):]
	default:
		return issue.Criterion{}, false
	}

	text := strings.TrimSpace(rest)
	if text == "" {
		return issue.Criterion{}, false
	}
	return issue.Criterion{Text: text, Completed: completed}, true
}

// applyMetadata applies a "Key: value" metadata line to the issue.
// Lines whose key is not a known metadata key are left to the caller
// as prose; known keys with unusable values fail the parse.
func applyMetadata(spec *issue.Spec, line string, lineNumber int) (bool, error) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return false, nil
	}
	value = strings.TrimSpace(value)

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "type":
		issueType := issue.Type(strings.ToLower(value))
		if !issueType.Valid() {
			return false, fmt.Errorf("%w: line %d: unknown issue type %q", ErrMalformedSpec, lineNumber, value)
		}
		spec.Type = issueType
	case "priority":
		priority := issue.Priority(strings.ToLower(value))
		if !priority.Valid() {
			return false, fmt.Errorf("%w: line %d: unknown priority %q", ErrMalformedSpec, lineNumber, value)
		}
		spec.Priority = priority
	case "labels":
		for _, label := range strings.Split(value, ",") {
			if label = strings.TrimSpace(label); label != "" {
				spec.Labels = append(spec.Labels, label)
			}
		}
	case "assignee":
		spec.Assignee = value
	case "estimate":
		hours, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "h")), 64)
		if err != nil || hours <= 0 {
			return false, fmt.Errorf("%w: line %d: estimate must be a positive number of hours", ErrMalformedSpec, lineNumber)
		}
		spec.Estimate = hours
	default:
		return false, nil
	}

	return true, nil
}

// joinBody joins accumulated prose lines into a description, collapsing
// blank line runs and trimming leading and trailing blanks.
func joinBody(body []string) string {
	var out []string
	blank := true
	for _, line := range body {
		if strings.TrimSpace(line) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
