// Package linkback writes created-issue references back to their source:
// link lines under the originating section headings of the specification
// document, and back-reference comments on the remote issues.
package linkback

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lerenn/spec-sync/pkg/fs"
	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/logger"
	"github.com/lerenn/spec-sync/pkg/ticketing"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=linkback.go -destination=mocks/linkback.gen.go -package=mocks

// annotationPrefix marks link lines written by AnnotateSource, so a
// later run replaces them instead of stacking duplicates.
const annotationPrefix = "> Issue: ["

// Manager interface provides source back-referencing functionality.
type Manager interface {
	// AnnotateSource inserts one issue link line under each section
	// heading a created issue originated from, atomically rewriting
	// the document. Sections that cannot be located are skipped.
	AnnotateSource(path string, hierarchy *issue.Hierarchy, created []*ticketing.CreatedIssue) error
	// CommentCreated adds a back-reference comment to every created
	// issue citing the source document and section.
	CommentCreated(ctx context.Context, system ticketing.System, hierarchy *issue.Hierarchy,
		created []*ticketing.CreatedIssue, sourcePath string) error
}

type realManager struct {
	fs     fs.FS
	logger logger.Logger
}

// NewManager creates a new linkback Manager instance.
func NewManager(fsys fs.FS, log logger.Logger) Manager {
	if fsys == nil {
		fsys = fs.NewFS()
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &realManager{
		fs:     fsys,
		logger: log,
	}
}

// annotation pairs a created issue with the source location it
// annotates.
type annotation struct {
	line    int // 1-based heading line recorded at parse time
	section string
	text    string
}

// AnnotateSource inserts issue link lines under the originating section
// headings and writes the document back atomically.
func (m *realManager) AnnotateSource(path string, hierarchy *issue.Hierarchy, created []*ticketing.CreatedIssue) error {
	data, err := m.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read source document: %w", err)
	}
	lines := strings.Split(string(data), "\n")

	annotations := m.collectAnnotations(path, hierarchy, created)
	if len(annotations) == 0 {
		return nil
	}

	// Apply bottom-up so insertions do not shift pending line numbers.
	sort.Slice(annotations, func(i, j int) bool {
		return annotations[i].line > annotations[j].line
	})

	changed := false
	for _, a := range annotations {
		idx := a.line - 1
		if idx < 0 || idx >= len(lines) || !headingMatches(lines[idx], a.section) {
			idx = findHeading(lines, a.section)
		}
		if idx < 0 {
			m.logger.Logf("linkback: section %q not found in %s, skipping", a.section, path)
			continue
		}

		if idx+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[idx+1]), annotationPrefix) {
			if lines[idx+1] == a.text {
				continue
			}
			lines[idx+1] = a.text
		} else {
			lines = append(lines[:idx+1], append([]string{a.text}, lines[idx+1:]...)...)
		}
		changed = true
	}

	if !changed {
		return nil
	}

	if err := m.fs.WriteFileAtomic(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write annotated document: %w", err)
	}
	return nil
}

// collectAnnotations resolves created issues back to their source
// sections, dropping records without usable provenance or link targets.
func (m *realManager) collectAnnotations(path string, hierarchy *issue.Hierarchy,
	created []*ticketing.CreatedIssue) []annotation {
	annotations := make([]annotation, 0, len(created))
	for _, record := range created {
		if record.URL == "" {
			continue
		}
		spec, ok := hierarchy.Get(record.LocalID)
		if !ok {
			m.logger.Logf("linkback: created issue %s has no matching source issue, skipping", record.ID)
			continue
		}
		annotations = append(annotations, annotation{
			line:    spec.SourceLine,
			section: spec.SourceSection,
			text:    fmt.Sprintf("%s%s](%s)", annotationPrefix, displayName(record), record.URL),
		})
	}
	return annotations
}

// CommentCreated adds one back-reference comment per created issue.
// Individual comment failures are logged and counted, never abort the
// remaining issues.
func (m *realManager) CommentCreated(ctx context.Context, system ticketing.System, hierarchy *issue.Hierarchy,
	created []*ticketing.CreatedIssue, sourcePath string) error {
	failed := 0
	for _, record := range created {
		section := ""
		if spec, ok := hierarchy.Get(record.LocalID); ok {
			section = spec.SourceSection
		}

		body := fmt.Sprintf("Created automatically from %s", sourcePath)
		if section != "" {
			body = fmt.Sprintf("%s (section %q)", body, section)
		}

		if err := system.AddComment(ctx, record.ID, body); err != nil {
			m.logger.Logf("linkback: failed to comment on %s: %v", displayName(record), err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d comments failed", ErrCommentFailed, failed, len(created))
	}
	return nil
}

// displayName prefers the human identifier of a created issue over its
// backend id.
func displayName(record *ticketing.CreatedIssue) string {
	if record.Identifier != "" {
		return record.Identifier
	}
	return record.ID
}

// headingMatches reports whether the line is a markdown heading for the
// given section title, ignoring an explicit type marker suffix.
func headingMatches(line, section string) bool {
	trimmed := strings.TrimSpace(line)
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level >= len(trimmed) || trimmed[level] != ' ' {
		return false
	}

	title := strings.TrimSpace(trimmed[level:])
	if title == section {
		return true
	}

	// Tolerate a trailing [type] marker on the heading.
	if open := strings.LastIndex(title, "["); open > 0 && strings.HasSuffix(title, "]") {
		return strings.TrimSpace(title[:open]) == section
	}
	return false
}

// findHeading locates a section heading by title when the recorded line
// number no longer points at it.
func findHeading(lines []string, section string) int {
	for i, line := range lines {
		if headingMatches(line, section) {
			return i
		}
	}
	return -1
}
