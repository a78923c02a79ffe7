// Package template decorates extracted issues before creation: titles
// and descriptions run through per-category text/template patterns and
// configured label sets are appended.
package template

import (
	"fmt"
	"strings"
	texttemplate "text/template"

	"github.com/lerenn/spec-sync/pkg/config"
	"github.com/lerenn/spec-sync/pkg/issue"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=template.go -destination=mocks/template.gen.go -package=mocks

// Engine interface applies per-category issue decoration.
type Engine interface {
	// Apply decorates every issue of the hierarchy in place.
	Apply(hierarchy *issue.Hierarchy) error
	// ApplyToIssue decorates a single issue in place.
	ApplyToIssue(spec *issue.Spec) error
}

// categoryTemplates holds the parsed decoration for one issue category.
type categoryTemplates struct {
	title       *texttemplate.Template
	description *texttemplate.Template
	labels      []string
}

type realEngine struct {
	templates map[issue.Category]categoryTemplates
}

// NewEngine parses the configured template definitions, keyed by issue
// category (epic, story, task). Parse errors surface here, not at
// application time. A nil or empty definition map yields an engine that
// passes every issue through unchanged.
func NewEngine(definitions map[string]config.IssueTemplate) (Engine, error) {
	engine := &realEngine{
		templates: make(map[issue.Category]categoryTemplates),
	}

	for name, definition := range definitions {
		category := issue.Category(strings.ToLower(name))
		switch category {
		case issue.CategoryEpic, issue.CategoryStory, issue.CategoryTask:
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
		}

		parsed := categoryTemplates{labels: definition.Labels}

		if definition.Title != "" {
			tmpl, err := texttemplate.New(name + "-title").Parse(definition.Title)
			if err != nil {
				return nil, fmt.Errorf("%w: %s title: %w", ErrTemplateParse, name, err)
			}
			parsed.title = tmpl
		}

		if definition.Description != "" {
			tmpl, err := texttemplate.New(name + "-description").Parse(definition.Description)
			if err != nil {
				return nil, fmt.Errorf("%w: %s description: %w", ErrTemplateParse, name, err)
			}
			parsed.description = tmpl
		}

		engine.templates[category] = parsed
	}

	return engine, nil
}

// Apply decorates every issue of the hierarchy in place.
func (e *realEngine) Apply(hierarchy *issue.Hierarchy) error {
	return hierarchy.Walk(e.ApplyToIssue)
}

// ApplyToIssue decorates a single issue in place. Issues whose category
// has no configured template pass through unchanged.
func (e *realEngine) ApplyToIssue(spec *issue.Spec) error {
	templates, ok := e.templates[spec.Type.Category()]
	if !ok {
		return nil
	}

	// Both templates see the undecorated issue.
	title, err := render(templates.title, spec)
	if err != nil {
		return fmt.Errorf("%w: title of %q: %w", ErrTemplateRender, spec.Title, err)
	}
	description, err := render(templates.description, spec)
	if err != nil {
		return fmt.Errorf("%w: description of %q: %w", ErrTemplateRender, spec.Title, err)
	}

	if title != "" {
		spec.Title = title
	}
	if description != "" {
		spec.Description = description
	}

	for _, label := range templates.labels {
		if !containsLabel(spec.Labels, label) {
			spec.Labels = append(spec.Labels, label)
		}
	}

	return nil
}

// render executes a template against the issue. A nil template renders
// to the empty string.
func render(tmpl *texttemplate.Template, spec *issue.Spec) (string, error) {
	if tmpl == nil {
		return "", nil
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, spec); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
