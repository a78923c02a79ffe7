//go:build unit

package creator

import (
	"context"
	"testing"

	"github.com/lerenn/spec-sync/internal/base"
	"github.com/lerenn/spec-sync/pkg/config"
	"github.com/lerenn/spec-sync/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewSpec_ReturnsHierarchy(t *testing.T) {
	tick := &fakeTicketing{system: &fakeSystem{}}
	c := newTestCreator(t, newTestDeps(testConfig(), specFS(specContent), tick))

	hierarchy, err := c.PreviewSpec(context.Background(), "docs/spec.md")

	require.NoError(t, err)
	require.NotNil(t, hierarchy)
	assert.Equal(t, 3, hierarchy.Size())

	roots := hierarchy.RootIssues()
	require.Len(t, roots, 1)
	assert.Equal(t, "Billing revamp", roots[0].Title)
	assert.True(t, roots[0].IsEpic())
	require.Len(t, roots[0].Children(), 1)
	assert.Equal(t, "Invoice exports", roots[0].Children()[0].Title)

	// Previewing never touches the ticketing system.
	assert.Zero(t, tick.getCalls)
}

func TestPreviewSpec_AppliesTemplates(t *testing.T) {
	cfg := testConfig()
	cfg.IssueCreation.ApplyTemplates = true
	cfg.Templates = map[string]config.IssueTemplate{
		"epic": {Title: "[EPIC] {{.Title}}"},
	}
	c := newTestCreator(t, newTestDeps(cfg, specFS(specContent), &fakeTicketing{}))

	hierarchy, err := c.PreviewSpec(context.Background(), "docs/spec.md")

	require.NoError(t, err)
	assert.Equal(t, "[EPIC] Billing revamp", hierarchy.RootIssues()[0].Title)

	// The NoTemplates option yields the undecorated hierarchy.
	hierarchy, err = c.PreviewSpec(context.Background(), "docs/spec.md", PreviewSpecOpts{NoTemplates: true})

	require.NoError(t, err)
	assert.Equal(t, "Billing revamp", hierarchy.RootIssues()[0].Title)
}

func TestPreviewSpec_FileNotFound(t *testing.T) {
	c := newTestCreator(t, newTestDeps(testConfig(), specFS(specContent), &fakeTicketing{}))

	hierarchy, err := c.PreviewSpec(context.Background(), "missing.md")

	require.Error(t, err)
	assert.ErrorIs(t, err, base.ErrSpecFileNotFound)
	assert.Nil(t, hierarchy)
}

func TestPreviewSpec_ParseFailure(t *testing.T) {
	c := newTestCreator(t, newTestDeps(testConfig(), specFS("no headings here\n"), &fakeTicketing{}))

	hierarchy, err := c.PreviewSpec(context.Background(), "docs/spec.md")

	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrNoIssuesFound)
	assert.Nil(t, hierarchy)
}
