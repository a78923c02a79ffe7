//go:build unit

package creator

import (
	"context"
	"testing"

	"github.com/lerenn/spec-sync/internal/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSpec_ValidDocument(t *testing.T) {
	c := newTestCreator(t, newTestDeps(testConfig(), specFS(specContent), &fakeTicketing{}))

	report, err := c.ValidateSpec(context.Background(), "docs/spec.md")

	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Problems)
	assert.Equal(t, "docs/spec.md", report.SpecFile)
	assert.Equal(t, 3, report.TotalIssues)
	assert.Equal(t, 1, report.Epics)
	assert.Equal(t, 1, report.Stories)
	assert.Equal(t, 1, report.Tasks)
}

func TestValidateSpec_NoIssues(t *testing.T) {
	c := newTestCreator(t, newTestDeps(testConfig(), specFS("plain prose only\n"), &fakeTicketing{}))

	report, err := c.ValidateSpec(context.Background(), "docs/spec.md")

	require.NoError(t, err, "parse findings are reported, not returned")
	assert.False(t, report.Valid)
	assert.Zero(t, report.TotalIssues)
	require.Len(t, report.Problems, 1)
	assert.Contains(t, report.Problems[0], "no issues found")
}

func TestValidateSpec_MalformedMetadata(t *testing.T) {
	content := "# Billing revamp\n\nEstimate: -3\n"
	c := newTestCreator(t, newTestDeps(testConfig(), specFS(content), &fakeTicketing{}))

	report, err := c.ValidateSpec(context.Background(), "docs/spec.md")

	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Problems, 1)
	assert.Contains(t, report.Problems[0], "estimate")
}

func TestValidateSpec_FileNotFound(t *testing.T) {
	c := newTestCreator(t, newTestDeps(testConfig(), specFS(specContent), &fakeTicketing{}))

	report, err := c.ValidateSpec(context.Background(), "missing.md")

	require.Error(t, err)
	assert.ErrorIs(t, err, base.ErrSpecFileNotFound)
	assert.Nil(t, report)
}
