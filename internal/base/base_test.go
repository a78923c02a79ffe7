//go:build unit

package base

import (
	"fmt"
	"os"
	"testing"

	"github.com/lerenn/spec-sync/pkg/config"
	"github.com/lerenn/spec-sync/pkg/prompt"
	"github.com/lerenn/spec-sync/pkg/ticketing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFS implements fs.FS with canned answers for existence checks.
type fakeFS struct {
	exists    bool
	existsErr error
	isDir     bool
	isDirErr  error
}

func (f *fakeFS) Exists(string) (bool, error)                       { return f.exists, f.existsErr }
func (f *fakeFS) IsDir(string) (bool, error)                        { return f.isDir, f.isDirErr }
func (f *fakeFS) ReadFile(string) ([]byte, error)                   { return nil, os.ErrNotExist }
func (f *fakeFS) MkdirAll(string, os.FileMode) error                { return nil }
func (f *fakeFS) WriteFileAtomic(string, []byte, os.FileMode) error { return nil }

// recordLogger captures formatted log messages.
type recordLogger struct {
	messages []string
}

func (l *recordLogger) Logf(format string, args ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

// fakePrompter implements prompt.Prompter with a fixed selection.
type fakePrompter struct {
	selection   prompt.SystemChoice
	selectErr   error
	seenChoices []prompt.SystemChoice
	selectCalls int
}

func (p *fakePrompter) PromptForSpecFile(defaultSpecFile string) (string, error) {
	return defaultSpecFile, nil
}

func (p *fakePrompter) PromptForConfirmation(_ string, defaultYes bool) (bool, error) {
	return defaultYes, nil
}

func (p *fakePrompter) PromptSelectSystem(choices []prompt.SystemChoice, _ bool) (prompt.SystemChoice, error) {
	p.selectCalls++
	p.seenChoices = choices
	if p.selectErr != nil {
		return prompt.SystemChoice{}, p.selectErr
	}
	return p.selection, nil
}

func newTestBase(cfg *config.Config, fsys *fakeFS, prompter *fakePrompter, verbose bool) (*Base, *recordLogger) {
	log := &recordLogger{}
	return NewBase(NewBaseParams{
		FS:      fsys,
		Config:  cfg,
		Logger:  log,
		Prompt:  prompter,
		Verbose: verbose,
	}), log
}

func TestBase_VerbosePrint_Enabled(t *testing.T) {
	base, log := newTestBase(&config.Config{}, &fakeFS{}, &fakePrompter{}, true)

	base.VerbosePrint("Test message with %s", "arg")

	require.Len(t, log.messages, 1)
	assert.Equal(t, "Test message with arg", log.messages[0])
}

func TestBase_VerbosePrint_Disabled(t *testing.T) {
	base, log := newTestBase(&config.Config{}, &fakeFS{}, &fakePrompter{}, false)

	base.VerbosePrint("Test message with %s", "arg")

	assert.Empty(t, log.messages)
	assert.False(t, base.IsVerbose())
}

func TestBase_ValidateSpecPath(t *testing.T) {
	tests := []struct {
		name        string
		fsys        *fakeFS
		expectedErr error
	}{
		{
			name:        "valid specification file",
			fsys:        &fakeFS{exists: true, isDir: false},
			expectedErr: nil,
		},
		{
			name:        "file not found",
			fsys:        &fakeFS{exists: false},
			expectedErr: ErrSpecFileNotFound,
		},
		{
			name:        "existence check fails",
			fsys:        &fakeFS{existsErr: assert.AnError},
			expectedErr: ErrFailedToCheckSpecFileExists,
		},
		{
			name:        "path is a directory",
			fsys:        &fakeFS{exists: true, isDir: true},
			expectedErr: ErrSpecPathIsDirectory,
		},
		{
			name:        "directory check fails",
			fsys:        &fakeFS{exists: true, isDirErr: assert.AnError},
			expectedErr: ErrFailedToCheckSpecFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, _ := newTestBase(&config.Config{}, tt.fsys, &fakePrompter{}, false)

			err := base.ValidateSpecPath("docs/spec.md")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBase_SelectTargetSystem_Explicit(t *testing.T) {
	cfg := &config.Config{
		Systems: map[string]ticketing.SystemConfig{
			ticketing.LinearName: {TeamID: "ENG"},
			ticketing.GitHubName: {Owner: "acme", Repo: "backend"},
		},
	}
	prompter := &fakePrompter{}
	base, _ := newTestBase(cfg, &fakeFS{}, prompter, false)

	name, err := base.SelectTargetSystem(ticketing.GitHubName)
	require.NoError(t, err)
	assert.Equal(t, ticketing.GitHubName, name)
	assert.Zero(t, prompter.selectCalls)
}

func TestBase_SelectTargetSystem_Default(t *testing.T) {
	cfg := &config.Config{
		DefaultSystem: ticketing.LinearName,
		Systems: map[string]ticketing.SystemConfig{
			ticketing.LinearName: {TeamID: "ENG"},
			ticketing.GitHubName: {Owner: "acme", Repo: "backend"},
		},
	}
	prompter := &fakePrompter{}
	base, _ := newTestBase(cfg, &fakeFS{}, prompter, false)

	name, err := base.SelectTargetSystem("")
	require.NoError(t, err)
	assert.Equal(t, ticketing.LinearName, name)
	assert.Zero(t, prompter.selectCalls)
}

func TestBase_SelectTargetSystem_PromptsOnAmbiguity(t *testing.T) {
	cfg := &config.Config{
		Systems: map[string]ticketing.SystemConfig{
			ticketing.LinearName: {TeamID: "ENG"},
			ticketing.GitHubName: {Owner: "acme", Repo: "backend"},
		},
	}
	prompter := &fakePrompter{
		selection: prompt.SystemChoice{Name: ticketing.LinearName},
	}
	base, _ := newTestBase(cfg, &fakeFS{}, prompter, false)

	name, err := base.SelectTargetSystem("")
	require.NoError(t, err)
	assert.Equal(t, ticketing.LinearName, name)
	assert.Equal(t, 1, prompter.selectCalls)

	// Choices are sorted by system name and carry display details
	require.Len(t, prompter.seenChoices, 2)
	assert.Equal(t, ticketing.GitHubName, prompter.seenChoices[0].Name)
	assert.Equal(t, "acme/backend", prompter.seenChoices[0].Detail)
	assert.Equal(t, ticketing.LinearName, prompter.seenChoices[1].Name)
	assert.Equal(t, "ENG", prompter.seenChoices[1].Detail)
}

func TestBase_SelectTargetSystem_UnknownExplicit(t *testing.T) {
	cfg := &config.Config{
		Systems: map[string]ticketing.SystemConfig{
			ticketing.LinearName: {TeamID: "ENG"},
		},
	}
	prompter := &fakePrompter{}
	base, _ := newTestBase(cfg, &fakeFS{}, prompter, false)

	_, err := base.SelectTargetSystem(ticketing.JiraName)
	assert.ErrorIs(t, err, config.ErrSystemNotConfigured)
	assert.Zero(t, prompter.selectCalls)
}

func TestBase_SelectTargetSystem_NoSystemsConfigured(t *testing.T) {
	prompter := &fakePrompter{}
	base, _ := newTestBase(&config.Config{}, &fakeFS{}, prompter, false)

	_, err := base.SelectTargetSystem("")
	assert.ErrorIs(t, err, config.ErrNoTargetSystem)
	assert.Zero(t, prompter.selectCalls)
}

func TestBase_SelectTargetSystem_PromptAborted(t *testing.T) {
	cfg := &config.Config{
		Systems: map[string]ticketing.SystemConfig{
			ticketing.LinearName: {TeamID: "ENG"},
			ticketing.GitHubName: {Owner: "acme", Repo: "backend"},
		},
	}
	prompter := &fakePrompter{selectErr: assert.AnError}
	base, _ := newTestBase(cfg, &fakeFS{}, prompter, false)

	_, err := base.SelectTargetSystem("")
	assert.ErrorIs(t, err, ErrNoSystemSelected)
}
