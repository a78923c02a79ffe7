// Package base provides common functionality for spec-sync components.
package base

import (
	"errors"
	"fmt"

	"github.com/lerenn/spec-sync/pkg/config"
	"github.com/lerenn/spec-sync/pkg/fs"
	"github.com/lerenn/spec-sync/pkg/logger"
	"github.com/lerenn/spec-sync/pkg/prompt"
	"github.com/lerenn/spec-sync/pkg/ticketing"
)

// Base provides common functionality for spec-sync components.
type Base struct {
	FS      fs.FS
	Config  *config.Config
	Logger  logger.Logger
	Prompt  prompt.Prompter
	verbose bool
}

// NewBaseParams contains parameters for creating a new Base instance.
type NewBaseParams struct {
	FS      fs.FS
	Config  *config.Config
	Logger  logger.Logger
	Prompt  prompt.Prompter
	Verbose bool
}

// NewBase creates a new Base instance.
func NewBase(params NewBaseParams) *Base {
	return &Base{
		FS:      params.FS,
		Config:  params.Config,
		Logger:  params.Logger,
		Prompt:  params.Prompt,
		verbose: params.Verbose,
	}
}

// VerbosePrint prints a formatted message only in verbose mode.
func (b *Base) VerbosePrint(msg string, args ...interface{}) {
	if b.verbose {
		b.Logger.Logf(msg, args...)
	}
}

// IsVerbose returns whether verbose mode is enabled.
func (b *Base) IsVerbose() bool {
	return b.verbose
}

// ValidateSpecPath validates that the specification file exists and is a
// regular file.
func (b *Base) ValidateSpecPath(path string) error {
	b.VerbosePrint("Validating specification file: %s", path)

	exists, err := b.FS.Exists(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToCheckSpecFileExists, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrSpecFileNotFound, path)
	}

	isDir, err := b.FS.IsDir(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToCheckSpecFileExists, err)
	}
	if isDir {
		return fmt.Errorf("%w: %s", ErrSpecPathIsDirectory, path)
	}

	return nil
}

// SelectTargetSystem resolves the target system name, prompting the user
// to choose when the configuration does not determine one.
func (b *Base) SelectTargetSystem(explicit string) (string, error) {
	name, err := b.Config.ResolveSystem(explicit)
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, config.ErrNoTargetSystem) {
		return "", err
	}

	configured := b.Config.ConfiguredSystems()
	if len(configured) == 0 {
		return "", err
	}

	b.VerbosePrint("No target system configured, prompting for selection")

	choices := make([]prompt.SystemChoice, 0, len(configured))
	for _, systemName := range configured {
		systemConfig, _ := b.Config.SystemConfig(systemName)
		choices = append(choices, prompt.SystemChoice{
			Name:   systemName,
			Detail: systemDetail(systemName, systemConfig),
		})
	}

	choice, err := b.Prompt.PromptSelectSystem(choices, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoSystemSelected, err)
	}

	return choice.Name, nil
}

// systemDetail returns a short display label for a configured system.
func systemDetail(name string, cfg ticketing.SystemConfig) string {
	switch name {
	case ticketing.LinearName:
		return cfg.TeamID
	case ticketing.GitHubName:
		if cfg.Owner != "" && cfg.Repo != "" {
			return cfg.Owner + "/" + cfg.Repo
		}
		return ""
	case ticketing.JiraName:
		return cfg.ProjectKey
	default:
		return ""
	}
}
