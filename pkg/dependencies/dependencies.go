// Package dependencies provides a centralized dependency container for the spec-sync application.
// This package follows Go idioms for dependency injection by grouping related dependencies
// together and providing a fluent API for configuration.
package dependencies

import (
	"errors"

	"github.com/lerenn/spec-sync/pkg/config"
	"github.com/lerenn/spec-sync/pkg/fs"
	"github.com/lerenn/spec-sync/pkg/hooks"
	"github.com/lerenn/spec-sync/pkg/ledger"
	"github.com/lerenn/spec-sync/pkg/linkback"
	"github.com/lerenn/spec-sync/pkg/logger"
	"github.com/lerenn/spec-sync/pkg/parser"
	"github.com/lerenn/spec-sync/pkg/prompt"
	"github.com/lerenn/spec-sync/pkg/ticketing"
)

// Validation errors for missing dependencies.
var (
	ErrFSMissing          = errors.New("fs dependency is required but not set")
	ErrConfigMissing      = errors.New("config dependency is required but not set")
	ErrLoggerMissing      = errors.New("logger dependency is required but not set")
	ErrPromptMissing      = errors.New("prompt dependency is required but not set")
	ErrHookManagerMissing = errors.New("hook manager dependency is required but not set")
	ErrParserMissing      = errors.New("parser dependency is required but not set")
	ErrTicketingMissing   = errors.New("ticketing manager dependency is required but not set")
	ErrLinkbackMissing    = errors.New("linkback manager dependency is required but not set")
)

// Dependencies holds shared dependencies across the application.
// This follows the Go idiom of grouping related data together.
type Dependencies struct {
	FS          fs.FS
	Config      *config.Config
	Logger      logger.Logger
	Prompt      prompt.Prompter
	HookManager hooks.HookManagerInterface
	Parser      parser.Parser
	Ticketing   ticketing.ManagerInterface
	Linkback    linkback.Manager
	Ledger      ledger.Manager // optional: nil disables run history
}

// New creates a new Dependencies instance with sensible defaults.
// This follows Go's convention of New* functions for constructors.
func New() *Dependencies {
	fsys := fs.NewFS()
	log := logger.NewNoopLogger()
	return &Dependencies{
		FS:          fsys,
		Logger:      log,
		Prompt:      prompt.NewPrompt(),
		HookManager: hooks.NewHookManager(),
		Parser:      parser.NewParser(fsys),
		Ticketing:   ticketing.NewManager(log),
		Linkback:    linkback.NewManager(fsys, log),
		// Note: Config and Ledger are intentionally left nil as they
		// require loaded configuration or are set via With* methods
	}
}

// WithFS sets the filesystem and returns the instance for chaining.
func (d *Dependencies) WithFS(fs fs.FS) *Dependencies {
	d.FS = fs
	return d
}

// WithConfig sets the loaded configuration and returns the instance for chaining.
func (d *Dependencies) WithConfig(cfg *config.Config) *Dependencies {
	d.Config = cfg
	return d
}

// WithLogger sets the logger and returns the instance for chaining.
func (d *Dependencies) WithLogger(logger logger.Logger) *Dependencies {
	d.Logger = logger
	return d
}

// WithPrompt sets the prompt and returns the instance for chaining.
func (d *Dependencies) WithPrompt(prompt prompt.Prompter) *Dependencies {
	d.Prompt = prompt
	return d
}

// WithHookManager sets the hook manager and returns the instance for chaining.
func (d *Dependencies) WithHookManager(hm hooks.HookManagerInterface) *Dependencies {
	d.HookManager = hm
	return d
}

// WithParser sets the specification parser and returns the instance for chaining.
func (d *Dependencies) WithParser(p parser.Parser) *Dependencies {
	d.Parser = p
	return d
}

// WithTicketing sets the ticketing manager and returns the instance for chaining.
func (d *Dependencies) WithTicketing(tm ticketing.ManagerInterface) *Dependencies {
	d.Ticketing = tm
	return d
}

// WithLinkback sets the linkback manager and returns the instance for chaining.
func (d *Dependencies) WithLinkback(lm linkback.Manager) *Dependencies {
	d.Linkback = lm
	return d
}

// WithLedger sets the run history manager and returns the instance for chaining.
func (d *Dependencies) WithLedger(lm ledger.Manager) *Dependencies {
	d.Ledger = lm
	return d
}

// dependencyCheck represents a dependency validation check.
type dependencyCheck struct {
	dep interface{}
	err error
}

// Validate checks that all required dependencies are set and returns an error if any are missing.
// The Ledger dependency is optional and not validated.
func (d *Dependencies) Validate() error {
	checks := []dependencyCheck{
		{d.FS, ErrFSMissing},
		{d.Config, ErrConfigMissing},
		{d.Logger, ErrLoggerMissing},
		{d.Prompt, ErrPromptMissing},
		{d.HookManager, ErrHookManagerMissing},
		{d.Parser, ErrParserMissing},
		{d.Ticketing, ErrTicketingMissing},
		{d.Linkback, ErrLinkbackMissing},
	}

	for _, check := range checks {
		if isNil(check.dep) {
			return check.err
		}
	}
	return nil
}

// isNil reports whether the dependency is absent, covering typed nil
// pointers stored in interface values.
func isNil(dep interface{}) bool {
	if dep == nil {
		return true
	}
	if cfg, ok := dep.(*config.Config); ok {
		return cfg == nil
	}
	return false
}
