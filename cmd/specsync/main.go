// Package main provides the command-line interface for the spec-sync application.
package main

import (
	"errors"
	"log"

	"github.com/lerenn/spec-sync/pkg/config"
	"github.com/lerenn/spec-sync/pkg/creator"
	"github.com/lerenn/spec-sync/pkg/dependencies"
	"github.com/lerenn/spec-sync/pkg/fs"
	defaulthooks "github.com/lerenn/spec-sync/pkg/hooks/default"
	"github.com/lerenn/spec-sync/pkg/ledger"
	"github.com/lerenn/spec-sync/pkg/linkback"
	"github.com/lerenn/spec-sync/pkg/logger"
	"github.com/lerenn/spec-sync/pkg/parser"
	"github.com/lerenn/spec-sync/pkg/render"
	"github.com/lerenn/spec-sync/pkg/ticketing"
	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "0.1.0-dev"

var (
	quiet      bool
	verbose    bool
	configPath string
)

// loadConfig loads the configuration. An explicit --config path must
// exist; the default location falls back to built-in defaults when
// absent so read-only commands work before init.
func loadConfig() *config.Config {
	manager := config.NewManager()

	if configPath != "" {
		cfg, err := manager.LoadConfig(configPath)
		if err != nil {
			if errors.Is(err, config.ErrConfigFileNotFound) {
				log.Fatalf("Configuration not found at %s. Run: specsync init -c %s", configPath, configPath)
			}
			log.Fatalf("Failed to load configuration: %v", err)
		}
		return cfg
	}

	path := config.DefaultConfigPath()
	cfg, err := manager.LoadConfig(path)
	if err != nil {
		if errors.Is(err, config.ErrConfigFileNotFound) {
			return manager.DefaultConfig()
		}
		log.Fatalf("Failed to load configuration at %s: %v", path, err)
	}
	return cfg
}

// activeLogger returns the logger matching the verbosity flags.
func activeLogger() logger.Logger {
	if verbose && !quiet {
		return logger.NewDefaultLogger()
	}
	return logger.NewNoopLogger()
}

// newRenderer returns the output renderer matching the verbosity flags.
func newRenderer() *render.Renderer {
	if quiet {
		return render.NewPlainRenderer()
	}
	return render.NewRenderer()
}

// newCreator wires the synchronization orchestrator from the loaded
// configuration with the given logger.
func newCreator(cfg *config.Config, appLogger logger.Logger) (creator.Creator, error) {
	fsys := fs.NewFS()
	linkbackManager := linkback.NewManager(fsys, appLogger)

	hookManager, err := defaulthooks.NewDefaultHooksManager(linkbackManager, appLogger)
	if err != nil {
		return nil, err
	}

	deps := dependencies.New().
		WithFS(fsys).
		WithConfig(cfg).
		WithLogger(appLogger).
		WithParser(parser.NewParser(fsys)).
		WithTicketing(ticketing.NewManager(appLogger)).
		WithLinkback(linkbackManager).
		WithHookManager(hookManager)

	if cfg.LedgerPath != "" {
		ledgerManager, err := ledger.NewManager(cfg.LedgerPath)
		if err != nil {
			return nil, err
		}
		deps = deps.WithLedger(ledgerManager)
	}

	return creator.NewCreator(creator.NewCreatorParams{Dependencies: deps})
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "specsync",
		Short: "Spec Sync - Specification to Issue Tracker Synchronization",
		Long: `A CLI tool that parses specification documents into issue hierarchies ` +
			`and creates them on Linear, GitHub, or Jira.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Specify a custom config file path")

	// Add subcommands
	rootCmd.AddCommand(
		createSyncCmd(),
		createPreviewCmd(),
		createValidateCmd(),
		createInitCmd(),
		createSystemsCmd(),
		createHistoryCmd(),
		createMcpCmd(),
		createVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
