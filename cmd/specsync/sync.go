package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lerenn/spec-sync/pkg/config"
	"github.com/lerenn/spec-sync/pkg/creator"
	"github.com/lerenn/spec-sync/pkg/prompt"
	"github.com/lerenn/spec-sync/pkg/render"
	"github.com/lerenn/spec-sync/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	dryRun      bool
	systemName  string
	skipConfirm bool
	watchMode   bool
	noTemplates bool
	noLinkback  bool
	syncTimeout time.Duration
)

func createSyncCmd() *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync [spec-file]",
		Short: "Create the specification's issue hierarchy on a ticketing system",
		Long: `Parse the specification file and create its issue hierarchy on the
target ticketing system, parents before children. Without an argument,
an interactive prompt asks for the file.

Examples:
  specsync sync docs/spec.md
  specsync sync docs/spec.md --dry-run
  specsync sync docs/spec.md --system github --yes
  specsync sync docs/spec.md --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			specFile, err := resolveSpecFile(args)
			if err != nil {
				return err
			}

			target, err := resolveTargetSystem(cfg)
			if err != nil {
				return err
			}

			opts := creator.SyncSpecOpts{
				System:      target,
				DryRun:      dryRun,
				NoTemplates: noTemplates,
				NoLinkback:  noLinkback,
				Timeout:     syncTimeout,
			}

			if needsConfirmation(cfg) {
				ok, err := prompt.NewPrompt().PromptForConfirmation(
					fmt.Sprintf("Create issues from %s on %s?", specFile, target), false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Aborted.")
					return nil
				}
			}

			c, err := newCreator(cfg, activeLogger())
			if err != nil {
				return err
			}

			if watchMode {
				return runWatchedSync(cmd.Context(), c, specFile, opts)
			}
			return runSync(cmd.Context(), c, specFile, opts)
		},
	}

	// Add flags
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Walk the hierarchy without creating anything remotely")
	syncCmd.Flags().StringVarP(&systemName, "system", "s", "", "Target ticketing system (linear, github, jira)")
	syncCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip the confirmation prompt")
	syncCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-run the synchronization when the file changes")
	syncCmd.Flags().BoolVar(&noTemplates, "no-templates", false, "Skip configured issue templates")
	syncCmd.Flags().BoolVar(&noLinkback, "no-linkback", false, "Skip source annotation and back-reference comments")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 0, "Override the configured run timeout (e.g. 90s, 5m)")

	return syncCmd
}

// resolveSpecFile returns the specification file argument, prompting for
// one when omitted.
func resolveSpecFile(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if quiet {
		return "", errors.New("no specification file given")
	}
	return prompt.NewPrompt().PromptForSpecFile("")
}

// resolveTargetSystem picks the target system before the run starts so
// the confirmation prompt can name it. With several configured systems
// and no explicit choice, an interactive selector asks for one.
func resolveTargetSystem(cfg *config.Config) (string, error) {
	target, err := cfg.ResolveSystem(systemName)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, config.ErrNoTargetSystem) {
		return "", err
	}

	names := cfg.ConfiguredSystems()
	if len(names) == 0 {
		return "", errors.New("no ticketing systems configured. Run: specsync init")
	}
	if quiet {
		return "", err
	}

	choices := make([]prompt.SystemChoice, 0, len(names))
	for _, name := range names {
		choices = append(choices, prompt.SystemChoice{
			Name:   name,
			Kind:   name,
			Detail: systemDetail(name, cfg.Systems[name]),
		})
	}

	choice, err := prompt.NewPrompt().PromptSelectSystem(choices, true)
	if err != nil {
		return "", err
	}
	return choice.Name, nil
}

// needsConfirmation reports whether the run should ask before creating
// issues. Dry runs and disabled creation never touch the backend, so
// neither needs a prompt.
func needsConfirmation(cfg *config.Config) bool {
	return !dryRun && !skipConfirm && !quiet && cfg.IssueCreation.Enabled
}

// runSync executes one synchronization run and reports its outcome
// through the exit status.
func runSync(ctx context.Context, c creator.Creator, specFile string, opts creator.SyncSpecOpts) error {
	renderer := newRenderer()

	result, err := c.SyncSpec(ctx, specFile, opts)
	printResult(renderer, result)
	if err != nil {
		return err
	}
	if result != nil && !result.Success {
		return fmt.Errorf("%d issue(s) failed to create", result.TotalFailed)
	}
	return nil
}

// runWatchedSync runs once, then re-runs on every settled change to the
// specification file until interrupted. Individual run failures are
// reported without stopping the watch loop.
func runWatchedSync(ctx context.Context, c creator.Creator, specFile string, opts creator.SyncSpecOpts) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := newRenderer()
	runOnce := func(file string) {
		result, err := c.SyncSpec(ctx, file, opts)
		printResult(renderer, result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
		}
	}

	w, err := watcher.New(specFile, runOnce, activeLogger())
	if err != nil {
		return err
	}

	runOnce(specFile)
	if !quiet {
		fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n", specFile)
	}

	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// printResult renders a run result to stdout unless quiet mode is on.
func printResult(renderer *render.Renderer, result *creator.Result) {
	if result == nil || quiet {
		return
	}
	fmt.Print(renderer.RenderResult(result))
}
