package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/lerenn/spec-sync/pkg/ledger"
	"github.com/spf13/cobra"
)

var historyLimit int

func createHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history [spec-file]",
		Short: "Show recorded synchronization runs",
		Long: `List recent synchronization runs from the local run history. With a
spec-file argument, show the last run for that file together with the
issues it created.

Examples:
  specsync history
  specsync history --limit 25
  specsync history docs/spec.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.LedgerPath == "" {
				return errors.New("run history is disabled: no ledger_path configured")
			}

			ledgerManager, err := ledger.NewManager(cfg.LedgerPath)
			if err != nil {
				return err
			}
			defer func() { _ = ledgerManager.Close() }()

			if len(args) == 1 {
				return showLastRun(ledgerManager, args[0])
			}
			return showRecentRuns(ledgerManager)
		},
	}

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to list (0 lists all)")

	return historyCmd
}

// showRecentRuns lists recorded runs, most recent first.
func showRecentRuns(ledgerManager ledger.Manager) error {
	runs, err := ledgerManager.Runs(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	for _, run := range runs {
		fmt.Println(runLine(run))
	}
	return nil
}

// showLastRun shows the most recent run for the given specification file
// together with the issues it created.
func showLastRun(ledgerManager ledger.Manager, specFile string) error {
	run, err := ledgerManager.LastRun(specFile)
	if err != nil {
		return err
	}
	if run == nil {
		fmt.Printf("No recorded runs for %s\n", specFile)
		return nil
	}

	fmt.Println(runLine(run))

	issues, err := ledgerManager.IssuesForRun(run.ID)
	if err != nil {
		return err
	}
	for _, record := range issues {
		if record.URL != "" {
			fmt.Printf("  %s %s  %s\n", record.Identifier, record.Title, record.URL)
			continue
		}
		fmt.Printf("  %s %s\n", record.Identifier, record.Title)
	}
	return nil
}

// runLine formats one run as a single history line.
func runLine(run *ledger.Run) string {
	line := fmt.Sprintf("#%-4d %s  %s  %s  created %d  failed %d  (%s)",
		run.ID,
		run.StartedAt.Format("2006-01-02 15:04"),
		run.SpecFile,
		run.System,
		run.TotalCreated,
		run.TotalFailed,
		run.Elapsed.Round(time.Millisecond),
	)
	if run.DryRun {
		line += "  [dry run]"
	}
	return line
}
