package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func createValidateCmd() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate <spec-file>",
		Short: "Check the specification's issue structure",
		Long: `Parse the specification file and report structural problems in the
extracted issue hierarchy. Exits non-zero when problems are found.

Examples:
  specsync validate docs/spec.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			c, err := newCreator(cfg, activeLogger())
			if err != nil {
				return err
			}

			report, err := c.ValidateSpec(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !quiet {
				fmt.Print(newRenderer().RenderReport(report))
			}
			if !report.Valid {
				return fmt.Errorf("%d problem(s) found in %s", len(report.Problems), args[0])
			}
			return nil
		},
	}

	return validateCmd
}
