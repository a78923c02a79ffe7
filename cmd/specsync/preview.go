package main

import (
	"fmt"

	"github.com/lerenn/spec-sync/pkg/creator"
	"github.com/spf13/cobra"
)

var previewNoTemplates bool

func createPreviewCmd() *cobra.Command {
	previewCmd := &cobra.Command{
		Use:   "preview <spec-file>",
		Short: "Show the issue hierarchy a sync would create",
		Long: `Parse the specification file and render the issue hierarchy it would
create, without contacting any ticketing system.

Examples:
  specsync preview docs/spec.md
  specsync preview docs/spec.md --no-templates`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			c, err := newCreator(cfg, activeLogger())
			if err != nil {
				return err
			}

			hierarchy, err := c.PreviewSpec(cmd.Context(), args[0], creator.PreviewSpecOpts{
				NoTemplates: previewNoTemplates,
			})
			if err != nil {
				return err
			}

			fmt.Print(newRenderer().RenderHierarchy(hierarchy))
			return nil
		},
	}

	previewCmd.Flags().BoolVar(&previewNoTemplates, "no-templates", false, "Skip configured issue templates")

	return previewCmd
}
