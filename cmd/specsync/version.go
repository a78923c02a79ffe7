package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func createVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the specsync version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("specsync v%s\n", version)
		},
	}

	return versionCmd
}
