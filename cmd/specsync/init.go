package main

import (
	"fmt"
	"path/filepath"

	"github.com/lerenn/spec-sync/configs"
	"github.com/lerenn/spec-sync/pkg/config"
	"github.com/lerenn/spec-sync/pkg/fs"
	"github.com/lerenn/spec-sync/pkg/prompt"
	"github.com/spf13/cobra"
)

var initForce bool

func createInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init [--force]",
		Short: "Write the default configuration file",
		Long: `Write the default configuration file, prompting before overwriting an
existing one. The file documents every setting; edit it to add your
ticketing system credentials.

Examples:
  specsync init
  specsync init -c ./specsync.yaml`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}

			fsys := fs.NewFS()
			exists, err := fsys.Exists(path)
			if err != nil {
				return fmt.Errorf("failed to check configuration path: %w", err)
			}
			if exists && !initForce {
				ok, err := prompt.NewPrompt().PromptForConfirmation(
					fmt.Sprintf("Configuration already exists at %s. Overwrite?", path), false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Keeping existing configuration.")
					return nil
				}
			}

			if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := fsys.WriteFileAtomic(path, configs.DefaultConfigYAML, 0600); err != nil {
				return fmt.Errorf("failed to write configuration: %w", err)
			}

			fmt.Printf("Configuration written to %s\n", path)
			fmt.Println("Edit it to add your ticketing system credentials, then run: specsync systems test")
			return nil
		},
	}

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration without asking")

	return initCmd
}
