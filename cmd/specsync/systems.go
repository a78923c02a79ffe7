package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lerenn/spec-sync/pkg/config"
	"github.com/lerenn/spec-sync/pkg/ticketing"
	"github.com/spf13/cobra"
)

// connectionTestTimeout bounds one backend reachability check.
const connectionTestTimeout = 10 * time.Second

func createSystemsCmd() *cobra.Command {
	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "Inspect the supported ticketing systems",
	}

	systemsCmd.AddCommand(createSystemsListCmd(), createSystemsTestCmd())

	return systemsCmd
}

func createSystemsListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List supported systems and their configuration state",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := loadConfig()
			registry := ticketing.NewManager(activeLogger())

			for _, name := range registry.Names() {
				systemConfig, configured := cfg.SystemConfig(name)
				switch {
				case !configured:
					fmt.Printf("%-8s not configured\n", name)
				case name == cfg.DefaultSystem:
					fmt.Printf("%-8s configured (%s) [default]\n", name, systemDetail(name, systemConfig))
				default:
					fmt.Printf("%-8s configured (%s)\n", name, systemDetail(name, systemConfig))
				}
			}
			return nil
		},
	}

	return listCmd
}

func createSystemsTestCmd() *cobra.Command {
	testCmd := &cobra.Command{
		Use:   "test [name]",
		Short: "Check that configured systems are reachable",
		Long: `Build each configured system's adapter and test the connection with
the configured credentials. With a name argument, only that system is
tested. Exits non-zero when any tested system is unreachable.

Examples:
  specsync systems test
  specsync systems test github`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			names := cfg.ConfiguredSystems()
			if len(args) == 1 {
				if _, ok := cfg.SystemConfig(args[0]); !ok {
					return fmt.Errorf("%w: %s", config.ErrSystemNotConfigured, args[0])
				}
				names = args[:1]
			}
			if len(names) == 0 {
				return fmt.Errorf("no ticketing systems configured. Run: specsync init")
			}

			registry := ticketing.NewManager(activeLogger())
			unreachable := 0
			for _, name := range names {
				systemConfig, _ := cfg.SystemConfig(name)
				if err := testConnection(cmd.Context(), registry, name, systemConfig); err != nil {
					fmt.Printf("✗ %s: %v\n", name, err)
					unreachable++
					continue
				}
				fmt.Printf("✓ %s: connection ok\n", name)
			}

			if unreachable > 0 {
				return fmt.Errorf("%d system(s) unreachable", unreachable)
			}
			return nil
		},
	}

	return testCmd
}

// testConnection builds the named adapter and checks backend
// reachability within the test timeout.
func testConnection(ctx context.Context, registry ticketing.ManagerInterface, name string, systemConfig ticketing.SystemConfig) error {
	system, err := registry.Get(name, systemConfig)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, connectionTestTimeout)
	defer cancel()

	if !system.TestConnection(ctx) {
		return fmt.Errorf("connection failed")
	}
	return nil
}

// systemDetail summarizes a system's configured target for display.
func systemDetail(name string, systemConfig ticketing.SystemConfig) string {
	switch name {
	case ticketing.LinearName:
		return fmt.Sprintf("team %s", systemConfig.TeamID)
	case ticketing.GitHubName:
		return fmt.Sprintf("%s/%s", systemConfig.Owner, systemConfig.Repo)
	case ticketing.JiraName:
		return fmt.Sprintf("%s project %s", systemConfig.BaseURL, systemConfig.ProjectKey)
	default:
		return "unknown system"
	}
}
