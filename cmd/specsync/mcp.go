package main

import (
	"os"

	"github.com/lerenn/spec-sync/pkg/logger"
	"github.com/lerenn/spec-sync/pkg/mcpserver"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func createMcpCmd() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP server on stdio",
		Long: `Expose specification synchronization as MCP tools over stdio, for use
from AI coding assistants.

Example MCP client configuration:
  {
    "mcpServers": {
      "spec-sync": {
        "command": "specsync",
        "args": ["mcp"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := loadConfig()

			// Stdout carries the protocol stream, so diagnostics go to stderr
			appLogger := logger.NewNoopLogger()
			if verbose && !quiet {
				appLogger = logger.NewWriterLogger(os.Stderr)
			}

			c, err := newCreator(cfg, appLogger)
			if err != nil {
				return err
			}

			return server.ServeStdio(mcpserver.New(c, version))
		},
	}

	return mcpCmd
}
