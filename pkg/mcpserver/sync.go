package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lerenn/spec-sync/pkg/creator"
	"github.com/lerenn/spec-sync/pkg/render"
)

// SyncTool handles the spec_sync MCP tool.
type SyncTool struct {
	creator  creator.Creator
	renderer *render.Renderer
}

// NewSyncTool creates a SyncTool backed by the given creator.
func NewSyncTool(c creator.Creator, renderer *render.Renderer) *SyncTool {
	return &SyncTool{creator: c, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *SyncTool) Definition() mcp.Tool {
	return mcp.NewTool("spec_sync",
		mcp.WithDescription(
			"Create the issues described by a specification document on the "+
				"configured ticketing system, parents before children. The "+
				"result lists every created and failed issue; issues created "+
				"before a failure are never rolled back. Set dry_run to "+
				"rehearse the run without creating anything.",
		),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path to the specification document (markdown)"),
		),
		mcp.WithString("system",
			mcp.Description("Target ticketing system. Defaults to the configured default system."),
			mcp.Enum("linear", "github", "jira"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Walk the hierarchy without creating anything (default: false)"),
		),
	)
}

// Handle processes the spec_sync tool call.
func (t *SyncTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	if file == "" {
		return mcp.NewToolResultError("'file' is required"), nil
	}

	result, err := t.creator.SyncSpec(ctx, file, creator.SyncSpecOpts{
		System: req.GetString("system", ""),
		DryRun: boolArg(req, "dry_run", false),
	})
	if result == nil {
		if err == nil {
			return nil, fmt.Errorf("sync returned no result")
		}
		return mcp.NewToolResultError(fmt.Sprintf("sync failed: %v", err)), nil
	}

	// A run that started but failed still carries the per-issue outcome;
	// the rendered result is more useful than the bare error.
	return mcp.NewToolResultText(t.renderer.RenderResult(result)), nil
}
