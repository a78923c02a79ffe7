package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lerenn/spec-sync/pkg/creator"
	"github.com/lerenn/spec-sync/pkg/render"
)

// PreviewTool handles the spec_preview MCP tool.
type PreviewTool struct {
	creator  creator.Creator
	renderer *render.Renderer
}

// NewPreviewTool creates a PreviewTool backed by the given creator.
func NewPreviewTool(c creator.Creator, renderer *render.Renderer) *PreviewTool {
	return &PreviewTool{creator: c, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *PreviewTool) Definition() mcp.Tool {
	return mcp.NewTool("spec_preview",
		mcp.WithDescription(
			"Parse a specification document and return the issue hierarchy a "+
				"sync would create, without touching any ticketing system. "+
				"Epics, stories and tasks derive from the heading levels; "+
				"configured templates are applied unless no_templates is set.",
		),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path to the specification document (markdown)"),
		),
		mcp.WithBoolean("no_templates",
			mcp.Description("Skip configured title/description templates (default: false)"),
		),
	)
}

// Handle processes the spec_preview tool call.
func (t *PreviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	if file == "" {
		return mcp.NewToolResultError("'file' is required"), nil
	}

	hierarchy, err := t.creator.PreviewSpec(ctx, file, creator.PreviewSpecOpts{
		NoTemplates: boolArg(req, "no_templates", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("preview failed: %v", err)), nil
	}

	return mcp.NewToolResultText(t.renderer.RenderHierarchy(hierarchy)), nil
}
