package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lerenn/spec-sync/pkg/creator"
	"github.com/lerenn/spec-sync/pkg/render"
)

// ValidateTool handles the spec_validate MCP tool.
type ValidateTool struct {
	creator  creator.Creator
	renderer *render.Renderer
}

// NewValidateTool creates a ValidateTool backed by the given creator.
func NewValidateTool(c creator.Creator, renderer *render.Renderer) *ValidateTool {
	return &ValidateTool{creator: c, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("spec_validate",
		mcp.WithDescription(
			"Parse a specification document and report structural problems in "+
				"the extracted issue hierarchy: malformed metadata, empty "+
				"titles, invalid priorities or estimates. A document that "+
				"yields no issues at all is reported as a problem.",
		),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path to the specification document (markdown)"),
		),
	)
}

// Handle processes the spec_validate tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	if file == "" {
		return mcp.NewToolResultError("'file' is required"), nil
	}

	report, err := t.creator.ValidateSpec(ctx, file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation failed: %v", err)), nil
	}

	return mcp.NewToolResultText(t.renderer.RenderReport(report)), nil
}
