// Package mcpserver exposes specification synchronization over the Model
// Context Protocol: preview, sync and validation as stdio tools backed by
// the creator orchestrator.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/lerenn/spec-sync/pkg/creator"
	"github.com/lerenn/spec-sync/pkg/render"
)

// New creates the MCP server with the spec tools registered. Tool output
// is rendered without styling because it is read by a model, not a
// terminal.
func New(c creator.Creator, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"spec-sync",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	renderer := render.NewPlainRenderer()

	previewTool := NewPreviewTool(c, renderer)
	s.AddTool(previewTool.Definition(), previewTool.Handle)

	syncTool := NewSyncTool(c, renderer)
	s.AddTool(syncTool.Definition(), syncTool.Handle)

	validateTool := NewValidateTool(c, renderer)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	return s
}

// serverInstructions tells the model when to reach for each tool.
func serverInstructions() string {
	return `You have access to spec-sync, which turns specification documents
into issue hierarchies on a ticketing system (Linear, GitHub or Jira).

Specification format: a markdown document where "# " headings become epics,
"## " headings become stories and deeper headings become tasks. A heading's
section may carry metadata lines (Type, Priority, Labels, Assignee,
Estimate) and "- [ ]" checkboxes as acceptance criteria.

Workflow:
1. spec_validate: check a document before doing anything else. Fix the
   reported problems in the document, not by working around them.
2. spec_preview: show the user the hierarchy a sync would create. Always
   preview before the first sync of a document.
3. spec_sync: create the issues. Use dry_run=true to rehearse; only sync
   for real once the user has confirmed the preview. A partial failure is
   reported per issue and already-created issues are never rolled back, so
   re-running a failed sync creates duplicates of the succeeded part.`
}
