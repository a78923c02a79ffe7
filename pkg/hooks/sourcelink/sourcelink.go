// Package sourcelink wires source back-referencing into the hook
// system: a per-issue comment hook and a post-run document annotation
// hook, both built on the linkback manager.
package sourcelink

import (
	"context"

	"github.com/lerenn/spec-sync/pkg/creator/consts"
	"github.com/lerenn/spec-sync/pkg/hooks"
	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/linkback"
	"github.com/lerenn/spec-sync/pkg/ticketing"
)

// CommentHook adds a back-reference comment to each created issue.
type CommentHook struct {
	linkback linkback.Manager
}

// NewCommentHook creates a new CommentHook instance.
func NewCommentHook(manager linkback.Manager) *CommentHook {
	return &CommentHook{
		linkback: manager,
	}
}

// RegisterForOperations registers this hook for the operations that create issues.
func (h *CommentHook) RegisterForOperations(register func(operation string, hook hooks.PostIssueCreationHook) error) error {
	return register(consts.SyncSpec, h)
}

// Name returns the hook name.
func (h *CommentHook) Name() string {
	return "source-comment"
}

// Priority returns the hook priority (lower numbers execute first).
func (h *CommentHook) Priority() int {
	return 150
}

// Execute is a no-op for CommentHook as it implements specific methods.
func (h *CommentHook) Execute(_ *hooks.HookContext) error {
	return nil
}

// OnPostIssueCreation comments on the freshly created issue, citing the
// source document and section it came from.
func (h *CommentHook) OnPostIssueCreation(ctx *hooks.HookContext) error {
	if !linkbackEnabled(ctx) {
		return nil
	}

	record, ok := ctx.Results["created_issue"].(*ticketing.CreatedIssue)
	if !ok {
		return nil
	}
	system, ok := ctx.Metadata["system"].(ticketing.System)
	if !ok {
		return nil
	}
	hierarchy, ok := ctx.Metadata["hierarchy"].(*issue.Hierarchy)
	if !ok {
		return nil
	}
	specFile, _ := ctx.Parameters["spec_file"].(string)

	return h.linkback.CommentCreated(hookContext(ctx), system, hierarchy,
		[]*ticketing.CreatedIssue{record}, specFile)
}

// AnnotateHook rewrites the source document with created-issue links
// after a successful run.
type AnnotateHook struct {
	linkback linkback.Manager
}

// NewAnnotateHook creates a new AnnotateHook instance.
func NewAnnotateHook(manager linkback.Manager) *AnnotateHook {
	return &AnnotateHook{
		linkback: manager,
	}
}

// RegisterForOperations registers this hook for the operations that create issues.
func (h *AnnotateHook) RegisterForOperations(register func(operation string, hook hooks.PostHook) error) error {
	return register(consts.SyncSpec, h)
}

// Name returns the hook name.
func (h *AnnotateHook) Name() string {
	return "source-annotate"
}

// Priority returns the hook priority (lower numbers execute first).
func (h *AnnotateHook) Priority() int {
	return 160
}

// Execute is a no-op for AnnotateHook as it implements specific methods.
func (h *AnnotateHook) Execute(_ *hooks.HookContext) error {
	return nil
}

// PostExecute annotates the source document once the run has finished.
// Success is reported back under Results["source_annotated"].
func (h *AnnotateHook) PostExecute(ctx *hooks.HookContext) error {
	if ctx.Error != nil || !linkbackEnabled(ctx) {
		return nil
	}

	created, ok := ctx.Results["created_issues"].([]*ticketing.CreatedIssue)
	if !ok || len(created) == 0 {
		return nil
	}
	hierarchy, ok := ctx.Metadata["hierarchy"].(*issue.Hierarchy)
	if !ok {
		return nil
	}
	specFile, _ := ctx.Parameters["spec_file"].(string)
	if specFile == "" {
		return nil
	}

	if err := h.linkback.AnnotateSource(specFile, hierarchy, created); err != nil {
		return err
	}

	ctx.Results["source_annotated"] = true
	return nil
}

// hookContext extracts the operation context, falling back to
// context.Background for hook contexts built without one.
func hookContext(ctx *hooks.HookContext) context.Context {
	if ctx.Ctx != nil {
		return ctx.Ctx
	}
	return context.Background()
}

// linkbackEnabled reads the per-run source updating switch. An absent
// parameter means the registration itself expressed the intent.
func linkbackEnabled(ctx *hooks.HookContext) bool {
	enabled, ok := ctx.Parameters["update_source_links"].(bool)
	return !ok || enabled
}
