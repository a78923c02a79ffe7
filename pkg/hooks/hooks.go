// Package hooks provides a middleware system for synchronization operations.
package hooks

import "context"

// HookContext provides context for hook execution. Ctx carries the
// operation's context so hooks performing remote calls honor its
// deadline and cancellation.
type HookContext struct {
	Ctx           context.Context
	OperationName string
	Parameters    map[string]interface{}
	Results       map[string]interface{}
	Error         error
	Metadata      map[string]interface{}
}

// Hook defines the interface for all hooks.
type Hook interface {
	Name() string
	Priority() int
	Execute(ctx *HookContext) error
}

// PreHook executes before an operation.
type PreHook interface {
	Hook
	PreExecute(ctx *HookContext) error
}

// PostHook executes after an operation.
type PostHook interface {
	Hook
	PostExecute(ctx *HookContext) error
}

// ErrorHook executes when an operation fails.
type ErrorHook interface {
	Hook
	OnError(ctx *HookContext) error
}

// PostIssueCreationHook executes after each successfully created issue.
// The context carries the created issue under Results["created_issue"]
// and the source document path under Parameters["spec_file"].
type PostIssueCreationHook interface {
	Hook
	OnPostIssueCreation(ctx *HookContext) error
}
