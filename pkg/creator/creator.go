// Package creator orchestrates synchronization runs: it parses a
// specification document into an issue hierarchy, decorates it, creates
// the issues on the target ticketing system and reports the outcome.
package creator

import (
	"context"
	"fmt"

	"github.com/lerenn/spec-sync/internal/base"
	"github.com/lerenn/spec-sync/pkg/dependencies"
	"github.com/lerenn/spec-sync/pkg/hooks"
	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/logger"
	"github.com/lerenn/spec-sync/pkg/template"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=creator.go -destination=mocks/creator.gen.go -package=mocks

// Creator interface provides specification synchronization functionality.
type Creator interface {
	// SyncSpec parses the specification file and creates its issue
	// hierarchy on the target ticketing system.
	SyncSpec(ctx context.Context, specFile string, opts ...SyncSpecOpts) (*Result, error)
	// PreviewSpec parses and decorates the specification without
	// creating anything remotely.
	PreviewSpec(ctx context.Context, specFile string, opts ...PreviewSpecOpts) (*issue.Hierarchy, error)
	// ValidateSpec parses the specification and reports structural
	// problems found in the extracted hierarchy.
	ValidateSpec(ctx context.Context, specFile string) (*ValidationReport, error)
	// SetLogger sets the logger for this Creator instance.
	SetLogger(logger logger.Logger)
}

// NewCreatorParams contains parameters for creating a new Creator instance.
type NewCreatorParams struct {
	Dependencies *dependencies.Dependencies
}

type realCreator struct {
	deps      *dependencies.Dependencies
	base      *base.Base
	templates template.Engine
}

// NewCreator creates a new Creator instance. Configuration problems
// (missing backend fields, unknown systems, malformed templates) surface
// here, before any specification is parsed.
func NewCreator(params NewCreatorParams) (Creator, error) {
	deps := params.Dependencies
	if deps == nil {
		deps = dependencies.New()
	}

	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if err := deps.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	engine, err := template.NewEngine(deps.Config.Templates)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &realCreator{
		deps: deps,
		base: base.NewBase(base.NewBaseParams{
			FS:      deps.FS,
			Config:  deps.Config,
			Logger:  deps.Logger,
			Prompt:  deps.Prompt,
			Verbose: true,
		}),
		templates: engine,
	}, nil
}

// VerbosePrint logs a formatted message using the current logger.
func (c *realCreator) VerbosePrint(msg string, args ...interface{}) {
	if c.deps.Logger != nil {
		c.deps.Logger.Logf(msg, args...)
	}
}

// SetLogger sets the logger for this Creator instance.
func (c *realCreator) SetLogger(logger logger.Logger) {
	c.deps.Logger = logger
	c.base.Logger = logger
}

// executeWithHooksAndReturnResult executes an operation with pre and post
// hooks that returns a run result. Post-hook failures after a completed
// run never fail it; they are recorded as warnings on the result.
func (c *realCreator) executeWithHooksAndReturnResult(
	ctx context.Context,
	operationName string,
	params map[string]interface{},
	operation func(hookCtx *hooks.HookContext) (*Result, error),
) (*Result, error) {
	hookCtx := &hooks.HookContext{
		Ctx:           ctx,
		OperationName: operationName,
		Parameters:    params,
		Results:       make(map[string]interface{}),
		Metadata:      make(map[string]interface{}),
	}
	// Execute pre-hooks (if hook manager is available)
	if err := c.executePreHooks(operationName, hookCtx); err != nil {
		return nil, err
	}
	// Execute operation
	var result *Result
	var resultErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				resultErr = fmt.Errorf("panic in %s: %v", operationName, r)
			}
		}()
		result, resultErr = operation(hookCtx)
	}()
	// Update context with results
	hookCtx.Error = resultErr
	if resultErr == nil {
		hookCtx.Results["result"] = result
		hookCtx.Results["success"] = true
	}
	// Execute post-hooks or error-hooks (if hook manager is available)
	if hookErr := c.executeHooks(operationName, hookCtx, resultErr); hookErr != nil {
		if result == nil {
			return nil, hookErr
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("post-operation hook failed: %v", hookErr))
	}
	if result != nil {
		if annotated, ok := hookCtx.Results["source_annotated"].(bool); ok && annotated {
			result.SourceAnnotated = true
		}
	}
	return result, resultErr
}

// executeWithHooksAndReturnHierarchy executes an operation with pre and post hooks that returns a hierarchy.
func (c *realCreator) executeWithHooksAndReturnHierarchy(
	ctx context.Context,
	operationName string,
	params map[string]interface{},
	operation func() (*issue.Hierarchy, error),
) (*issue.Hierarchy, error) {
	hookCtx := &hooks.HookContext{
		Ctx:           ctx,
		OperationName: operationName,
		Parameters:    params,
		Results:       make(map[string]interface{}),
		Metadata:      make(map[string]interface{}),
	}
	// Execute pre-hooks (if hook manager is available)
	if err := c.executePreHooks(operationName, hookCtx); err != nil {
		return nil, err
	}
	// Execute operation
	var hierarchy *issue.Hierarchy
	var resultErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				resultErr = fmt.Errorf("panic in %s: %v", operationName, r)
			}
		}()
		hierarchy, resultErr = operation()
	}()
	// Update context with results
	hookCtx.Error = resultErr
	if resultErr == nil {
		hookCtx.Results["hierarchy"] = hierarchy
		hookCtx.Results["success"] = true
	}
	// Execute post-hooks or error-hooks (if hook manager is available)
	if hookErr := c.executeHooks(operationName, hookCtx, resultErr); hookErr != nil {
		return nil, hookErr
	}
	return hierarchy, resultErr
}

// executeWithHooksAndReturnReport executes an operation with pre and post hooks that returns a validation report.
func (c *realCreator) executeWithHooksAndReturnReport(
	ctx context.Context,
	operationName string,
	params map[string]interface{},
	operation func() (*ValidationReport, error),
) (*ValidationReport, error) {
	hookCtx := &hooks.HookContext{
		Ctx:           ctx,
		OperationName: operationName,
		Parameters:    params,
		Results:       make(map[string]interface{}),
		Metadata:      make(map[string]interface{}),
	}
	// Execute pre-hooks (if hook manager is available)
	if err := c.executePreHooks(operationName, hookCtx); err != nil {
		return nil, err
	}
	// Execute operation
	var report *ValidationReport
	var resultErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				resultErr = fmt.Errorf("panic in %s: %v", operationName, r)
			}
		}()
		report, resultErr = operation()
	}()
	// Update context with results
	hookCtx.Error = resultErr
	if resultErr == nil {
		hookCtx.Results["report"] = report
		hookCtx.Results["success"] = true
	}
	// Execute post-hooks or error-hooks (if hook manager is available)
	if hookErr := c.executeHooks(operationName, hookCtx, resultErr); hookErr != nil {
		return nil, hookErr
	}
	return report, resultErr
}

// executeHooks executes post-hooks or error-hooks based on the operation result.
func (c *realCreator) executeHooks(operationName string, hookCtx *hooks.HookContext, resultErr error) error {
	if c.deps.HookManager == nil {
		return nil
	}

	if resultErr != nil {
		return c.deps.HookManager.ExecuteErrorHooks(operationName, hookCtx)
	}
	return c.deps.HookManager.ExecutePostHooks(operationName, hookCtx)
}

// executePreHooks executes pre-hooks if hook manager is available.
func (c *realCreator) executePreHooks(operationName string, hookCtx *hooks.HookContext) error {
	if c.deps.HookManager == nil {
		return nil
	}
	return c.deps.HookManager.ExecutePreHooks(operationName, hookCtx)
}
