package creator

import (
	"context"
	"fmt"
	"time"

	"github.com/lerenn/spec-sync/pkg/creator/consts"
	"github.com/lerenn/spec-sync/pkg/hooks"
	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/ledger"
	"github.com/lerenn/spec-sync/pkg/ticketing"
)

// SyncSpecOpts contains optional parameters for SyncSpec.
type SyncSpecOpts struct {
	System      string        // Target ticketing system, overrides the configured default (optional)
	DryRun      bool          // Simulate creation without calling the ticketing API
	NoTemplates bool          // Skip issue decoration even when configured
	NoLinkback  bool          // Skip source annotation and back-reference comments
	Timeout     time.Duration // Run timeout, overrides the configured one when positive
}

// runSettings holds the effective behavior of one synchronization run
// after merging the configuration with per-call options.
type runSettings struct {
	system            string
	systemConfig      ticketing.SystemConfig
	dryRun            bool
	applyTemplates    bool
	updateSourceLinks bool
	timeout           time.Duration
}

// SyncSpec parses the specification file and creates its issue hierarchy
// on the target ticketing system.
func (c *realCreator) SyncSpec(ctx context.Context, specFile string, opts ...SyncSpecOpts) (*Result, error) {
	// Parse options
	options := c.extractSyncSpecOptions(opts)

	// Prepare parameters for hooks
	params := c.prepareSyncSpecParams(specFile, options)

	// Execute with hooks
	return c.executeWithHooksAndReturnResult(ctx, consts.SyncSpec, params, func(hookCtx *hooks.HookContext) (*Result, error) {
		return c.executeSyncLogic(ctx, specFile, options, hookCtx)
	})
}

// extractSyncSpecOptions extracts and merges the optional parameters.
func (c *realCreator) extractSyncSpecOptions(opts []SyncSpecOpts) SyncSpecOpts {
	var options SyncSpecOpts
	for _, opt := range opts {
		if opt.System != "" {
			options.System = opt.System
		}
		if opt.DryRun {
			options.DryRun = true
		}
		if opt.NoTemplates {
			options.NoTemplates = true
		}
		if opt.NoLinkback {
			options.NoLinkback = true
		}
		if opt.Timeout > 0 {
			options.Timeout = opt.Timeout
		}
	}
	return options
}

func (c *realCreator) prepareSyncSpecParams(specFile string, options SyncSpecOpts) map[string]interface{} {
	return map[string]interface{}{
		"spec_file": specFile,
		"system":    options.System,
		"dry_run":   options.DryRun,
	}
}

// resolveRunSettings merges the creation configuration with per-call options.
func (c *realCreator) resolveRunSettings(options SyncSpecOpts) (runSettings, error) {
	cfg := c.deps.Config

	systemName, err := cfg.ResolveSystem(options.System)
	if err != nil {
		return runSettings{}, err
	}
	systemConfig, _ := cfg.SystemConfig(systemName)

	timeout, err := cfg.IssueCreation.TimeoutDuration()
	if err != nil {
		return runSettings{}, err
	}
	if options.Timeout > 0 {
		timeout = options.Timeout
	}

	return runSettings{
		system:            systemName,
		systemConfig:      systemConfig,
		dryRun:            cfg.IssueCreation.DryRun || options.DryRun,
		applyTemplates:    cfg.IssueCreation.ApplyTemplates && !options.NoTemplates,
		updateSourceLinks: cfg.IssueCreation.UpdateSourceLinks && !options.NoLinkback,
		timeout:           timeout,
	}, nil
}

// executeSyncLogic executes the core synchronization logic.
func (c *realCreator) executeSyncLogic(
	ctx context.Context,
	specFile string,
	options SyncSpecOpts,
	hookCtx *hooks.HookContext,
) (*Result, error) {
	started := time.Now()

	// Disabled creation short-circuits before any parsing or adapter work
	if !c.deps.Config.IssueCreation.Enabled {
		c.VerbosePrint("Issue creation is disabled, skipping %s", specFile)
		return &Result{SpecFile: specFile, Success: true}, nil
	}

	settings, err := c.resolveRunSettings(options)
	if err != nil {
		return nil, err
	}

	c.VerbosePrint("Syncing specification: %s (system: %s, dry-run: %t)", specFile, settings.system, settings.dryRun)

	// Expose the effective settings to the hooks
	hookCtx.Parameters["dry_run"] = settings.dryRun
	hookCtx.Parameters["update_source_links"] = settings.updateSourceLinks

	result := &Result{
		SpecFile: specFile,
		System:   settings.system,
		DryRun:   settings.dryRun,
	}

	if err := c.base.ValidateSpecPath(specFile); err != nil {
		return c.failRun(result, started, err), err
	}

	hierarchy, err := c.parseHierarchy(specFile, settings.applyTemplates)
	if err != nil {
		return c.failRun(result, started, err), err
	}

	c.VerbosePrint("Parsed %d issues from %s", hierarchy.Size(), specFile)

	// Dry runs never construct the adapter, so they need no credentials
	var system ticketing.System
	if !settings.dryRun {
		system, err = c.deps.Ticketing.Get(settings.system, settings.systemConfig)
		if err != nil {
			return c.failRun(result, started, err), err
		}
		hookCtx.Metadata["system"] = system
	}
	hookCtx.Metadata["hierarchy"] = hierarchy

	runCtx := ctx
	if settings.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, settings.timeout)
		defer cancel()
	}
	hookCtx.Ctx = runCtx

	c.createIssues(runCtx, system, hierarchy, settings, hookCtx, result)
	result.Elapsed = time.Since(started)

	// Post-hooks (source annotation among them) read the created issues
	// from the hook context
	if !settings.dryRun && len(result.CreatedIssues) > 0 {
		hookCtx.Results["created_issues"] = result.CreatedIssues
	}

	c.recordRun(result, started)

	c.VerbosePrint("Sync finished: %d created, %d failed in %s", result.TotalCreated, result.TotalFailed, result.Elapsed)

	return result, nil
}

// failRun attaches a run-level error to the result and stamps its duration.
func (c *realCreator) failRun(result *Result, started time.Time, err error) *Result {
	result.Errors = append(result.Errors, IssueError{Err: err})
	result.Elapsed = time.Since(started)
	return result
}

// parseHierarchy parses the specification and applies configured templates.
func (c *realCreator) parseHierarchy(specFile string, applyTemplates bool) (*issue.Hierarchy, error) {
	hierarchy, err := c.deps.Parser.ParseFile(specFile)
	if err != nil {
		return nil, err
	}

	if applyTemplates {
		if err := c.templates.Apply(hierarchy); err != nil {
			return nil, err
		}
	}

	return hierarchy, nil
}

// createIssues walks the hierarchy in parent-before-child order and creates
// each node. One node's failure is recorded and the walk continues;
// descendants of a failed node are marked failed without being attempted.
func (c *realCreator) createIssues(
	ctx context.Context,
	system ticketing.System,
	hierarchy *issue.Hierarchy,
	settings runSettings,
	hookCtx *hooks.HookContext,
	result *Result,
) {
	records := make(map[string]*ticketing.CreatedIssue)
	failed := make(map[string]error)

	_ = hierarchy.Walk(func(spec *issue.Spec) error {
		if err := ctx.Err(); err != nil {
			abortErr := fmt.Errorf("%w: %w", ErrCreationAborted, err)
			failed[spec.ID()] = abortErr
			result.Errors = append(result.Errors, IssueError{LocalID: spec.ID(), Title: spec.Title, Err: abortErr})
			return nil
		}

		var parentRecord *ticketing.CreatedIssue
		if parent := spec.Parent(); parent != nil {
			if parentErr, ok := failed[parent.ID()]; ok {
				depErr := fmt.Errorf("%w: %s", ticketing.ErrDependencyFailed, parent.Title)
				failed[spec.ID()] = depErr
				result.Errors = append(result.Errors, IssueError{
					LocalID:          spec.ID(),
					Title:            spec.Title,
					Err:              depErr,
					FailedDependency: true,
				})
				c.VerbosePrint("Skipping %q: parent failed: %v", spec.Title, parentErr)
				return nil
			}
			parentRecord = records[parent.ID()]
		}

		record, err := c.createNode(ctx, system, spec, parentRecord, settings, len(result.CreatedIssues)+1)
		if err != nil {
			failed[spec.ID()] = err
			result.Errors = append(result.Errors, IssueError{LocalID: spec.ID(), Title: spec.Title, Err: err})
			c.VerbosePrint("Failed to create %q: %v", spec.Title, err)
			return nil
		}

		records[spec.ID()] = record
		result.CreatedIssues = append(result.CreatedIssues, record)
		if parentRecord != nil {
			parentRecord.ChildrenIDs = append(parentRecord.ChildrenIDs, record.ID)
		}
		c.VerbosePrint("Created %s: %s", record.Identifier, spec.Title)

		if !settings.dryRun {
			c.runPostIssueCreationHooks(hookCtx, record, result)
		}
		return nil
	})

	result.TotalCreated = len(result.CreatedIssues)
	result.TotalFailed = len(result.Errors)
	result.Success = result.TotalFailed == 0
}

// createNode creates one issue, or synthesizes a record in dry-run mode.
func (c *realCreator) createNode(
	ctx context.Context,
	system ticketing.System,
	spec *issue.Spec,
	parentRecord *ticketing.CreatedIssue,
	settings runSettings,
	sequence int,
) (*ticketing.CreatedIssue, error) {
	var parentRemoteID string
	if parentRecord != nil {
		parentRemoteID = parentRecord.ID
	}

	if settings.dryRun {
		return &ticketing.CreatedIssue{
			ID:         fmt.Sprintf("dry-run-%d", sequence),
			Identifier: fmt.Sprintf("DRY-%d", sequence),
			URL:        fmt.Sprintf("dry-run://%s/%d", settings.system, sequence),
			Title:      spec.Title,
			Status:     ticketing.StatusBacklog,
			CreatedAt:  time.Now().UTC(),
			ParentID:   parentRemoteID,
			LocalID:    spec.ID(),
		}, nil
	}

	return system.CreateIssue(ctx, spec, parentRemoteID)
}

// runPostIssueCreationHooks fires the per-issue hooks for one created issue.
// Hook failures are warnings, never creation failures.
func (c *realCreator) runPostIssueCreationHooks(hookCtx *hooks.HookContext, record *ticketing.CreatedIssue, result *Result) {
	if c.deps.HookManager == nil {
		return
	}

	hookCtx.Results["created_issue"] = record
	if err := c.deps.HookManager.ExecutePostIssueCreationHooks(hookCtx.OperationName, hookCtx); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("post-creation hook failed for %s: %v", record.Identifier, err))
	}
}

// recordRun appends the run to the history ledger when one is configured.
func (c *realCreator) recordRun(result *Result, started time.Time) {
	if c.deps.Ledger == nil {
		return
	}

	run := &ledger.Run{
		SpecFile:     result.SpecFile,
		System:       result.System,
		DryRun:       result.DryRun,
		TotalCreated: result.TotalCreated,
		TotalFailed:  result.TotalFailed,
		StartedAt:    started,
		Elapsed:      result.Elapsed,
	}
	if err := c.deps.Ledger.RecordRun(run, result.CreatedIssues); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to record run history: %v", err))
	}
}
