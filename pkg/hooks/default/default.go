// Package defaulthooks provides default hook implementations for the spec-sync application.
package defaulthooks

import (
	"github.com/lerenn/spec-sync/pkg/creator/consts"
	"github.com/lerenn/spec-sync/pkg/hooks"
	"github.com/lerenn/spec-sync/pkg/hooks/sourcelink"
	"github.com/lerenn/spec-sync/pkg/linkback"
	"github.com/lerenn/spec-sync/pkg/logger"
)

// NewDefaultHooksManager creates a new default hooks manager with operation
// tracing and source back-referencing hooks wired in.
func NewDefaultHooksManager(linkbackManager linkback.Manager, log logger.Logger) (hooks.HookManagerInterface, error) {
	if log == nil {
		log = logger.NewNoopLogger()
	}

	hm := hooks.NewHookManager()

	// Register operation tracing on every operation
	logging := hooks.NewLoggingHook(log)
	for _, operation := range []string{consts.SyncSpec, consts.PreviewSpec, consts.ValidateSpec} {
		if err := hm.RegisterPreHook(operation, logging); err != nil {
			return nil, err
		}
		if err := hm.RegisterPostHook(operation, logging); err != nil {
			return nil, err
		}
		if err := hm.RegisterErrorHook(operation, logging); err != nil {
			return nil, err
		}
	}

	// Register per-issue back-reference comment hook
	if err := sourcelink.NewCommentHook(linkbackManager).RegisterForOperations(hm.RegisterPostIssueCreationHook); err != nil {
		return nil, err
	}

	// Register source document annotation hook
	if err := sourcelink.NewAnnotateHook(linkbackManager).RegisterForOperations(hm.RegisterPostHook); err != nil {
		return nil, err
	}

	return hm, nil
}
