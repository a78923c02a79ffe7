package hooks

import (
	"fmt"
	"sort"
	"sync"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=manager.go -destination=mocks/manager.gen.go -package=mocks

// HookManager manages hook registration and execution.
type HookManager struct {
	preHooks               map[string][]PreHook
	postHooks              map[string][]PostHook
	errorHooks             map[string][]ErrorHook
	postIssueCreationHooks map[string][]PostIssueCreationHook
	mu                     sync.RWMutex
}

// HookManagerInterface defines the interface for hook management.
type HookManagerInterface interface {
	// Hook registration.
	RegisterPreHook(operation string, hook PreHook) error
	RegisterPostHook(operation string, hook PostHook) error
	RegisterErrorHook(operation string, hook ErrorHook) error
	RegisterPostIssueCreationHook(operation string, hook PostIssueCreationHook) error

	// Hook execution.
	ExecutePreHooks(operation string, ctx *HookContext) error
	ExecutePostHooks(operation string, ctx *HookContext) error
	ExecuteErrorHooks(operation string, ctx *HookContext) error
	ExecutePostIssueCreationHooks(operation string, ctx *HookContext) error
}

// NewHookManager creates a new HookManager instance.
func NewHookManager() HookManagerInterface {
	return &HookManager{
		preHooks:               make(map[string][]PreHook),
		postHooks:              make(map[string][]PostHook),
		errorHooks:             make(map[string][]ErrorHook),
		postIssueCreationHooks: make(map[string][]PostIssueCreationHook),
	}
}

// RegisterPreHook registers a pre-hook for a specific operation.
func (hm *HookManager) RegisterPreHook(operation string, hook PreHook) error {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hook == nil {
		return fmt.Errorf("hook cannot be nil")
	}

	hm.preHooks[operation] = append(hm.preHooks[operation], hook)
	sortHooksByPriority(hm.preHooks[operation])
	return nil
}

// RegisterPostHook registers a post-hook for a specific operation.
func (hm *HookManager) RegisterPostHook(operation string, hook PostHook) error {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hook == nil {
		return fmt.Errorf("hook cannot be nil")
	}

	hm.postHooks[operation] = append(hm.postHooks[operation], hook)
	sortHooksByPriority(hm.postHooks[operation])
	return nil
}

// RegisterErrorHook registers an error-hook for a specific operation.
func (hm *HookManager) RegisterErrorHook(operation string, hook ErrorHook) error {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hook == nil {
		return fmt.Errorf("hook cannot be nil")
	}

	hm.errorHooks[operation] = append(hm.errorHooks[operation], hook)
	sortHooksByPriority(hm.errorHooks[operation])
	return nil
}

// RegisterPostIssueCreationHook registers a post-issue creation hook for a specific operation.
func (hm *HookManager) RegisterPostIssueCreationHook(operation string, hook PostIssueCreationHook) error {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hook == nil {
		return fmt.Errorf("hook cannot be nil")
	}

	hm.postIssueCreationHooks[operation] = append(hm.postIssueCreationHooks[operation], hook)
	sortHooksByPriority(hm.postIssueCreationHooks[operation])
	return nil
}

// ExecutePreHooks executes all pre-hooks for a specific operation.
func (hm *HookManager) ExecutePreHooks(operation string, ctx *HookContext) error {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	for _, hook := range hm.preHooks[operation] {
		if err := hook.PreExecute(ctx); err != nil {
			return fmt.Errorf("pre-hook %s failed: %w", hook.Name(), err)
		}
	}

	return nil
}

// ExecutePostHooks executes all post-hooks for a specific operation.
func (hm *HookManager) ExecutePostHooks(operation string, ctx *HookContext) error {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	for _, hook := range hm.postHooks[operation] {
		if err := hook.PostExecute(ctx); err != nil {
			return fmt.Errorf("post-hook %s failed: %w", hook.Name(), err)
		}
	}

	return nil
}

// ExecuteErrorHooks executes all error-hooks for a specific operation.
func (hm *HookManager) ExecuteErrorHooks(operation string, ctx *HookContext) error {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	for _, hook := range hm.errorHooks[operation] {
		if err := hook.OnError(ctx); err != nil {
			return fmt.Errorf("error-hook %s failed: %w", hook.Name(), err)
		}
	}

	return nil
}

// ExecutePostIssueCreationHooks executes all post-issue creation hooks for a specific operation.
func (hm *HookManager) ExecutePostIssueCreationHooks(operation string, ctx *HookContext) error {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	for _, hook := range hm.postIssueCreationHooks[operation] {
		if err := hook.OnPostIssueCreation(ctx); err != nil {
			return fmt.Errorf("post-issue creation hook %s failed: %w", hook.Name(), err)
		}
	}

	return nil
}

// sortHooksByPriority orders hooks so lower priorities execute first.
func sortHooksByPriority[T Hook](hooks []T) {
	sort.Slice(hooks, func(i, j int) bool {
		return hooks[i].Priority() < hooks[j].Priority()
	})
}
