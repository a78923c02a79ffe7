// Package ticketing defines the vendor-neutral contract between the issue
// hierarchy and concrete ticketing backends, plus the adapters implementing
// it for Linear, GitHub, and Jira.
package ticketing

import (
	"context"
	"fmt"
	"sort"

	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/logger"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=ticketing.go -destination=mocks/ticketing.gen.go -package=mocks

// System interface defines the methods that all ticketing backends must
// provide. Remote operations honor the deadline and cancellation of the
// passed context.
type System interface {
	// Name returns the system identifier
	Name() string

	// TestConnection reports whether the backend is reachable with the
	// configured credentials
	TestConnection(ctx context.Context) bool

	// CreateIssue creates a single issue; parentRemoteID links it under an
	// already-created remote parent when non-empty
	CreateIssue(ctx context.Context, spec *issue.Spec, parentRemoteID string) (*CreatedIssue, error)

	// CreateIssueHierarchy creates every issue of the hierarchy in
	// parent-before-child order; partial failure is reported per node
	// through a BatchError
	CreateIssueHierarchy(ctx context.Context, hierarchy *issue.Hierarchy) ([]*CreatedIssue, error)

	// UpdateIssue applies a partial update to an existing issue
	UpdateIssue(ctx context.Context, remoteID string, update IssueUpdate) error

	// GetIssue fetches an issue by remote id; a nil result without error
	// means the issue does not exist
	GetIssue(ctx context.Context, remoteID string) (*CreatedIssue, error)

	// SearchIssues finds issues matching the query text
	SearchIssues(ctx context.Context, query string) ([]*CreatedIssue, error)

	// AddComment adds a comment to an existing issue
	AddComment(ctx context.Context, remoteID, body string) error

	// LinkIssues links child under parent using remote ids
	LinkIssues(ctx context.Context, parentRemoteID, childRemoteID string) error

	// AvailableLabels lists labels known to the backend
	AvailableLabels(ctx context.Context) ([]string, error)

	// AvailableAssignees lists assignable users known to the backend
	AvailableAssignees(ctx context.Context) ([]string, error)
}

// ManagerInterface defines the interface for ticketing system management.
type ManagerInterface interface {
	// Get builds the adapter registered under name with the given configuration
	Get(name string, config SystemConfig) (System, error)
	// Names returns the registered system identifiers
	Names() []string
}

// Builder constructs an adapter from its configuration.
type Builder func(config SystemConfig, logger logger.Logger) (System, error)

// Manager manages ticketing backend registrations and provides a unified
// construction point.
type Manager struct {
	builders map[string]Builder
	logger   logger.Logger
}

// NewManager creates a new ticketing manager with registered backends.
func NewManager(logger logger.Logger) *Manager {
	m := &Manager{
		builders: make(map[string]Builder),
		logger:   logger,
	}

	// Register backend implementations
	m.registerSystems()

	return m
}

// registerSystems registers all available backend implementations.
func (m *Manager) registerSystems() {
	m.builders[LinearName] = func(config SystemConfig, log logger.Logger) (System, error) {
		return NewLinear(config, log)
	}
	m.builders[GitHubName] = func(config SystemConfig, log logger.Logger) (System, error) {
		return NewGitHub(config, log)
	}
	m.builders[JiraName] = func(config SystemConfig, log logger.Logger) (System, error) {
		return NewJira(config, log)
	}
}

// Get builds the adapter registered under name, validating its configuration.
func (m *Manager) Get(name string, config SystemConfig) (System, error) {
	builder, exists := m.builders[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSystem, name)
	}
	return builder(config, m.logger)
}

// Names returns the registered system identifiers, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.builders))
	for name := range m.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// createHierarchy walks the hierarchy in parent-before-child order, creating
// each node through the system and threading remote parent ids. One node's
// failure marks its descendants as failed without aborting the walk.
func createHierarchy(ctx context.Context, sys System, hierarchy *issue.Hierarchy) ([]*CreatedIssue, error) {
	var created []*CreatedIssue
	records := make(map[string]*CreatedIssue)
	failed := make(map[string]error)

	walkErr := hierarchy.Walk(func(spec *issue.Spec) error {
		if err := ctx.Err(); err != nil {
			failed[spec.ID()] = err
			return nil
		}

		var parentRemoteID string
		if parent := spec.Parent(); parent != nil {
			parentRecord, ok := records[parent.ID()]
			if !ok {
				failed[spec.ID()] = fmt.Errorf("%w: %s", ErrDependencyFailed, parent.Title)
				return nil
			}
			parentRemoteID = parentRecord.ID
		}

		record, err := sys.CreateIssue(ctx, spec, parentRemoteID)
		if err != nil {
			failed[spec.ID()] = err
			return nil
		}

		records[spec.ID()] = record
		created = append(created, record)
		if parentRemoteID != "" {
			records[spec.Parent().ID()].ChildrenIDs = append(records[spec.Parent().ID()].ChildrenIDs, record.ID)
		}
		return nil
	})
	if walkErr != nil {
		return created, walkErr
	}

	if len(failed) > 0 {
		return created, &BatchError{Failed: failed}
	}
	return created, nil
}

// BatchError reports per-node failures from a hierarchy creation. Failed is
// keyed by the local spec id.
type BatchError struct {
	Failed map[string]error
}

// Error returns the batch failure summary.
func (e *BatchError) Error() string {
	return fmt.Sprintf("%d issue(s) failed to create", len(e.Failed))
}
