package issue

import "errors"

// Error definitions for issue package.
var (
	// Tree manipulation errors.
	ErrNilIssue       = errors.New("issue cannot be nil")
	ErrDuplicateIssue = errors.New("issue id already present in hierarchy")
	ErrCycleDetected  = errors.New("adding this child would create a cycle")

	// Validation errors.
	ErrEmptyTitle       = errors.New("issue title cannot be empty")
	ErrInvalidIssueType = errors.New("unknown issue type")
	ErrInvalidPriority  = errors.New("unknown priority")
	ErrInvalidEstimate  = errors.New("estimate must be a positive number of hours")

	// Document reconstruction errors.
	ErrUnknownParent = errors.New("parent id not present in document")
)
