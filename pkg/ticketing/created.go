package ticketing

import (
	"strings"
	"time"

	"github.com/lerenn/spec-sync/pkg/issue"
)

// Status is the vendor-neutral issue state.
type Status string

// Normalized issue states
const (
	StatusBacklog    Status = "backlog"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// NormalizeStatus maps a backend status string onto the six normalized
// states. Unrecognized input maps to StatusTodo.
func NormalizeStatus(raw string) Status {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, "_", " ")
	cleaned = strings.ReplaceAll(cleaned, "-", " ")

	switch cleaned {
	case "backlog", "triage":
		return StatusBacklog
	case "todo", "to do", "open", "unstarted", "new", "selected for development":
		return StatusTodo
	case "in progress", "started", "doing", "in development":
		return StatusInProgress
	case "in review", "review", "code review":
		return StatusInReview
	case "done", "closed", "completed", "complete", "resolved", "merged":
		return StatusDone
	case "cancelled", "canceled", "duplicate", "wontfix", "wont fix", "not planned":
		return StatusCancelled
	default:
		return StatusTodo
	}
}

// CreatedIssue is the record of one successfully created remote issue.
type CreatedIssue struct {
	// ID is the backend-assigned id used for subsequent API calls.
	ID string `yaml:"id" json:"id"`
	// Identifier is the human-readable reference (ENG-42, #17, PROJ-9).
	Identifier string    `yaml:"identifier" json:"identifier"`
	URL        string    `yaml:"url" json:"url"`
	Title      string    `yaml:"title" json:"title"`
	Status     Status    `yaml:"status" json:"status"`
	CreatedAt  time.Time `yaml:"created_at" json:"created_at"`
	// ParentID and ChildrenIDs mirror the source hierarchy's shape remotely.
	ParentID    string   `yaml:"parent_id,omitempty" json:"parent_id,omitempty"`
	ChildrenIDs []string `yaml:"children_ids,omitempty" json:"children_ids,omitempty"`
	// LocalID is the id of the originating issue spec.
	LocalID string `yaml:"local_id,omitempty" json:"local_id,omitempty"`
}

// IssueUpdate is a partial update payload. Nil fields are left untouched.
type IssueUpdate struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *issue.Priority
	Labels      []string
	Assignee    *string
}

// Empty reports whether the update carries no changes.
func (u IssueUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.Labels == nil && u.Assignee == nil
}
