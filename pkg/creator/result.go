package creator

import (
	"fmt"
	"time"

	"github.com/lerenn/spec-sync/pkg/ticketing"
)

// Result reports the outcome of one synchronization run. Every node of
// the parsed hierarchy shows up either in CreatedIssues or in Errors;
// nothing is silently dropped.
type Result struct {
	// SpecFile is the specification document the run was built from.
	SpecFile string
	// System is the resolved target ticketing system name.
	System string
	// DryRun reports whether the run only simulated creation.
	DryRun bool
	// Success is true iff no issue creation failed.
	Success bool
	// TotalCreated counts the successfully created issues.
	TotalCreated int
	// TotalFailed counts the failed issues, including the ones never
	// attempted because a parent failed first.
	TotalFailed int
	// CreatedIssues holds one record per created issue, in creation order.
	CreatedIssues []*ticketing.CreatedIssue
	// Errors holds one entry per failed node, plus run-level failures
	// such as parse errors.
	Errors []IssueError
	// Warnings holds non-fatal problems (linkback, history recording).
	Warnings []string
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
	// SourceAnnotated reports whether the source document was updated
	// with links to the created issues.
	SourceAnnotated bool
}

// IssueError records one failure of a run. LocalID and Title are empty
// for run-level failures that are not tied to a single node.
type IssueError struct {
	LocalID string
	Title   string
	Err     error
	// FailedDependency marks nodes that were never attempted because
	// an ancestor's creation failed.
	FailedDependency bool
}

// Error implements the error interface.
func (e IssueError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("%s: %v", e.Title, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e IssueError) Unwrap() error {
	return e.Err
}

// SuccessRate returns the fraction of attempted issues that were created,
// in [0, 1]. Nodes skipped because of a failed parent count against the
// rate. A run that attempted nothing reports 1 when it succeeded and 0
// otherwise.
func (r *Result) SuccessRate() float64 {
	total := r.TotalCreated + r.TotalFailed
	if total == 0 {
		if r.Success {
			return 1
		}
		return 0
	}
	return float64(r.TotalCreated) / float64(total)
}
