package ticketing

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/logger"
)

const (
	// GitHubName is the name identifier for the GitHub backend.
	GitHubName = "github"

	githubSearchPageSize = 50
	githubMaxSearch      = 1000
)

// GitHub represents the GitHub backend implementation (REST API via
// go-github). Issues have no first-class parent field, so hierarchy linkage
// is written into issue bodies: a task-list item on the parent and a
// "Parent: #N" paragraph on the child.
type GitHub struct {
	config SystemConfig
	client *github.Client
	logger logger.Logger
}

// NewGitHub creates a new GitHub backend instance. The token comes from the
// configuration or the GITHUB_TOKEN environment variable.
func NewGitHub(config SystemConfig, log logger.Logger) (*GitHub, error) {
	if err := config.Validate(GitHubName); err != nil {
		return nil, err
	}

	token := config.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	var client *github.Client
	if token != "" {
		client = github.NewTokenClient(context.Background(), token)
	} else {
		client = github.NewClient(nil)
	}

	return newGitHubWithClient(config, client, log), nil
}

// newGitHubWithClient wires an explicit API client, used by tests to point
// at a local server.
func newGitHubWithClient(config SystemConfig, client *github.Client, log logger.Logger) *GitHub {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &GitHub{
		config: config,
		client: client,
		logger: log,
	}
}

// Name returns the name of the backend.
func (g *GitHub) Name() string {
	return GitHubName
}

// TestConnection reports whether the configured repository is reachable.
func (g *GitHub) TestConnection(ctx context.Context) bool {
	_, _, err := g.client.Repositories.Get(ctx, g.config.Owner, g.config.Repo)
	return err == nil
}

// CreateIssue creates a single GitHub issue, linked under parentRemoteID
// when non-empty.
func (g *GitHub) CreateIssue(ctx context.Context, spec *issue.Spec, parentRemoteID string) (*CreatedIssue, error) {
	body := BuildDescription(spec, GitHubName)
	if parentRemoteID != "" {
		if body != "" {
			body += "\n\n"
		}
		body += parentMarker(parentRemoteID)
	}

	labels := GenerateLabels(spec, g.config)
	req := &github.IssueRequest{
		Title:  github.String(spec.Title),
		Body:   github.String(body),
		Labels: &labels,
	}
	if assignee := g.assigneeFor(spec); assignee != "" {
		req.Assignee = github.String(assignee)
	}

	created, resp, err := g.client.Issues.Create(ctx, g.config.Owner, g.config.Repo, req)
	if err != nil {
		return nil, g.handleError(err, resp)
	}

	if parentRemoteID != "" {
		// The parent-side task-list entry is informational; a created child
		// must not be reported as failed because the parent edit was denied.
		if err := g.appendChildToParent(ctx, parentRemoteID, created.GetNumber()); err != nil {
			g.logger.Logf("github: could not add #%d to parent #%s task list: %v", created.GetNumber(), parentRemoteID, err)
		}
	}

	record := g.toCreatedIssue(created)
	record.ParentID = parentRemoteID
	record.LocalID = spec.ID()
	return record, nil
}

// CreateIssueHierarchy creates every issue of the hierarchy in
// parent-before-child order.
func (g *GitHub) CreateIssueHierarchy(ctx context.Context, hierarchy *issue.Hierarchy) ([]*CreatedIssue, error) {
	return createHierarchy(ctx, g, hierarchy)
}

// UpdateIssue applies a partial update to an existing issue.
func (g *GitHub) UpdateIssue(ctx context.Context, remoteID string, update IssueUpdate) error {
	number, err := parseIssueNumber(remoteID)
	if err != nil {
		return err
	}
	if update.Empty() {
		return nil
	}

	req := &github.IssueRequest{}
	if update.Title != nil {
		req.Title = github.String(*update.Title)
	}
	if update.Description != nil {
		req.Body = github.String(*update.Description)
	}
	if update.Labels != nil {
		labels := update.Labels
		req.Labels = &labels
	}
	if update.Assignee != nil {
		req.Assignee = github.String(*update.Assignee)
	}
	if update.Status != nil {
		switch *update.Status {
		case StatusDone:
			req.State = github.String("closed")
			req.StateReason = github.String("completed")
		case StatusCancelled:
			req.State = github.String("closed")
			req.StateReason = github.String("not_planned")
		default:
			req.State = github.String("open")
		}
	}

	if _, resp, err := g.client.Issues.Edit(ctx, g.config.Owner, g.config.Repo, number, req); err != nil {
		return g.handleError(err, resp)
	}

	// Priority has no GitHub field; it travels as a label.
	if update.Priority != nil {
		label := "priority:" + string(*update.Priority)
		if _, resp, err := g.client.Issues.AddLabelsToIssue(ctx, g.config.Owner, g.config.Repo, number, []string{label}); err != nil {
			return g.handleError(err, resp)
		}
	}
	return nil
}

// GetIssue fetches an issue by number. A missing issue yields a nil result
// without error.
func (g *GitHub) GetIssue(ctx context.Context, remoteID string) (*CreatedIssue, error) {
	number, err := parseIssueNumber(remoteID)
	if err != nil {
		return nil, err
	}

	iss, resp, err := g.client.Issues.Get(ctx, g.config.Owner, g.config.Repo, number)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, g.handleError(err, resp)
	}
	return g.toCreatedIssue(iss), nil
}

// SearchIssues finds repository issues matching the query text.
func (g *GitHub) SearchIssues(ctx context.Context, query string) ([]*CreatedIssue, error) {
	q := fmt.Sprintf("repo:%s/%s is:issue %s", g.config.Owner, g.config.Repo, query)
	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: githubSearchPageSize},
	}

	var all []*CreatedIssue
	for {
		result, resp, err := g.client.Search.Issues(ctx, q, opts)
		if err != nil {
			return nil, g.handleError(err, resp)
		}
		for _, iss := range result.Issues {
			all = append(all, g.toCreatedIssue(iss))
		}
		if resp.NextPage == 0 || len(all) >= githubMaxSearch {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// AddComment adds a comment to an issue.
func (g *GitHub) AddComment(ctx context.Context, remoteID, body string) error {
	number, err := parseIssueNumber(remoteID)
	if err != nil {
		return err
	}

	comment := &github.IssueComment{Body: github.String(body)}
	if _, resp, err := g.client.Issues.CreateComment(ctx, g.config.Owner, g.config.Repo, number, comment); err != nil {
		return g.handleError(err, resp)
	}
	return nil
}

// LinkIssues records child under parent in both issue bodies: a task-list
// item on the parent and a parent marker on the child. Re-linking the same
// pair is a no-op.
func (g *GitHub) LinkIssues(ctx context.Context, parentRemoteID, childRemoteID string) error {
	childNumber, err := parseIssueNumber(childRemoteID)
	if err != nil {
		return err
	}

	if err := g.appendChildToParent(ctx, parentRemoteID, childNumber); err != nil {
		return err
	}
	return g.appendParentToChild(ctx, childNumber, parentRemoteID)
}

// AvailableLabels lists the repository's labels.
func (g *GitHub) AvailableLabels(ctx context.Context) ([]string, error) {
	opts := &github.ListOptions{PerPage: 100}

	var names []string
	for {
		labels, resp, err := g.client.Issues.ListLabels(ctx, g.config.Owner, g.config.Repo, opts)
		if err != nil {
			return nil, g.handleError(err, resp)
		}
		for _, label := range labels {
			names = append(names, label.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}

// AvailableAssignees lists the repository's assignable users.
func (g *GitHub) AvailableAssignees(ctx context.Context) ([]string, error) {
	opts := &github.ListOptions{PerPage: 100}

	var logins []string
	for {
		users, resp, err := g.client.Issues.ListAssignees(ctx, g.config.Owner, g.config.Repo, opts)
		if err != nil {
			return nil, g.handleError(err, resp)
		}
		for _, user := range users {
			logins = append(logins, user.GetLogin())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return logins, nil
}

// handleError handles GitHub API errors and maps them onto the shared error
// sentinels.
func (g *GitHub) handleError(err error, resp *github.Response) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrIssueNotFound, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: check the github token", ErrAuthenticationFailed)
		case http.StatusForbidden:
			// Check if it's rate limiting
			if resp.Header.Get("X-RateLimit-Remaining") == "0" {
				return fmt.Errorf("%w: GitHub API rate limit exceeded", ErrRateLimited)
			}
			return fmt.Errorf("%w: access forbidden", ErrAuthenticationFailed)
		case http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %v", ErrValidationRejected, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrAPIRejection, err)
}

func (g *GitHub) assigneeFor(spec *issue.Spec) string {
	if spec.Assignee != "" {
		return spec.Assignee
	}
	return g.config.DefaultAssignee
}

// appendChildToParent appends a task-list entry for the child to the parent
// issue body, unless the entry is already present.
func (g *GitHub) appendChildToParent(ctx context.Context, parentRemoteID string, childNumber int) error {
	parentNumber, err := parseIssueNumber(parentRemoteID)
	if err != nil {
		return err
	}

	parent, resp, err := g.client.Issues.Get(ctx, g.config.Owner, g.config.Repo, parentNumber)
	if err != nil {
		return g.handleError(err, resp)
	}

	entry := fmt.Sprintf("- [ ] #%d", childNumber)
	body := parent.GetBody()
	if strings.Contains(body, fmt.Sprintf("#%d", childNumber)) {
		return nil
	}
	if body != "" {
		body += "\n"
	}
	body += entry

	req := &github.IssueRequest{Body: github.String(body)}
	if _, resp, err := g.client.Issues.Edit(ctx, g.config.Owner, g.config.Repo, parentNumber, req); err != nil {
		return g.handleError(err, resp)
	}
	return nil
}

// appendParentToChild appends the parent marker paragraph to the child issue
// body, unless one is already present.
func (g *GitHub) appendParentToChild(ctx context.Context, childNumber int, parentRemoteID string) error {
	child, resp, err := g.client.Issues.Get(ctx, g.config.Owner, g.config.Repo, childNumber)
	if err != nil {
		return g.handleError(err, resp)
	}

	body := child.GetBody()
	if strings.Contains(body, parentMarker(parentRemoteID)) {
		return nil
	}
	if body != "" {
		body += "\n\n"
	}
	body += parentMarker(parentRemoteID)

	req := &github.IssueRequest{Body: github.String(body)}
	if _, resp, err := g.client.Issues.Edit(ctx, g.config.Owner, g.config.Repo, childNumber, req); err != nil {
		return g.handleError(err, resp)
	}
	return nil
}

func parentMarker(parentRemoteID string) string {
	return fmt.Sprintf("Parent: #%s", strings.TrimPrefix(parentRemoteID, "#"))
}

func parseIssueNumber(remoteID string) (int, error) {
	number, err := strconv.Atoi(strings.TrimPrefix(remoteID, "#"))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid issue number %q", ErrIssueNotFound, remoteID)
	}
	return number, nil
}

func (g *GitHub) toCreatedIssue(iss *github.Issue) *CreatedIssue {
	number := iss.GetNumber()
	return &CreatedIssue{
		ID:         strconv.Itoa(number),
		Identifier: fmt.Sprintf("#%d", number),
		URL:        iss.GetHTMLURL(),
		Title:      iss.GetTitle(),
		Status:     githubStatus(iss),
		CreatedAt:  iss.GetCreatedAt().Time,
	}
}

func githubStatus(iss *github.Issue) Status {
	if iss.GetState() != "closed" {
		return StatusTodo
	}
	if iss.GetStateReason() == "not_planned" {
		return StatusCancelled
	}
	return StatusDone
}
