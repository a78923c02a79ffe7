package ticketing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/logger"
)

const (
	// LinearName is the name identifier for the Linear backend.
	LinearName = "linear"

	linearMaxIssues = 1000
)

// linearBaseURL can be overridden in tests to point at a httptest server.
var linearBaseURL = "https://api.linear.app/graphql"

// Linear represents the Linear backend implementation (GraphQL API).
type Linear struct {
	config SystemConfig
	logger logger.Logger

	labelIDs map[string]string
	stateIDs map[Status]string
}

// NewLinear creates a new Linear backend instance. The API key falls
// back to the LINEAR_API_KEY environment variable when not configured.
func NewLinear(config SystemConfig, log logger.Logger) (*Linear, error) {
	if err := config.Validate(LinearName); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv("LINEAR_API_KEY")
	}
	return &Linear{
		config: config,
		logger: log,
	}, nil
}

// Name returns the name of the backend.
func (l *Linear) Name() string {
	return LinearName
}

type linearRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type linearResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []linearGQLErr  `json:"errors"`
}

type linearGQLErr struct {
	Message string `json:"message"`
}

type linearIssue struct {
	ID         string      `json:"id"`
	Identifier string      `json:"identifier"`
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	CreatedAt  string      `json:"createdAt"`
	State      *linearName `json:"state"`
	Parent     *linearRef  `json:"parent"`
}

type linearName struct {
	Name string `json:"name"`
}

type linearRef struct {
	ID string `json:"id"`
}

type linearPageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// query posts one GraphQL request and decodes the data payload into out.
func (l *Linear) query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(linearRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal linear request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, linearBaseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create linear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", l.config.APIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read linear response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: linear API returned status %d", ErrAuthenticationFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: linear API returned status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: linear API returned status %d: %s", ErrAPIRejection, resp.StatusCode, string(respBody))
	}

	var gqlResp linearResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return fmt.Errorf("failed to parse linear response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, len(gqlResp.Errors))
		for i, e := range gqlResp.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("%w: %s", ErrAPIRejection, strings.Join(msgs, "; "))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to parse linear data: %w", err)
	}
	return nil
}

// TestConnection reports whether the API key is accepted.
func (l *Linear) TestConnection(ctx context.Context) bool {
	err := l.query(ctx, `query { viewer { id } }`, nil, nil)
	return err == nil
}

const linearIssueCreateMutation = `mutation($input: IssueCreateInput!) {
  issueCreate(input: $input) {
    success
    issue {
      id
      identifier
      title
      url
      createdAt
      state { name }
      parent { id }
    }
  }
}`

// CreateIssue creates a single Linear issue, linked under parentRemoteID
// when non-empty.
func (l *Linear) CreateIssue(ctx context.Context, spec *issue.Spec, parentRemoteID string) (*CreatedIssue, error) {
	input := map[string]any{
		"teamId":      l.config.TeamID,
		"title":       spec.Title,
		"description": BuildDescription(spec, LinearName),
		"priority":    LinearPriority(spec.Priority),
	}
	if parentRemoteID != "" {
		input["parentId"] = parentRemoteID
	}
	if ids := l.resolveLabelIDs(ctx, GenerateLabels(spec, l.config)); len(ids) > 0 {
		input["labelIds"] = ids
	}

	var out struct {
		IssueCreate struct {
			Success bool         `json:"success"`
			Issue   *linearIssue `json:"issue"`
		} `json:"issueCreate"`
	}
	if err := l.query(ctx, linearIssueCreateMutation, map[string]any{"input": input}, &out); err != nil {
		return nil, err
	}
	if !out.IssueCreate.Success || out.IssueCreate.Issue == nil {
		return nil, fmt.Errorf("%w: issueCreate reported failure", ErrAPIRejection)
	}

	created := l.toCreatedIssue(out.IssueCreate.Issue)
	created.LocalID = spec.ID()
	return created, nil
}

// CreateIssueHierarchy creates every issue of the hierarchy in
// parent-before-child order.
func (l *Linear) CreateIssueHierarchy(ctx context.Context, hierarchy *issue.Hierarchy) ([]*CreatedIssue, error) {
	return createHierarchy(ctx, l, hierarchy)
}

// UpdateIssue applies a partial update through the issueUpdate mutation.
func (l *Linear) UpdateIssue(ctx context.Context, remoteID string, update IssueUpdate) error {
	if update.Empty() {
		return nil
	}

	input := map[string]any{}
	if update.Title != nil {
		input["title"] = *update.Title
	}
	if update.Description != nil {
		input["description"] = *update.Description
	}
	if update.Priority != nil {
		input["priority"] = LinearPriority(*update.Priority)
	}
	if update.Assignee != nil {
		input["assigneeId"] = *update.Assignee
	}
	if update.Labels != nil {
		input["labelIds"] = l.resolveLabelIDs(ctx, update.Labels)
	}
	if update.Status != nil {
		stateID, err := l.stateID(ctx, *update.Status)
		if err != nil {
			return err
		}
		input["stateId"] = stateID
	}

	var out struct {
		IssueUpdate struct {
			Success bool `json:"success"`
		} `json:"issueUpdate"`
	}
	mutation := `mutation($id: String!, $input: IssueUpdateInput!) {
  issueUpdate(id: $id, input: $input) { success }
}`
	if err := l.query(ctx, mutation, map[string]any{"id": remoteID, "input": input}, &out); err != nil {
		return err
	}
	if !out.IssueUpdate.Success {
		return fmt.Errorf("%w: issueUpdate reported failure", ErrAPIRejection)
	}
	return nil
}

// GetIssue fetches an issue by its Linear id. A missing issue yields a nil
// result without error.
func (l *Linear) GetIssue(ctx context.Context, remoteID string) (*CreatedIssue, error) {
	query := `query($id: String!) {
  issue(id: $id) {
    id
    identifier
    title
    url
    createdAt
    state { name }
    parent { id }
  }
}`
	var out struct {
		Issue *linearIssue `json:"issue"`
	}
	if err := l.query(ctx, query, map[string]any{"id": remoteID}, &out); err != nil {
		return nil, err
	}
	if out.Issue == nil {
		return nil, nil
	}
	return l.toCreatedIssue(out.Issue), nil
}

const linearSearchQuery = `query($filter: IssueFilter, $after: String) {
  issues(filter: $filter, after: $after, first: 50) {
    nodes {
      id
      identifier
      title
      url
      createdAt
      state { name }
      parent { id }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

// SearchIssues finds team issues whose title contains the query text,
// following cursor pagination up to the issue cap.
func (l *Linear) SearchIssues(ctx context.Context, query string) ([]*CreatedIssue, error) {
	filter := map[string]any{
		"team":  map[string]any{"id": map[string]any{"eq": l.config.TeamID}},
		"title": map[string]any{"containsIgnoreCase": query},
	}

	var all []*CreatedIssue
	var cursor string
	for {
		variables := map[string]any{"filter": filter}
		if cursor != "" {
			variables["after"] = cursor
		}

		var out struct {
			Issues struct {
				Nodes    []*linearIssue `json:"nodes"`
				PageInfo linearPageInfo `json:"pageInfo"`
			} `json:"issues"`
		}
		if err := l.query(ctx, linearSearchQuery, variables, &out); err != nil {
			return nil, err
		}

		for _, node := range out.Issues.Nodes {
			all = append(all, l.toCreatedIssue(node))
		}
		if !out.Issues.PageInfo.HasNextPage || len(all) >= linearMaxIssues {
			break
		}
		cursor = out.Issues.PageInfo.EndCursor
	}
	return all, nil
}

// AddComment adds a comment to an issue.
func (l *Linear) AddComment(ctx context.Context, remoteID, body string) error {
	mutation := `mutation($input: CommentCreateInput!) {
  commentCreate(input: $input) { success }
}`
	var out struct {
		CommentCreate struct {
			Success bool `json:"success"`
		} `json:"commentCreate"`
	}
	variables := map[string]any{
		"input": map[string]any{"issueId": remoteID, "body": body},
	}
	if err := l.query(ctx, mutation, variables, &out); err != nil {
		return err
	}
	if !out.CommentCreate.Success {
		return fmt.Errorf("%w: commentCreate reported failure", ErrAPIRejection)
	}
	return nil
}

// LinkIssues sets parent as the parent of child.
func (l *Linear) LinkIssues(ctx context.Context, parentRemoteID, childRemoteID string) error {
	mutation := `mutation($id: String!, $input: IssueUpdateInput!) {
  issueUpdate(id: $id, input: $input) { success }
}`
	var out struct {
		IssueUpdate struct {
			Success bool `json:"success"`
		} `json:"issueUpdate"`
	}
	variables := map[string]any{
		"id":    childRemoteID,
		"input": map[string]any{"parentId": parentRemoteID},
	}
	if err := l.query(ctx, mutation, variables, &out); err != nil {
		return err
	}
	if !out.IssueUpdate.Success {
		return fmt.Errorf("%w: issueUpdate reported failure", ErrAPIRejection)
	}
	return nil
}

// AvailableLabels lists the team's labels, caching name to id for creation.
func (l *Linear) AvailableLabels(ctx context.Context) ([]string, error) {
	query := `query($teamId: String!, $after: String) {
  team(id: $teamId) {
    labels(first: 100, after: $after) {
      nodes { id name }
      pageInfo { hasNextPage endCursor }
    }
  }
}`
	type node struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	labels := make(map[string]string)
	var names []string
	var cursor string
	for {
		variables := map[string]any{"teamId": l.config.TeamID}
		if cursor != "" {
			variables["after"] = cursor
		}

		var out struct {
			Team struct {
				Labels struct {
					Nodes    []node         `json:"nodes"`
					PageInfo linearPageInfo `json:"pageInfo"`
				} `json:"labels"`
			} `json:"team"`
		}
		if err := l.query(ctx, query, variables, &out); err != nil {
			return nil, err
		}

		for _, n := range out.Team.Labels.Nodes {
			labels[n.Name] = n.ID
			names = append(names, n.Name)
		}
		if !out.Team.Labels.PageInfo.HasNextPage {
			break
		}
		cursor = out.Team.Labels.PageInfo.EndCursor
	}

	l.labelIDs = labels
	return names, nil
}

// AvailableAssignees lists the team's members.
func (l *Linear) AvailableAssignees(ctx context.Context) ([]string, error) {
	query := `query($teamId: String!, $after: String) {
  team(id: $teamId) {
    members(first: 100, after: $after) {
      nodes { id displayName }
      pageInfo { hasNextPage endCursor }
    }
  }
}`
	type node struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	}

	var names []string
	var cursor string
	for {
		variables := map[string]any{"teamId": l.config.TeamID}
		if cursor != "" {
			variables["after"] = cursor
		}

		var out struct {
			Team struct {
				Members struct {
					Nodes    []node         `json:"nodes"`
					PageInfo linearPageInfo `json:"pageInfo"`
				} `json:"members"`
			} `json:"team"`
		}
		if err := l.query(ctx, query, variables, &out); err != nil {
			return nil, err
		}

		for _, n := range out.Team.Members.Nodes {
			names = append(names, n.DisplayName)
		}
		if !out.Team.Members.PageInfo.HasNextPage {
			break
		}
		cursor = out.Team.Members.PageInfo.EndCursor
	}
	return names, nil
}

// resolveLabelIDs maps label names to Linear label ids, fetching the team
// labels once. Unknown labels are skipped: labels are advisory and must not
// fail issue creation.
func (l *Linear) resolveLabelIDs(ctx context.Context, names []string) []string {
	if l.labelIDs == nil {
		if _, err := l.AvailableLabels(ctx); err != nil {
			l.logger.Logf("linear: skipping labels, could not fetch team labels: %v", err)
			return nil
		}
	}

	var ids []string
	for _, name := range names {
		if id, ok := l.labelIDs[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// stateID resolves a normalized status to one of the team's workflow state
// ids, fetching the states once.
func (l *Linear) stateID(ctx context.Context, status Status) (string, error) {
	if l.stateIDs == nil {
		if err := l.fetchStates(ctx); err != nil {
			return "", err
		}
	}
	id, ok := l.stateIDs[status]
	if !ok {
		return "", fmt.Errorf("%w: no workflow state matches status %q", ErrAPIRejection, status)
	}
	return id, nil
}

func (l *Linear) fetchStates(ctx context.Context) error {
	query := `query($teamId: String!) {
  team(id: $teamId) {
    states {
      nodes { id name type }
    }
  }
}`
	var out struct {
		Team struct {
			States struct {
				Nodes []struct {
					ID   string `json:"id"`
					Name string `json:"name"`
					Type string `json:"type"`
				} `json:"nodes"`
			} `json:"states"`
		} `json:"team"`
	}
	if err := l.query(ctx, query, map[string]any{"teamId": l.config.TeamID}, &out); err != nil {
		return err
	}

	states := make(map[Status]string)
	for _, n := range out.Team.States.Nodes {
		// Exact name match wins over the coarser workflow type grouping.
		byName := NormalizeStatus(n.Name)
		if _, ok := states[byName]; !ok {
			states[byName] = n.ID
		}
	}
	for _, n := range out.Team.States.Nodes {
		var byType Status
		switch n.Type {
		case "triage", "backlog":
			byType = StatusBacklog
		case "unstarted":
			byType = StatusTodo
		case "started":
			byType = StatusInProgress
		case "completed":
			byType = StatusDone
		case "canceled":
			byType = StatusCancelled
		default:
			continue
		}
		if _, ok := states[byType]; !ok {
			states[byType] = n.ID
		}
	}

	l.stateIDs = states
	return nil
}

func (l *Linear) toCreatedIssue(li *linearIssue) *CreatedIssue {
	created := &CreatedIssue{
		ID:         li.ID,
		Identifier: li.Identifier,
		URL:        li.URL,
		Title:      li.Title,
		Status:     StatusTodo,
	}
	if li.State != nil {
		created.Status = NormalizeStatus(li.State.Name)
	}
	if li.Parent != nil {
		created.ParentID = li.Parent.ID
	}
	if t, err := time.Parse(time.RFC3339, li.CreatedAt); err == nil {
		created.CreatedAt = t
	}
	return created
}
