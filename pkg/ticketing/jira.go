package ticketing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/logger"
)

const (
	// JiraName is the name identifier for the Jira backend.
	JiraName = "jira"

	jiraMaxResults = 50
	jiraMaxIssues  = 1000

	// jiraCreatedLayout is the timestamp format of Jira Cloud responses.
	jiraCreatedLayout = "2006-01-02T15:04:05.000-0700"
)

// Jira represents the Jira Cloud backend implementation (REST API v3).
type Jira struct {
	config SystemConfig
	logger logger.Logger
}

// NewJira creates a new Jira backend instance. The API token falls back
// to the JIRA_API_TOKEN environment variable when not configured.
func NewJira(config SystemConfig, log logger.Logger) (*Jira, error) {
	if err := config.Validate(JiraName); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv("JIRA_API_TOKEN")
	}
	return &Jira{
		config: config,
		logger: log,
	}, nil
}

// Name returns the name of the backend.
func (j *Jira) Name() string {
	return JiraName
}

// doRequest performs one REST call against the configured Jira site and
// decodes the JSON response into out when non-nil.
func (j *Jira) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal jira request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(j.config.BaseURL, "/")+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create jira request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(j.config.Email+":"+j.config.APIKey)))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read jira response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: jira API returned status %d", ErrAuthenticationFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: jira API returned status 404", ErrIssueNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: jira API returned status 429", ErrRateLimited)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: jira API returned status %d: %s", ErrValidationRejected, resp.StatusCode, string(respBody))
	case resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("%w: jira API returned status %d: %s", ErrAPIRejection, resp.StatusCode, string(respBody))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse jira response: %w", err)
	}
	return nil
}

// TestConnection reports whether the configured credentials are accepted.
func (j *Jira) TestConnection(ctx context.Context) bool {
	err := j.doRequest(ctx, http.MethodGet, "/rest/api/3/myself", nil, nil)
	return err == nil
}

// CreateIssue creates a single Jira issue, linked under parentRemoteID when
// non-empty.
func (j *Jira) CreateIssue(ctx context.Context, spec *issue.Spec, parentRemoteID string) (*CreatedIssue, error) {
	fields := map[string]any{
		"project":     map[string]any{"key": j.config.ProjectKey},
		"issuetype":   map[string]any{"name": MapIssueType(JiraName, spec.Type)},
		"summary":     spec.Title,
		"description": adfDocument(BuildDescription(spec, JiraName)),
		"priority":    map[string]any{"name": MapPriority(JiraName, spec.Priority)},
		"labels":      jiraLabels(GenerateLabels(spec, j.config)),
	}
	if parentRemoteID != "" {
		fields["parent"] = map[string]any{"key": parentRemoteID}
	}
	if assignee := j.assigneeFor(spec); assignee != "" {
		fields["assignee"] = map[string]any{"accountId": assignee}
	}

	var out struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	if err := j.doRequest(ctx, http.MethodPost, "/rest/api/3/issue", map[string]any{"fields": fields}, &out); err != nil {
		return nil, err
	}

	return &CreatedIssue{
		ID:         out.Key,
		Identifier: out.Key,
		URL:        strings.TrimSuffix(j.config.BaseURL, "/") + "/browse/" + out.Key,
		Title:      spec.Title,
		Status:     StatusTodo,
		CreatedAt:  time.Now().UTC(),
		ParentID:   parentRemoteID,
		LocalID:    spec.ID(),
	}, nil
}

// CreateIssueHierarchy creates every issue of the hierarchy in
// parent-before-child order.
func (j *Jira) CreateIssueHierarchy(ctx context.Context, hierarchy *issue.Hierarchy) ([]*CreatedIssue, error) {
	return createHierarchy(ctx, j, hierarchy)
}

// UpdateIssue applies a partial update. Field changes go through the issue
// edit endpoint; status changes go through the transitions endpoint.
func (j *Jira) UpdateIssue(ctx context.Context, remoteID string, update IssueUpdate) error {
	fields := map[string]any{}
	if update.Title != nil {
		fields["summary"] = *update.Title
	}
	if update.Description != nil {
		fields["description"] = adfDocument(*update.Description)
	}
	if update.Priority != nil {
		fields["priority"] = map[string]any{"name": MapPriority(JiraName, *update.Priority)}
	}
	if update.Labels != nil {
		fields["labels"] = jiraLabels(update.Labels)
	}
	if update.Assignee != nil {
		fields["assignee"] = map[string]any{"accountId": *update.Assignee}
	}

	if len(fields) > 0 {
		path := "/rest/api/3/issue/" + url.PathEscape(remoteID)
		if err := j.doRequest(ctx, http.MethodPut, path, map[string]any{"fields": fields}, nil); err != nil {
			return err
		}
	}

	if update.Status != nil {
		return j.transitionTo(ctx, remoteID, *update.Status)
	}
	return nil
}

// transitionTo moves the issue to the first available transition whose
// target state matches the normalized status.
func (j *Jira) transitionTo(ctx context.Context, remoteID string, status Status) error {
	path := "/rest/api/3/issue/" + url.PathEscape(remoteID) + "/transitions"

	var out struct {
		Transitions []struct {
			ID string   `json:"id"`
			To jiraName `json:"to"`
		} `json:"transitions"`
	}
	if err := j.doRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
		return err
	}

	for _, transition := range out.Transitions {
		if NormalizeStatus(transition.To.Name) != status {
			continue
		}
		body := map[string]any{"transition": map[string]any{"id": transition.ID}}
		return j.doRequest(ctx, http.MethodPost, path, body, nil)
	}
	return fmt.Errorf("%w: no transition reaches status %q", ErrAPIRejection, status)
}

// GetIssue fetches an issue by key. A missing issue yields a nil result
// without error.
func (j *Jira) GetIssue(ctx context.Context, remoteID string) (*CreatedIssue, error) {
	path := "/rest/api/3/issue/" + url.PathEscape(remoteID) + "?fields=summary,status,created,parent"

	var out jiraIssue
	if err := j.doRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
		if errors.Is(err, ErrIssueNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return j.toCreatedIssue(&out), nil
}

// jiraSearchRequest is the POST body for the Jira search/jql endpoint.
type jiraSearchRequest struct {
	JQL           string   `json:"jql"`
	MaxResults    int      `json:"maxResults"`
	Fields        []string `json:"fields"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

// jiraSearchResponse is the relevant subset of the Jira search response.
type jiraSearchResponse struct {
	Issues        []jiraIssue `json:"issues"`
	NextPageToken string      `json:"nextPageToken"`
}

type jiraIssue struct {
	Key    string          `json:"key"`
	Fields jiraIssueFields `json:"fields"`
}

type jiraIssueFields struct {
	Summary string     `json:"summary"`
	Status  jiraName   `json:"status"`
	Created string     `json:"created"`
	Parent  *jiraIssue `json:"parent"`
}

type jiraName struct {
	Name string `json:"name"`
}

// SearchIssues finds project issues matching the query text, following
// token pagination up to the issue cap.
func (j *Jira) SearchIssues(ctx context.Context, query string) ([]*CreatedIssue, error) {
	jql := fmt.Sprintf("project = %q AND text ~ %q ORDER BY created DESC", j.config.ProjectKey, query)

	var all []*CreatedIssue
	nextPageToken := ""
	for {
		reqBody := jiraSearchRequest{
			JQL:           jql,
			MaxResults:    jiraMaxResults,
			Fields:        []string{"summary", "status", "created", "parent"},
			NextPageToken: nextPageToken,
		}

		var searchResp jiraSearchResponse
		if err := j.doRequest(ctx, http.MethodPost, "/rest/api/3/search/jql", reqBody, &searchResp); err != nil {
			return nil, err
		}

		for i := range searchResp.Issues {
			all = append(all, j.toCreatedIssue(&searchResp.Issues[i]))
		}
		if searchResp.NextPageToken == "" || len(all) >= jiraMaxIssues {
			break
		}
		nextPageToken = searchResp.NextPageToken
	}
	return all, nil
}

// AddComment adds a comment to an issue.
func (j *Jira) AddComment(ctx context.Context, remoteID, body string) error {
	path := "/rest/api/3/issue/" + url.PathEscape(remoteID) + "/comment"
	return j.doRequest(ctx, http.MethodPost, path, map[string]any{"body": adfDocument(body)}, nil)
}

// LinkIssues sets parent as the parent of child.
func (j *Jira) LinkIssues(ctx context.Context, parentRemoteID, childRemoteID string) error {
	path := "/rest/api/3/issue/" + url.PathEscape(childRemoteID)
	body := map[string]any{
		"fields": map[string]any{
			"parent": map[string]any{"key": parentRemoteID},
		},
	}
	return j.doRequest(ctx, http.MethodPut, path, body, nil)
}

// AvailableLabels lists the site's labels.
func (j *Jira) AvailableLabels(ctx context.Context) ([]string, error) {
	var names []string
	startAt := 0
	for {
		path := fmt.Sprintf("/rest/api/3/label?startAt=%d&maxResults=100", startAt)

		var out struct {
			Values []string `json:"values"`
			IsLast bool     `json:"isLast"`
		}
		if err := j.doRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, err
		}

		names = append(names, out.Values...)
		if out.IsLast || len(out.Values) == 0 {
			break
		}
		startAt += len(out.Values)
	}
	return names, nil
}

// AvailableAssignees lists users assignable in the project.
func (j *Jira) AvailableAssignees(ctx context.Context) ([]string, error) {
	var names []string
	startAt := 0
	for {
		path := fmt.Sprintf("/rest/api/3/user/assignable/search?project=%s&startAt=%d&maxResults=%d",
			url.QueryEscape(j.config.ProjectKey), startAt, jiraMaxResults)

		var out []struct {
			AccountID   string `json:"accountId"`
			DisplayName string `json:"displayName"`
		}
		if err := j.doRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, err
		}

		for _, user := range out {
			names = append(names, user.DisplayName)
		}
		if len(out) < jiraMaxResults {
			break
		}
		startAt += len(out)
	}
	return names, nil
}

func (j *Jira) assigneeFor(spec *issue.Spec) string {
	if spec.Assignee != "" {
		return spec.Assignee
	}
	return j.config.DefaultAssignee
}

func (j *Jira) toCreatedIssue(ji *jiraIssue) *CreatedIssue {
	created := &CreatedIssue{
		ID:         ji.Key,
		Identifier: ji.Key,
		URL:        strings.TrimSuffix(j.config.BaseURL, "/") + "/browse/" + ji.Key,
		Title:      ji.Fields.Summary,
		Status:     NormalizeStatus(ji.Fields.Status.Name),
	}
	if ji.Fields.Parent != nil {
		created.ParentID = ji.Fields.Parent.Key
	}
	if t, err := time.Parse(jiraCreatedLayout, ji.Fields.Created); err == nil {
		created.CreatedAt = t
	}
	return created
}

// jiraLabels sanitizes labels for Jira, which rejects labels containing
// spaces.
func jiraLabels(labels []string) []string {
	sanitized := make([]string, 0, len(labels))
	for _, label := range labels {
		sanitized = append(sanitized, strings.ReplaceAll(label, " ", "-"))
	}
	return sanitized
}

// adfDocument wraps plain text into a minimal Atlassian Document Format
// document, one paragraph per blank-line-separated block.
func adfDocument(text string) map[string]any {
	var content []any
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		content = append(content, map[string]any{
			"type": "paragraph",
			"content": []any{
				map[string]any{"type": "text", "text": block},
			},
		})
	}
	if content == nil {
		content = []any{}
	}
	return map[string]any{
		"type":    "doc",
		"version": 1,
		"content": content,
	}
}
