package ticketing

import "errors"

// Configuration errors, surfaced at adapter construction
var (
	ErrUnsupportedSystem = errors.New("unsupported ticketing system")
	ErrMissingTeamID     = errors.New("linear configuration requires a team id")
	ErrMissingRepoOwner  = errors.New("github configuration requires a repository owner")
	ErrMissingRepoName   = errors.New("github configuration requires a repository name")
	ErrMissingBaseURL    = errors.New("jira configuration requires a base url")
	ErrMissingProjectKey = errors.New("jira configuration requires a project key")
)

// Remote API errors, recovered per issue during a run
var (
	ErrAPIRejection         = errors.New("request rejected by ticketing API")
	ErrAuthenticationFailed = errors.New("authentication failed against ticketing API")
	ErrRateLimited          = errors.New("rate limited by ticketing API")
	ErrConnectionFailed     = errors.New("connection to ticketing API failed")
	ErrIssueNotFound        = errors.New("issue not found")
	ErrValidationRejected   = errors.New("issue payload rejected as invalid")
	ErrDependencyFailed     = errors.New("parent issue creation failed")
)
