package ticketing

// SystemConfig holds the static per-backend configuration. Only the fields
// of the targeted system are consulted; Validate checks the required ones
// before any adapter is built.
type SystemConfig struct {
	// Linear
	TeamID string `yaml:"team_id,omitempty" json:"team_id,omitempty"`
	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty"`

	// GitHub
	Owner string `yaml:"owner,omitempty" json:"owner,omitempty"`
	Repo  string `yaml:"repo,omitempty" json:"repo,omitempty"`
	Token string `yaml:"token,omitempty" json:"token,omitempty"`

	// Jira
	BaseURL    string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	ProjectKey string `yaml:"project_key,omitempty" json:"project_key,omitempty"`
	Email      string `yaml:"email,omitempty" json:"email,omitempty"`

	// Shared
	DefaultLabels   []string `yaml:"default_labels,omitempty" json:"default_labels,omitempty"`
	DefaultAssignee string   `yaml:"default_assignee,omitempty" json:"default_assignee,omitempty"`
}

// Validate checks that the fields required by the named system are present.
func (c SystemConfig) Validate(system string) error {
	switch system {
	case LinearName:
		if c.TeamID == "" {
			return ErrMissingTeamID
		}
	case GitHubName:
		if c.Owner == "" {
			return ErrMissingRepoOwner
		}
		if c.Repo == "" {
			return ErrMissingRepoName
		}
	case JiraName:
		if c.BaseURL == "" {
			return ErrMissingBaseURL
		}
		if c.ProjectKey == "" {
			return ErrMissingProjectKey
		}
	default:
		return ErrUnsupportedSystem
	}
	return nil
}
