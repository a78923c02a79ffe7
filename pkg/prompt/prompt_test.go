//go:build unit

package prompt

import (
	"bufio"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestRealPrompt_PromptForSpecFile(t *testing.T) {
	tests := []struct {
		name        string
		defaultPath string
		input       string
		expected    string
	}{
		{
			name:        "empty input uses default",
			defaultPath: "specs/api.md",
			input:       "\n",
			expected:    "specs/api.md",
		},
		{
			name:        "whitespace input uses default",
			defaultPath: "specs/api.md",
			input:       "   \n",
			expected:    "specs/api.md",
		},
		{
			name:        "custom path",
			defaultPath: "specs/api.md",
			input:       "docs/backlog.md\n",
			expected:    "docs/backlog.md",
		},
		{
			name:        "custom path with whitespace",
			defaultPath: "specs/api.md",
			input:       "  ./SPEC.md  \n",
			expected:    "./SPEC.md",
		},
		{
			name:        "empty default uses hardcoded default",
			defaultPath: "",
			input:       "\n",
			expected:    "docs/spec.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a prompt with a string reader
			p := &realPrompt{
				reader: bufio.NewReader(strings.NewReader(tt.input)),
			}

			result, err := p.PromptForSpecFile(tt.defaultPath)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRealPrompt_PromptForConfirmation(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		defaultYes  bool
		input       string
		expected    bool
		expectError bool
	}{
		{
			name:       "yes input",
			message:    "Continue?",
			defaultYes: false,
			input:      "y\n",
			expected:   true,
		},
		{
			name:       "YES input",
			message:    "Continue?",
			defaultYes: false,
			input:      "YES\n",
			expected:   true,
		},
		{
			name:       "no input",
			message:    "Continue?",
			defaultYes: true,
			input:      "n\n",
			expected:   false,
		},
		{
			name:       "empty input with default yes",
			message:    "Continue?",
			defaultYes: true,
			input:      "\n",
			expected:   true,
		},
		{
			name:       "empty input with default no",
			message:    "Continue?",
			defaultYes: false,
			input:      "\n",
			expected:   false,
		},
		{
			name:        "invalid input",
			message:     "Continue?",
			defaultYes:  false,
			input:       "maybe\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a prompt with a string reader
			p := &realPrompt{
				reader: bufio.NewReader(strings.NewReader(tt.input)),
			}

			result, err := p.PromptForConfirmation(tt.message, tt.defaultYes)
			if tt.expectError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfirmationInput)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestFormatChoice(t *testing.T) {
	tests := []struct {
		name           string
		choice         SystemChoice
		showDetail     bool
		showKindPrefix bool
		expected       string
	}{
		{
			name: "name only",
			choice: SystemChoice{
				Name: "work",
				Kind: "linear",
			},
			showDetail:     false,
			showKindPrefix: false,
			expected:       "work",
		},
		{
			name: "kind prefix",
			choice: SystemChoice{
				Name: "work",
				Kind: "linear",
			},
			showDetail:     false,
			showKindPrefix: true,
			expected:       "[linear] work",
		},
		{
			name: "kind prefix with detail",
			choice: SystemChoice{
				Name:   "backend",
				Kind:   "github",
				Detail: "acme/backend",
			},
			showDetail:     true,
			showKindPrefix: true,
			expected:       "[github] backend : acme/backend",
		},
		{
			name: "detail present but hidden",
			choice: SystemChoice{
				Name:   "backend",
				Kind:   "github",
				Detail: "acme/backend",
			},
			showDetail:     false,
			showKindPrefix: true,
			expected:       "[github] backend",
		},
		{
			name: "empty detail",
			choice: SystemChoice{
				Name:   "tracker",
				Kind:   "jira",
				Detail: "",
			},
			showDetail:     true,
			showKindPrefix: true,
			expected:       "[jira] tracker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatChoice(tt.choice, tt.showDetail, tt.showKindPrefix)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSelectModel_UpdateFilteredChoices(t *testing.T) {
	choices := []SystemChoice{
		{Kind: "linear", Name: "work"},
		{Kind: "github", Name: "backend"},
		{Kind: "linear", Name: "personal"},
		{Kind: "jira", Name: "legacy-tracker"},
	}

	tests := []struct {
		name            string
		filter          string
		expectedNames   []string
		expectedIndices []int
	}{
		{
			name:            "empty filter shows all",
			filter:          "",
			expectedNames:   []string{"work", "backend", "personal", "legacy-tracker"},
			expectedIndices: []int{0, 1, 2, 3},
		},
		{
			name:            "filter by substring",
			filter:          "er",
			expectedNames:   []string{"personal", "legacy-tracker"},
			expectedIndices: []int{2, 3},
		},
		{
			name:            "filter by full name",
			filter:          "work",
			expectedNames:   []string{"work"},
			expectedIndices: []int{0},
		},
		{
			name:            "case insensitive filter",
			filter:          "WORK",
			expectedNames:   []string{"work"},
			expectedIndices: []int{0},
		},
		{
			name:            "no matches",
			filter:          "nonexistent",
			expectedNames:   []string{},
			expectedIndices: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := initialSelectModel(choices, false)
			model.filter = tt.filter
			model.updateFilteredChoices()

			assert.Equal(t, len(tt.expectedNames), len(model.filteredChoices))
			assert.Equal(t, len(tt.expectedIndices), len(model.filteredIndices))

			for i, expectedName := range tt.expectedNames {
				assert.Equal(t, expectedName, model.filteredChoices[i].Name)
				assert.Equal(t, tt.expectedIndices[i], model.filteredIndices[i])
			}
		})
	}
}

func TestSelectModel_KindPrefixDetection(t *testing.T) {
	mixed := initialSelectModel([]SystemChoice{
		{Kind: "linear", Name: "work"},
		{Kind: "github", Name: "backend"},
	}, false)
	assert.True(t, mixed.showKindPrefix)

	uniform := initialSelectModel([]SystemChoice{
		{Kind: "linear", Name: "work"},
		{Kind: "linear", Name: "personal"},
	}, false)
	assert.False(t, uniform.showKindPrefix)
}

func TestSelectModel_SelectionKeepsValueType(t *testing.T) {
	choices := []SystemChoice{
		{Kind: "linear", Name: "work"},
		{Kind: "linear", Name: "personal"},
	}

	var model tea.Model = initialSelectModel(choices, false)

	// Walk down one entry and confirm with enter
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)

	// The final model must still be castable to selectModel, otherwise
	// promptSelectSystemBubbleTea cannot read the selection back
	final, ok := model.(selectModel)
	assert.True(t, ok, "Model should be castable to selectModel")
	assert.NotNil(t, final.selected)
	assert.Equal(t, "personal", final.selected.Name)
}

func TestPromptSelectSystem_NoChoices(t *testing.T) {
	p := &realPrompt{
		reader: bufio.NewReader(strings.NewReader("")),
	}

	_, err := p.PromptSelectSystem(nil, false)
	assert.Error(t, err)
}
