//go:build unit

package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderCriteria(t *testing.T) {
	criteria := []Criterion{
		{Text: "user can log in", Completed: true},
		{Text: "session persists"},
	}

	tests := []struct {
		name     string
		system   string
		criteria []Criterion
		want     string
	}{
		{
			name:     "github checkboxes",
			system:   "github",
			criteria: criteria,
			want:     "- [x] user can log in\n- [ ] session persists",
		},
		{
			name:     "linear numbered",
			system:   "linear",
			criteria: criteria,
			want:     "1. user can log in (done)\n2. session persists",
		},
		{
			name:     "jira numbered",
			system:   "jira",
			criteria: criteria,
			want:     "1. user can log in (done)\n2. session persists",
		},
		{
			name:     "generic bullets",
			system:   "trello",
			criteria: criteria,
			want:     "* user can log in\n* session persists",
		},
		{
			name:   "empty list",
			system: "github",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderCriteria(tt.criteria, tt.system))
		})
	}
}
