//go:build unit

package creator

import (
	"errors"
	"testing"

	"github.com/lerenn/spec-sync/pkg/ticketing"
	"github.com/stretchr/testify/assert"
)

func TestResult_SuccessRate(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   float64
	}{
		{
			name:   "all created",
			result: Result{Success: true, TotalCreated: 4},
			want:   1,
		},
		{
			name:   "all failed",
			result: Result{TotalFailed: 3},
			want:   0,
		},
		{
			name:   "half and half",
			result: Result{TotalCreated: 2, TotalFailed: 2},
			want:   0.5,
		},
		{
			name:   "empty successful run",
			result: Result{Success: true},
			want:   1,
		},
		{
			name:   "empty failed run",
			result: Result{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.SuccessRate())
		})
	}
}

func TestIssueError(t *testing.T) {
	cause := ticketing.ErrAPIRejection

	withTitle := IssueError{LocalID: "abc", Title: "Billing revamp", Err: cause}
	assert.Equal(t, "Billing revamp: request rejected by ticketing API", withTitle.Error())
	assert.True(t, errors.Is(withTitle, ticketing.ErrAPIRejection))

	runLevel := IssueError{Err: cause}
	assert.Equal(t, "request rejected by ticketing API", runLevel.Error())
}
