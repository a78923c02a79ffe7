//go:build unit

package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpec(t *testing.T) {
	s := NewSpec("Add OAuth support")

	assert.Equal(t, "Add OAuth support", s.Title)
	assert.Equal(t, TypeTask, s.Type)
	assert.Equal(t, PriorityMedium, s.Priority)
	assert.NotEmpty(t, s.ID())
	assert.Nil(t, s.Parent())
	assert.Empty(t, s.Children())
}

func TestNewSpec_UniqueIDs(t *testing.T) {
	a := NewSpec("a")
	b := NewSpec("b")

	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSpec_AddChild(t *testing.T) {
	epic := NewSpec("Auth epic")
	epic.Type = TypeEpic
	story := NewSpec("Login story")
	story.Type = TypeStory

	err := epic.AddChild(story)

	require.NoError(t, err)
	assert.Equal(t, epic, story.Parent())
	require.Len(t, epic.Children(), 1)
	assert.Equal(t, story, epic.Children()[0])
}

func TestSpec_AddChild_Nil(t *testing.T) {
	epic := NewSpec("Auth epic")

	err := epic.AddChild(nil)

	assert.ErrorIs(t, err, ErrNilIssue)
}

func TestSpec_AddChild_Self(t *testing.T) {
	s := NewSpec("self")

	err := s.AddChild(s)

	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestSpec_AddChild_Ancestor(t *testing.T) {
	root := NewSpec("root")
	mid := NewSpec("mid")
	leaf := NewSpec("leaf")
	require.NoError(t, root.AddChild(mid))
	require.NoError(t, mid.AddChild(leaf))

	err := leaf.AddChild(root)

	assert.ErrorIs(t, err, ErrCycleDetected)
	assert.Nil(t, root.Parent())
}

func TestSpec_AddChild_Reparent(t *testing.T) {
	first := NewSpec("first parent")
	second := NewSpec("second parent")
	child := NewSpec("child")
	require.NoError(t, first.AddChild(child))

	err := second.AddChild(child)

	require.NoError(t, err)
	assert.Equal(t, second, child.Parent())
	assert.Empty(t, first.Children())
	require.Len(t, second.Children(), 1)
}

func TestSpec_RemoveChild(t *testing.T) {
	parent := NewSpec("parent")
	child := NewSpec("child")
	other := NewSpec("other")
	require.NoError(t, parent.AddChild(child))

	assert.False(t, parent.RemoveChild(other))
	assert.True(t, parent.RemoveChild(child))
	assert.Nil(t, child.Parent())
	assert.Empty(t, parent.Children())
	assert.False(t, parent.RemoveChild(child))
}

func TestSpec_Root(t *testing.T) {
	root := NewSpec("root")
	mid := NewSpec("mid")
	leaf := NewSpec("leaf")
	require.NoError(t, root.AddChild(mid))
	require.NoError(t, mid.AddChild(leaf))

	assert.Equal(t, root, leaf.Root())
	assert.Equal(t, root, mid.Root())
	assert.Equal(t, root, root.Root())
}

func TestSpec_Depth(t *testing.T) {
	root := NewSpec("root")
	mid := NewSpec("mid")
	leaf := NewSpec("leaf")
	require.NoError(t, root.AddChild(mid))
	require.NoError(t, mid.AddChild(leaf))

	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, 1, mid.Depth())
	assert.Equal(t, 2, leaf.Depth())
}

func TestSpec_Descendants(t *testing.T) {
	root := NewSpec("root")
	a := NewSpec("a")
	b := NewSpec("b")
	a1 := NewSpec("a1")
	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.AddChild(b))
	require.NoError(t, a.AddChild(a1))

	descendants := root.Descendants()

	require.Len(t, descendants, 3)
	assert.Equal(t, []*Spec{a, a1, b}, descendants)
}

func TestSpec_Path(t *testing.T) {
	root := NewSpec("Auth epic")
	story := NewSpec("Login story")
	task := NewSpec("Add form")
	require.NoError(t, root.AddChild(story))
	require.NoError(t, story.AddChild(task))

	assert.Equal(t, "Auth epic > Login story > Add form", task.Path(" > "))
	assert.Equal(t, "Auth epic", root.Path(" > "))
}

func TestSpec_CategoryPredicates(t *testing.T) {
	tests := []struct {
		name    string
		issue   Type
		isEpic  bool
		isStory bool
		isTask  bool
	}{
		{name: "epic", issue: TypeEpic, isEpic: true},
		{name: "story", issue: TypeStory, isStory: true},
		{name: "feature", issue: TypeFeature, isStory: true},
		{name: "bug", issue: TypeBug, isStory: true},
		{name: "improvement", issue: TypeImprovement, isStory: true},
		{name: "task", issue: TypeTask, isTask: true},
		{name: "maintenance", issue: TypeMaintenance, isTask: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpec(tt.name)
			s.Type = tt.issue

			assert.Equal(t, tt.isEpic, s.IsEpic())
			assert.Equal(t, tt.isStory, s.IsStory())
			assert.Equal(t, tt.isTask, s.IsTask())
		})
	}
}

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Spec)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(s *Spec) {},
		},
		{
			name:    "empty title",
			mutate:  func(s *Spec) { s.Title = "   " },
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "unknown type",
			mutate:  func(s *Spec) { s.Type = "initiative" },
			wantErr: ErrInvalidIssueType,
		},
		{
			name:    "unknown priority",
			mutate:  func(s *Spec) { s.Priority = "blocker" },
			wantErr: ErrInvalidPriority,
		},
		{
			name:    "negative estimate",
			mutate:  func(s *Spec) { s.Estimate = -1 },
			wantErr: ErrInvalidEstimate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpec("valid title")
			tt.mutate(s)

			err := s.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
