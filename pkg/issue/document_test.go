//go:build unit

package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestHierarchy_Document(t *testing.T) {
	h, epic, story, task := newTestHierarchy(t)

	doc := h.Document()

	require.Len(t, doc.Issues, 3)
	assert.Equal(t, epic.ID(), doc.Issues[0].ID)
	assert.Empty(t, doc.Issues[0].ParentID)
	assert.Equal(t, []string{story.ID()}, doc.Issues[0].ChildrenIDs)
	assert.Equal(t, epic.ID(), doc.Issues[1].ParentID)
	assert.Equal(t, story.ID(), doc.Issues[2].ParentID)
	assert.Empty(t, doc.Issues[2].ChildrenIDs)
	assert.Equal(t, TypeEpic, doc.Issues[0].Type)
	assert.Equal(t, task.Title, doc.Issues[2].Title)
}

func TestFromDocument_RoundTrip(t *testing.T) {
	h, epic, story, task := newTestHierarchy(t)
	story.AcceptanceCriteria = []Criterion{
		{Text: "user can log in", Completed: true},
		{Text: "session persists"},
	}
	story.Labels = []string{"auth", "frontend"}
	story.Assignee = "alice"
	story.Estimate = 2.5

	rebuilt, err := FromDocument(h.Document())

	require.NoError(t, err)
	assert.Equal(t, 3, rebuilt.Size())

	gotEpic, ok := rebuilt.Get(epic.ID())
	require.True(t, ok)
	assert.Nil(t, gotEpic.Parent())
	require.Len(t, gotEpic.Children(), 1)

	gotStory, ok := rebuilt.Get(story.ID())
	require.True(t, ok)
	assert.Equal(t, gotEpic, gotStory.Parent())
	assert.Equal(t, story.AcceptanceCriteria, gotStory.AcceptanceCriteria)
	assert.Equal(t, story.Labels, gotStory.Labels)
	assert.Equal(t, "alice", gotStory.Assignee)
	assert.Equal(t, 2.5, gotStory.Estimate)

	gotTask, ok := rebuilt.Get(task.ID())
	require.True(t, ok)
	assert.Equal(t, gotStory, gotTask.Parent())
}

func TestFromDocument_OrderIndependent(t *testing.T) {
	doc := &Document{
		Issues: []Record{
			{ID: "child", Title: "child first", ParentID: "root"},
			{ID: "root", Title: "root last", Type: TypeEpic},
		},
	}

	h, err := FromDocument(doc)

	require.NoError(t, err)
	child, ok := h.Get("child")
	require.True(t, ok)
	require.NotNil(t, child.Parent())
	assert.Equal(t, "root", child.Parent().ID())
}

func TestFromDocument_UnknownParent(t *testing.T) {
	doc := &Document{
		Issues: []Record{
			{ID: "orphan", Title: "orphan", ParentID: "missing"},
		},
	}

	_, err := FromDocument(doc)

	assert.ErrorIs(t, err, ErrUnknownParent)
}

func TestFromDocument_Defaults(t *testing.T) {
	doc := &Document{
		Issues: []Record{
			{Title: "bare"},
		},
	}

	h, err := FromDocument(doc)

	require.NoError(t, err)
	all := h.AllIssues()
	require.Len(t, all, 1)
	assert.NotEmpty(t, all[0].ID())
	assert.Equal(t, TypeTask, all[0].Type)
	assert.Equal(t, PriorityMedium, all[0].Priority)
}

func TestDocument_YAMLRoundTrip(t *testing.T) {
	h, _, story, _ := newTestHierarchy(t)
	story.AcceptanceCriteria = []Criterion{{Text: "works"}}

	data, err := yaml.Marshal(h.Document())
	require.NoError(t, err)

	var doc Document
	require.NoError(t, yaml.Unmarshal(data, &doc))

	rebuilt, err := FromDocument(&doc)
	require.NoError(t, err)
	assert.Equal(t, 3, rebuilt.Size())
	gotStory, ok := rebuilt.Get(story.ID())
	require.True(t, ok)
	assert.Equal(t, []Criterion{{Text: "works"}}, gotStory.AcceptanceCriteria)
}
