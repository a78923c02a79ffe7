package sourcelink

import (
	"context"
	"errors"
	"testing"

	"github.com/lerenn/spec-sync/pkg/creator/consts"
	"github.com/lerenn/spec-sync/pkg/hooks"
	"github.com/lerenn/spec-sync/pkg/issue"
	"github.com/lerenn/spec-sync/pkg/ticketing"
)

// fakeLinkback records calls made through the linkback manager.
type fakeLinkback struct {
	annotatePath    string
	annotateRecords []*ticketing.CreatedIssue
	annotateCalls   int

	commentRecords []*ticketing.CreatedIssue
	commentPath    string
	commentCalls   int

	err error
}

func (f *fakeLinkback) AnnotateSource(path string, _ *issue.Hierarchy, created []*ticketing.CreatedIssue) error {
	f.annotateCalls++
	f.annotatePath = path
	f.annotateRecords = created
	return f.err
}

func (f *fakeLinkback) CommentCreated(_ context.Context, _ ticketing.System, _ *issue.Hierarchy,
	created []*ticketing.CreatedIssue, sourcePath string) error {
	f.commentCalls++
	f.commentRecords = append(f.commentRecords, created...)
	f.commentPath = sourcePath
	return f.err
}

// stubSystem satisfies ticketing.System for hook metadata.
type stubSystem struct{}

func (stubSystem) Name() string                        { return "stub" }
func (stubSystem) TestConnection(context.Context) bool { return true }
func (stubSystem) CreateIssue(context.Context, *issue.Spec, string) (*ticketing.CreatedIssue, error) {
	return nil, nil
}
func (stubSystem) CreateIssueHierarchy(context.Context, *issue.Hierarchy) ([]*ticketing.CreatedIssue, error) {
	return nil, nil
}
func (stubSystem) UpdateIssue(context.Context, string, ticketing.IssueUpdate) error { return nil }
func (stubSystem) GetIssue(context.Context, string) (*ticketing.CreatedIssue, error) {
	return nil, nil
}
func (stubSystem) SearchIssues(context.Context, string) ([]*ticketing.CreatedIssue, error) {
	return nil, nil
}
func (stubSystem) AddComment(context.Context, string, string) error  { return nil }
func (stubSystem) LinkIssues(context.Context, string, string) error  { return nil }
func (stubSystem) AvailableLabels(context.Context) ([]string, error) { return nil, nil }
func (stubSystem) AvailableAssignees(context.Context) ([]string, error) {
	return nil, nil
}

func newSyncContext() *hooks.HookContext {
	hierarchy := issue.NewHierarchy()
	spec := &issue.Spec{Title: "Alpha", Type: issue.TypeEpic}
	_ = hierarchy.AddIssue(spec)

	return &hooks.HookContext{
		Ctx:           context.Background(),
		OperationName: consts.SyncSpec,
		Parameters: map[string]interface{}{
			"spec_file": "docs/spec.md",
		},
		Results: make(map[string]interface{}),
		Metadata: map[string]interface{}{
			"system":    stubSystem{},
			"hierarchy": hierarchy,
		},
	}
}

func TestCommentHook_OnPostIssueCreation(t *testing.T) {
	fake := &fakeLinkback{}
	hook := NewCommentHook(fake)

	ctx := newSyncContext()
	ctx.Results["created_issue"] = &ticketing.CreatedIssue{ID: "1", Identifier: "ENG-1"}

	if err := hook.OnPostIssueCreation(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fake.commentCalls != 1 {
		t.Errorf("Expected one comment call, got %d", fake.commentCalls)
	}
	if len(fake.commentRecords) != 1 || fake.commentRecords[0].Identifier != "ENG-1" {
		t.Errorf("Expected ENG-1 to be commented, got %+v", fake.commentRecords)
	}
	if fake.commentPath != "docs/spec.md" {
		t.Errorf("Expected source path docs/spec.md, got %s", fake.commentPath)
	}
}

func TestCommentHook_SkipsIncompleteContext(t *testing.T) {
	fake := &fakeLinkback{}
	hook := NewCommentHook(fake)

	// No created_issue in results.
	ctx := newSyncContext()
	if err := hook.OnPostIssueCreation(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// No system in metadata.
	ctx = newSyncContext()
	ctx.Results["created_issue"] = &ticketing.CreatedIssue{ID: "1"}
	delete(ctx.Metadata, "system")
	if err := hook.OnPostIssueCreation(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if fake.commentCalls != 0 {
		t.Errorf("Expected no comment calls, got %d", fake.commentCalls)
	}
}

func TestCommentHook_PropagatesError(t *testing.T) {
	wantErr := errors.New("backend unavailable")
	fake := &fakeLinkback{err: wantErr}
	hook := NewCommentHook(fake)

	ctx := newSyncContext()
	ctx.Results["created_issue"] = &ticketing.CreatedIssue{ID: "1"}

	if err := hook.OnPostIssueCreation(ctx); !errors.Is(err, wantErr) {
		t.Errorf("Expected backend error, got %v", err)
	}
}

func TestAnnotateHook_PostExecute(t *testing.T) {
	fake := &fakeLinkback{}
	hook := NewAnnotateHook(fake)

	ctx := newSyncContext()
	ctx.Results["created_issues"] = []*ticketing.CreatedIssue{
		{ID: "1", Identifier: "ENG-1", URL: "https://linear.app/t/ENG-1"},
		{ID: "2", Identifier: "ENG-2", URL: "https://linear.app/t/ENG-2"},
	}

	if err := hook.PostExecute(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fake.annotateCalls != 1 {
		t.Errorf("Expected one annotate call, got %d", fake.annotateCalls)
	}
	if fake.annotatePath != "docs/spec.md" {
		t.Errorf("Expected source path docs/spec.md, got %s", fake.annotatePath)
	}
	if len(fake.annotateRecords) != 2 {
		t.Errorf("Expected 2 records, got %d", len(fake.annotateRecords))
	}
	if annotated, ok := ctx.Results["source_annotated"].(bool); !ok || !annotated {
		t.Error("Expected source_annotated to be reported in results")
	}
}

func TestAnnotateHook_FailureLeavesNoMarker(t *testing.T) {
	fake := &fakeLinkback{err: errors.New("write failed")}
	hook := NewAnnotateHook(fake)

	ctx := newSyncContext()
	ctx.Results["created_issues"] = []*ticketing.CreatedIssue{{ID: "1"}}

	if err := hook.PostExecute(ctx); err == nil {
		t.Fatal("Expected an error")
	}
	if _, ok := ctx.Results["source_annotated"]; ok {
		t.Error("Expected no source_annotated marker after a failed annotation")
	}
}

func TestLinkbackDisabledByRun(t *testing.T) {
	fake := &fakeLinkback{}

	ctx := newSyncContext()
	ctx.Parameters["update_source_links"] = false
	ctx.Results["created_issue"] = &ticketing.CreatedIssue{ID: "1"}
	ctx.Results["created_issues"] = []*ticketing.CreatedIssue{{ID: "1"}}

	if err := NewCommentHook(fake).OnPostIssueCreation(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := NewAnnotateHook(fake).PostExecute(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if fake.commentCalls != 0 {
		t.Errorf("Expected no comment calls, got %d", fake.commentCalls)
	}
	if fake.annotateCalls != 0 {
		t.Errorf("Expected no annotate calls, got %d", fake.annotateCalls)
	}
}

func TestAnnotateHook_SkipsFailedOperation(t *testing.T) {
	fake := &fakeLinkback{}
	hook := NewAnnotateHook(fake)

	ctx := newSyncContext()
	ctx.Error = errors.New("sync failed")
	ctx.Results["created_issues"] = []*ticketing.CreatedIssue{{ID: "1"}}

	if err := hook.PostExecute(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fake.annotateCalls != 0 {
		t.Errorf("Expected no annotate calls after failure, got %d", fake.annotateCalls)
	}
}

func TestAnnotateHook_SkipsEmptyResults(t *testing.T) {
	fake := &fakeLinkback{}
	hook := NewAnnotateHook(fake)

	ctx := newSyncContext()
	if err := hook.PostExecute(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ctx = newSyncContext()
	ctx.Results["created_issues"] = []*ticketing.CreatedIssue{}
	if err := hook.PostExecute(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if fake.annotateCalls != 0 {
		t.Errorf("Expected no annotate calls, got %d", fake.annotateCalls)
	}
}

func TestRegisterForOperations(t *testing.T) {
	fake := &fakeLinkback{}

	var commentOps []string
	err := NewCommentHook(fake).RegisterForOperations(func(operation string, hook hooks.PostIssueCreationHook) error {
		commentOps = append(commentOps, operation)
		if hook == nil {
			t.Error("Expected a hook to be registered")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(commentOps) != 1 || commentOps[0] != consts.SyncSpec {
		t.Errorf("Expected registration for %s, got %v", consts.SyncSpec, commentOps)
	}

	var annotateOps []string
	err = NewAnnotateHook(fake).RegisterForOperations(func(operation string, hook hooks.PostHook) error {
		annotateOps = append(annotateOps, operation)
		if hook == nil {
			t.Error("Expected a hook to be registered")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(annotateOps) != 1 || annotateOps[0] != consts.SyncSpec {
		t.Errorf("Expected registration for %s, got %v", consts.SyncSpec, annotateOps)
	}
}
