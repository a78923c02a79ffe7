// Package issue provides the issue specification tree that synchronization
// runs are built from: typed nodes with parent/child links, acceptance
// criteria and a serializable document form.
package issue

import (
	"strings"
)

// Spec represents one prospective ticket extracted from a specification.
//
// Relationship fields are unexported: the parent back-reference and the
// children list are only mutated through AddChild and RemoveChild so the
// parent/child invariant cannot be broken from outside the package.
type Spec struct {
	Title              string
	Description        string
	Type               Type
	Priority           Priority
	AcceptanceCriteria []Criterion
	Labels             []string
	Assignee           string
	Estimate           float64 // hours, 0 means unset

	// Source provenance, informational only.
	SpecFile      string
	SourceSection string
	SourceLine    int

	id       string
	parent   *Spec
	children []*Spec
}

// NewSpec creates a new Spec with a generated id and default type/priority.
func NewSpec(title string) *Spec {
	return &Spec{
		Title:    title,
		Type:     TypeTask,
		Priority: PriorityMedium,
		id:       newID(),
	}
}

// ID returns the locally unique identifier, immutable after construction.
func (s *Spec) ID() string {
	return s.id
}

// Parent returns the parent node, or nil for a root.
func (s *Spec) Parent() *Spec {
	return s.parent
}

// Children returns the ordered child nodes.
func (s *Spec) Children() []*Spec {
	return s.children
}

// AddChild attaches child under s, unlinking it from any previous parent
// first so a node is never member of two children lists. Returns
// ErrCycleDetected if child is s or one of its ancestors.
func (s *Spec) AddChild(child *Spec) error {
	if child == nil {
		return ErrNilIssue
	}

	// Walk from s upward; encountering child means child is an ancestor.
	for node := s; node != nil; node = node.parent {
		if node == child {
			return ErrCycleDetected
		}
	}

	if child.parent != nil {
		child.parent.RemoveChild(child)
	}

	child.parent = s
	s.children = append(s.children, child)
	return nil
}

// RemoveChild unlinks a direct child from s and clears its parent
// back-reference. The child keeps its own subtree. Returns whether the
// node was a child of s.
func (s *Spec) RemoveChild(child *Spec) bool {
	if child == nil {
		return false
	}
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor of s. Terminates in O(depth) because
// AddChild refuses cycles.
func (s *Spec) Root() *Spec {
	node := s
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// Depth returns the number of edges between s and its root; 0 for a root.
func (s *Spec) Depth() int {
	depth := 0
	for node := s.parent; node != nil; node = node.parent {
		depth++
	}
	return depth
}

// Descendants returns every node below s in depth-first pre-order.
func (s *Spec) Descendants() []*Spec {
	var result []*Spec
	for _, child := range s.children {
		result = append(result, child)
		result = append(result, child.Descendants()...)
	}
	return result
}

// Path renders the title chain from the root down to s joined by sep.
func (s *Spec) Path(sep string) string {
	var titles []string
	for node := s; node != nil; node = node.parent {
		titles = append(titles, node.Title)
	}
	// Reverse so the root comes first.
	for i, j := 0, len(titles)-1; i < j; i, j = i+1, j-1 {
		titles[i], titles[j] = titles[j], titles[i]
	}
	return strings.Join(titles, sep)
}

// IsEpic reports whether the node classifies as an epic.
func (s *Spec) IsEpic() bool {
	return s.Type.Category() == CategoryEpic
}

// IsStory reports whether the node classifies as a story. The story
// category also covers feature, bug and improvement types.
func (s *Spec) IsStory() bool {
	return s.Type.Category() == CategoryStory
}

// IsTask reports whether the node classifies as a task. The task category
// also covers maintenance work.
func (s *Spec) IsTask() bool {
	return s.Type.Category() == CategoryTask
}

// Validate checks the node's own attributes.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if !s.Type.Valid() {
		return ErrInvalidIssueType
	}
	if !s.Priority.Valid() {
		return ErrInvalidPriority
	}
	if s.Estimate < 0 {
		return ErrInvalidEstimate
	}
	return nil
}
