package issue

// Hierarchy is the owning collection of issue nodes. The id-keyed table is
// the canonical ownership record; root membership is derived from parent
// links so it can never drift out of sync with the tree.
type Hierarchy struct {
	issues map[string]*Spec
	order  []string // insertion order of ids
}

// NewHierarchy creates an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		issues: make(map[string]*Spec),
	}
}

// AddIssue registers a node in the hierarchy. The node keeps whatever
// parent link it already carries; linking is done through AddChild.
func (h *Hierarchy) AddIssue(s *Spec) error {
	if s == nil {
		return ErrNilIssue
	}
	if _, exists := h.issues[s.id]; exists {
		return ErrDuplicateIssue
	}
	h.issues[s.id] = s
	h.order = append(h.order, s.id)
	return nil
}

// AddChild links child under parent. Both nodes must already be registered.
func (h *Hierarchy) AddChild(parent, child *Spec) error {
	if parent == nil || child == nil {
		return ErrNilIssue
	}
	if _, ok := h.issues[parent.id]; !ok {
		return ErrUnknownParent
	}
	if _, ok := h.issues[child.id]; !ok {
		return ErrNilIssue
	}
	return parent.AddChild(child)
}

// Get returns the node with the given id.
func (h *Hierarchy) Get(id string) (*Spec, bool) {
	s, ok := h.issues[id]
	return s, ok
}

// RemoveIssue removes the node and its entire subtree from the hierarchy,
// reporting whether the id existed. The removed node is detached from its
// parent; every removed node has its parent back-reference cleared.
func (h *Hierarchy) RemoveIssue(id string) bool {
	node, ok := h.issues[id]
	if !ok {
		return false
	}

	if node.parent != nil {
		node.parent.RemoveChild(node)
	}

	// Depth-first removal of the whole subtree from the table.
	h.removeSubtree(node)
	return true
}

func (h *Hierarchy) removeSubtree(node *Spec) {
	for _, child := range node.children {
		h.removeSubtree(child)
		child.parent = nil
	}
	node.children = nil
	delete(h.issues, node.id)
	h.dropFromOrder(node.id)
}

func (h *Hierarchy) dropFromOrder(id string) {
	for i, existing := range h.order {
		if existing == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			return
		}
	}
}

// RootIssues returns the nodes without a parent, in insertion order.
func (h *Hierarchy) RootIssues() []*Spec {
	var roots []*Spec
	for _, id := range h.order {
		if s := h.issues[id]; s.parent == nil {
			roots = append(roots, s)
		}
	}
	return roots
}

// AllIssues returns every node in insertion order.
func (h *Hierarchy) AllIssues() []*Spec {
	all := make([]*Spec, 0, len(h.order))
	for _, id := range h.order {
		all = append(all, h.issues[id])
	}
	return all
}

// Size returns the number of nodes in the hierarchy.
func (h *Hierarchy) Size() int {
	return len(h.issues)
}

// IssuesByType returns the nodes with the given type, in insertion order.
func (h *Hierarchy) IssuesByType(t Type) []*Spec {
	var result []*Spec
	for _, id := range h.order {
		if s := h.issues[id]; s.Type == t {
			result = append(result, s)
		}
	}
	return result
}

// IssuesByPriority returns the nodes with the given priority, in insertion
// order.
func (h *Hierarchy) IssuesByPriority(p Priority) []*Spec {
	var result []*Spec
	for _, id := range h.order {
		if s := h.issues[id]; s.Priority == p {
			result = append(result, s)
		}
	}
	return result
}

// Walk visits every node in parent-before-child order: roots in insertion
// order, each followed by its subtree depth-first. Returning an error from
// fn stops the walk.
func (h *Hierarchy) Walk(fn func(*Spec) error) error {
	for _, root := range h.RootIssues() {
		if err := h.walkNode(root, fn); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hierarchy) walkNode(node *Spec, fn func(*Spec) error) error {
	if err := fn(node); err != nil {
		return err
	}
	for _, child := range node.children {
		if err := h.walkNode(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates every node in the hierarchy, returning the first
// problem found.
func (h *Hierarchy) Validate() error {
	for _, id := range h.order {
		if err := h.issues[id].Validate(); err != nil {
			return err
		}
	}
	return nil
}
