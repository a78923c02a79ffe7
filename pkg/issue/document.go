package issue

// Document is the flat, serializable form of a hierarchy. Nodes are stored
// as records carrying parent ids; the tree is rebuilt from those links on
// load. parent_id is the source of truth, children_ids is informational.
type Document struct {
	Issues []Record `yaml:"issues" json:"issues"`
}

// Record is the serializable form of a single issue node.
type Record struct {
	ID                 string      `yaml:"id" json:"id"`
	Title              string      `yaml:"title" json:"title"`
	Description        string      `yaml:"description,omitempty" json:"description,omitempty"`
	Type               Type        `yaml:"type" json:"type"`
	Priority           Priority    `yaml:"priority" json:"priority"`
	AcceptanceCriteria []Criterion `yaml:"acceptance_criteria,omitempty" json:"acceptance_criteria,omitempty"`
	Labels             []string    `yaml:"labels,omitempty" json:"labels,omitempty"`
	Assignee           string      `yaml:"assignee,omitempty" json:"assignee,omitempty"`
	Estimate           float64     `yaml:"estimate,omitempty" json:"estimate,omitempty"`
	SpecFile           string      `yaml:"spec_file,omitempty" json:"spec_file,omitempty"`
	SourceSection      string      `yaml:"source_section,omitempty" json:"source_section,omitempty"`
	SourceLine         int         `yaml:"source_line,omitempty" json:"source_line,omitempty"`
	ParentID           string      `yaml:"parent_id,omitempty" json:"parent_id,omitempty"`
	ChildrenIDs        []string    `yaml:"children_ids,omitempty" json:"children_ids,omitempty"`
}

// Document converts the hierarchy into its flat serializable form, nodes in
// insertion order.
func (h *Hierarchy) Document() *Document {
	doc := &Document{
		Issues: make([]Record, 0, len(h.order)),
	}
	for _, id := range h.order {
		doc.Issues = append(doc.Issues, h.issues[id].record())
	}
	return doc
}

func (s *Spec) record() Record {
	r := Record{
		ID:                 s.id,
		Title:              s.Title,
		Description:        s.Description,
		Type:               s.Type,
		Priority:           s.Priority,
		AcceptanceCriteria: s.AcceptanceCriteria,
		Labels:             s.Labels,
		Assignee:           s.Assignee,
		Estimate:           s.Estimate,
		SpecFile:           s.SpecFile,
		SourceSection:      s.SourceSection,
		SourceLine:         s.SourceLine,
	}
	if s.parent != nil {
		r.ParentID = s.parent.id
	}
	for _, child := range s.children {
		r.ChildrenIDs = append(r.ChildrenIDs, child.id)
	}
	return r
}

// FromDocument rebuilds a hierarchy from its flat form. Nodes are created
// first, then linked from their parent ids, so record order does not matter.
func FromDocument(doc *Document) (*Hierarchy, error) {
	h := NewHierarchy()

	// First pass: materialize every node.
	nodes := make([]*Spec, 0, len(doc.Issues))
	for _, r := range doc.Issues {
		s := &Spec{
			id:                 r.ID,
			Title:              r.Title,
			Description:        r.Description,
			Type:               r.Type,
			Priority:           r.Priority,
			AcceptanceCriteria: r.AcceptanceCriteria,
			Labels:             r.Labels,
			Assignee:           r.Assignee,
			Estimate:           r.Estimate,
			SpecFile:           r.SpecFile,
			SourceSection:      r.SourceSection,
			SourceLine:         r.SourceLine,
		}
		if s.id == "" {
			s.id = newID()
		}
		if s.Type == "" {
			s.Type = TypeTask
		}
		if s.Priority == "" {
			s.Priority = PriorityMedium
		}
		if err := h.AddIssue(s); err != nil {
			return nil, err
		}
		nodes = append(nodes, s)
	}

	// Second pass: restore parent links.
	for i, r := range doc.Issues {
		if r.ParentID == "" {
			continue
		}
		parent, ok := h.issues[r.ParentID]
		if !ok {
			return nil, ErrUnknownParent
		}
		if err := parent.AddChild(nodes[i]); err != nil {
			return nil, err
		}
	}

	return h, nil
}
