package issue

// Type classifies an issue node.
type Type string

// Issue types.
const (
	TypeEpic        Type = "epic"
	TypeFeature     Type = "feature"
	TypeStory       Type = "story"
	TypeTask        Type = "task"
	TypeBug         Type = "bug"
	TypeImprovement Type = "improvement"
	TypeMaintenance Type = "maintenance"
)

// Valid reports whether t is a known issue type.
func (t Type) Valid() bool {
	switch t {
	case TypeEpic, TypeFeature, TypeStory, TypeTask, TypeBug, TypeImprovement, TypeMaintenance:
		return true
	}
	return false
}

// Category is the coarse-grained grouping consumers such as templates and
// validators work with.
type Category string

// Categories.
const (
	CategoryEpic  Category = "epic"
	CategoryStory Category = "story"
	CategoryTask  Category = "task"
)

// Category maps the issue type to its coarse category: feature, bug and
// improvement all fold into the story category, maintenance folds into task.
func (t Type) Category() Category {
	switch t {
	case TypeEpic:
		return CategoryEpic
	case TypeStory, TypeFeature, TypeBug, TypeImprovement:
		return CategoryStory
	default:
		return CategoryTask
	}
}

// Priority orders issues by urgency.
type Priority string

// Priorities.
const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	}
	return false
}
