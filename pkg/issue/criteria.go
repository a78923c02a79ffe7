package issue

import (
	"fmt"
	"strings"
)

// Criterion is one acceptance criterion with its completion flag.
type Criterion struct {
	Text      string `yaml:"text" json:"text"`
	Completed bool   `yaml:"completed,omitempty" json:"completed,omitempty"`
}

// RenderCriteria renders acceptance criteria for the given ticketing system
// name: a GitHub-style checkbox list for "github", numbered prose for
// "linear" and "jira", and a generic bullet list for anything else. Returns
// an empty string when there are no criteria.
func RenderCriteria(criteria []Criterion, system string) string {
	if len(criteria) == 0 {
		return ""
	}

	var b strings.Builder
	switch system {
	case "github":
		for _, c := range criteria {
			mark := " "
			if c.Completed {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, c.Text)
		}
	case "linear", "jira":
		for i, c := range criteria {
			suffix := ""
			if c.Completed {
				suffix = " (done)"
			}
			fmt.Fprintf(&b, "%d. %s%s\n", i+1, c.Text, suffix)
		}
	default:
		for _, c := range criteria {
			fmt.Fprintf(&b, "* %s\n", c.Text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
