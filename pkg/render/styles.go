package render

import "github.com/charmbracelet/lipgloss"

// Palette used by the styled renderer.
var (
	epicColor    = lipgloss.Color("#A78BFA")
	storyColor   = lipgloss.Color("#60A5FA")
	taskColor    = lipgloss.Color("#9CA3AF")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#F87171")
	warningColor = lipgloss.Color("#F59E0B")
	mutedColor   = lipgloss.Color("#9CA3AF")
)

// styleSet holds the styles a renderer applies. A set of zero-attribute
// styles leaves the text untouched.
type styleSet struct {
	title   lipgloss.Style
	epic    lipgloss.Style
	story   lipgloss.Style
	task    lipgloss.Style
	urgent  lipgloss.Style
	high    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
}

func coloredStyles() styleSet {
	return styleSet{
		title:   lipgloss.NewStyle().Bold(true),
		epic:    lipgloss.NewStyle().Foreground(epicColor).Bold(true),
		story:   lipgloss.NewStyle().Foreground(storyColor),
		task:    lipgloss.NewStyle().Foreground(taskColor),
		urgent:  lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		high:    lipgloss.NewStyle().Foreground(warningColor),
		success: lipgloss.NewStyle().Foreground(successColor),
		failure: lipgloss.NewStyle().Foreground(errorColor),
		warning: lipgloss.NewStyle().Foreground(warningColor),
		muted:   lipgloss.NewStyle().Foreground(mutedColor),
	}
}

func plainStyles() styleSet {
	plain := lipgloss.NewStyle()
	return styleSet{
		title:   plain,
		epic:    plain,
		story:   plain,
		task:    plain,
		urgent:  plain,
		high:    plain,
		success: plain,
		failure: plain,
		warning: plain,
		muted:   plain,
	}
}
