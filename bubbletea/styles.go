package bubbletea

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jcalloway/braid"
)

// Styles holds the lipgloss styles derived from a theme. They are built
// once at construction and shared by every render.
type Styles struct {
	Thinking lipgloss.Style
	Tool     lipgloss.Style
	Source   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t braid.Theme) Styles {
	return Styles{
		Thinking: lipgloss.NewStyle().Foreground(ansiColor(t.Thinking)).Faint(true),
		Tool:     lipgloss.NewStyle().Foreground(ansiColor(t.Tool)),
		Source:   lipgloss.NewStyle().Foreground(ansiColor(t.Source)),
		Error:    lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success:  lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Muted:    lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

// ansiColor converts a theme color index to a lipgloss color. Negative
// indexes mean the terminal default.
func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.ANSIColor(index)
}
