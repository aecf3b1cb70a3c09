package bubbletea

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jcalloway/braid"
)

// renderThinking renders one reasoning block. Collapsed shows only the
// header line; expanded adds the trace underneath. An ellipsis marks a
// block that is still streaming.
func renderThinking(e braid.ThinkingEntry, expanded bool, st Styles, width int) string {
	indicator := "▶"
	if expanded {
		indicator = "▼"
	}
	header := indicator + " Thinking"
	if !e.Complete {
		header += " …"
	}

	wrap := lipgloss.NewStyle().Width(width)
	out := st.Thinking.Render(wrap.Render(header))
	if expanded && e.Content != "" {
		out += "\n" + st.Thinking.Render(wrap.Render(e.Content))
	}
	return out
}
