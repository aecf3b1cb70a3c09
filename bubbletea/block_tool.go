package bubbletea

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jcalloway/braid"
)

// maxPreviewLen caps the argument and result previews on tool lines.
const maxPreviewLen = 60

// renderTool renders one tool execution as a single status line: a
// glyph for the outcome, the tool name, and a one-line preview of the
// arguments while running or the result once done.
func renderTool(t braid.ToolExecution, st Styles, width int) string {
	var glyph string
	switch t.Status {
	case braid.ToolCompleted:
		glyph = st.Success.Render("✓")
	case braid.ToolFailed:
		glyph = st.Error.Render("✗")
	default:
		glyph = st.Muted.Render("⋯")
	}

	line := glyph + " " + st.Tool.Render(t.Name)

	preview := t.Arguments
	if t.Done() {
		preview = t.Result
	}
	if p := truncate(firstLine(preview), maxPreviewLen); p != "" {
		style := st.Muted
		if t.Status == braid.ToolFailed {
			style = st.Error
		}
		line += "  " + style.Render(p)
	}

	return lipgloss.NewStyle().Width(width).Render(line)
}
