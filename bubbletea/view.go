package bubbletea

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/jcalloway/braid"
)

// contentView renders a session snapshot into the scrollback body. It
// carries no session state of its own; everything comes from the
// snapshot it is handed.
type contentView struct {
	styles       Styles
	theme        braid.Theme
	prog         progress.Model
	showThinking bool
	width        int
}

func (v contentView) render(s braid.SessionState) string {
	var sections []string

	if timeline := v.renderTimeline(s); timeline != "" {
		sections = append(sections, timeline)
	}
	if src := renderSources(s, v.styles, v.width); src != "" {
		sections = append(sections, src)
	}
	if img := renderImage(s.Image, v.prog, v.styles, v.width); img != "" {
		sections = append(sections, img)
	}
	if s.Error != nil {
		msg := "Error: " + s.Error.Message
		if s.Error.Recoverable {
			msg += " (recoverable)"
		}
		sections = append(sections, v.styles.Error.Render(lipgloss.NewStyle().Width(v.width).Render(msg)))
	}

	return strings.Join(sections, "\n\n")
}

func (v contentView) renderTimeline(s braid.SessionState) string {
	var b strings.Builder
	var prev braid.TimelineEntry
	for _, entry := range s.Timeline {
		var rendered string
		switch e := entry.(type) {
		case braid.ThinkingEntry:
			rendered = renderThinking(e, v.showThinking, v.styles, v.width)
		case braid.ToolEntry:
			rendered = renderTool(e.Execution, v.styles, v.width)
		case braid.TextEntry:
			rendered = renderText(e.Content, v.width, v.theme)
		}
		if rendered == "" {
			continue
		}
		if prev != nil {
			b.WriteString(blockSeparator(prev, entry))
		}
		b.WriteString(rendered)
		prev = entry
	}
	return b.String()
}

// blockSeparator returns the separator between two rendered timeline
// entries. Consecutive tool lines pack tightly; everything else gets a
// blank line.
func blockSeparator(prev, curr braid.TimelineEntry) string {
	if _, ok := prev.(braid.ToolEntry); ok {
		if _, ok := curr.(braid.ToolEntry); ok {
			return "\n"
		}
	}
	return "\n\n"
}

// RenderState renders a snapshot as styled terminal text without
// running a program. Thinking blocks are expanded. The dump command
// uses it for one-shot output.
func RenderState(s braid.SessionState, width int, theme braid.Theme) string {
	if width <= 0 {
		width = 80
	}
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30
	v := contentView{
		styles:       NewStyles(theme),
		theme:        theme,
		prog:         bar,
		showThinking: true,
		width:        width,
	}
	return v.render(s)
}
