// Package markdown renders markdown text to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
package markdown

import "github.com/jcalloway/braid"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, list items and blockquotes are word-wrapped to width.
// Code blocks are rendered at full width without reflow.
func Render(source string, width int, theme braid.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
