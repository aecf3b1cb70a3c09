package bubbletea

import (
	"strings"

	"github.com/jcalloway/braid"
	"github.com/jcalloway/braid/markdown"
)

// renderText renders streamed answer text as markdown. A fence that is
// still open mid-stream is closed for display only, so partial code
// blocks render instead of swallowing the rest of the output.
func renderText(content string, width int, theme braid.Theme) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if hasUnclosedFence(content) {
		content += "\n```"
	}
	return strings.TrimRight(markdown.Render(content, width, theme), "\n")
}

// hasUnclosedFence reports whether content ends inside a fenced code
// block, detected by counting fence markers.
func hasUnclosedFence(content string) bool {
	return strings.Count(content, "```")%2 == 1
}
