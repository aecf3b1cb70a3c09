package bubbletea

import (
	"strings"

	rw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// truncate cuts s to at most width terminal cells, appending an
// ellipsis when anything was removed. It iterates grapheme clusters so
// emoji and combining sequences are never split.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	ellipsis := rw.RuneWidth('…')
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-ellipsis {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteRune('…')
	return b.String()
}

// firstLine returns s up to the first newline, trimmed of surrounding
// whitespace.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
