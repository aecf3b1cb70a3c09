package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jcalloway/braid"
)

// renderSources renders the retrieval footers: notes, grounding
// sources, web search results, the search trace, and code execution
// output. Sections that carried nothing are omitted entirely.
func renderSources(s braid.SessionState, st Styles, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var sections []string

	if len(s.RetrievedNotes) > 0 {
		var b strings.Builder
		b.WriteString(st.Source.Render("Notes"))
		for _, n := range s.RetrievedNotes {
			b.WriteString("\n" + wrap.Render(fmt.Sprintf("• %s (%.2f)", n.Title, n.Score)))
			if n.Snippet != "" {
				b.WriteString("\n" + st.Muted.Render(wrap.Render("  "+truncate(firstLine(n.Snippet), maxPreviewLen))))
			}
		}
		sections = append(sections, b.String())
	}

	if len(s.Grounding) > 0 {
		var b strings.Builder
		b.WriteString(st.Source.Render("Sources"))
		for _, g := range s.Grounding {
			title := g.Title
			if title == "" {
				title = g.URI
			}
			b.WriteString("\n" + wrap.Render("• "+title))
			if g.Title != "" && g.URI != "" {
				b.WriteString("\n" + st.Muted.Render(wrap.Render("  "+g.URI)))
			}
		}
		sections = append(sections, b.String())
	}

	if len(s.SearchResults) > 0 {
		var b strings.Builder
		b.WriteString(st.Source.Render("Search results"))
		for _, r := range s.SearchResults {
			title := r.Title
			if title == "" {
				title = r.URL
			}
			b.WriteString("\n" + wrap.Render("• "+title))
			if r.Title != "" && r.URL != "" {
				b.WriteString("\n" + st.Muted.Render(wrap.Render("  "+r.URL)))
			}
		}
		sections = append(sections, b.String())
	}

	if tr := s.SearchTrace; tr != nil {
		var b strings.Builder
		b.WriteString(st.Source.Render("Search trace"))
		b.WriteString("\n" + wrap.Render(fmt.Sprintf("%d. %s", tr.Step, firstLine(tr.Thought))))
		if tr.Conclusion != "" {
			b.WriteString("\n" + st.Muted.Render(wrap.Render("   "+firstLine(tr.Conclusion))))
		}
		sections = append(sections, b.String())
	}

	if s.CodeExecution != nil {
		sections = append(sections, renderCodeExecution(*s.CodeExecution, st, width))
	}

	return strings.Join(sections, "\n\n")
}

// renderCodeExecution renders the code execution result with the code
// and its output in a plain gutter.
func renderCodeExecution(ce braid.CodeExecutionResult, st Styles, width int) string {
	header := "Code execution"
	if ce.Language != "" {
		header += " (" + ce.Language + ")"
	}

	var b strings.Builder
	b.WriteString(st.Source.Render(header))
	if ce.Success {
		b.WriteString(" " + st.Success.Render("✓"))
	} else {
		b.WriteString(" " + st.Error.Render("✗"))
	}

	gutter := st.Muted.Render("│ ")
	for _, line := range strings.Split(strings.TrimRight(ce.Code, "\n"), "\n") {
		b.WriteString("\n" + gutter + line)
	}
	if out := strings.TrimRight(ce.Output, "\n"); out != "" {
		b.WriteString("\n" + st.Muted.Render("output:"))
		for _, line := range strings.Split(out, "\n") {
			b.WriteString("\n" + gutter + line)
		}
	}
	return b.String()
}
