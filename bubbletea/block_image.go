package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/jcalloway/braid"
)

// renderImage renders the image generation panel: prompt, stage with a
// progress bar while in flight, and the outcome once settled. Returns
// "" when image generation never started.
func renderImage(img braid.ImageGenerationState, bar progress.Model, st Styles, width int) string {
	if !img.InProgress && len(img.Images) == 0 && img.Error == "" {
		return ""
	}

	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder
	b.WriteString(st.Accent.Render("Image generation"))
	if img.Prompt != "" {
		b.WriteString("\n" + st.Muted.Render(wrap.Render(truncate(firstLine(img.Prompt), width))))
	}

	switch {
	case img.Error != "":
		b.WriteString("\n" + st.Error.Render(wrap.Render(img.Error)))
	case img.InProgress:
		b.WriteString("\n" + st.Muted.Render(string(img.Stage)) + " " + bar.ViewAs(float64(img.Progress)/100))
	default:
		noun := "images"
		if len(img.Images) == 1 {
			noun = "image"
		}
		b.WriteString("\n" + st.Success.Render(fmt.Sprintf("%d %s ready", len(img.Images), noun)))
		for _, gi := range img.Images {
			b.WriteString("\n" + st.Muted.Render("  "+gi.MimeType))
		}
	}
	return b.String()
}
