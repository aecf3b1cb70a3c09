package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/stretchr/testify/assert"

	"github.com/jcalloway/braid"
	bt "github.com/jcalloway/braid/bubbletea"
)

func testStyles() bt.Styles {
	return bt.NewStyles(braid.DefaultTheme())
}

func TestRenderThinking(t *testing.T) {
	t.Parallel()

	entry := braid.ThinkingEntry{Content: "stepping through the proof", Complete: true}

	t.Run("collapsed shows only the header", func(t *testing.T) {
		t.Parallel()

		out := stripANSI(bt.RenderThinking(entry, false, testStyles(), 80))

		assert.Contains(t, out, "▶ Thinking")
		assert.NotContains(t, out, "stepping through the proof")
	})

	t.Run("expanded shows the trace", func(t *testing.T) {
		t.Parallel()

		out := stripANSI(bt.RenderThinking(entry, true, testStyles(), 80))

		assert.Contains(t, out, "▼ Thinking")
		assert.Contains(t, out, "stepping through the proof")
	})

	t.Run("streaming block carries an ellipsis", func(t *testing.T) {
		t.Parallel()

		streaming := braid.ThinkingEntry{Content: "still going"}
		out := stripANSI(bt.RenderThinking(streaming, false, testStyles(), 80))

		assert.Contains(t, out, "▶ Thinking …")
	})
}

func TestRenderTool(t *testing.T) {
	t.Parallel()

	t.Run("executing shows the argument preview", func(t *testing.T) {
		t.Parallel()

		exec := braid.ToolExecution{
			ID:        "t1",
			Name:      "search_notes",
			Arguments: `{"query": "tax"}`,
			Status:    braid.ToolExecuting,
		}
		out := stripANSI(bt.RenderTool(exec, testStyles(), 80))

		assert.Contains(t, out, "⋯ search_notes")
		assert.Contains(t, out, `{"query": "tax"}`)
	})

	t.Run("completed shows the first result line", func(t *testing.T) {
		t.Parallel()

		exec := braid.ToolExecution{
			ID:     "t1",
			Name:   "search_notes",
			Result: "3 notes found\nsecond line never shown",
			Status: braid.ToolCompleted,
		}
		out := stripANSI(bt.RenderTool(exec, testStyles(), 80))

		assert.Contains(t, out, "✓ search_notes")
		assert.Contains(t, out, "3 notes found")
		assert.NotContains(t, out, "second line")
	})

	t.Run("failed shows a cross and the error preview", func(t *testing.T) {
		t.Parallel()

		exec := braid.ToolExecution{
			ID:     "t1",
			Name:   "run_query",
			Result: "timeout after 30s",
			Status: braid.ToolFailed,
		}
		out := stripANSI(bt.RenderTool(exec, testStyles(), 80))

		assert.Contains(t, out, "✗ run_query")
		assert.Contains(t, out, "timeout after 30s")
	})

	t.Run("long previews are truncated", func(t *testing.T) {
		t.Parallel()

		exec := braid.ToolExecution{
			ID:     "t1",
			Name:   "fetch",
			Result: strings.Repeat("x", 200),
			Status: braid.ToolCompleted,
		}
		out := stripANSI(bt.RenderTool(exec, testStyles(), 300))

		assert.Contains(t, out, "…")
		assert.NotContains(t, out, strings.Repeat("x", 100))
	})
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	t.Run("renders markdown", func(t *testing.T) {
		t.Parallel()

		out := stripANSI(bt.RenderText("plain **bold** text", 80, braid.DefaultTheme()))

		assert.Contains(t, out, "plain bold text")
	})

	t.Run("blank content renders nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, bt.RenderText("  \n ", 80, braid.DefaultTheme()))
	})

	t.Run("closes an unclosed fence for display", func(t *testing.T) {
		t.Parallel()

		out := stripANSI(bt.RenderText("```go\nfunc main() {", 80, braid.DefaultTheme()))

		assert.Contains(t, out, "func main() {")
	})
}

func TestHasUnclosedFence(t *testing.T) {
	t.Parallel()

	assert.False(t, bt.HasUnclosedFence("no code here"))
	assert.False(t, bt.HasUnclosedFence("```go\nx := 1\n```"))
	assert.True(t, bt.HasUnclosedFence("```go\nx := 1"))
	assert.True(t, bt.HasUnclosedFence("```go\nx\n```\nand then ```py\ny"))
}

func TestRenderSources(t *testing.T) {
	t.Parallel()

	t.Run("empty state renders nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, bt.RenderSources(braid.NewSessionState(), testStyles(), 80))
	})

	t.Run("notes list titles and scores", func(t *testing.T) {
		t.Parallel()

		s := braid.NewSessionState()
		s.RetrievedNotes = []braid.NoteRef{
			{ID: "n1", Title: "Quarterly taxes", Snippet: "Estimated payments are due", Score: 0.91},
		}
		out := stripANSI(bt.RenderSources(s, testStyles(), 80))

		assert.Contains(t, out, "Notes")
		assert.Contains(t, out, "• Quarterly taxes (0.91)")
		assert.Contains(t, out, "Estimated payments are due")
	})

	t.Run("grounding and search sections list urls", func(t *testing.T) {
		t.Parallel()

		s := braid.NewSessionState()
		s.Grounding = []braid.GroundingSource{{URI: "https://example.com/a", Title: "Example A"}}
		s.SearchResults = []braid.SearchSource{{URL: "https://example.com/b", Title: "Example B"}}
		out := stripANSI(bt.RenderSources(s, testStyles(), 80))

		assert.Contains(t, out, "Sources")
		assert.Contains(t, out, "• Example A")
		assert.Contains(t, out, "https://example.com/a")
		assert.Contains(t, out, "Search results")
		assert.Contains(t, out, "• Example B")
		assert.Contains(t, out, "https://example.com/b")
	})

	t.Run("search trace shows the latest step", func(t *testing.T) {
		t.Parallel()

		s := braid.NewSessionState()
		s.SearchTrace = &braid.SearchTrace{
			Step: 2, Thought: "compare dates", Conclusion: "the 2019 filing is newer",
		}
		out := stripANSI(bt.RenderSources(s, testStyles(), 80))

		assert.Contains(t, out, "Search trace")
		assert.Contains(t, out, "2. compare dates")
		assert.Contains(t, out, "the 2019 filing is newer")
	})

	t.Run("code execution shows code and output", func(t *testing.T) {
		t.Parallel()

		s := braid.NewSessionState()
		s.CodeExecution = &braid.CodeExecutionResult{
			Code:     "print(1 + 1)",
			Language: "python",
			Output:   "2",
			Success:  true,
		}
		out := stripANSI(bt.RenderSources(s, testStyles(), 80))

		assert.Contains(t, out, "Code execution (python) ✓")
		assert.Contains(t, out, "│ print(1 + 1)")
		assert.Contains(t, out, "│ 2")
	})

	t.Run("failed code execution shows a cross", func(t *testing.T) {
		t.Parallel()

		s := braid.NewSessionState()
		s.CodeExecution = &braid.CodeExecutionResult{Code: "boom()", Success: false}
		out := stripANSI(bt.RenderSources(s, testStyles(), 80))

		assert.Contains(t, out, "✗")
	})
}

func TestRenderImage(t *testing.T) {
	t.Parallel()

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30

	t.Run("untouched image state renders nothing", func(t *testing.T) {
		t.Parallel()

		out := bt.RenderImage(braid.ImageGenerationState{Stage: braid.ImageStageIdle}, bar, testStyles(), 80)

		assert.Empty(t, out)
	})

	t.Run("in progress shows stage and prompt", func(t *testing.T) {
		t.Parallel()

		img := braid.ImageGenerationState{
			InProgress: true,
			Stage:      braid.ImageStageGenerating,
			Progress:   40,
			Prompt:     "a lighthouse at dusk",
		}
		out := stripANSI(bt.RenderImage(img, bar, testStyles(), 80))

		assert.Contains(t, out, "Image generation")
		assert.Contains(t, out, "a lighthouse at dusk")
		assert.Contains(t, out, "generating")
	})

	t.Run("completed lists the generated images", func(t *testing.T) {
		t.Parallel()

		img := braid.ImageGenerationState{
			Stage: braid.ImageStageComplete,
			Images: []braid.GeneratedImage{
				{Data: "iVBORw0KGgo=", MimeType: "image/png"},
			},
		}
		out := stripANSI(bt.RenderImage(img, bar, testStyles(), 80))

		assert.Contains(t, out, "1 image ready")
		assert.Contains(t, out, "image/png")
	})

	t.Run("failed generation shows the error", func(t *testing.T) {
		t.Parallel()

		img := braid.ImageGenerationState{
			Stage: braid.ImageStageError,
			Error: "safety filter rejected the prompt",
		}
		out := stripANSI(bt.RenderImage(img, bar, testStyles(), 80))

		assert.Contains(t, out, "safety filter rejected the prompt")
	})
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", bt.Truncate("short", 10))
	assert.Equal(t, "abcd…", bt.Truncate("abcdefgh", 5))
	assert.Equal(t, "", bt.Truncate("anything", 0))
	assert.Equal(t, "👍…", bt.Truncate("👍👍👍", 4), "grapheme clusters are never split")
}

func TestFirstLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "first", bt.FirstLine("first\nsecond"))
	assert.Equal(t, "only", bt.FirstLine("only"))
	assert.Equal(t, "trimmed", bt.FirstLine("  trimmed  \nrest"))
	assert.Equal(t, "", bt.FirstLine("\nstarts empty"))
}

func TestBlockSeparator(t *testing.T) {
	t.Parallel()

	tool := braid.ToolEntry{}
	text := braid.TextEntry{}

	assert.Equal(t, "\n", bt.BlockSeparatorFor(tool, tool), "tool runs pack tightly")
	assert.Equal(t, "\n\n", bt.BlockSeparatorFor(tool, text))
	assert.Equal(t, "\n\n", bt.BlockSeparatorFor(text, tool))
	assert.Equal(t, "\n\n", bt.BlockSeparatorFor(text, text))
}
