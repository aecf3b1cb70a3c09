package braid

// TimelineEntry is a sealed interface over the entries of the process
// timeline: the chronological record of interleaved thinking, tool and
// interstitial-text sub-events within one session. The timeline is the
// ordering authority for rendering: flat fields like TextContent say
// what accumulated, the timeline says when.
// The unexported marker method prevents external implementations.
type TimelineEntry interface {
	timelineEntry()
}

// ThinkingEntry is one contiguous block of reasoning trace. Consecutive
// deltas merge into the trailing entry until it is marked Complete; the
// next delta after that opens a new block.
type ThinkingEntry struct {
	Content  string
	Complete bool
}

func (ThinkingEntry) timelineEntry() {}

// ToolEntry records a tool execution at its position in the stream.
// The embedded execution is updated in place when the tool completes.
type ToolEntry struct {
	Execution ToolExecution
}

func (ToolEntry) timelineEntry() {}

// TextEntry is answer text that arrived between thinking blocks or tool
// executions. Consecutive text deltas merge into the trailing entry.
type TextEntry struct {
	Content string
}

func (TextEntry) timelineEntry() {}

// Interface compliance checks.
var (
	_ TimelineEntry = ThinkingEntry{}
	_ TimelineEntry = ToolEntry{}
	_ TimelineEntry = TextEntry{}
)
