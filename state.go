package braid

import (
	"strings"
	"time"
)

// SessionState is the single aggregate a stream session folds into.
// Only the reducer writes it; everyone else dispatches actions and reads
// the returned value. Every transition produces a new value: shared
// maps and slices are cloned before modification, and pointer fields
// are replaced rather than written through, so a snapshot handed to a
// reader stays immutable while the stream continues.
type SessionState struct {
	Phase  Phase
	Status Status

	// TextContent accumulates every text delta of the session. The
	// timeline holds the same text split into interstitial entries; this
	// flat field is what the token estimator runs over.
	TextContent string

	ActiveTools    map[string]ToolExecution // keyed by tool id
	CompletedTools []ToolExecution          // completion order
	Timeline       []TimelineEntry

	RetrievedNotes []NoteRef
	Grounding      []GroundingSource
	SearchResults  []SearchSource
	SearchTrace    *SearchTrace
	CodeExecution  *CodeExecutionResult

	Image ImageGenerationState

	// ProcessingStatus is a free-text hint for the UI ("Generating
	// image...", server status frames).
	ProcessingStatus string

	InputTokens  int
	OutputTokens int

	StartTime time.Time
	Duration  time.Duration

	// RAGLogID correlates this session with the server's retrieval log.
	// Once set it survives any event that arrives without one.
	RAGLogID string

	Error      *SessionError
	RetryCount int
}

// NewSessionState returns the initial idle state.
func NewSessionState() SessionState {
	return SessionState{
		Phase:       PhaseIdle,
		Status:      StatusIdle,
		ActiveTools: map[string]ToolExecution{},
		Image:       ImageGenerationState{Stage: ImageStageIdle},
	}
}

// ThinkingContent returns the concatenated content of all thinking
// entries in timeline order. Derived from the timeline rather than
// stored, so it can never drift from it.
func (s SessionState) ThinkingContent() string {
	var b strings.Builder
	for _, e := range s.Timeline {
		if th, ok := e.(ThinkingEntry); ok {
			b.WriteString(th.Content)
		}
	}
	return b.String()
}

// ThinkingComplete reports whether the most recent thinking block was
// marked complete. False while a block is still streaming and when no
// thinking arrived at all.
func (s SessionState) ThinkingComplete() bool {
	for i := len(s.Timeline) - 1; i >= 0; i-- {
		if th, ok := s.Timeline[i].(ThinkingEntry); ok {
			return th.Complete
		}
	}
	return false
}

// Elapsed returns the finished Duration when set, otherwise the time
// since StartTime by now's reckoning. Zero before the first Connect.
func (s SessionState) Elapsed(now time.Time) time.Duration {
	if s.Duration > 0 {
		return s.Duration
	}
	if s.StartTime.IsZero() {
		return 0
	}
	return now.Sub(s.StartTime)
}

// cloneTools copies the active-tool mapping so the previous snapshot
// keeps its own view.
func cloneTools(m map[string]ToolExecution) map[string]ToolExecution {
	out := make(map[string]ToolExecution, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// cloneTimeline copies the timeline slice. Entries are values, so a
// shallow copy is a full copy.
func cloneTimeline(t []TimelineEntry) []TimelineEntry {
	out := make([]TimelineEntry, len(t))
	copy(out, t)
	return out
}
