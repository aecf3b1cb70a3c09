package braid

// Event is a sealed interface representing one validated protocol event.
// Events are purely semantic facts asserted by the server about a session.
// Malformed wire payloads never become events; the mapper drops them and
// reports through its parse-error callback instead.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventSessionStart signals that the server accepted the request and the
// response stream is open.
type EventSessionStart struct{}

func (EventSessionStart) event() {}

// EventTextDelta carries an increment of answer text.
type EventTextDelta struct {
	Text string
}

func (EventTextDelta) event() {}

// EventThinkingDelta carries an increment of the model's reasoning trace.
// Complete marks the current thinking block finished; a later delta then
// opens a new block rather than extending this one.
type EventThinkingDelta struct {
	Content  string
	Complete bool
}

func (EventThinkingDelta) event() {}

// EventThinkingEnd is an out-of-band completion signal for the current
// thinking block, distinct from a final delta.
type EventThinkingEnd struct{}

func (EventThinkingEnd) event() {}

// EventToolStart signals that the server began executing a tool.
// ID is unique within a session; the mapper synthesizes one when the
// server omits it.
type EventToolStart struct {
	ID        string
	Name      string
	Arguments string
}

func (EventToolStart) event() {}

// EventToolEnd signals that a tool execution finished.
// ID may be absent on the wire; the reducer then falls back to matching
// the most recent active execution with the same Name.
type EventToolEnd struct {
	ID      string
	Name    string
	Result  string
	Success bool
}

func (EventToolEnd) event() {}

// EventRetrievalContext carries the notes retrieved for this request and
// an optional retrieval-log correlation id.
type EventRetrievalContext struct {
	Notes    []NoteRef
	RAGLogID string
}

func (EventRetrievalContext) event() {}

// EventGroundingSources carries web sources the answer is grounded in.
type EventGroundingSources struct {
	Sources []GroundingSource
}

func (EventGroundingSources) event() {}

// EventCodeExecution carries the result of server-side code execution.
type EventCodeExecution struct {
	Result CodeExecutionResult
}

func (EventCodeExecution) event() {}

// EventStatusUpdate carries a free-text processing hint for the UI.
type EventStatusUpdate struct {
	Status string
}

func (EventStatusUpdate) event() {}

// EventSearchSources carries live-search citations.
type EventSearchSources struct {
	Sources []SearchSource
}

func (EventSearchSources) event() {}

// EventSearchTrace carries one step of a provider's search reasoning trace.
type EventSearchTrace struct {
	Trace SearchTrace
}

func (EventSearchTrace) event() {}

// EventSessionEnd signals normal stream completion. Token counts and the
// correlation id are nil/empty when the server did not supply them; the
// reducer preserves prior values in that case.
type EventSessionEnd struct {
	RAGLogID     string
	InputTokens  *int
	OutputTokens *int
}

func (EventSessionEnd) event() {}

// EventSessionError signals a protocol-level failure reported by the
// server. Recoverable hints that the caller may retry.
type EventSessionError struct {
	Message     string
	Recoverable bool
}

func (EventSessionError) event() {}

// EventImageStart signals that image generation began for Prompt.
type EventImageStart struct {
	Prompt string
}

func (EventImageStart) event() {}

// EventImageProgress updates the image generation stage. Progress is a
// percentage in [0,100]; nil means the stage change carried no number.
type EventImageProgress struct {
	Stage    ImageStage
	Progress *int
}

func (EventImageProgress) event() {}

// EventImageComplete delivers the generated images and ends the session.
type EventImageComplete struct {
	Images []GeneratedImage
}

func (EventImageComplete) event() {}

// EventImageError signals that image generation failed.
type EventImageError struct {
	Message string
}

func (EventImageError) event() {}

// Interface compliance checks.
var (
	_ Event = EventSessionStart{}
	_ Event = EventTextDelta{}
	_ Event = EventThinkingDelta{}
	_ Event = EventThinkingEnd{}
	_ Event = EventToolStart{}
	_ Event = EventToolEnd{}
	_ Event = EventRetrievalContext{}
	_ Event = EventGroundingSources{}
	_ Event = EventCodeExecution{}
	_ Event = EventStatusUpdate{}
	_ Event = EventSearchSources{}
	_ Event = EventSearchTrace{}
	_ Event = EventSessionEnd{}
	_ Event = EventSessionError{}
	_ Event = EventImageStart{}
	_ Event = EventImageProgress{}
	_ Event = EventImageComplete{}
	_ Event = EventImageError{}
)
