package braid

// NoteRef is a scored reference to a retrieved note.
type NoteRef struct {
	ID      string
	Title   string
	Snippet string
	Score   float64
}

// GroundingSource is a web source the answer is grounded in.
type GroundingSource struct {
	URI     string
	Title   string
	Snippet string
}

// SearchSource is a live-search citation.
type SearchSource struct {
	URL   string
	Title string
}

// SearchTrace is one step of a provider's search reasoning trace.
// Each trace event replaces the previous one wholesale.
type SearchTrace struct {
	Step       int
	Thought    string
	Conclusion string
}

// CodeExecutionResult is the outcome of server-side code execution.
type CodeExecutionResult struct {
	Code     string
	Language string
	Output   string
	Success  bool
}

// SessionError is the session-level failure surfaced to the UI.
// Recoverable hints that the caller's retry policy may reconnect.
type SessionError struct {
	Message     string
	Recoverable bool
}
