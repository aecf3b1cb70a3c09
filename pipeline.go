package braid

// Pipeline is the composed ingestion surface a transport feeds: decoder,
// mapper and reducer behind one synchronous API. Feed and Flush return
// the events they mapped, already applied to the session in frame order.
// State returns an immutable snapshot safe to hold across transitions.
//
// Feed/Flush/Dispatch must be called from one goroutine at a time;
// event ordering is what makes the timeline's merge heuristics correct.
// State may be called concurrently with them.
type Pipeline interface {
	Feed(chunk []byte) []Event
	Flush() []Event
	Dispatch(a Action) SessionState
	State() SessionState
}
