package braid

// RawFrame is one decoded protocol frame: an event name and its raw,
// unparsed payload text. Frames are transient; the mapper consumes each
// one as soon as the decoder produces it, and none are persisted.
type RawFrame struct {
	Event string // frame event name; "message" when the frame carried none
	Data  string
}
