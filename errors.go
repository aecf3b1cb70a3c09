package braid

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrMissingField indicates a payload lacked a required field or
	// carried it with the wrong type.
	ErrMissingField = errors.New("missing required field")

	// ErrUnsupportedVersion indicates a persisted snapshot was written
	// by an incompatible format version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	// ErrSessionNotFound indicates the requested session is not in the
	// archive.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoTranscripts indicates a transcript pattern matched nothing.
	ErrNoTranscripts = errors.New("no transcripts matched")
)
