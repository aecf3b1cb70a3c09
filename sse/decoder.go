// Package sse reassembles protocol frames from a chunked byte stream.
// The decoder knows framing only (event names and payload text) and
// nothing about payload semantics; that is the wire package's job.
package sse

import (
	"strings"
	"unicode/utf8"

	"github.com/jcalloway/braid"
)

// Decoder turns arbitrarily chunked byte reads into [braid.RawFrame]
// values. Frames are separated by a blank line; a chunk boundary may
// fall anywhere, including inside a multi-byte character, so the decoder
// carries undecoded trailing bytes between feeds. The decoder is
// permissive: malformed framing yields no frame, never an error.
//
// Not safe for concurrent use; a session owns exactly one decoder.
type Decoder struct {
	buf   string
	carry []byte // trailing bytes of a rune split across chunks
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends one transport chunk and returns every frame it
// completed, in arrival order.
func (d *Decoder) Feed(chunk []byte) []braid.RawFrame {
	data := chunk
	if len(d.carry) > 0 {
		data = make([]byte, 0, len(d.carry)+len(chunk))
		data = append(data, d.carry...)
		data = append(data, chunk...)
		d.carry = nil
	}
	complete, partial := splitRuneBoundary(data)
	d.carry = partial
	d.buf += string(complete)

	var frames []braid.RawFrame
	for {
		i := strings.Index(d.buf, "\n\n")
		if i < 0 {
			return frames
		}
		segment := d.buf[:i]
		d.buf = d.buf[i+2:]
		if f, ok := parseFrame(segment); ok {
			frames = append(frames, f)
		}
	}
}

// Flush parses whatever remains in the buffer as a final frame. Used
// when the transport signals end-of-stream; a trailing partial rune can
// no longer be completed and is dropped with the stream.
func (d *Decoder) Flush() []braid.RawFrame {
	d.carry = nil
	if d.buf == "" {
		return nil
	}
	segment := d.buf
	d.buf = ""
	if f, ok := parseFrame(segment); ok {
		return []braid.RawFrame{f}
	}
	return nil
}

// Reset clears the buffer and the multi-byte carry state.
func (d *Decoder) Reset() {
	d.buf = ""
	d.carry = nil
}

// splitRuneBoundary returns the longest prefix of data ending on a UTF-8
// boundary and the bytes of a trailing partial rune. Invalid sequences
// pass through unchanged; the split handles chunk boundaries, not
// validation.
func splitRuneBoundary(data []byte) (complete, partial []byte) {
	i := len(data)
	for j := 0; j < utf8.UTFMax && i > 0; j++ {
		i--
		b := data[i]
		if b < utf8.RuneSelf {
			return data, nil // ends on ASCII
		}
		if b >= 0xC0 { // leading byte of a multi-byte sequence
			if utf8.FullRune(data[i:]) {
				return data, nil
			}
			return data[:i], data[i:]
		}
		// continuation byte, keep scanning back
	}
	return data, nil
}

// parseFrame parses one separated segment. A frame exists only if at
// least one event or data line was recognized; comments and blank
// segments yield none. Later data lines overwrite earlier ones;
// payloads are single-line by protocol convention.
func parseFrame(segment string) (braid.RawFrame, bool) {
	f := braid.RawFrame{Event: "message"}
	recognized := false
	for _, line := range strings.Split(segment, "\n") {
		switch {
		case strings.HasPrefix(line, ":"):
			// comment, ignored
		case strings.HasPrefix(line, "event: "):
			f.Event = strings.TrimPrefix(line, "event: ")
			recognized = true
		case strings.HasPrefix(line, "data: "):
			f.Data = strings.TrimPrefix(line, "data: ")
			recognized = true
		}
	}
	if !recognized {
		return braid.RawFrame{}, false
	}
	return f, true
}
