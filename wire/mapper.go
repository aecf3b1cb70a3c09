// Package wire maps raw protocol frames onto the closed domain event
// set. Payload validation, defaulting and id synthesis happen here; one
// bad frame never halts a session; it degrades to "no event" and is
// reported through the parse-error callback.
package wire

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jcalloway/braid"
)

// ParseErrorHandler receives payload parse failures together with the
// frame that caused them. It is a side channel: mapping already moved
// on by the time it runs.
type ParseErrorHandler func(err error, frame braid.RawFrame)

// Mapper converts one RawFrame into zero or one domain event.
// Stateless apart from its capabilities; safe to reuse across sessions.
type Mapper struct {
	newID        braid.IDGenerator
	log          zerolog.Logger
	onParseError ParseErrorHandler
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithIDGenerator injects the generator for synthesized tool ids.
// Defaults to braid.NewToolID.
func WithIDGenerator(g braid.IDGenerator) Option {
	return func(m *Mapper) { m.newID = g }
}

// WithLogger injects the logger for skipped payloads and parse
// failures. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Mapper) { m.log = l }
}

// WithParseErrorHandler sets the side-channel callback for failures
// inside per-type payload parsers. "No payload" and "unknown name"
// frames never reach it.
func WithParseErrorHandler(h ParseErrorHandler) Option {
	return func(m *Mapper) { m.onParseError = h }
}

// NewMapper returns a Mapper with default capabilities.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		newID: braid.NewToolID,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map converts a frame to its domain event, or nil when the frame is
// non-semantic, unknown, or invalid. This layer never mutates session
// state and never returns an error; failures go to the callback.
func (m *Mapper) Map(f braid.RawFrame) braid.Event {
	switch f.Event {
	case "start":
		return braid.EventSessionStart{}
	case "message", "data":
		return m.mapText(f.Data)
	case "thinking":
		return m.mapThinking(f.Data)
	case "tool_start":
		return m.parsed(f, m.mapToolStart)
	case "tool_end":
		return m.parsed(f, m.mapToolEnd)
	case "status":
		return m.parsed(f, m.mapStatus)
	case "rag", "context_retrieval":
		return m.parsed(f, m.mapRetrieval)
	case "grounding":
		return m.parsed(f, m.mapGrounding)
	case "code_execution":
		return m.parsed(f, m.mapCodeExecution)
	case "grok_search":
		return m.parsed(f, m.mapSearch)
	case "grok_thinking":
		return m.parsed(f, m.mapSearchTrace)
	case "end":
		return m.mapEnd(f.Data)
	case "error":
		return m.mapError(f.Data)
	default:
		m.log.Debug().Str("event", f.Event).Msg("unknown event name ignored")
		return nil
	}
}

// parsed runs one per-type parser with the shared failure plumbing.
// Empty payloads are logged at debug and skipped. Parser errors are
// logged and reported through the callback; valid-but-incomplete
// payloads come back as (nil, nil) after the parser logged them.
func (m *Mapper) parsed(f braid.RawFrame, parse func(string) (braid.Event, error)) braid.Event {
	if f.Data == "" {
		m.log.Debug().Str("event", f.Event).Msg("empty payload skipped")
		return nil
	}
	evt, err := parse(f.Data)
	if err != nil {
		m.log.Warn().Err(err).Str("event", f.Event).Msg("payload parse failed")
		if m.onParseError != nil {
			m.onParseError(err, f)
		}
		return nil
	}
	return evt
}

func (m *Mapper) mapText(data string) braid.Event {
	if data == "" {
		m.log.Debug().Msg("empty message payload skipped")
		return nil
	}
	// Payloads are single-line on the wire; real newlines travel as
	// literal \n sequences.
	return braid.EventTextDelta{Text: strings.ReplaceAll(data, `\n`, "\n")}
}

func (m *Mapper) mapThinking(data string) braid.Event {
	if data == "" {
		m.log.Debug().Msg("empty thinking payload skipped")
		return nil
	}
	var p thinkingPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		// Some servers send bare thinking text. Treat it as a complete
		// block rather than losing it.
		return braid.EventThinkingDelta{Content: data, Complete: true}
	}
	complete := true // frames are complete unless explicitly marked partial
	if p.IsComplete != nil {
		complete = *p.IsComplete
	}
	return braid.EventThinkingDelta{Content: p.Content, Complete: complete}
}

func (m *Mapper) mapToolStart(data string) (braid.Event, error) {
	var p toolStartPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("wire: failed to parse tool_start: %w", err)
	}
	name, nameOK := p.Tool.(string)
	args, argsOK := p.Arguments.(string)
	if !nameOK || !argsOK {
		m.log.Warn().Err(fmt.Errorf("%w: tool or arguments", braid.ErrMissingField)).
			Str("payload", data).Msg("tool_start dropped")
		return nil, nil
	}
	id, _ := p.ID.(string)
	if id == "" {
		id = m.newID()
	}
	return braid.EventToolStart{ID: id, Name: name, Arguments: args}, nil
}

func (m *Mapper) mapToolEnd(data string) (braid.Event, error) {
	var p toolEndPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("wire: failed to parse tool_end: %w", err)
	}
	name, nameOK := p.Tool.(string)
	result, resultOK := p.Result.(string)
	if !nameOK || !resultOK {
		m.log.Warn().Err(fmt.Errorf("%w: tool or result", braid.ErrMissingField)).
			Str("payload", data).Msg("tool_end dropped")
		return nil, nil
	}
	success := true
	if p.Success != nil {
		success = *p.Success
	}
	id, _ := p.ID.(string)
	if id == "" {
		// Completion frames may omit the id; the reducer's name
		// fallback picks the right active execution.
		id = "tool_" + name
	}
	return braid.EventToolEnd{ID: id, Name: name, Result: result, Success: success}, nil
}

func (m *Mapper) mapStatus(data string) (braid.Event, error) {
	var p statusPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("wire: failed to parse status: %w", err)
	}
	status, ok := p.Status.(string)
	if !ok {
		m.log.Warn().Err(fmt.Errorf("%w: status", braid.ErrMissingField)).
			Str("payload", data).Msg("status dropped")
		return nil, nil
	}
	return braid.EventStatusUpdate{Status: status}, nil
}

func (m *Mapper) mapRetrieval(data string) (braid.Event, error) {
	var p retrievalPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("wire: failed to parse retrieval context: %w", err)
	}
	notes := make([]braid.NoteRef, 0, len(p.RetrievedNotes))
	for _, n := range p.RetrievedNotes {
		notes = append(notes, braid.NoteRef{ID: n.ID, Title: n.Title, Snippet: n.Snippet, Score: n.Score})
	}
	return braid.EventRetrievalContext{Notes: notes, RAGLogID: p.RAGLogID}, nil
}

func (m *Mapper) mapGrounding(data string) (braid.Event, error) {
	var p groundingPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("wire: failed to parse grounding: %w", err)
	}
	sources := make([]braid.GroundingSource, 0, len(p.Sources))
	for _, s := range p.Sources {
		sources = append(sources, braid.GroundingSource{URI: s.URI, Title: s.Title, Snippet: s.Snippet})
	}
	return braid.EventGroundingSources{Sources: sources}, nil
}

func (m *Mapper) mapCodeExecution(data string) (braid.Event, error) {
	var p codeExecutionPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("wire: failed to parse code_execution: %w", err)
	}
	if p.Language == "" {
		p.Language = "python"
	}
	success := true
	if p.Success != nil {
		success = *p.Success
	}
	return braid.EventCodeExecution{Result: braid.CodeExecutionResult{
		Code:     p.Code,
		Language: p.Language,
		Output:   p.Output,
		Success:  success,
	}}, nil
}

func (m *Mapper) mapSearch(data string) (braid.Event, error) {
	var p searchPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("wire: failed to parse grok_search: %w", err)
	}
	sources := make([]braid.SearchSource, 0, len(p.Sources))
	for _, s := range p.Sources {
		sources = append(sources, braid.SearchSource{URL: s.URL, Title: s.Title})
	}
	return braid.EventSearchSources{Sources: sources}, nil
}

func (m *Mapper) mapSearchTrace(data string) (braid.Event, error) {
	var p searchTracePayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("wire: failed to parse grok_thinking: %w", err)
	}
	return braid.EventSearchTrace{Trace: braid.SearchTrace{
		Step:       p.Step,
		Thought:    p.Thought,
		Conclusion: p.Conclusion,
	}}, nil
}

// mapEnd never fails: a bare end event still completes the session even
// when the payload is empty or malformed.
func (m *Mapper) mapEnd(data string) braid.Event {
	if data == "" {
		return braid.EventSessionEnd{}
	}
	var p endPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		m.log.Debug().Err(err).Msg("end payload unreadable, completing bare")
		return braid.EventSessionEnd{}
	}
	return braid.EventSessionEnd{
		RAGLogID:     p.RAGLogID,
		InputTokens:  p.InputTokens,
		OutputTokens: p.OutputTokens,
	}
}

// mapError never fails either: an unreadable error payload becomes the
// error message itself.
func (m *Mapper) mapError(data string) braid.Event {
	if data == "" {
		return braid.EventSessionError{Message: "Unknown error"}
	}
	var p errorPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return braid.EventSessionError{Message: data}
	}
	if p.Error == "" {
		p.Error = "Unknown error"
	}
	return braid.EventSessionError{Message: p.Error, Recoverable: p.Recoverable}
}
