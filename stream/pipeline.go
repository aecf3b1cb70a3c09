// Package stream composes the frame decoder, event mapper and session
// reducer into the pipeline a transport feeds. Bytes go in, an
// immutable SessionState snapshot comes out; everything in between
// stays in frame-arrival order.
package stream

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/jcalloway/braid"
	"github.com/jcalloway/braid/sse"
	"github.com/jcalloway/braid/wire"
)

// Pipeline implements [braid.Pipeline]. Feed, Flush and Dispatch must
// come from a single goroutine so events apply in arrival order, while
// State may be read concurrently; the lock only guards the snapshot
// swap.
type Pipeline struct {
	dec     *sse.Decoder
	mapper  *wire.Mapper
	reducer *braid.Reducer

	onChange func(braid.SessionState)

	mu    sync.RWMutex
	state braid.SessionState
}

// Interface compliance check.
var _ braid.Pipeline = (*Pipeline)(nil)

type config struct {
	idGen        braid.IDGenerator
	clock        braid.Clock
	estimator    braid.TokenEstimator
	log          zerolog.Logger
	onParseError wire.ParseErrorHandler
	onChange     func(braid.SessionState)
}

// Option configures a Pipeline.
type Option func(*config)

// WithIDGenerator injects the generator for synthesized tool ids.
func WithIDGenerator(g braid.IDGenerator) Option {
	return func(c *config) { c.idGen = g }
}

// WithClock injects the reducer's time source.
func WithClock(clock braid.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithTokenEstimator injects the output-token estimator.
func WithTokenEstimator(e braid.TokenEstimator) Option {
	return func(c *config) { c.estimator = e }
}

// WithLogger injects the logger shared by the mapper and reducer.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithParseErrorHandler sets the mapper's parse-failure side channel.
func WithParseErrorHandler(h wire.ParseErrorHandler) Option {
	return func(c *config) { c.onParseError = h }
}

// WithOnChange registers a callback fired after every state transition
// with the new snapshot. It runs on the feeding goroutine; keep it
// cheap or hand off.
func WithOnChange(fn func(braid.SessionState)) Option {
	return func(c *config) { c.onChange = fn }
}

// New returns a Pipeline in the initial idle state.
func New(opts ...Option) *Pipeline {
	c := config{
		idGen:     braid.NewToolID,
		clock:     nil,
		estimator: nil,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&c)
	}

	mapperOpts := []wire.Option{
		wire.WithIDGenerator(c.idGen),
		wire.WithLogger(c.log.With().Str("component", "wire").Logger()),
	}
	if c.onParseError != nil {
		mapperOpts = append(mapperOpts, wire.WithParseErrorHandler(c.onParseError))
	}

	reducerOpts := []braid.ReducerOption{
		braid.WithLogger(c.log.With().Str("component", "reduce").Logger()),
	}
	if c.clock != nil {
		reducerOpts = append(reducerOpts, braid.WithClock(c.clock))
	}
	if c.estimator != nil {
		reducerOpts = append(reducerOpts, braid.WithTokenEstimator(c.estimator))
	}

	return &Pipeline{
		dec:      sse.NewDecoder(),
		mapper:   wire.NewMapper(mapperOpts...),
		reducer:  braid.NewReducer(reducerOpts...),
		onChange: c.onChange,
		state:    braid.NewSessionState(),
	}
}

// Feed decodes one transport chunk, applies every completed frame's
// event in order, and returns the events it applied.
func (p *Pipeline) Feed(chunk []byte) []braid.Event {
	return p.apply(p.dec.Feed(chunk))
}

// Flush drains the decoder at end-of-stream and applies the final
// frame's event, if any.
func (p *Pipeline) Flush() []braid.Event {
	return p.apply(p.dec.Flush())
}

// Dispatch applies one action and returns the new state.
func (p *Pipeline) Dispatch(a braid.Action) braid.SessionState {
	p.mu.Lock()
	next := p.reducer.Reduce(p.state, a)
	p.state = next
	p.mu.Unlock()
	if p.onChange != nil {
		p.onChange(next)
	}
	return next
}

// State returns the current snapshot. Snapshots are immutable; holding
// one across later transitions is safe.
func (p *Pipeline) State() braid.SessionState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Reset clears the decoder's buffers and returns the session to its
// initial state, ready for a fresh transcript.
func (p *Pipeline) Reset() braid.SessionState {
	p.dec.Reset()
	return p.Dispatch(braid.ActionReset{})
}

func (p *Pipeline) apply(frames []braid.RawFrame) []braid.Event {
	var events []braid.Event
	for _, f := range frames {
		evt := p.mapper.Map(f)
		if evt == nil {
			continue
		}
		events = append(events, evt)
		p.Dispatch(braid.ActionEvent{Event: evt})
	}
	return events
}
