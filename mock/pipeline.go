// Package mock provides test doubles for braid interfaces using function fields.
package mock

import "github.com/jcalloway/braid"

// Interface compliance check.
var _ braid.Pipeline = (*Pipeline)(nil)

// Pipeline is a test double for braid.Pipeline.
// Set the function fields for the methods you need.
type Pipeline struct {
	FeedFn     func(chunk []byte) []braid.Event
	FlushFn    func() []braid.Event
	DispatchFn func(a braid.Action) braid.SessionState
	StateFn    func() braid.SessionState
}

// Feed delegates to FeedFn.
func (p *Pipeline) Feed(chunk []byte) []braid.Event {
	return p.FeedFn(chunk)
}

// Flush delegates to FlushFn.
func (p *Pipeline) Flush() []braid.Event {
	return p.FlushFn()
}

// Dispatch delegates to DispatchFn.
func (p *Pipeline) Dispatch(a braid.Action) braid.SessionState {
	return p.DispatchFn(a)
}

// State delegates to StateFn.
func (p *Pipeline) State() braid.SessionState {
	return p.StateFn()
}
