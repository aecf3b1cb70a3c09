package braid

import (
	"time"

	"github.com/rs/zerolog"
)

// Reducer folds actions into SessionState. Reduce is pure given the
// injected capabilities (clock, token estimator): same state and action,
// same result. It never panics and never mutates its input: every
// transition returns a fresh value, cloning shared maps and slices
// before changing them.
type Reducer struct {
	now      Clock
	estimate TokenEstimator
	log      zerolog.Logger
}

// ReducerOption configures a Reducer.
type ReducerOption func(*Reducer)

// WithClock injects the time source. Defaults to time.Now.
func WithClock(c Clock) ReducerOption {
	return func(r *Reducer) { r.now = c }
}

// WithTokenEstimator injects the output-token estimator. Defaults to
// EstimateTokens.
func WithTokenEstimator(e TokenEstimator) ReducerOption {
	return func(r *Reducer) { r.estimate = e }
}

// WithLogger injects the logger used for the unrecognized-variant
// safety net. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) ReducerOption {
	return func(r *Reducer) { r.log = l }
}

// NewReducer returns a Reducer with default capabilities.
func NewReducer(opts ...ReducerOption) *Reducer {
	r := &Reducer{
		now:      time.Now,
		estimate: EstimateTokens,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce applies one action and returns the next state. Unrecognized
// variants are logged no-ops: an exhaustiveness safety net, unreachable
// as long as callers dispatch only the sealed action and event sets.
func (r *Reducer) Reduce(s SessionState, a Action) SessionState {
	switch act := a.(type) {
	case ActionConnect:
		// Fresh state for a new attempt; only the retry counter
		// survives so the caller's policy can count attempts.
		next := NewSessionState()
		next.RetryCount = s.RetryCount
		next.Phase = PhaseConnecting
		next.Status = StatusConnecting
		next.StartTime = r.now()
		return next

	case ActionEvent:
		return r.applyEvent(s, act.Event)

	case ActionCancel:
		// Accumulated content is intentionally preserved: a cancelled
		// stream still shows its partial output.
		next := s
		next.Phase = PhaseIdle
		next.Status = StatusIdle
		next.Duration = r.since(s)
		next.ProcessingStatus = ""
		if s.Image.InProgress {
			next.Image.InProgress = false
			next.Image.Stage = ImageStageIdle
		}
		return next

	case ActionReset:
		return NewSessionState()

	case ActionSetInputTokens:
		next := s
		next.InputTokens = act.Tokens
		return next

	case ActionIncrementRetry:
		next := s
		next.RetryCount++
		return next

	default:
		r.log.Warn().Type("action", a).Msg("unrecognized action ignored")
		return s
	}
}

func (r *Reducer) applyEvent(s SessionState, e Event) SessionState {
	switch evt := e.(type) {
	case EventSessionStart:
		next := s
		next.Phase = PhaseStreaming
		next.Status = StatusStreaming
		// Idempotent: a reconnect must not erase elapsed-time
		// accounting from the Connect that preceded it.
		if next.StartTime.IsZero() {
			next.StartTime = r.now()
		}
		return next

	case EventTextDelta:
		next := s
		next.TextContent += evt.Text
		next.Timeline = appendText(s.Timeline, evt.Text)
		next.Phase = PhaseStreaming
		next.Status = StatusStreaming
		// Re-estimated over the full text, not incrementally: O(total)
		// per delta, acceptable at expected stream sizes.
		next.OutputTokens = r.estimate(next.TextContent)
		return next

	case EventThinkingDelta:
		next := s
		next.Timeline = mergeThinking(s.Timeline, evt.Content, evt.Complete)
		next.Phase = PhaseStreaming
		next.Status = StatusStreaming
		return next

	case EventThinkingEnd:
		next := s
		next.Timeline = completeThinking(s.Timeline)
		return next

	case EventToolStart:
		next := s
		exec := ToolExecution{
			ID:        evt.ID,
			Name:      evt.Name,
			Arguments: evt.Arguments,
			Status:    ToolExecuting,
			StartedAt: r.now(),
		}
		tools := cloneTools(s.ActiveTools)
		tools[exec.ID] = exec
		next.ActiveTools = tools
		next.Timeline = appendEntry(s.Timeline, ToolEntry{Execution: exec})
		next.Phase = PhaseToolExecution
		next.Status = StatusStreaming
		return next

	case EventToolEnd:
		exec, ok := r.resolveActive(s, evt.ID, evt.Name)
		if !ok {
			r.log.Debug().Str("tool", evt.Name).Str("id", evt.ID).
				Msg("tool end without matching start ignored")
			return s
		}
		exec.Result = evt.Result
		exec.CompletedAt = r.now()
		if evt.Success {
			exec.Status = ToolCompleted
		} else {
			exec.Status = ToolFailed
		}
		next := s
		tools := cloneTools(s.ActiveTools)
		delete(tools, exec.ID)
		next.ActiveTools = tools
		next.CompletedTools = append(s.CompletedTools, exec)
		next.Timeline = updateToolEntry(s.Timeline, exec.ID, exec)
		if len(tools) == 0 {
			next.Phase = PhaseStreaming
			next.Status = StatusStreaming
		} else {
			next.Phase = PhaseToolExecution
			next.Status = StatusStreaming
		}
		return next

	case EventRetrievalContext:
		next := s
		next.RetrievedNotes = evt.Notes
		if evt.RAGLogID != "" {
			next.RAGLogID = evt.RAGLogID
		}
		return next

	case EventGroundingSources:
		next := s
		next.Grounding = evt.Sources
		return next

	case EventCodeExecution:
		next := s
		res := evt.Result
		next.CodeExecution = &res
		return next

	case EventStatusUpdate:
		next := s
		next.ProcessingStatus = evt.Status
		return next

	case EventSearchSources:
		next := s
		next.SearchResults = evt.Sources
		return next

	case EventSearchTrace:
		next := s
		tr := evt.Trace
		next.SearchTrace = &tr
		return next

	case EventSessionEnd:
		next := s
		next.Phase = PhaseComplete
		next.Status = StatusComplete
		next.Duration = r.since(s)
		next.ProcessingStatus = ""
		// Preserve-if-absent: an end frame without counts must not
		// zero what earlier events established.
		if evt.RAGLogID != "" {
			next.RAGLogID = evt.RAGLogID
		}
		if evt.InputTokens != nil {
			next.InputTokens = *evt.InputTokens
		}
		if evt.OutputTokens != nil {
			next.OutputTokens = *evt.OutputTokens
		}
		return next

	case EventSessionError:
		next := s
		next.Phase = PhaseError
		next.Status = StatusError
		next.Error = &SessionError{Message: evt.Message, Recoverable: evt.Recoverable}
		next.Duration = r.since(s)
		next.ProcessingStatus = ""
		return next

	case EventImageStart:
		next := s
		next.Phase = PhaseImageGeneration
		next.Status = StatusStreaming
		next.Image = ImageGenerationState{
			InProgress: true,
			Stage:      ImageStagePreparing,
			Prompt:     evt.Prompt,
		}
		next.ProcessingStatus = "Starting image generation..."
		return next

	case EventImageProgress:
		next := s
		next.Image.Stage = evt.Stage
		if evt.Progress != nil {
			next.Image.Progress = *evt.Progress
		}
		next.ProcessingStatus = imageStatus(evt.Stage)
		return next

	case EventImageComplete:
		next := s
		next.Phase = PhaseComplete
		next.Status = StatusComplete
		next.Image.InProgress = false
		next.Image.Stage = ImageStageComplete
		next.Image.Progress = 100
		next.Image.Images = evt.Images
		next.Duration = r.since(s)
		next.ProcessingStatus = ""
		return next

	case EventImageError:
		next := s
		next.Phase = PhaseError
		next.Status = StatusError
		next.Image.InProgress = false
		next.Image.Stage = ImageStageError
		next.Image.Error = evt.Message
		// Mirrored to the top-level error so the text-stream and image
		// error displays stay consistent.
		next.Error = &SessionError{Message: evt.Message}
		next.ProcessingStatus = ""
		return next

	default:
		r.log.Warn().Type("event", e).Msg("unrecognized event ignored")
		return s
	}
}

// resolveActive finds the execution a tool-end frame refers to: exact id
// first, then the most recently started active execution with the same
// name. The timeline supplies "most recent"; map iteration order would
// not be deterministic. Some servers omit stable ids on completion.
func (r *Reducer) resolveActive(s SessionState, id, name string) (ToolExecution, bool) {
	if exec, ok := s.ActiveTools[id]; ok {
		return exec, true
	}
	for i := len(s.Timeline) - 1; i >= 0; i-- {
		te, ok := s.Timeline[i].(ToolEntry)
		if !ok {
			continue
		}
		if exec, active := s.ActiveTools[te.Execution.ID]; active && exec.Name == name {
			return exec, true
		}
	}
	return ToolExecution{}, false
}

func (r *Reducer) since(s SessionState) time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return r.now().Sub(s.StartTime)
}

// appendEntry appends to a fresh copy of the timeline.
func appendEntry(t []TimelineEntry, e TimelineEntry) []TimelineEntry {
	out := make([]TimelineEntry, len(t), len(t)+1)
	copy(out, t)
	return append(out, e)
}

// appendText merges a text delta into a trailing TextEntry, or opens a
// new interstitial entry after thinking or tool entries.
func appendText(t []TimelineEntry, text string) []TimelineEntry {
	if n := len(t); n > 0 {
		if te, ok := t[n-1].(TextEntry); ok {
			out := cloneTimeline(t)
			te.Content += text
			out[n-1] = te
			return out
		}
	}
	return appendEntry(t, TextEntry{Content: text})
}

// mergeThinking extends the trailing thinking entry while it is
// unfinished, otherwise starts a new block. The entry's completeness
// always reflects the incoming event, so a block closes exactly when
// the server says it does.
func mergeThinking(t []TimelineEntry, content string, complete bool) []TimelineEntry {
	if n := len(t); n > 0 {
		if th, ok := t[n-1].(ThinkingEntry); ok && !th.Complete {
			out := cloneTimeline(t)
			th.Content += content
			th.Complete = complete
			out[n-1] = th
			return out
		}
	}
	return appendEntry(t, ThinkingEntry{Content: content, Complete: complete})
}

// completeThinking marks the most recent thinking block complete without
// altering its content. No-op when there is none or it already finished.
func completeThinking(t []TimelineEntry) []TimelineEntry {
	for i := len(t) - 1; i >= 0; i-- {
		th, ok := t[i].(ThinkingEntry)
		if !ok {
			continue
		}
		if th.Complete {
			return t
		}
		out := cloneTimeline(t)
		th.Complete = true
		out[i] = th
		return out
	}
	return t
}

// updateToolEntry rewrites the timeline entry for a finished execution.
func updateToolEntry(t []TimelineEntry, id string, exec ToolExecution) []TimelineEntry {
	for i := len(t) - 1; i >= 0; i-- {
		te, ok := t[i].(ToolEntry)
		if !ok || te.Execution.ID != id {
			continue
		}
		out := cloneTimeline(t)
		out[i] = ToolEntry{Execution: exec}
		return out
	}
	return t
}

// imageStatus maps an image-generation stage to the processing hint the
// UI shows while it runs.
func imageStatus(stage ImageStage) string {
	switch stage {
	case ImageStagePreparing:
		return "Preparing image generation..."
	case ImageStageGenerating:
		return "Generating image..."
	case ImageStageProcessing:
		return "Processing image..."
	default:
		return "Generating..."
	}
}
