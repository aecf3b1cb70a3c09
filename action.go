package braid

// Action is a sealed interface over everything the reducer accepts: wire
// events wrapped in ActionEvent plus the caller-initiated transitions.
// Actions other than ActionEvent never depend on wire data.
// The unexported marker method prevents external implementations.
type Action interface {
	action()
}

// ActionConnect starts a new streaming attempt. The reducer resets all
// content fields but preserves RetryCount, so a retry policy can count
// attempts across reconnects.
type ActionConnect struct{}

func (ActionConnect) action() {}

// ActionEvent applies one protocol event.
type ActionEvent struct {
	Event Event
}

func (ActionEvent) action() {}

// ActionCancel stops the session without discarding accumulated content.
// Stopping byte delivery is the caller's job; late events applied after
// Cancel are still processed normally.
type ActionCancel struct{}

func (ActionCancel) action() {}

// ActionReset returns the session to its initial state, RetryCount
// included.
type ActionReset struct{}

func (ActionReset) action() {}

// ActionSetInputTokens records the caller's input token count.
type ActionSetInputTokens struct {
	Tokens int
}

func (ActionSetInputTokens) action() {}

// ActionIncrementRetry bumps RetryCount. The retry policy itself lives
// with the caller.
type ActionIncrementRetry struct{}

func (ActionIncrementRetry) action() {}

// Interface compliance checks.
var (
	_ Action = ActionConnect{}
	_ Action = ActionEvent{}
	_ Action = ActionCancel{}
	_ Action = ActionReset{}
	_ Action = ActionSetInputTokens{}
	_ Action = ActionIncrementRetry{}
)
