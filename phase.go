package braid

// Phase is the state-machine position of a stream session.
//
//	idle → connecting → streaming ⇄ tool-execution
//	                    streaming ⇄ image-generation → {complete | error}
//
// complete and error are terminal until the next Connect or Reset.
// finalizing is a declared member of the protocol's phase set; no current
// transition enters it.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseConnecting      Phase = "connecting"
	PhaseStreaming       Phase = "streaming"
	PhaseToolExecution   Phase = "tool-execution"
	PhaseImageGeneration Phase = "image-generation"
	PhaseFinalizing      Phase = "finalizing"
	PhaseComplete        Phase = "complete"
	PhaseError           Phase = "error"
)

// Terminal reports whether the phase ends the session.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseError
}

// Status is the coarser UI-facing view of a Phase: the sub-states of an
// active stream (tool execution, image generation, finalizing) all read
// as streaming.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusConnecting Status = "connecting"
	StatusStreaming  Status = "streaming"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// statusFor derives the UI status from a phase.
func statusFor(p Phase) Status {
	switch p {
	case PhaseIdle:
		return StatusIdle
	case PhaseConnecting:
		return StatusConnecting
	case PhaseComplete:
		return StatusComplete
	case PhaseError:
		return StatusError
	default:
		return StatusStreaming
	}
}

// ToolStatus is the lifecycle position of a tool execution.
type ToolStatus string

const (
	ToolExecuting ToolStatus = "executing"
	ToolCompleted ToolStatus = "completed"
	ToolFailed    ToolStatus = "failed"
)

// ImageStage is the position of the image-generation sub-machine.
type ImageStage string

const (
	ImageStageIdle       ImageStage = "idle"
	ImageStagePreparing  ImageStage = "preparing"
	ImageStageGenerating ImageStage = "generating"
	ImageStageProcessing ImageStage = "processing"
	ImageStageComplete   ImageStage = "complete"
	ImageStageError      ImageStage = "error"
)
