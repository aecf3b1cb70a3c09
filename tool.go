package braid

import "time"

// ToolExecution is one server-side tool invocation observed through the
// stream. Created on tool-start with Status ToolExecuting; promoted to
// ToolCompleted or ToolFailed on tool-end. Arguments and Result are
// opaque strings formatted by the server; this client only displays
// them.
type ToolExecution struct {
	ID          string
	Name        string
	Arguments   string
	Result      string
	Status      ToolStatus
	StartedAt   time.Time
	CompletedAt time.Time
}

// Done reports whether the execution reached a terminal status.
func (t ToolExecution) Done() bool {
	return t.Status == ToolCompleted || t.Status == ToolFailed
}
