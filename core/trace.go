package core

import "time"

// Dispatch kinds recorded by the screen.
const (
	TraceKey    = "key"
	TraceMouse  = "mouse"
	TraceResize = "resize"
	TraceFocus  = "focus"
)

// DispatchTrace records the outcome of one dispatched event.
type DispatchTrace struct {
	Seq      uint64
	Time     time.Time
	Kind     string
	Detail   string
	Consumed bool
	Target   string
}

// DispatchTracer receives a record for every event the screen dispatches.
// The screen calls it from its loop, so implementations must not block.
type DispatchTracer interface {
	TraceDispatch(tr DispatchTrace)
}
