package core

// Callback is follow-up work produced while handling an event. The screen
// runs callbacks after dispatch finishes, so they may safely call back
// into the screen.
type Callback func()

// EventResult is the outcome of offering an event to a widget.
type EventResult struct {
	// Consumed marks the event as absorbed; the screen stops offering it
	// to fallback handlers.
	Consumed bool
	// Callback, when non-nil, is run by the screen once dispatch completes.
	Callback Callback
}

// Ignored declines an event so the screen can offer it elsewhere.
func Ignored() EventResult { return EventResult{} }

// Consumed reports an event as handled with no follow-up.
func Consumed() EventResult { return EventResult{Consumed: true} }

// ConsumedWith reports an event as handled and schedules cb to run once
// dispatch completes.
func ConsumedWith(cb Callback) EventResult {
	return EventResult{Consumed: true, Callback: cb}
}
