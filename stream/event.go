package stream

// State is the lifecycle state of a sequence.
type State int32

const (
	// StateIdle means Subscribe has not been called; no request has been issued.
	StateIdle State = iota
	// StateStreaming means the request is in flight and objects may be emitted.
	StateStreaming
	// StateCompleted means the stream ended cleanly after a Done event.
	StateCompleted
	// StateFailed means the stream ended with a terminal error event.
	StateFailed
	// StateCancelled means the subscriber cancelled; no terminal event is emitted.
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is absorbing: once reached, no further
// transitions occur and no further events are delivered.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// Event is one delivery on a sequence's channel: a decoded object, a terminal
// error, or a terminal completion marker. Exactly one of the three is set.
type Event[T any] struct {
	// Object is the decoded chunk for emission events.
	Object T
	// Err is the terminal error for failure events.
	Err error
	// Done marks clean completion. Always the last event when set.
	Done bool
}

// IsError reports whether this is a terminal error event.
func (e Event[T]) IsError() bool { return e.Err != nil }

// IsDone reports whether this is the terminal completion event.
func (e Event[T]) IsDone() bool { return e.Done }
