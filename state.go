package speechcortex

// State represents the lifecycle state of a realtime session.
type State string

const (
	// StateIdle is the initial state before Start is called.
	StateIdle State = "Idle"

	// StateConnecting indicates the client is establishing a WebSocket connection.
	StateConnecting State = "Connecting"

	// StateOpen indicates the session is established and audio may be sent.
	StateOpen State = "Open"

	// StateClosing indicates Finish was called and the session is shutting down.
	StateClosing State = "Closing"

	// StateClosed indicates the session ended and the Close event was emitted.
	StateClosed State = "Closed"

	// StateFailed indicates the connection could not be established.
	StateFailed State = "Failed"
)

// IsActive returns true if the state indicates a live session.
func (s State) IsActive() bool {
	switch s {
	case StateConnecting, StateOpen, StateClosing:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the state cannot transition further.
// A terminal session is not reusable; create a new one to reconnect.
func (s State) IsTerminal() bool {
	switch s {
	case StateClosed, StateFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
