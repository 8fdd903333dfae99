package stream

// State is the lifecycle position of a Session.
type State int32

const (
	StateConnecting State = iota
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is what a single tick achieved.
type Outcome int

const (
	// OutcomeDelivered means the current window was pushed.
	OutcomeDelivered Outcome = iota
	// OutcomeDegraded means no backing file was resolved and the fallback message was pushed.
	OutcomeDegraded
	// OutcomeTerminated means the session must close. TickResult.Err says why.
	OutcomeTerminated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// TickResult carries the outcome of one tick. Err is a coded error
// (TRANSPORT_ERROR or INTERNAL_ERROR) when Outcome is OutcomeTerminated.
type TickResult struct {
	Outcome Outcome
	Err     error
}
