package supervisor

// State is the lifecycle phase of the supervised server process.
//
// Transitions only move forward: a state is never revisited once left. The
// one exception is Stopped, which can be reached from any non-terminal state
// by forced termination.
type State int

const (
	NotStarted State = iota
	Starting
	Ready
	FailedToStart
	Terminating
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Starting:
		return "Starting"
	case Ready:
		return "Ready"
	case FailedToStart:
		return "FailedToStart"
	case Terminating:
		return "Terminating"
	case Stopped:
		return "Stopped"
	}
	return "unknown"
}

// Terminal reports whether no further transitions are possible from s.
func (s State) Terminal() bool {
	return s == FailedToStart || s == Stopped
}

func canTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == Stopped {
		return true
	}
	switch from {
	case NotStarted:
		return to == Starting
	case Starting:
		return to == Ready || to == FailedToStart
	case Ready:
		return to == Terminating
	}
	return false
}
