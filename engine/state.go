package engine

// State is the engine's position in its lifecycle.
type State int

const (
	// Uninitialized is the state immediately after NewEngine, before the
	// first InitializeTimeIteration call.
	Uninitialized State = iota
	// Iterating is the normal operating state: IterateTime/UpdateState
	// may be called.
	Iterating
	// AtEnd is entered by the first IterateTime call after the final
	// generation has been yielded (the call that returns ok=false).
	AtEnd
	// ErrorState is entered on any runtime invariant violation; sticky
	// until the next InitializeTimeIteration call.
	ErrorState
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Iterating:
		return "Iterating"
	case AtEnd:
		return "AtEnd"
	case ErrorState:
		return "ErrorState"
	default:
		return "UnknownState"
	}
}
