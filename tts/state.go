package tts

// Status is the session status shown to the user.
type Status int

const (
	// StatusIdle indicates nothing is being generated or played.
	StatusIdle Status = iota
	// StatusLoading indicates a synthesis request is in flight.
	StatusLoading
	// StatusPlaying indicates audio is playing.
	StatusPlaying
	// StatusError indicates the last attempt failed.
	StatusError
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Status     Status
	Message    string // error message, set only with StatusError
	Generation uint64 // number of requests issued so far
	HasHandle  bool   // an audio handle is held
}

// IsBusy reports whether a request is in flight.
func (s Snapshot) IsBusy() bool {
	return s.Status == StatusLoading
}

// CanStop reports whether Stop would have an effect.
func (s Snapshot) CanStop() bool {
	return s.Status == StatusPlaying && s.HasHandle
}

// StateMachine manages status transitions.
type StateMachine struct {
	current     Status
	transitions map[Status][]Status
	onEnter     map[Status]func()
	onExit      map[Status]func()
}

// NewStateMachine creates a new state machine with valid transitions.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StatusIdle,
		transitions: map[Status][]Status{
			StatusIdle:    {StatusLoading},
			StatusLoading: {StatusPlaying, StatusError, StatusLoading},
			StatusPlaying: {StatusIdle, StatusError, StatusLoading},
			StatusError:   {StatusLoading},
		},
		onEnter: make(map[Status]func()),
		onExit:  make(map[Status]func()),
	}
}

// CanTransition reports whether moving to the given status is allowed.
func (sm *StateMachine) CanTransition(to Status) bool {
	for _, s := range sm.transitions[sm.current] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition attempts to transition to the specified status.
func (sm *StateMachine) Transition(to Status) bool {
	if !sm.CanTransition(to) {
		return false
	}

	if exitFn, ok := sm.onExit[sm.current]; ok && exitFn != nil {
		exitFn()
	}

	sm.current = to

	if enterFn, ok := sm.onEnter[to]; ok && enterFn != nil {
		enterFn()
	}

	return true
}

// Current returns the current status.
func (sm *StateMachine) Current() Status {
	return sm.current
}

// OnEnter registers a callback for entering a status.
func (sm *StateMachine) OnEnter(status Status, fn func()) {
	sm.onEnter[status] = fn
}

// OnExit registers a callback for exiting a status.
func (sm *StateMachine) OnExit(status Status, fn func()) {
	sm.onExit[status] = fn
}
