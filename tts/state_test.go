package tts

import "testing"

// TestStatusString tests the String() method for Status.
func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusIdle, "idle"},
		{StatusLoading, "loading"},
		{StatusPlaying, "playing"},
		{StatusError, "error"},
		{Status(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("Status.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestStateMachineTransitions walks every pair of statuses.
func TestStateMachineTransitions(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusIdle, StatusLoading}:    true,
		{StatusLoading, StatusPlaying}: true,
		{StatusLoading, StatusError}:   true,
		{StatusLoading, StatusLoading}: true,
		{StatusPlaying, StatusIdle}:    true,
		{StatusPlaying, StatusError}:   true,
		{StatusPlaying, StatusLoading}: true,
		{StatusError, StatusLoading}:   true,
	}
	all := []Status{StatusIdle, StatusLoading, StatusPlaying, StatusError}

	for _, from := range all {
		for _, to := range all {
			sm := NewStateMachine()
			sm.current = from

			want := allowed[[2]Status{from, to}]
			if got := sm.Transition(to); got != want {
				t.Errorf("%v -> %v = %v, want %v", from, to, got, want)
			}
			if want && sm.Current() != to {
				t.Errorf("%v -> %v left status at %v", from, to, sm.Current())
			}
			if !want && sm.Current() != from {
				t.Errorf("rejected %v -> %v changed status to %v", from, to, sm.Current())
			}
		}
	}
}

// TestStateMachineCallbacks tests enter and exit callbacks.
func TestStateMachineCallbacks(t *testing.T) {
	sm := NewStateMachine()

	var calls []string
	sm.OnExit(StatusIdle, func() { calls = append(calls, "exit idle") })
	sm.OnEnter(StatusLoading, func() { calls = append(calls, "enter loading") })
	sm.OnExit(StatusLoading, func() { calls = append(calls, "exit loading") })

	sm.Transition(StatusLoading)
	sm.Transition(StatusIdle) // rejected, no callbacks

	want := []string{"exit idle", "enter loading"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

// TestSnapshotHelpers tests IsBusy and CanStop.
func TestSnapshotHelpers(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		busy    bool
		canStop bool
	}{
		{"idle", Snapshot{Status: StatusIdle}, false, false},
		{"loading", Snapshot{Status: StatusLoading}, true, false},
		{"playing", Snapshot{Status: StatusPlaying, HasHandle: true}, false, true},
		{"error", Snapshot{Status: StatusError, Message: "x"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.IsBusy(); got != tt.busy {
				t.Errorf("IsBusy() = %v, want %v", got, tt.busy)
			}
			if got := tt.snap.CanStop(); got != tt.canStop {
				t.Errorf("CanStop() = %v, want %v", got, tt.canStop)
			}
		})
	}
}
