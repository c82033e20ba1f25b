package audio

import (
	"sync"
	"time"
)

// MockPlayer records Play calls without touching audio hardware. Tests drive
// completion through the returned MockHandle.
type MockPlayer struct {
	mu      sync.Mutex
	handles []*MockHandle

	// PlayErr is returned by Play when set.
	PlayErr error

	// AutoFinish completes each playback right after Play returns.
	AutoFinish bool
}

// NewMockPlayer creates a new mock player.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

// Play records clip and returns a handle that stays active until Finish,
// Fail or Release is called.
func (m *MockPlayer) Play(clip *Clip, events Events) (Handle, error) {
	m.mu.Lock()
	if m.PlayErr != nil {
		err := m.PlayErr
		m.mu.Unlock()
		return nil, err
	}
	if clip == nil || len(clip.PCM) == 0 {
		m.mu.Unlock()
		return nil, ErrEmptyAudio
	}

	h := &MockHandle{
		clip:   clip,
		events: events,
		done:   make(chan struct{}),
	}
	m.handles = append(m.handles, h)
	auto := m.AutoFinish
	m.mu.Unlock()

	if auto {
		go h.Finish()
	}
	return h, nil
}

// Plays returns the number of successful Play calls.
func (m *MockPlayer) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

// Handle returns the handle of the i-th Play call.
func (m *MockPlayer) Handle(i int) *MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.handles) {
		return nil
	}
	return m.handles[i]
}

// Last returns the handle of the most recent Play call.
func (m *MockPlayer) Last() *MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.handles) == 0 {
		return nil
	}
	return m.handles[len(m.handles)-1]
}

// SetPlayErr sets the error returned by subsequent Play calls.
func (m *MockPlayer) SetPlayErr(err error) {
	m.mu.Lock()
	m.PlayErr = err
	m.mu.Unlock()
}

// MockHandle is the Handle returned by MockPlayer.
type MockHandle struct {
	mu       sync.Mutex
	clip     *Clip
	events   Events
	finished bool
	released int
	done     chan struct{}
}

// Clip returns the clip passed to Play.
func (h *MockHandle) Clip() *Clip {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clip
}

// Finish simulates the end of playback. It does nothing once the handle
// was released or already completed.
func (h *MockHandle) Finish() {
	if h.complete() {
		h.events.end()
	}
}

// Fail simulates a device error during playback.
func (h *MockHandle) Fail(err error) {
	if h.complete() {
		h.events.fail(err)
	}
}

func (h *MockHandle) complete() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished || h.released > 0 {
		return false
	}
	h.finished = true
	close(h.done)
	return true
}

// Release implements Handle.
func (h *MockHandle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released++
	if h.released == 1 && !h.finished {
		close(h.done)
	}
}

// Released reports whether Release was called.
func (h *MockHandle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released > 0
}

// ReleaseCount returns how many times Release was called.
func (h *MockHandle) ReleaseCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Done implements Handle.
func (h *MockHandle) Done() <-chan struct{} { return h.done }

// Duration implements Handle.
func (h *MockHandle) Duration() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clip == nil {
		return 0
	}
	return h.clip.Duration()
}
