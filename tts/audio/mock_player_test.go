package audio

import (
	"errors"
	"testing"
	"time"
)

func TestMockPlayer(t *testing.T) {
	m := NewMockPlayer()
	clip := testClip()

	var ended, failed int
	events := Events{
		OnEnd:   func() { ended++ },
		OnError: func(error) { failed++ },
	}

	h, err := m.Play(clip, events)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if m.Plays() != 1 || m.Last() != h {
		t.Fatalf("Plays = %d, Last = %v", m.Plays(), m.Last())
	}
	if m.Last().Clip() != clip {
		t.Error("handle does not keep the played clip")
	}

	m.Last().Finish()
	m.Last().Finish()
	m.Last().Fail(errors.New("late"))
	if ended != 1 || failed != 0 {
		t.Errorf("ended/failed = %d/%d, want 1/0", ended, failed)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done not closed after Finish")
	}
}

func TestMockHandleRelease(t *testing.T) {
	m := NewMockPlayer()

	var calls int
	h, _ := m.Play(testClip(), Events{
		OnEnd:   func() { calls++ },
		OnError: func(error) { calls++ },
	})

	h.Release()
	h.Release()
	m.Last().Finish()

	if calls != 0 {
		t.Errorf("callbacks fired %d times after release", calls)
	}
	if got := m.Last().ReleaseCount(); got != 2 {
		t.Errorf("ReleaseCount = %d, want 2", got)
	}
	if !m.Last().Released() {
		t.Error("Released = false")
	}
}

func TestMockPlayerErrors(t *testing.T) {
	m := NewMockPlayer()

	if _, err := m.Play(nil, Events{}); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("error = %v, want ErrEmptyAudio", err)
	}

	playErr := errors.New("device busy")
	m.SetPlayErr(playErr)
	if _, err := m.Play(testClip(), Events{}); !errors.Is(err, playErr) {
		t.Errorf("error = %v, want %v", err, playErr)
	}
	if m.Plays() != 0 {
		t.Errorf("Plays = %d, want 0", m.Plays())
	}
}

func TestMockPlayerAutoFinish(t *testing.T) {
	m := NewMockPlayer()
	m.AutoFinish = true

	ended := make(chan struct{})
	h, err := m.Play(testClip(), Events{OnEnd: func() { close(ended) }})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-ended:
	case <-time.After(time.Second):
		t.Fatal("AutoFinish did not end playback")
	}
	if h.Duration() <= 0 {
		t.Errorf("Duration = %v", h.Duration())
	}
}
