package tts

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages for Bubble Tea communication between the controller and the UI.

// StatusChangedMsg carries the controller state after a change.
type StatusChangedMsg struct {
	Snapshot  Snapshot
	Timestamp time.Time
}

// GenerateDoneMsg reports the outcome of a GenerateAndPlay call.
type GenerateDoneMsg struct {
	Generation uint64 // request number of this call, 0 for blank text
	Err        error // nil, *SpeechError or ErrSuperseded
}

// Superseded reports whether a newer request replaced this one.
func (m GenerateDoneMsg) Superseded() bool {
	return errors.Is(m.Err, ErrSuperseded)
}

// StoppedMsg indicates playback was stopped by the user.
type StoppedMsg struct{}

// ControllerClosedMsg indicates the controller stopped sending changes.
type ControllerClosedMsg struct{}

// WaitForChangeCmd blocks until the controller reports a change and
// returns the new state. Re-issue it after every StatusChangedMsg.
func WaitForChangeCmd(c *Controller) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-c.Changes(); !ok {
			return ControllerClosedMsg{}
		}
		return StatusChangedMsg{
			Snapshot:  c.Snapshot(),
			Timestamp: time.Now(),
		}
	}
}

// GenerateCmd runs GenerateAndPlay off the UI goroutine.
func GenerateCmd(ctx context.Context, c *Controller, text string) tea.Cmd {
	return func() tea.Msg {
		gen, err := c.generateAndPlay(ctx, text)
		return GenerateDoneMsg{
			Generation: gen,
			Err:        err,
		}
	}
}

// StopCmd stops playback off the UI goroutine.
func StopCmd(c *Controller) tea.Cmd {
	return func() tea.Msg {
		c.Stop()
		return StoppedMsg{}
	}
}
