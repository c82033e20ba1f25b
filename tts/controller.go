// Package tts implements the speech request controller: it sends the user's
// text to the synthesis service, plays the returned audio and tracks the
// idle/loading/playing/error status of the session.
package tts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voice-studio/internal/ttypes"
	"github.com/dgnsrekt/voice-studio/tts/audio"
)

// ControllerConfig holds configuration for the controller.
type ControllerConfig struct {
	Voice   string        // voice sent with every request
	Speed   float64       // speech rate sent with every request
	Timeout time.Duration // per-request timeout, 0 disables it
}

// DefaultControllerConfig returns the default controller configuration.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		Voice:   ttypes.DefaultVoice,
		Speed:   ttypes.DefaultSpeed,
		Timeout: 30 * time.Second,
	}
}

// Controller owns the session status and the single active audio handle.
// It is safe for concurrent use.
type Controller struct {
	synth  Synthesizer
	player AudioPlayer
	config ControllerConfig

	mu         sync.Mutex
	machine    *StateMachine
	message    string
	handle     audio.Handle
	generation uint64
	cancel     context.CancelFunc
	closed     bool

	changes chan struct{}
}

// NewController creates a controller that synthesizes with synth and plays
// through player.
func NewController(synth Synthesizer, player AudioPlayer, config ControllerConfig) *Controller {
	if config.Voice == "" {
		config.Voice = ttypes.DefaultVoice
	}
	if config.Speed <= 0 {
		config.Speed = ttypes.DefaultSpeed
	}

	c := &Controller{
		synth:   synth,
		player:  player,
		config:  config,
		machine: NewStateMachine(),
		changes: make(chan struct{}, 1),
	}
	c.machine.OnExit(StatusPlaying, c.releaseLocked)
	c.machine.OnExit(StatusError, func() { c.message = "" })
	return c
}

// GenerateAndPlay synthesizes text and starts playing it. Text that is empty
// after trimming is ignored. Any active playback is released before the
// request is sent.
//
// On return status is Playing (nil error) or Error (*SpeechError), unless a
// newer call superseded this one, in which case ErrSuperseded is returned
// and the status belongs to the newer call.
func (c *Controller) GenerateAndPlay(ctx context.Context, text string) error {
	_, err := c.generateAndPlay(ctx, text)
	return err
}

// generateAndPlay is GenerateAndPlay that also reports the generation the
// call ran as, 0 when no request was made.
func (c *Controller) generateAndPlay(ctx context.Context, text string) (uint64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, ErrControllerClosed
	}

	if c.machine.Current() == StatusPlaying {
		c.transitionLocked(StatusIdle)
	}
	if c.cancel != nil {
		c.cancel()
	}

	c.generation++
	gen := c.generation
	c.transitionLocked(StatusLoading)

	var reqCtx context.Context
	var cancel context.CancelFunc
	if c.config.Timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.config.Timeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}
	c.cancel = cancel
	c.notifyLocked()
	c.mu.Unlock()
	defer cancel()

	log.Debug("Generating speech", "generation", gen, "textLength", len([]rune(text)))

	req := ttypes.SpeechRequest{Text: text, Voice: c.config.Voice, Speed: c.config.Speed}
	data, err := c.synth.Synthesize(reqCtx, req)
	if err != nil {
		return gen, c.fail(gen, classify(err))
	}

	clip, err := audio.Decode(data)
	if err != nil {
		return gen, c.fail(gen, &SpeechError{Kind: KindPlayback, Err: err})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.closed {
		log.Debug("Discarding superseded speech", "generation", gen, "current", c.generation)
		return gen, ErrSuperseded
	}
	c.cancel = nil

	handle, err := c.player.Play(clip, audio.Events{
		OnEnd:   func() { c.playbackEnded(gen) },
		OnError: func(err error) { c.playbackFailed(gen, err) },
	})
	if err != nil {
		serr := &SpeechError{Kind: KindPlayback, Err: err}
		c.failLocked(serr)
		return gen, serr
	}

	c.handle = handle
	c.transitionLocked(StatusPlaying)
	c.notifyLocked()

	log.Debug("Speech playing", "generation", gen, "duration", handle.Duration())
	return gen, nil
}

// Stop halts and releases the active playback, moving Playing to Idle.
// It is a no-op in any other status.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.Current() != StatusPlaying {
		return
	}
	c.transitionLocked(StatusIdle)
	c.notifyLocked()
	log.Debug("Playback stopped by user", "generation", c.generation)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Changes returns a channel that receives a token after state changes.
// Tokens coalesce: a receiver should re-read Snapshot rather than count
// them. The channel is closed by Close.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// Close releases any playback, cancels the in-flight request and stops
// notifications. The controller cannot be used afterwards.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.releaseLocked()
	close(c.changes)
	return nil
}

func (c *Controller) playbackEnded(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.machine.Current() != StatusPlaying {
		return
	}
	c.transitionLocked(StatusIdle)
	c.notifyLocked()
	log.Debug("Playback finished", "generation", gen)
}

func (c *Controller) playbackFailed(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.machine.Current() != StatusPlaying {
		return
	}
	c.failLocked(&SpeechError{Kind: KindPlayback, Err: err})
}

// fail records err for the request gen, unless it was superseded.
func (c *Controller) fail(gen uint64, err *SpeechError) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.closed {
		log.Debug("Ignoring failure of superseded request", "generation", gen, "error", err.Err)
		return ErrSuperseded
	}
	c.cancel = nil
	c.failLocked(err)
	return err
}

func (c *Controller) failLocked(err *SpeechError) {
	c.transitionLocked(StatusError)
	c.message = err.Error()
	c.notifyLocked()
	log.Debug("Speech failed",
		"generation", c.generation,
		"kind", err.Kind,
		"error", err.Err)
}

func (c *Controller) transitionLocked(to Status) {
	from := c.machine.Current()
	if !c.machine.Transition(to) {
		log.Error("Invalid status transition", "from", from, "to", to)
		return
	}
	log.Debug("Status changed", "from", from, "to", to)
}

// releaseLocked drops the active handle. Release runs without waiting for
// the playback monitor.
func (c *Controller) releaseLocked() {
	if c.handle == nil {
		return
	}
	c.handle.Release()
	c.handle = nil
}

func (c *Controller) notifyLocked() {
	if c.closed {
		return
	}
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Status:     c.machine.Current(),
		Message:    c.message,
		Generation: c.generation,
		HasHandle:  c.handle != nil,
	}
}
