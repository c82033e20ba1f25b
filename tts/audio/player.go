package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// ErrPlayerClosed is returned by Play after Close.
var ErrPlayerClosed = errors.New("player is closed")

// pollInterval is how often an active handle checks whether the device
// drained its buffer.
const pollInterval = 10 * time.Millisecond

// Events are the completion callbacks of one playback. At most one of them
// fires, and neither fires after the handle was released.
type Events struct {
	OnEnd   func()
	OnError func(error)
}

func (e Events) end() {
	if e.OnEnd != nil {
		e.OnEnd()
	}
}

func (e Events) fail(err error) {
	if e.OnError != nil {
		e.OnError(err)
	}
}

// Handle controls one playback started by Play.
type Handle interface {
	// Release stops playback and frees the decoded audio. It is safe to call
	// more than once and from any goroutine.
	Release()

	// Done is closed once playback ended, failed or was released.
	Done() <-chan struct{}

	// Duration is the length of the clip being played.
	Duration() time.Duration
}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	SampleRate int           // output sample rate of the device
	Channels   int           // 1 = mono, 2 = stereo
	Volume     float64       // 0.0 to 1.0
	BufferSize time.Duration // device buffer, 0 lets the driver choose
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 22050,
		Channels:   1,
		Volume:     1.0,
	}
}

func validateConfig(config PlayerConfig) error {
	if config.SampleRate < 8000 || config.SampleRate > 192000 {
		return fmt.Errorf("sample rate must be between 8000 and 192000 Hz, got %d", config.SampleRate)
	}
	if config.Channels != 1 && config.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", config.Channels)
	}
	if config.Volume < 0 || config.Volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %.2f", config.Volume)
	}
	if config.BufferSize < 0 {
		return errors.New("buffer size must not be negative")
	}
	return nil
}

// device is the output the player writes PCM to.
type device interface {
	NewPlayer(r io.Reader) devicePlayer
	SampleRate() int
	ChannelCount() int
}

// devicePlayer is a single stream on a device. *oto.Player satisfies it.
type devicePlayer interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	Err() error
	Close() error
}

// Player plays clips on the system audio device. The device is opened on
// the first Play, so constructing a Player never touches audio hardware.
type Player struct {
	config PlayerConfig
	open   func(PlayerConfig) (device, error)

	mu      sync.Mutex
	dev     device
	closed  bool
	handles map[*playback]struct{}
}

// NewPlayer creates a new audio player with the specified configuration.
func NewPlayer(config PlayerConfig) (*Player, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return newPlayer(config, openDevice), nil
}

func newPlayer(config PlayerConfig, open func(PlayerConfig) (device, error)) *Player {
	return &Player{
		config:  config,
		open:    open,
		handles: make(map[*playback]struct{}),
	}
}

// Play starts playing clip and returns its handle. events fire from a
// background goroutine without any player lock held.
func (p *Player) Play(clip *Clip, events Events) (Handle, error) {
	if clip == nil || len(clip.PCM) == 0 {
		return nil, ErrEmptyAudio
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPlayerClosed
	}

	if p.dev == nil {
		dev, err := p.open(p.config)
		if err != nil {
			return nil, fmt.Errorf("unable to open audio device: %w", err)
		}
		p.dev = dev
	}

	clip = clip.Convert(p.dev.SampleRate(), p.dev.ChannelCount())

	h := &playback{
		owner:    p,
		clip:     clip,
		events:   events,
		duration: clip.Duration(),
		done:     make(chan struct{}),
	}
	h.player = p.dev.NewPlayer(bytes.NewReader(clip.PCM))
	if h.player == nil {
		return nil, errors.New("unable to create device player")
	}
	h.player.SetVolume(p.config.Volume)
	p.handles[h] = struct{}{}

	log.Debug("Playback started",
		"duration", h.duration,
		"sampleRate", clip.SampleRate,
		"channels", clip.Channels)

	h.player.Play()
	go h.monitor(pollInterval)

	return h, nil
}

// Active returns the number of playbacks that have not finished.
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handles)
}

// Close releases every active playback. Later calls to Play fail.
func (p *Player) Close() error {
	p.mu.Lock()
	p.closed = true
	handles := make([]*playback, 0, len(p.handles))
	for h := range p.handles {
		handles = append(handles, h)
	}
	p.mu.Unlock()

	for _, h := range handles {
		h.Release()
	}
	return nil
}

func (p *Player) forget(h *playback) {
	p.mu.Lock()
	delete(p.handles, h)
	p.mu.Unlock()
}

const (
	playbackActive int32 = iota
	playbackFinished
	playbackReleased
)

// playback is the Handle returned by Player.Play.
type playback struct {
	owner    *Player
	player   devicePlayer
	events   Events
	duration time.Duration

	// clip keeps the PCM alive while the device reads from it.
	clipMu sync.Mutex
	clip   *Clip

	state     atomic.Int32
	done      chan struct{}
	closeOnce sync.Once
}

func (h *playback) Done() <-chan struct{} { return h.done }

func (h *playback) Duration() time.Duration { return h.duration }

func (h *playback) Release() {
	if !h.state.CompareAndSwap(playbackActive, playbackReleased) {
		return
	}
	h.player.Pause()
	h.cleanup()
	log.Debug("Playback released")
}

func (h *playback) monitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
		}

		if err := h.player.Err(); err != nil {
			if h.state.CompareAndSwap(playbackActive, playbackFinished) {
				h.cleanup()
				log.Debug("Playback failed", "error", err)
				h.events.fail(err)
			}
			return
		}

		if !h.player.IsPlaying() {
			if h.state.CompareAndSwap(playbackActive, playbackFinished) {
				h.cleanup()
				log.Debug("Playback finished")
				h.events.end()
			}
			return
		}
	}
}

func (h *playback) cleanup() {
	h.closeOnce.Do(func() {
		if err := h.player.Close(); err != nil {
			log.Debug("Unable to close device player", "error", err)
		}
		h.clipMu.Lock()
		h.clip = nil
		h.clipMu.Unlock()
		close(h.done)
		h.owner.forget(h)
	})
}
