package tts

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/dgnsrekt/voice-studio/internal/service"
	"github.com/dgnsrekt/voice-studio/tts/audio"
)

// Common errors for the controller.
var (
	// ErrSuperseded is returned by GenerateAndPlay when a newer request
	// replaced this one before it completed. The result was discarded.
	ErrSuperseded = errors.New("request superseded by a newer one")

	// ErrControllerClosed is returned after Close.
	ErrControllerClosed = errors.New("controller has been closed")

	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// playbackMessage is shown for every playback failure.
const playbackMessage = "error playing audio"

// ErrorKind classifies a failed generate-and-play attempt.
type ErrorKind int

const (
	// KindUnknown is any failure that is neither network nor playback.
	KindUnknown ErrorKind = iota
	// KindNetwork covers transport failures, timeouts and non-2xx answers.
	KindNetwork
	// KindPlayback covers decode, start and mid-playback failures.
	KindPlayback
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindPlayback:
		return "playback"
	default:
		return "unknown"
	}
}

// SpeechError is the failure reported by the controller. Its Error text is
// the message shown to the user.
type SpeechError struct {
	Kind ErrorKind
	Err  error
}

func (e *SpeechError) Error() string {
	if e.Kind == KindPlayback {
		return playbackMessage
	}
	if e.Err == nil {
		return "failed to generate speech"
	}
	return "failed to generate speech: " + e.Err.Error()
}

func (e *SpeechError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status of a network failure, if any.
func (e *SpeechError) StatusCode() (int, bool) {
	return service.StatusCode(e.Err)
}

// classify wraps err from the synthesis step in a SpeechError.
func classify(err error) *SpeechError {
	var se *SpeechError
	if errors.As(err, &se) {
		return se
	}
	return &SpeechError{Kind: kindOf(err), Err: err}
}

func kindOf(err error) ErrorKind {
	var (
		statusErr *service.StatusError
		urlErr    *url.Error
		netErr    net.Error
	)
	switch {
	case errors.As(err, &statusErr),
		errors.Is(err, service.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &urlErr),
		errors.As(err, &netErr):
		return KindNetwork
	case errors.Is(err, service.ErrEmptyAudio),
		errors.Is(err, service.ErrAudioTooLarge),
		errors.Is(err, audio.ErrInvalidWAV),
		errors.Is(err, audio.ErrUnsupportedFormat),
		errors.Is(err, audio.ErrEmptyAudio),
		errors.Is(err, audio.ErrPlayerClosed):
		return KindPlayback
	default:
		return KindUnknown
	}
}

// IsNetworkError reports whether err is a network failure.
func IsNetworkError(err error) bool {
	var se *SpeechError
	return errors.As(err, &se) && se.Kind == KindNetwork
}

// IsPlaybackError reports whether err is a playback failure.
func IsPlaybackError(err error) bool {
	var se *SpeechError
	return errors.As(err, &se) && se.Kind == KindPlayback
}
