package tts

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/dgnsrekt/voice-studio/internal/service"
	"github.com/dgnsrekt/voice-studio/tts/audio"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"status error", &service.StatusError{Code: 502}, KindNetwork},
		{"wrapped status error", fmt.Errorf("call: %w", &service.StatusError{Code: 404}), KindNetwork},
		{"timeout", fmt.Errorf("%w after 30s", service.ErrTimeout), KindNetwork},
		{"deadline", context.DeadlineExceeded, KindNetwork},
		{"url error", &url.Error{Op: "Post", URL: "http://localhost:8000", Err: errors.New("connection refused")}, KindNetwork},
		{"empty body", service.ErrEmptyAudio, KindPlayback},
		{"bad wav", fmt.Errorf("%w: short header", audio.ErrInvalidWAV), KindPlayback},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := classify(tt.err)
			if se.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", se.Kind, tt.kind)
			}
			if !errors.Is(se, tt.err) {
				t.Errorf("SpeechError does not wrap %v", tt.err)
			}
		})
	}
}

func TestClassifyKeepsSpeechError(t *testing.T) {
	orig := &SpeechError{Kind: KindPlayback, Err: errors.New("x")}
	if got := classify(fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Errorf("classify = %v, want the original SpeechError", got)
	}
}

func TestSpeechErrorMessage(t *testing.T) {
	tests := []struct {
		err  *SpeechError
		want string
	}{
		{&SpeechError{Kind: KindNetwork, Err: &service.StatusError{Code: 500}}, "failed to generate speech: HTTP error, status: 500"},
		{&SpeechError{Kind: KindPlayback, Err: errors.New("underrun")}, "error playing audio"},
		{&SpeechError{Kind: KindUnknown, Err: errors.New("boom")}, "failed to generate speech: boom"},
		{&SpeechError{Kind: KindUnknown}, "failed to generate speech"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestErrorKindHelpers(t *testing.T) {
	network := fmt.Errorf("ctx: %w", &SpeechError{Kind: KindNetwork})
	playback := &SpeechError{Kind: KindPlayback}

	if !IsNetworkError(network) || IsPlaybackError(network) {
		t.Error("network error misclassified")
	}
	if !IsPlaybackError(playback) || IsNetworkError(playback) {
		t.Error("playback error misclassified")
	}
	if IsNetworkError(errors.New("plain")) {
		t.Error("plain error reported as network error")
	}

	if KindNetwork.String() != "network" || KindPlayback.String() != "playback" || KindUnknown.String() != "unknown" {
		t.Error("unexpected ErrorKind strings")
	}
}
