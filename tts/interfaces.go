package tts

import (
	"context"

	"github.com/dgnsrekt/voice-studio/internal/ttypes"
	"github.com/dgnsrekt/voice-studio/tts/audio"
)

// Synthesizer turns a speech request into encoded audio bytes.
// *service.Client implements it.
type Synthesizer interface {
	Synthesize(ctx context.Context, req ttypes.SpeechRequest) ([]byte, error)
}

// AudioPlayer starts playback of a decoded clip. *audio.Player and
// *audio.MockPlayer implement it.
type AudioPlayer interface {
	Play(clip *audio.Clip, events audio.Events) (audio.Handle, error)
}

// SynthesizerFunc adapts a function to the Synthesizer interface.
type SynthesizerFunc func(ctx context.Context, req ttypes.SpeechRequest) ([]byte, error)

// Synthesize implements Synthesizer.
func (f SynthesizerFunc) Synthesize(ctx context.Context, req ttypes.SpeechRequest) ([]byte, error) {
	return f(ctx, req)
}
