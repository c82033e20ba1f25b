// Package ttypes contains types shared between the speech controller and the
// synthesis service client.
// This package is used to break import cycles between tts, service, and cache.
package ttypes

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

const (
	// DefaultVoice is the voice selector sent when none is configured.
	DefaultVoice = "default"

	// DefaultSpeed is the speed multiplier sent when none is configured.
	DefaultSpeed = 1.0

	// MaxTextLength is the soft limit on request text, in characters.
	MaxTextLength = 1000
)

// SpeechRequest is the payload sent to the synthesis service.
type SpeechRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

// NewSpeechRequest returns a request for text with the default voice and speed.
func NewSpeechRequest(text string) SpeechRequest {
	return SpeechRequest{
		Text:  text,
		Voice: DefaultVoice,
		Speed: DefaultSpeed,
	}
}

// WithDefaults fills in an empty voice or a non-positive speed.
func (r SpeechRequest) WithDefaults() SpeechRequest {
	if r.Voice == "" {
		r.Voice = DefaultVoice
	}
	if r.Speed <= 0 {
		r.Speed = DefaultSpeed
	}
	return r
}

// Key returns a stable identifier for the request, suitable as a cache key.
func (r SpeechRequest) Key() string {
	var b strings.Builder
	b.WriteString(r.Voice)
	b.WriteByte(0)
	b.WriteString(strconv.FormatFloat(r.Speed, 'f', 3, 64))
	b.WriteByte(0)
	b.WriteString(r.Text)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Voice describes a voice offered by the synthesis service.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// ServiceHealth is the synthesis service's health report.
type ServiceHealth struct {
	Status    string `json:"status"`
	Engine    string `json:"engine"`
	Available bool   `json:"available"`
}

// Healthy reports whether the service is up and has an engine to synthesize with.
func (h ServiceHealth) Healthy() bool {
	return h.Status == "healthy" && h.Available
}

// AudioCache stores synthesized audio keyed by request.
type AudioCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, audio []byte) error
}
