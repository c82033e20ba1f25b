// Package audio decodes synthesized speech and plays it on the local audio
// device using oto/v3.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Common audio errors
var (
	// ErrInvalidWAV indicates the data is not a readable WAV file
	ErrInvalidWAV = errors.New("invalid WAV data")

	// ErrUnsupportedFormat indicates a WAV encoding other than integer PCM
	ErrUnsupportedFormat = errors.New("unsupported WAV encoding")

	// ErrEmptyAudio indicates the WAV file holds no samples
	ErrEmptyAudio = errors.New("audio contains no samples")
)

const (
	wavFormatPCM = 1
	bytesPerPCM  = 2 // signed 16-bit little endian
)

// Clip is decoded audio: interleaved signed 16-bit little endian PCM.
type Clip struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames in the clip.
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.PCM) / (bytesPerPCM * c.Channels)
}

// Duration returns the playback duration of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// Decode parses a WAV file into a Clip in its native sample rate and channel
// count. Samples of any integer bit depth are scaled to 16 bits.
func Decode(data []byte) (*Clip, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		return nil, ErrInvalidWAV
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, ErrEmptyAudio
	}

	channels := int(d.NumChans)
	sampleRate := int(d.SampleRate)
	if buf.Format != nil {
		channels = buf.Format.NumChannels
		sampleRate = buf.Format.SampleRate
	}
	if channels < 1 || sampleRate < 1 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidWAV, channels, sampleRate)
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(d.BitDepth)
	}

	return &Clip{
		PCM:        toPCM16(buf, depth),
		SampleRate: sampleRate,
		Channels:   channels,
	}, nil
}

// toPCM16 scales integer samples of the given bit depth to 16 bits.
func toPCM16(buf *goaudio.IntBuffer, depth int) []byte {
	out := make([]byte, len(buf.Data)*bytesPerPCM)
	for i, v := range buf.Data {
		var s int
		switch depth {
		case 8:
			// 8-bit WAV is unsigned
			s = (v - 128) << 8
		case 24:
			s = v >> 8
		case 32:
			s = v >> 16
		default:
			s = v
		}
		binary.LittleEndian.PutUint16(out[i*bytesPerPCM:], uint16(int16(clamp16(s))))
	}
	return out
}

func clamp16(v int) int {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

// Convert returns the clip at the given sample rate and channel count.
// Channels are averaged down to mono or duplicated up from mono; the sample
// rate is changed with linear interpolation. The receiver is returned as is
// when no conversion is needed.
func (c *Clip) Convert(sampleRate, channels int) *Clip {
	if sampleRate == c.SampleRate && channels == c.Channels {
		return c
	}

	frames := c.frames()
	if channels != c.Channels {
		frames = remapChannels(frames, channels)
	}
	if sampleRate != c.SampleRate {
		frames = resample(frames, c.SampleRate, sampleRate)
	}

	return &Clip{
		PCM:        encodeFrames(frames, channels),
		SampleRate: sampleRate,
		Channels:   channels,
	}
}

// frames splits the PCM buffer into per-frame sample slices.
func (c *Clip) frames() [][]int16 {
	n := c.Frames()
	frames := make([][]int16, n)
	for i := 0; i < n; i++ {
		frame := make([]int16, c.Channels)
		for ch := 0; ch < c.Channels; ch++ {
			off := (i*c.Channels + ch) * bytesPerPCM
			frame[ch] = int16(binary.LittleEndian.Uint16(c.PCM[off:]))
		}
		frames[i] = frame
	}
	return frames
}

func remapChannels(frames [][]int16, channels int) [][]int16 {
	out := make([][]int16, len(frames))
	for i, frame := range frames {
		mapped := make([]int16, channels)
		switch {
		case len(frame) == 1:
			for ch := range mapped {
				mapped[ch] = frame[0]
			}
		case channels == 1:
			sum := 0
			for _, s := range frame {
				sum += int(s)
			}
			mapped[0] = int16(sum / len(frame))
		default:
			for ch := range mapped {
				mapped[ch] = frame[ch%len(frame)]
			}
		}
		out[i] = mapped
	}
	return out
}

func resample(frames [][]int16, from, to int) [][]int16 {
	if len(frames) == 0 {
		return frames
	}

	ratio := float64(to) / float64(from)
	n := int(float64(len(frames)) * ratio)
	out := make([][]int16, n)

	for i := 0; i < n; i++ {
		pos := float64(i) / ratio
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(frames)-1 {
			out[i] = frames[len(frames)-1]
			continue
		}

		a, b := frames[idx], frames[idx+1]
		frame := make([]int16, len(a))
		for ch := range a {
			frame[ch] = int16(float64(a[ch])*(1-frac) + float64(b[ch])*frac)
		}
		out[i] = frame
	}
	return out
}

func encodeFrames(frames [][]int16, channels int) []byte {
	out := make([]byte, len(frames)*channels*bytesPerPCM)
	off := 0
	for _, frame := range frames {
		for _, s := range frame {
			binary.LittleEndian.PutUint16(out[off:], uint16(s))
			off += bytesPerPCM
		}
	}
	return out
}
