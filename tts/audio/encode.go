package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// EncodeWAV wraps 16-bit PCM samples in a canonical 44-byte WAV header.
func EncodeWAV(samples []int16, sampleRate, channels int) []byte {
	dataSize := len(samples) * bytesPerPCM
	blockAlign := channels * bytesPerPCM

	var b bytes.Buffer
	b.Grow(44 + dataSize)

	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, uint32(36+dataSize))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	_ = binary.Write(&b, binary.LittleEndian, uint32(16))
	_ = binary.Write(&b, binary.LittleEndian, uint16(wavFormatPCM))
	_ = binary.Write(&b, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&b, binary.LittleEndian, uint32(sampleRate*blockAlign))
	_ = binary.Write(&b, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&b, binary.LittleEndian, uint16(16))

	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, uint32(dataSize))
	_ = binary.Write(&b, binary.LittleEndian, samples)

	return b.Bytes()
}

// GenerateTone returns mono samples of a sine tone at the given frequency.
func GenerateTone(d time.Duration, sampleRate int, frequency float64) []int16 {
	n := int(d.Seconds() * float64(sampleRate))
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = int16(math.Sin(2*math.Pi*frequency*t) * 8000)
	}
	return samples
}

// ToneWAV is a convenience for GenerateTone wrapped with EncodeWAV, mono.
func ToneWAV(d time.Duration, sampleRate int) []byte {
	return EncodeWAV(GenerateTone(d, sampleRate, 440), sampleRate, 1)
}
