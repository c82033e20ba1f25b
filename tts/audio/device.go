//go:build !nocgo
// +build !nocgo

package audio

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process; it is shared by every Player and
// keeps the format of the first one.
var (
	otoOnce sync.Once
	otoDev  *otoDevice
	otoErr  error
)

type otoDevice struct {
	ctx        *oto.Context
	sampleRate int
	channels   int
}

func (d *otoDevice) NewPlayer(r io.Reader) devicePlayer {
	return d.ctx.NewPlayer(r)
}

func (d *otoDevice) SampleRate() int   { return d.sampleRate }
func (d *otoDevice) ChannelCount() int { return d.channels }

func openDevice(config PlayerConfig) (device, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   config.SampleRate,
			ChannelCount: config.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   config.BufferSize,
		}

		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready

		log.Debug("Audio device ready",
			"sampleRate", config.SampleRate,
			"channels", config.Channels)

		otoDev = &otoDevice{
			ctx:        ctx,
			sampleRate: config.SampleRate,
			channels:   config.Channels,
		}
	})

	if otoErr != nil {
		return nil, otoErr
	}
	return otoDev, nil
}
