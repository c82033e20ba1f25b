package audio

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeDevice struct {
	sampleRate int
	channels   int

	mu      sync.Mutex
	streams []*fakeStream
}

func (d *fakeDevice) NewPlayer(r io.Reader) devicePlayer {
	data, _ := io.ReadAll(r)
	s := &fakeStream{data: data}
	d.mu.Lock()
	d.streams = append(d.streams, s)
	d.mu.Unlock()
	return s
}

func (d *fakeDevice) SampleRate() int   { return d.sampleRate }
func (d *fakeDevice) ChannelCount() int { return d.channels }

func (d *fakeDevice) stream(i int) *fakeStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streams[i]
}

type fakeStream struct {
	data    []byte
	playing atomic.Bool
	paused  atomic.Bool
	closed  atomic.Int32
	volume  atomic.Value
	err     atomic.Value
}

func (s *fakeStream) Play()  { s.playing.Store(true) }
func (s *fakeStream) Pause() { s.paused.Store(true); s.playing.Store(false) }

func (s *fakeStream) IsPlaying() bool { return s.playing.Load() }

func (s *fakeStream) SetVolume(v float64) { s.volume.Store(v) }

func (s *fakeStream) Err() error {
	if err, ok := s.err.Load().(error); ok {
		return err
	}
	return nil
}

func (s *fakeStream) Close() error {
	s.closed.Add(1)
	return nil
}

// drain simulates the device reaching the end of the stream.
func (s *fakeStream) drain() { s.playing.Store(false) }

func newTestPlayer(dev *fakeDevice) (*Player, *atomic.Int32) {
	var opens atomic.Int32
	cfg := DefaultPlayerConfig()
	cfg.Volume = 0.5
	p := newPlayer(cfg, func(PlayerConfig) (device, error) {
		opens.Add(1)
		return dev, nil
	})
	return p, &opens
}

func testClip() *Clip {
	clip, err := Decode(ToneWAV(50*time.Millisecond, 22050))
	if err != nil {
		panic(err)
	}
	return clip
}

func waitDone(t *testing.T, h Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("handle did not complete")
	}
}

func TestPlayerPlaysToEnd(t *testing.T) {
	dev := &fakeDevice{sampleRate: 22050, channels: 1}
	p, _ := newTestPlayer(dev)

	ended := make(chan struct{}, 2)
	h, err := p.Play(testClip(), Events{
		OnEnd:   func() { ended <- struct{}{} },
		OnError: func(err error) { t.Errorf("unexpected OnError: %v", err) },
	})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	s := dev.stream(0)
	if !s.IsPlaying() {
		t.Error("stream not started")
	}
	if v, _ := s.volume.Load().(float64); v != 0.5 {
		t.Errorf("volume = %v, want 0.5", v)
	}
	if p.Active() != 1 {
		t.Errorf("Active = %d, want 1", p.Active())
	}

	s.drain()
	waitDone(t, h)

	select {
	case <-ended:
	case <-time.After(time.Second):
		t.Fatal("OnEnd not called")
	}
	if s.closed.Load() != 1 {
		t.Errorf("stream closed %d times, want 1", s.closed.Load())
	}
	if p.Active() != 0 {
		t.Errorf("Active = %d after end, want 0", p.Active())
	}

	// Release after the natural end is a no-op
	h.Release()
	if len(ended) != 0 {
		t.Error("OnEnd fired more than once")
	}
}

func TestPlayerReleaseSuppressesCallbacks(t *testing.T) {
	dev := &fakeDevice{sampleRate: 22050, channels: 1}
	p, _ := newTestPlayer(dev)

	var calls atomic.Int32
	h, err := p.Play(testClip(), Events{
		OnEnd:   func() { calls.Add(1) },
		OnError: func(error) { calls.Add(1) },
	})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	h.Release()
	h.Release()
	waitDone(t, h)

	s := dev.stream(0)
	if !s.paused.Load() {
		t.Error("stream not paused on release")
	}
	if s.closed.Load() != 1 {
		t.Errorf("stream closed %d times, want 1", s.closed.Load())
	}

	time.Sleep(5 * pollInterval)
	if calls.Load() != 0 {
		t.Errorf("callbacks fired %d times after release", calls.Load())
	}
	ph := h.(*playback)
	ph.clipMu.Lock()
	defer ph.clipMu.Unlock()
	if ph.clip != nil {
		t.Error("clip still referenced after release")
	}
}

func TestPlayerDeviceError(t *testing.T) {
	dev := &fakeDevice{sampleRate: 22050, channels: 1}
	p, _ := newTestPlayer(dev)

	failed := make(chan error, 1)
	h, err := p.Play(testClip(), Events{
		OnEnd:   func() { t.Error("unexpected OnEnd") },
		OnError: func(err error) { failed <- err },
	})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	deviceErr := errors.New("underrun")
	dev.stream(0).err.Store(deviceErr)
	waitDone(t, h)

	select {
	case got := <-failed:
		if !errors.Is(got, deviceErr) {
			t.Errorf("OnError(%v), want %v", got, deviceErr)
		}
	case <-time.After(time.Second):
		t.Fatal("OnError not called")
	}
}

func TestPlayerConvertsToDeviceFormat(t *testing.T) {
	dev := &fakeDevice{sampleRate: 44100, channels: 2}
	p, opens := newTestPlayer(dev)

	clip := testClip()
	h1, err := p.Play(clip, Events{})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	defer h1.Release()

	got := len(dev.stream(0).data)
	want := clip.Frames() * 2 * 2 * bytesPerPCM
	if got != want {
		t.Errorf("device received %d bytes, want %d", got, want)
	}

	h2, err := p.Play(clip, Events{})
	if err != nil {
		t.Fatalf("second Play failed: %v", err)
	}
	defer h2.Release()

	if opens.Load() != 1 {
		t.Errorf("device opened %d times, want 1", opens.Load())
	}
}

func TestPlayerErrors(t *testing.T) {
	t.Run("empty clip", func(t *testing.T) {
		p, opens := newTestPlayer(&fakeDevice{sampleRate: 22050, channels: 1})
		if _, err := p.Play(&Clip{SampleRate: 22050, Channels: 1}, Events{}); !errors.Is(err, ErrEmptyAudio) {
			t.Errorf("error = %v, want ErrEmptyAudio", err)
		}
		if opens.Load() != 0 {
			t.Error("device opened for empty clip")
		}
	})

	t.Run("open failure", func(t *testing.T) {
		openErr := errors.New("no sound card")
		p := newPlayer(DefaultPlayerConfig(), func(PlayerConfig) (device, error) {
			return nil, openErr
		})
		if _, err := p.Play(testClip(), Events{}); !errors.Is(err, openErr) {
			t.Errorf("error = %v, want %v", err, openErr)
		}
	})

	t.Run("closed", func(t *testing.T) {
		dev := &fakeDevice{sampleRate: 22050, channels: 1}
		p, _ := newTestPlayer(dev)
		h, err := p.Play(testClip(), Events{})
		if err != nil {
			t.Fatal(err)
		}

		if err := p.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		waitDone(t, h)

		if _, err := p.Play(testClip(), Events{}); !errors.Is(err, ErrPlayerClosed) {
			t.Errorf("error = %v, want ErrPlayerClosed", err)
		}
	})
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*PlayerConfig)
		expectErr bool
	}{
		{"default", func(*PlayerConfig) {}, false},
		{"stereo 48k", func(c *PlayerConfig) { c.SampleRate = 48000; c.Channels = 2 }, false},
		{"rate too low", func(c *PlayerConfig) { c.SampleRate = 100 }, true},
		{"three channels", func(c *PlayerConfig) { c.Channels = 3 }, true},
		{"volume above one", func(c *PlayerConfig) { c.Volume = 1.5 }, true},
		{"negative buffer", func(c *PlayerConfig) { c.BufferSize = -time.Millisecond }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPlayerConfig()
			tt.mutate(&cfg)
			_, err := NewPlayer(cfg)
			if (err != nil) != tt.expectErr {
				t.Errorf("NewPlayer error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}
