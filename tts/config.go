package tts

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dgnsrekt/voice-studio/internal/cache"
	"github.com/dgnsrekt/voice-studio/internal/service"
	"github.com/dgnsrekt/voice-studio/internal/ttypes"
	"github.com/dgnsrekt/voice-studio/tts/audio"
)

// Config contains all Voice Studio configuration options.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Speech  SpeechConfig  `yaml:"speech"`
	Audio   AudioConfig   `yaml:"audio"`
	Cache   CacheConfig   `yaml:"cache"`
	Input   InputConfig   `yaml:"input"`
}

// ServiceConfig contains settings for the synthesis service.
type ServiceConfig struct {
	URL               string        `yaml:"url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// SpeechConfig contains the request parameters sent with every text.
type SpeechConfig struct {
	Voice string  `yaml:"voice"`
	Speed float64 `yaml:"speed"`
}

// AudioConfig contains local playback settings.
type AudioConfig struct {
	SampleRate int     `yaml:"sample_rate"`
	Channels   int     `yaml:"channels"`
	Volume     float64 `yaml:"volume"`
}

// CacheConfig contains replay cache settings.
type CacheConfig struct {
	Enabled     bool `yaml:"enabled"`
	MaxSizeMB   int  `yaml:"max_size"`
	Compression bool `yaml:"compression"`
}

// InputConfig contains text input settings.
type InputConfig struct {
	MaxChars int `yaml:"max_chars"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			URL:               "http://localhost:8000",
			Timeout:           30 * time.Second,
			RequestsPerMinute: 60,
		},
		Speech: SpeechConfig{
			Voice: ttypes.DefaultVoice,
			Speed: ttypes.DefaultSpeed,
		},
		Audio: AudioConfig{
			SampleRate: 22050,
			Channels:   1,
			Volume:     1.0,
		},
		Cache: CacheConfig{
			Enabled:     false,
			MaxSizeMB:   16,
			Compression: true,
		},
		Input: InputConfig{
			MaxChars: ttypes.MaxTextLength,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: service.url must be an http(s) URL, got %q", ErrInvalidConfig, c.Service.URL)
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("%w: service.timeout must not be negative, got %s", ErrInvalidConfig, c.Service.Timeout)
	}
	if c.Service.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: service.requests_per_minute must not be negative, got %d", ErrInvalidConfig, c.Service.RequestsPerMinute)
	}

	if c.Speech.Voice == "" {
		return fmt.Errorf("%w: speech.voice must not be empty", ErrInvalidConfig)
	}
	if c.Speech.Speed < 0.1 || c.Speech.Speed > 3.0 {
		return fmt.Errorf("%w: speech.speed must be between 0.1 and 3.0, got %.2f", ErrInvalidConfig, c.Speech.Speed)
	}

	validSampleRates := []int{8000, 16000, 22050, 24000, 44100, 48000}
	sampleRateValid := false
	for _, sr := range validSampleRates {
		if c.Audio.SampleRate == sr {
			sampleRateValid = true
			break
		}
	}
	if !sampleRateValid {
		return fmt.Errorf("%w: invalid audio.sample_rate %d: must be one of %v", ErrInvalidConfig, c.Audio.SampleRate, validSampleRates)
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		return fmt.Errorf("%w: audio.channels must be 1 or 2, got %d", ErrInvalidConfig, c.Audio.Channels)
	}
	if c.Audio.Volume < 0.0 || c.Audio.Volume > 1.0 {
		return fmt.Errorf("%w: audio.volume must be between 0.0 and 1.0, got %.2f", ErrInvalidConfig, c.Audio.Volume)
	}

	if c.Cache.Enabled && c.Cache.MaxSizeMB < 1 {
		return fmt.Errorf("%w: cache.max_size must be at least 1 MB, got %d", ErrInvalidConfig, c.Cache.MaxSizeMB)
	}

	if c.Input.MaxChars < 1 {
		return fmt.Errorf("%w: input.max_chars must be positive, got %d", ErrInvalidConfig, c.Input.MaxChars)
	}

	return nil
}

// ToControllerConfig converts the configuration to a controller config.
func (c *Config) ToControllerConfig() ControllerConfig {
	return ControllerConfig{
		Voice:   c.Speech.Voice,
		Speed:   c.Speech.Speed,
		Timeout: c.Service.Timeout,
	}
}

// ToServiceConfig converts the configuration to a service client config.
// The cache is left for the caller to attach.
func (c *Config) ToServiceConfig() service.Config {
	sc := service.DefaultConfig()
	sc.BaseURL = c.Service.URL
	sc.Timeout = c.Service.Timeout
	sc.RequestsPerMinute = c.Service.RequestsPerMinute
	return sc
}

// ToPlayerConfig converts the configuration to an audio player config.
func (c *Config) ToPlayerConfig() audio.PlayerConfig {
	pc := audio.DefaultPlayerConfig()
	pc.SampleRate = c.Audio.SampleRate
	pc.Channels = c.Audio.Channels
	pc.Volume = c.Audio.Volume
	return pc
}

// ToCacheConfig converts the configuration to a replay cache config.
func (c *Config) ToCacheConfig() cache.CacheConfig {
	cc := cache.DefaultCacheConfig()
	cc.Capacity = int64(c.Cache.MaxSizeMB) << 20
	cc.EnableCompression = c.Cache.Compression
	return cc
}
