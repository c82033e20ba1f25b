package tts

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfigFromViper loads the configuration from Viper, starting from
// DefaultConfig for any key that is not set.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	// Service
	if viper.IsSet("service.url") {
		cfg.Service.URL = viper.GetString("service.url")
	}
	if viper.IsSet("service.timeout") {
		cfg.Service.Timeout = viper.GetDuration("service.timeout")
	}
	if viper.IsSet("service.requests_per_minute") {
		cfg.Service.RequestsPerMinute = viper.GetInt("service.requests_per_minute")
	}

	// Speech
	if viper.IsSet("speech.voice") {
		cfg.Speech.Voice = viper.GetString("speech.voice")
	}
	if viper.IsSet("speech.speed") {
		cfg.Speech.Speed = viper.GetFloat64("speech.speed")
	}

	// Audio
	if viper.IsSet("audio.sample_rate") {
		cfg.Audio.SampleRate = viper.GetInt("audio.sample_rate")
	}
	if viper.IsSet("audio.channels") {
		cfg.Audio.Channels = viper.GetInt("audio.channels")
	}
	if viper.IsSet("audio.volume") {
		cfg.Audio.Volume = viper.GetFloat64("audio.volume")
	}

	// Cache
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.max_size") {
		cfg.Cache.MaxSizeMB = viper.GetInt("cache.max_size")
	}
	if viper.IsSet("cache.compression") {
		cfg.Cache.Compression = viper.GetBool("cache.compression")
	}

	// Input
	if viper.IsSet("input.max_chars") {
		cfg.Input.MaxChars = viper.GetInt("input.max_chars")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// SetDefaults sets default values in Viper for every configuration key.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("service.url", defaults.Service.URL)
	viper.SetDefault("service.timeout", defaults.Service.Timeout.String())
	viper.SetDefault("service.requests_per_minute", defaults.Service.RequestsPerMinute)

	viper.SetDefault("speech.voice", defaults.Speech.Voice)
	viper.SetDefault("speech.speed", defaults.Speech.Speed)

	viper.SetDefault("audio.sample_rate", defaults.Audio.SampleRate)
	viper.SetDefault("audio.channels", defaults.Audio.Channels)
	viper.SetDefault("audio.volume", defaults.Audio.Volume)

	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.max_size", defaults.Cache.MaxSizeMB)
	viper.SetDefault("cache.compression", defaults.Cache.Compression)

	viper.SetDefault("input.max_chars", defaults.Input.MaxChars)
}
