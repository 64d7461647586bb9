// Package config provides the configuration structure for the voice studio.
package config

import (
	"fmt"
	"time"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Defaults applied to settings the project file leaves empty.
const (
	DefaultBaseURL                = "https://api.msganesh.com/itts"
	DefaultTimeoutSeconds         = 60
	DefaultReferenceText          = "This is a sample reference text for voice cloning."
	DefaultVoiceCreatedSubject    = "voice.created"
	DefaultSpeechGeneratedSubject = "speech.generated"
	DefaultGenerateSubject        = "voice.generate"
	DefaultAudioBucket            = "VOICE_AUDIO"
	DefaultUserName               = "You"
)

// ITTSConfig holds the remote synthesis API settings.
type ITTSConfig struct {
	BaseURL              string `toml:"base_url"`
	TimeoutSeconds       int    `toml:"timeout_seconds"`
	DefaultReferenceText string `toml:"default_reference_text"`
}

// NATSConfig holds the configuration for NATS. An empty URL disables event
// publishing, the worker and the audio archive.
type NATSConfig struct {
	URL                    string `toml:"url"`
	VoiceCreatedSubject    string `toml:"voice_created_subject"`
	SpeechGeneratedSubject string `toml:"speech_generated_subject"`
	GenerateSubject        string `toml:"generate_subject"`
	AudioObjectStoreBucket string `toml:"audio_object_store_bucket"`
}

// SessionConfig describes the operator of the session.
type SessionConfig struct {
	UserName   string `toml:"user_name"`
	UserEmail  string `toml:"user_email"`
	SeedVoices bool   `toml:"seed_voices"`
}

// MetricsConfig holds the Prometheus endpoint settings. An empty address
// disables the endpoint.
type MetricsConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	ITTS    ITTSConfig    `toml:"itts"`
	NATS    NATSConfig    `toml:"nats"`
	Session SessionConfig `toml:"session"`
	Metrics MetricsConfig `toml:"metrics"`
	Paths   PathsConfig   `toml:"paths"`
}

// Load loads the configuration for the voice studio and fills in defaults.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults fills every empty setting with its default.
func (c *Config) ApplyDefaults() {
	setDefault(&c.ITTS.BaseURL, DefaultBaseURL)
	setDefault(&c.ITTS.DefaultReferenceText, DefaultReferenceText)
	setDefault(&c.NATS.VoiceCreatedSubject, DefaultVoiceCreatedSubject)
	setDefault(&c.NATS.SpeechGeneratedSubject, DefaultSpeechGeneratedSubject)
	setDefault(&c.NATS.GenerateSubject, DefaultGenerateSubject)
	setDefault(&c.NATS.AudioObjectStoreBucket, DefaultAudioBucket)
	setDefault(&c.Session.UserName, DefaultUserName)

	if c.ITTS.TimeoutSeconds <= 0 {
		c.ITTS.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

// Timeout returns the ITTS request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.ITTS.TimeoutSeconds) * time.Second
}

func setDefault(value *string, fallback string) {
	if *value == "" {
		*value = fallback
	}
}
