// Package config_test tests the configuration loading for the voice studio.
package config_test

import (
	"testing"
	"time"

	"github.com/book-expert/voice-studio/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tomlData := `
[itts]
base_url = "http://localhost:9000/itts"
timeout_seconds = 15
default_reference_text = "Reference"

[nats]
url = "nats://127.0.0.1:4222"
voice_created_subject = "studio.voice.created"
speech_generated_subject = "studio.speech.generated"
generate_subject = "studio.generate"
audio_object_store_bucket = "AUDIO_FILES"

[session]
user_name = "Operator"
user_email = "operator@example.com"
seed_voices = true

[metrics]
listen_addr = ":9464"

[paths]
base_logs_dir = "/var/log/voice-studio"
`

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	cfg.ApplyDefaults()

	assert.Equal(t, "http://localhost:9000/itts", cfg.ITTS.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, "Reference", cfg.ITTS.DefaultReferenceText)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "studio.voice.created", cfg.NATS.VoiceCreatedSubject)
	assert.Equal(t, "studio.speech.generated", cfg.NATS.SpeechGeneratedSubject)
	assert.Equal(t, "studio.generate", cfg.NATS.GenerateSubject)
	assert.Equal(t, "AUDIO_FILES", cfg.NATS.AudioObjectStoreBucket)
	assert.Equal(t, "Operator", cfg.Session.UserName)
	assert.Equal(t, "operator@example.com", cfg.Session.UserEmail)
	assert.True(t, cfg.Session.SeedVoices)
	assert.Equal(t, ":9464", cfg.Metrics.ListenAddr)
	assert.Equal(t, "/var/log/voice-studio", cfg.Paths.BaseLogsDir)
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	var cfg config.Config

	require.NoError(t, toml.Unmarshal([]byte("[paths]\nbase_logs_dir = \"logs\"\n"), &cfg))

	cfg.ApplyDefaults()

	assert.Equal(t, config.DefaultBaseURL, cfg.ITTS.BaseURL)
	assert.Equal(t, config.DefaultTimeoutSeconds*time.Second, cfg.Timeout())
	assert.Equal(t, config.DefaultReferenceText, cfg.ITTS.DefaultReferenceText)
	assert.Equal(t, config.DefaultVoiceCreatedSubject, cfg.NATS.VoiceCreatedSubject)
	assert.Equal(t, config.DefaultSpeechGeneratedSubject, cfg.NATS.SpeechGeneratedSubject)
	assert.Equal(t, config.DefaultGenerateSubject, cfg.NATS.GenerateSubject)
	assert.Equal(t, config.DefaultAudioBucket, cfg.NATS.AudioObjectStoreBucket)
	assert.Equal(t, config.DefaultUserName, cfg.Session.UserName)
	assert.Empty(t, cfg.NATS.URL, "NATS stays disabled unless configured")
	assert.False(t, cfg.Session.SeedVoices)
	assert.Empty(t, cfg.Metrics.ListenAddr)
}
