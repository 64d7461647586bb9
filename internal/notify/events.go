// Package notify publishes voice studio domain events over NATS.
package notify

import (
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/voice-studio/internal/voice"
	"github.com/google/uuid"
)

// VoiceCreatedEvent announces a voice materialized from an uploaded
// reference recording.
type VoiceCreatedEvent struct {
	Header events.EventHeader `json:"header"`
	Voice  voice.Voice        `json:"voice"`
}

// SpeechGeneratedEvent announces a finished speech generation.
type SpeechGeneratedEvent struct {
	Header     events.EventHeader `json:"header"`
	VoiceID    string             `json:"voice_id,omitempty"`
	RefAudioID string             `json:"ref_audio_id"`
	AudioID    string             `json:"audio_id"`
	AudioURL   string             `json:"audio_url"`
	Snippet    string             `json:"snippet"`
}

// NewHeader starts a new workflow for userID.
func NewHeader(userID string) events.EventHeader {
	return events.EventHeader{
		Timestamp:  time.Now().UTC(),
		WorkflowID: uuid.NewString(),
		EventID:    uuid.NewString(),
		UserID:     userID,
		TenantID:   "",
	}
}

// FollowHeader continues the workflow of parent with a fresh event id.
func FollowHeader(parent events.EventHeader) events.EventHeader {
	header := parent
	header.Timestamp = time.Now().UTC()
	header.EventID = uuid.NewString()

	if header.WorkflowID == "" {
		header.WorkflowID = uuid.NewString()
	}

	return header
}
