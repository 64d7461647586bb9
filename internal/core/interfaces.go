// Package core defines the collaborator interfaces of the voice studio.
package core

import (
	"context"
	"io"

	"github.com/book-expert/voice-studio/internal/voice"
)

// UploadRequest describes a reference audio upload.
type UploadRequest struct {
	Audio         io.Reader
	FileName      string
	Name          string
	ReferenceText string
}

// RemoteResult is the acknowledgement returned by the upload and generate
// endpoints. ID names the stored reference or generated audio.
type RemoteResult struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// SpeechAPI is the remote synthesis service.
type SpeechAPI interface {
	UploadReferenceAudio(ctx context.Context, req UploadRequest) (RemoteResult, error)
	GenerateSpeech(ctx context.Context, text, refAudioID string) (RemoteResult, error)
	GetSpeakers(ctx context.Context) ([]voice.Speaker, error)
	AudioURL(audioID string) string
}

// AudioFetcher downloads previously generated or uploaded audio.
type AudioFetcher interface {
	DownloadAudio(ctx context.Context, audioID string) ([]byte, error)
}

// EventPublisher broadcasts domain events to interested collaborators.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event any) error
}

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}
