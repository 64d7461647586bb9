// Package worker serves speech generation requests received over NATS.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/book-expert/voice-studio/internal/dashboard"
	"github.com/book-expert/voice-studio/internal/notify"
	"github.com/nats-io/nats.go"
)

const handleMessageTimeout = 2 * time.Minute

var (
	// ErrSubjectEmpty indicates a worker without a subject.
	ErrSubjectEmpty = errors.New("subject cannot be empty")
	// ErrGeneratorNil indicates a worker without a generator.
	ErrGeneratorNil = errors.New("generator cannot be nil")
	// ErrArchiveUnavailable indicates an archive request to a worker with no archive.
	ErrArchiveUnavailable = errors.New("audio archive is not configured")
)

// Generator synthesizes speech. *dashboard.Session implements it.
type Generator interface {
	GenerateSpeech(ctx context.Context, input dashboard.GenerateInput) (dashboard.GenerationResult, error)
}

// Archiver stores generated audio and returns its object key.
type Archiver interface {
	Archive(ctx context.Context, audioID string) (string, error)
}

// GenerateCommand asks the worker to synthesize Text.
type GenerateCommand struct {
	Header     events.EventHeader `json:"header"`
	Text       string             `json:"text"`
	RefAudioID string             `json:"ref_audio_id,omitempty"`
	VoiceID    string             `json:"voice_id,omitempty"`
	Archive    bool               `json:"archive,omitempty"`
}

// GenerateReply answers a GenerateCommand. Error carries the user-facing
// message when the generation failed.
type GenerateReply struct {
	Header     events.EventHeader `json:"header"`
	AudioID    string             `json:"audio_id,omitempty"`
	AudioURL   string             `json:"audio_url,omitempty"`
	VoiceID    string             `json:"voice_id,omitempty"`
	ArchiveKey string             `json:"archive_key,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// NatsWorker listens for generate commands on a NATS subject and replies
// to each.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	generator      Generator
	archiver       Archiver
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker. archiver may be nil.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	generator Generator,
	archiver Archiver,
	log *logger.Logger,
) (*NatsWorker, error) {
	if subject == "" {
		return nil, ErrSubjectEmpty
	}

	if generator == nil {
		return nil, ErrGeneratorNil
	}

	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		generator:      generator,
		archiver:       archiver,
		log:            log,
	}, nil
}

// Run starts the worker and blocks until ctx is done.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	w.log.Info("Listening for generate commands on %s", w.subject)

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	var command GenerateCommand

	err := json.Unmarshal(msg.Data, &command)
	if err != nil {
		w.log.Error("Failed to unmarshal generate command: %v", err)
		w.respond(msg, GenerateReply{Header: notify.NewHeader(""), Error: "malformed command"})

		return
	}

	reply := w.process(ctx, command)

	w.respond(msg, reply)
}

func (w *NatsWorker) process(ctx context.Context, command GenerateCommand) GenerateReply {
	reply := GenerateReply{Header: notify.FollowHeader(command.Header)}

	if command.Archive && w.archiver == nil {
		reply.Error = ErrArchiveUnavailable.Error()

		return reply
	}

	result, err := w.generator.GenerateSpeech(ctx, dashboard.GenerateInput{
		Text:       command.Text,
		RefAudioID: command.RefAudioID,
		VoiceID:    command.VoiceID,
	})
	if err != nil {
		w.log.Error("Generate command %s failed: %v", command.Header.WorkflowID, err)
		reply.Error = dashboard.UserMessage(err)

		return reply
	}

	reply.AudioID = result.AudioID
	reply.AudioURL = result.AudioURL
	reply.VoiceID = result.Voice.ID

	if command.Archive {
		key, archiveErr := w.archiver.Archive(ctx, result.AudioID)
		if archiveErr != nil {
			w.log.Error("Failed to archive %s: %v", result.AudioID, archiveErr)
			reply.Error = archiveErr.Error()

			return reply
		}

		reply.ArchiveKey = key
	}

	return reply
}

func (w *NatsWorker) respond(msg *nats.Msg, reply GenerateReply) {
	if msg.Reply == "" {
		return
	}

	replyData, err := json.Marshal(reply)
	if err != nil {
		w.log.Error("Failed to marshal reply: %v", err)

		return
	}

	err = msg.Respond(replyData)
	if err != nil {
		w.log.Error("Failed to publish reply for workflow %s: %v", reply.Header.WorkflowID, err)
	}
}
