package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/book-expert/logger"
	"github.com/book-expert/voice-studio/internal/config"
	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/dashboard"
	"github.com/book-expert/voice-studio/internal/itts"
	"github.com/book-expert/voice-studio/internal/notify"
	"github.com/book-expert/voice-studio/internal/voice"
	"github.com/nats-io/nats.go"
)

// ErrNATSRequired indicates a command that needs [nats] url configured.
var ErrNATSRequired = errors.New("nats url is not configured")

// app holds the collaborators shared by every command.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	client  *itts.Client
	session *dashboard.Session

	natsConnection *nats.Conn
	closers        []func() error
}

// setupFunc builds the app for a command invocation.
type setupFunc func(flags *globalFlags) (*app, error)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "voice-studio.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// bootstrap loads the configuration with a temporary logger, then opens the
// final logger and connects the collaborators.
func bootstrap(flags *globalFlags) (*app, error) {
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = bootstrapLog.Close()
	}()

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Warn("Falling back to default configuration: %v", err)

		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	flags.apply(cfg)

	logDir := cfg.Paths.BaseLogsDir
	if logDir == "" {
		logDir = os.TempDir()
	}

	finalLog, err := setupLogger(logDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return nil, err
	}

	return newApp(cfg, finalLog)
}

// newApp wires the ITTS client, the optional NATS connection and the session.
func newApp(cfg *config.Config, log *logger.Logger) (*app, error) {
	application := &app{
		cfg:     cfg,
		log:     log,
		client:  itts.NewClient(cfg.ITTS.BaseURL, cfg.Timeout()),
		closers: []func() error{log.Close},
	}

	var publisher core.EventPublisher

	if cfg.NATS.URL != "" {
		natsConnection, err := nats.Connect(cfg.NATS.URL, nats.Name("voice-studio"))
		if err != nil {
			application.close()

			return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
		}

		application.natsConnection = natsConnection
		application.closers = append([]func() error{drainer(natsConnection)}, application.closers...)
		publisher = notify.NewNatsPublisher(natsConnection, log)
	}

	session, err := dashboard.NewSession(dashboard.Options{
		API:       application.client,
		Publisher: publisher,
		Log:       log,
		Metrics:   nil,
		CurrentUser: voice.Creator{
			ID:        voice.CurrentCreatorID,
			Name:      cfg.Session.UserName,
			Email:     cfg.Session.UserEmail,
			Role:      voice.RoleAdmin,
			AvatarURL: "",
			Teams:     nil,
		},
		DefaultReferenceText:   cfg.ITTS.DefaultReferenceText,
		VoiceCreatedSubject:    cfg.NATS.VoiceCreatedSubject,
		SpeechGeneratedSubject: cfg.NATS.SpeechGeneratedSubject,
		SeedVoices:             cfg.Session.SeedVoices,
		Now:                    nil,
	})
	if err != nil {
		application.close()

		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	application.session = session

	log.Info("Voice studio initialized against %s", application.client.BaseURL())

	return application, nil
}

func drainer(natsConnection *nats.Conn) func() error {
	return func() error {
		return natsConnection.Drain()
	}
}

func (a *app) requireNATS() (*nats.Conn, error) {
	if a.natsConnection == nil {
		return nil, ErrNATSRequired
	}

	return a.natsConnection, nil
}

func (a *app) close() {
	for _, closer := range a.closers {
		err := closer()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error during shutdown: %v\n", err)
		}
	}

	a.closers = nil
}
