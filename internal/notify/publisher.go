package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"
)

// ErrSubjectEmpty indicates a publish without a subject.
var ErrSubjectEmpty = errors.New("subject cannot be empty")

// NatsPublisher implements core.EventPublisher on a NATS connection.
type NatsPublisher struct {
	natsConnection *nats.Conn
	log            *logger.Logger
}

// NewNatsPublisher creates a publisher on an established connection.
func NewNatsPublisher(natsConnection *nats.Conn, log *logger.Logger) *NatsPublisher {
	return &NatsPublisher{
		natsConnection: natsConnection,
		log:            log,
	}
}

// Publish marshals event as JSON and sends it on subject.
func (p *NatsPublisher) Publish(ctx context.Context, subject string, event any) error {
	if subject == "" {
		return ErrSubjectEmpty
	}

	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("publish to %s aborted: %w", subject, err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for %s: %w", subject, err)
	}

	err = p.natsConnection.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	p.log.Info("Published event to %s (%d bytes)", subject, len(data))

	return nil
}

// NopPublisher drops every event. It is used when no NATS server is configured.
type NopPublisher struct{}

// Publish implements core.EventPublisher.
func (NopPublisher) Publish(context.Context, string, any) error {
	return nil
}
