// Package dashboard composes the voice studio session: the entity store,
// the filtering pipeline, the selection state and the orchestration of the
// remote upload and generate mutations.
//
// A Session serializes its state transitions. Remote calls run outside its
// locks, so each call is the only suspension point of an operation, and any
// read issued after a mutation commits observes it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/voice-studio/internal/catalog"
	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/filter"
	"github.com/book-expert/voice-studio/internal/mutation"
	"github.com/book-expert/voice-studio/internal/notify"
	"github.com/book-expert/voice-studio/internal/observe"
	"github.com/book-expert/voice-studio/internal/selection"
	"github.com/book-expert/voice-studio/internal/voice"
	"golang.org/x/sync/singleflight"
)

// speakersFlightKey deduplicates concurrent speaker refreshes.
const speakersFlightKey = "speakers"

var (
	// ErrAPIRequired indicates a session without a speech API.
	ErrAPIRequired = errors.New("speech API cannot be nil")
	// ErrLoggerRequired indicates a session without a logger.
	ErrLoggerRequired = errors.New("logger cannot be nil")
)

// Options configures a Session.
type Options struct {
	API       core.SpeechAPI
	Publisher core.EventPublisher
	Log       *logger.Logger

	// Metrics records remote call outcomes. Defaults to the instruments on
	// the global meter provider.
	Metrics *observe.Metrics

	// CurrentUser is the logged-in operator. Its id and role are forced to
	// the reserved values.
	CurrentUser voice.Creator

	// DefaultReferenceText is sent when an upload form leaves the
	// reference text blank.
	DefaultReferenceText string

	VoiceCreatedSubject    string
	SpeechGeneratedSubject string

	// SeedVoices controls whether Load starts from the built-in catalog.
	SeedVoices bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Session is the voice studio state shared by every collaborator.
type Session struct {
	store     *catalog.Store
	api       core.SpeechAPI
	publisher core.EventPublisher
	log       *logger.Logger
	metrics   *observe.Metrics
	opts      Options

	mu              sync.Mutex
	filters         filter.Filters
	selection       selection.State
	uploadForm      UploadForm
	lastReferenceID string

	upload   mutation.Tracker
	generate mutation.Tracker
	flights  singleflight.Group
}

// NewSession creates a session with an empty catalog.
func NewSession(opts Options) (*Session, error) {
	if opts.API == nil {
		return nil, ErrAPIRequired
	}

	if opts.Log == nil {
		return nil, ErrLoggerRequired
	}

	if opts.Publisher == nil {
		opts.Publisher = notify.NopPublisher{}
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.Metrics == nil {
		opts.Metrics = observe.DefaultMetrics()
	}

	return &Session{
		store:     catalog.NewStore(opts.CurrentUser),
		api:       opts.API,
		publisher: opts.Publisher,
		log:       opts.Log,
		metrics:   opts.Metrics,
		opts:      opts,
	}, nil
}

// Catalog exposes the entity store for relationship queries and
// group, creator and team management.
func (s *Session) Catalog() *catalog.Store {
	return s.store
}

// Load rebuilds the voice collection from the seed catalog and the remote
// speaker list. A failed speaker fetch keeps the seeded voices and is
// returned to the caller.
func (s *Session) Load(ctx context.Context) error {
	current := s.store.CurrentCreator()

	seeded := []voice.Voice{}
	if s.opts.SeedVoices {
		seeded = voice.SeedVoices()
		for index := range seeded {
			seeded[index].CreatorID = current.ID
			seeded[index].CreatorName = current.Name
		}
	}

	s.store.SetVoices(seeded)
	s.log.Info("Seeded %d voices for %s", len(seeded), current.Name)

	_, err := s.RefreshSpeakers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load speakers: %w", err)
	}

	return nil
}

// RefreshSpeakers fetches the remote speaker list, replaces the speaker
// collection and materializes a voice for every speaker not yet present.
// Concurrent refreshes share one request.
func (s *Session) RefreshSpeakers(ctx context.Context) ([]voice.Speaker, error) {
	result, err, _ := s.flights.Do(speakersFlightKey, func() (any, error) {
		start := time.Now()

		speakers, err := s.api.GetSpeakers(ctx)
		if err != nil {
			s.metrics.RecordRemote(ctx, observe.OperationSpeakers, observe.StatusError, start)

			return nil, err
		}

		s.metrics.RecordRemote(ctx, observe.OperationSpeakers, observe.StatusOK, start)
		s.metrics.RecordVoicesAdded(ctx, observe.OperationSpeakers, s.mergeSpeakers(speakers))

		return speakers, nil
	})
	if err != nil {
		s.log.Error("Failed to fetch speakers: %v", err)

		return nil, err
	}

	speakers, _ := result.([]voice.Speaker)

	return speakers, nil
}

func (s *Session) mergeSpeakers(speakers []voice.Speaker) int {
	s.store.SetSpeakers(speakers)

	current := s.store.CurrentCreator()
	now := s.opts.Now()
	materialized := make([]voice.Voice, 0, len(speakers))

	for _, speaker := range speakers {
		v := voice.FromSpeaker(speaker, now)
		v.CreatorID = current.ID
		v.CreatorName = current.Name
		materialized = append(materialized, v)
	}

	added := s.store.MergeVoices(materialized)
	s.log.Info("Fetched %d speakers, added %d voices", len(speakers), added)

	return added
}

// Voices returns the full voice collection.
func (s *Session) Voices() []voice.Voice {
	return s.store.Voices()
}

// Speakers returns the speaker collection.
func (s *Session) Speakers() []voice.Speaker {
	return s.store.Speakers()
}

func (s *Session) publish(ctx context.Context, subject string, event any) {
	if subject == "" {
		return
	}

	err := s.publisher.Publish(ctx, subject, event)
	if err != nil {
		s.log.Warn("Failed to publish event to %s: %v", subject, err)
	}
}
