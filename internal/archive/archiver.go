// Package archive copies generated speech from the ITTS service into the
// audio object store.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/observe"
	"github.com/dustin/go-humanize"
)

const keySuffix = ".wav"

// ErrAudioIDEmpty indicates an archive request without an audio id.
var ErrAudioIDEmpty = errors.New("audio id cannot be empty")

// Archiver downloads clips and stores them under "{id}.wav".
type Archiver struct {
	fetcher core.AudioFetcher
	store   core.ObjectStore
	log     *logger.Logger
	metrics *observe.Metrics
}

// New creates an Archiver that records on the default metrics.
func New(fetcher core.AudioFetcher, store core.ObjectStore, log *logger.Logger) *Archiver {
	return &Archiver{
		fetcher: fetcher,
		store:   store,
		log:     log,
		metrics: observe.DefaultMetrics(),
	}
}

// WithMetrics returns a copy of a that records on metrics.
func (a *Archiver) WithMetrics(metrics *observe.Metrics) *Archiver {
	clone := *a
	clone.metrics = metrics

	return &clone
}

// Key returns the object key of the clip with audioID.
func Key(audioID string) string {
	return audioID + keySuffix
}

// Archive downloads the clip with audioID and stores it. It returns the
// object key.
func (a *Archiver) Archive(ctx context.Context, audioID string) (string, error) {
	if audioID == "" {
		return "", ErrAudioIDEmpty
	}

	start := time.Now()

	data, err := a.fetcher.DownloadAudio(ctx, audioID)
	if err != nil {
		a.metrics.RecordRemote(ctx, observe.OperationArchive, observe.StatusError, start)

		return "", fmt.Errorf("failed to download audio %s: %w", audioID, err)
	}

	key := Key(audioID)

	err = a.store.Upload(ctx, key, data)
	if err != nil {
		a.metrics.RecordRemote(ctx, observe.OperationArchive, observe.StatusError, start)

		return "", fmt.Errorf("failed to archive audio %s: %w", audioID, err)
	}

	a.metrics.RecordRemote(ctx, observe.OperationArchive, observe.StatusOK, start)
	a.metrics.RecordArchived(ctx, len(data))
	a.log.Info("Archived %s (%s)", key, humanize.Bytes(uint64(len(data))))

	return key, nil
}
