// Package observe records voice studio metrics through the OpenTelemetry
// Metrics API. Tests should build their own [Metrics] with [NewMetrics] and
// a private meter provider.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope of every voice studio metric.
const meterName = "github.com/book-expert/voice-studio"

// Remote operations.
const (
	OperationUpload   = "upload"
	OperationGenerate = "generate"
	OperationSpeakers = "speakers"
	OperationArchive  = "archive"
)

// Call outcomes.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusStale = "stale"
)

// Metrics holds the instruments of the voice studio.
type Metrics struct {
	// RemoteDuration tracks ITTS call latency by operation.
	RemoteDuration metric.Float64Histogram

	// RemoteRequests counts ITTS calls by operation and status.
	RemoteRequests metric.Int64Counter

	// VoicesAdded counts voices committed to the catalog by source
	// ("upload" or "speakers").
	VoicesAdded metric.Int64Counter

	// ArchivedBytes counts audio bytes written to the object store.
	ArchivedBytes metric.Int64Counter
}

// latencyBuckets are histogram boundaries in seconds for synthesis calls.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}

	var err error

	met.RemoteDuration, err = m.Float64Histogram("voice_studio.remote.duration",
		metric.WithDescription("Latency of ITTS calls by operation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	)
	if err != nil {
		return nil, err
	}

	met.RemoteRequests, err = m.Int64Counter("voice_studio.remote.requests",
		metric.WithDescription("ITTS calls by operation and status."),
	)
	if err != nil {
		return nil, err
	}

	met.VoicesAdded, err = m.Int64Counter("voice_studio.voices.added",
		metric.WithDescription("Voices added to the catalog by source."),
	)
	if err != nil {
		return nil, err
	}

	met.ArchivedBytes, err = m.Int64Counter("voice_studio.archive.bytes",
		metric.WithDescription("Audio bytes archived to the object store."),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instance built on the global
// meter provider. It panics if instrument creation fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error

		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})

	return defaultMetrics
}

// RecordRemote records one ITTS call that started at start.
func (m *Metrics) RecordRemote(ctx context.Context, operation, status string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)

	m.RemoteRequests.Add(ctx, 1, attrs)
	m.RemoteDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordVoicesAdded counts n voices added from source. Zero is ignored.
func (m *Metrics) RecordVoicesAdded(ctx context.Context, source string, n int) {
	if n <= 0 {
		return
	}

	m.VoicesAdded.Add(ctx, int64(n), metric.WithAttributes(attribute.String("source", source)))
}

// RecordArchived counts archived bytes.
func (m *Metrics) RecordArchived(ctx context.Context, n int) {
	m.ArchivedBytes.Add(ctx, int64(n))
}
