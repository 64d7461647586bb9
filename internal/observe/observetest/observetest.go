// Package observetest records metrics into a manual reader for tests.
package observetest

import (
	"context"
	"testing"

	"github.com/book-expert/voice-studio/internal/observe"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// NewMetrics returns metrics backed by a manual reader so tests can
// inspect what was recorded.
func NewMetrics(t testing.TB) (*observe.Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := observe.NewMetrics(provider)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	return metrics, reader
}

// CounterValue collects reader and returns the sum of the int64 counter
// name over data points carrying every attribute in attrs.
func CounterValue(t testing.TB, reader *sdkmetric.ManualReader, name string, attrs map[string]string) int64 {
	t.Helper()

	var collected metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &collected)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var total int64

	for _, scope := range collected.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is %T, not an int64 sum", name, m.Data)
			}

			for _, point := range sum.DataPoints {
				if hasAttributes(point.Attributes.ToSlice(), attrs) {
					total += point.Value
				}
			}
		}
	}

	return total
}

func hasAttributes(have []attribute.KeyValue, want map[string]string) bool {
	matched := 0

	for _, kv := range have {
		value, ok := want[string(kv.Key)]
		if ok && kv.Value.AsString() == value {
			matched++
		}
	}

	return matched == len(want)
}
