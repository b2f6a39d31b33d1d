package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/library-lending-engine/eventstore/oteladapters"
)

func givenMetricsCollector(t *testing.T) (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))

	byName := map[string]metricdata.Metrics{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			byName[m.Name] = m
		}
	}

	return byName
}

func Test_MetricsCollector_RecordsAllInstrumentKinds(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector(t)
	labels := map[string]string{"command": "checkout"}

	// act
	collector.RecordDuration("lending_command_duration_seconds", 250*time.Millisecond, labels)
	collector.IncrementCounter("lending_commands_total", labels)
	collector.IncrementCounterContext(context.Background(), "lending_commands_total", labels)
	collector.RecordValue("lending_waitlist_length", 3, labels)

	// assert
	metrics := collect(t, reader)

	histogram, ok := metrics["lending_command_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.25, histogram.DataPoints[0].Sum, 0.0001)
	assert.Equal(t, "s", metrics["lending_command_duration_seconds"].Unit)

	counter, ok := metrics["lending_commands_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(2), counter.DataPoints[0].Value)

	gauge, ok := metrics["lending_waitlist_length"].Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 3.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_ConcurrentUse(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector(t)
	wg := sync.WaitGroup{}

	// act
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("lending_conflicts_total", nil)
		}()
	}
	wg.Wait()

	// assert
	counter, ok := collect(t, reader)["lending_conflicts_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(16), counter.DataPoints[0].Value)
}
