package config

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const shutdownTimeout = 5 * time.Second

// ObservabilityProviders are in-process OpenTelemetry providers. Metrics are pulled through
// a ManualReader, so a CLI run can print what the engine recorded.
type ObservabilityProviders struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Reader         *metric.ManualReader
	Resource       *resource.Resource
}

// NewObservabilityProviders creates always-sampling tracer and meter providers for serviceName.
func NewObservabilityProviders(serviceName, serviceVersion string) (*ObservabilityProviders, error) {
	res := resource.NewSchemaless(
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(serviceVersion),
	)

	reader := metric.NewManualReader()

	return &ObservabilityProviders{
		TracerProvider: trace.NewTracerProvider(trace.WithSampler(trace.AlwaysSample()), trace.WithResource(res)),
		MeterProvider:  metric.NewMeterProvider(metric.WithReader(reader), metric.WithResource(res)),
		Reader:         reader,
		Resource:       res,
	}, nil
}

// MetricSummary is one collected instrument.
type MetricSummary struct {
	Name       string
	DataPoints int
	Count      uint64
	Sum        float64
}

// CollectMetrics reads all instruments recorded so far.
func (p *ObservabilityProviders) CollectMetrics(ctx context.Context) ([]MetricSummary, error) {
	rm := metricdata.ResourceMetrics{}
	if err := p.Reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}

	summaries := make([]MetricSummary, 0)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			summary := MetricSummary{Name: m.Name}

			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				summary.DataPoints = len(data.DataPoints)
				for _, dp := range data.DataPoints {
					summary.Count += uint64(dp.Value) //nolint:gosec // counters are monotonic
					summary.Sum += float64(dp.Value)
				}
			case metricdata.Histogram[float64]:
				summary.DataPoints = len(data.DataPoints)
				for _, dp := range data.DataPoints {
					summary.Count += dp.Count
					summary.Sum += dp.Sum
				}
			case metricdata.Gauge[float64]:
				summary.DataPoints = len(data.DataPoints)
				for _, dp := range data.DataPoints {
					summary.Count++
					summary.Sum += dp.Value
				}
			}

			summaries = append(summaries, summary)
		}
	}

	return summaries, nil
}

// Shutdown flushes and stops both providers.
func (p *ObservabilityProviders) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(p.TracerProvider.Shutdown(ctx), p.MeterProvider.Shutdown(ctx))
}
