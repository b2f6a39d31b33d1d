// Package oteladapters implements the eventstore observability ports with OpenTelemetry.
//
// The lending engine and the event store engines report through the same ports, so one set
// of adapters covers both:
//
//	logger := oteladapters.NewSlogBridgeLogger("lendingctl")
//	metrics := oteladapters.NewMetricsCollector(otel.Meter("lendingctl"))
//	tracing := oteladapters.NewTracingCollector(otel.Tracer("lendingctl"))
package oteladapters
