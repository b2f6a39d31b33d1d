package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/library-lending-engine/eventstore/oteladapters"
)

func givenTracingCollector(t *testing.T) (*oteladapters.TracingCollector, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return oteladapters.NewTracingCollector(provider.Tracer("test")), recorder
}

func Test_TracingCollector_SpanStatusMapping(t *testing.T) {
	tests := []struct {
		status       string
		expectedCode codes.Code
	}{
		{status: "success", expectedCode: codes.Ok},
		{status: "rejected", expectedCode: codes.Ok},
		{status: "error", expectedCode: codes.Error},
		{status: "conflict", expectedCode: codes.Error},
		{status: "canceled", expectedCode: codes.Error},
		{status: "something_else", expectedCode: codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			// arrange
			collector, recorder := givenTracingCollector(t)

			// act
			_, span := collector.StartSpan(context.Background(), "lending.checkout", map[string]string{"book_id": "9781098100131"})
			span.AddAttribute("patron_id", "p1")
			collector.FinishSpan(span, tt.status, map[string]string{"event_count": "1"})

			// assert
			ended := recorder.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, "lending.checkout", ended[0].Name())
			assert.Equal(t, tt.expectedCode, ended[0].Status().Code)
			assert.Contains(t, ended[0].Attributes(), attribute.String("book_id", "9781098100131"))
			assert.Contains(t, ended[0].Attributes(), attribute.String("patron_id", "p1"))
			assert.Contains(t, ended[0].Attributes(), attribute.String("event_count", "1"))
			assert.Contains(t, ended[0].Attributes(), attribute.String("status", tt.status))
		})
	}
}

func Test_TracingCollector_ChildSpansShareTrace(t *testing.T) {
	// arrange
	collector, recorder := givenTracingCollector(t)

	// act
	ctx, parent := collector.StartSpan(context.Background(), "lending.return", nil)
	_, child := collector.StartSpan(ctx, "eventstore.append", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, ended[1].SpanContext().TraceID(), ended[0].SpanContext().TraceID())
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
}

func Test_SlogLogger_WritesThroughHandler(t *testing.T) {
	// arrange
	buf := bytes.Buffer{}
	logger := oteladapters.NewSlogLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// act
	logger.InfoContext(context.Background(), "book checked out", "book_id", "9781098100131")

	// assert
	assert.Contains(t, buf.String(), `"msg":"book checked out"`)
	assert.Contains(t, buf.String(), `"book_id":"9781098100131"`)
}
