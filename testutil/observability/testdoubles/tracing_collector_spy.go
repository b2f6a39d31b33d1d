package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

// SpySpan is a span created by TracingCollectorSpy.
type SpySpan struct {
	Name       string
	Status     string
	Attributes map[string]string
	Finished   bool
}

type spySpanContext struct {
	mu   sync.Mutex
	span *SpySpan
}

func (c *spySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.span.Status = status
}

func (c *spySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.span.Attributes[key] = value
}

// TracingCollectorSpy captures spans.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []*spySpanContext
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	spanCtx := &spySpanContext{span: &SpySpan{Name: name, Attributes: maps.Clone(attrs)}}
	if spanCtx.span.Attributes == nil {
		spanCtx.span.Attributes = map[string]string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.spans = append(s.spans, spanCtx)

	return ctx, spanCtx
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	c, ok := spanCtx.(*spySpanContext)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.span.Status = status
	c.span.Finished = true
	maps.Copy(c.span.Attributes, attrs)
}

// Spans returns copies of all spans named name.
func (s *TracingCollectorSpy) Spans(name string) []SpySpan {
	s.mu.Lock()
	defer s.mu.Unlock()

	spans := make([]SpySpan, 0, len(s.spans))

	for _, c := range s.spans {
		c.mu.Lock()
		if c.span.Name == name {
			span := *c.span
			span.Attributes = maps.Clone(c.span.Attributes)
			spans = append(spans, span)
		}
		c.mu.Unlock()
	}

	return spans
}
