package testdoubles

import (
	"context"
	"log/slog"
	"sync"
)

// LogHandlerSpy is a slog.Handler that keeps every record. Handlers derived with
// WithAttrs or WithGroup write into the same store.
type LogHandlerSpy struct {
	store *recordStore
	attrs []slog.Attr
}

type recordStore struct {
	mu      sync.Mutex
	records []slog.Record
}

func NewLogHandlerSpy() *LogHandlerSpy {
	return &LogHandlerSpy{store: &recordStore{}}
}

func (s *LogHandlerSpy) Enabled(context.Context, slog.Level) bool {
	return true
}

func (s *LogHandlerSpy) Handle(_ context.Context, record slog.Record) error {
	clone := record.Clone()
	clone.AddAttrs(s.attrs...)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	s.store.records = append(s.store.records, clone)

	return nil
}

func (s *LogHandlerSpy) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandlerSpy{store: s.store, attrs: append(append([]slog.Attr(nil), s.attrs...), attrs...)}
}

func (s *LogHandlerSpy) WithGroup(string) slog.Handler {
	return s
}

// Records returns a copy of all records at level.
func (s *LogHandlerSpy) Records(level slog.Level) []slog.Record {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	records := make([]slog.Record, 0, len(s.store.records))
	for _, r := range s.store.records {
		if r.Level == level {
			records = append(records, r)
		}
	}

	return records
}

// HasRecord reports whether msg was logged at level.
func (s *LogHandlerSpy) HasRecord(level slog.Level, msg string) bool {
	for _, r := range s.Records(level) {
		if r.Message == msg {
			return true
		}
	}

	return false
}

// AttrOf returns the value of key in record.
func AttrOf(record slog.Record, key string) (slog.Value, bool) {
	var (
		value slog.Value
		found bool
	)

	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			value, found = attr.Value, true
			return false
		}

		return true
	})

	return value, found
}
