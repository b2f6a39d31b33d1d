package memengine

import (
	"context"
	"slices"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

const (
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logAttrEventCount         = "event_count"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
)

type storedEvent struct {
	sequenceNumber eventstore.MaxSequenceNumberUint
	event          eventstore.StorableEvent
}

// EventStore keeps events in a slice ordered by sequence number.
type EventStore struct {
	state  *state
	logger eventstore.Logger
}

type state struct {
	mu     chan struct{}
	events []storedEvent
}

// Option configures an EventStore.
type Option func(*EventStore)

// WithLogger sets a logger for operation summaries.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

// NewEventStore returns an empty store. Copies of the returned value share their events.
func NewEventStore(options ...Option) EventStore {
	es := EventStore{
		state: &state{mu: make(chan struct{}, 1)},
	}

	for _, option := range options {
		option(&es)
	}

	return es
}

// Query returns all events matching filter in sequence order,
// plus the sequence number of the last one (0 if none matched).
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := es.lock(ctx); err != nil {
		return nil, 0, err
	}
	defer es.unlock()

	matching, maxSequenceNumber := es.matching(filter)

	if es.logger != nil {
		es.logger.Debug(logMsgQueryCompleted, logAttrEventCount, len(matching))
	}

	return matching, maxSequenceNumber, nil
}

// Append appends events atomically if the filter's max sequence number still equals expectedMaxSequenceNumber.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	if len(events) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	if err := es.lock(ctx); err != nil {
		return err
	}
	defer es.unlock()

	if _, actual := es.matching(filter); actual != expectedMaxSequenceNumber {
		if es.logger != nil {
			es.logger.Info(
				logMsgConcurrencyConflict,
				logAttrExpectedSequence, expectedMaxSequenceNumber,
				logAttrActualSequence, actual,
			)
		}

		return eventstore.ErrConcurrencyConflict
	}

	next := eventstore.MaxSequenceNumberUint(len(es.state.events))
	for _, event := range events {
		next++
		es.state.events = append(es.state.events, storedEvent{sequenceNumber: next, event: clone(event)})
	}

	if es.logger != nil {
		es.logger.Debug(logMsgEventsAppended, logAttrEventCount, len(events))
	}

	return nil
}

// Len returns the number of stored events.
func (es EventStore) Len() int {
	es.state.mu <- struct{}{}
	defer es.unlock()

	return len(es.state.events)
}

func (es EventStore) lock(ctx context.Context) error {
	select {
	case es.state.mu <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (es EventStore) unlock() {
	<-es.state.mu
}

func (es EventStore) matching(filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint) {
	matching := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.state.events {
		if !matches(filter, stored.event) {
			continue
		}

		matching = append(matching, clone(stored.event))
		maxSequenceNumber = stored.sequenceNumber
	}

	return matching, maxSequenceNumber
}

func matches(filter eventstore.Filter, event eventstore.StorableEvent) bool {
	if filter.IsEmpty() {
		return true
	}

	lookup := func(key eventstore.FilterKeyString) (eventstore.FilterValString, bool) {
		field := jsoniter.Get(event.PayloadJSON, key)
		if field.ValueType() != jsoniter.StringValue {
			return "", false
		}

		return field.ToString(), true
	}

	for _, item := range filter.Items() {
		if item.Matches(event.EventType, lookup) {
			return true
		}
	}

	return false
}

func clone(event eventstore.StorableEvent) eventstore.StorableEvent {
	event.PayloadJSON = slices.Clone(event.PayloadJSON)
	event.MetadataJSON = slices.Clone(event.MetadataJSON)

	return event
}
