package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.BookRegisteredForLendingEventType:
		return unmarshal[core.BookRegisteredForLending](storableEvent.PayloadJSON)

	case core.PatronRegisteredForLendingEventType:
		return unmarshal[core.PatronRegisteredForLending](storableEvent.PayloadJSON)

	case core.PatronJoinedWaitlistEventType:
		return unmarshal[core.PatronJoinedWaitlist](storableEvent.PayloadJSON)

	case core.ReservationCancelledEventType:
		return unmarshal[core.ReservationCancelled](storableEvent.PayloadJSON)

	case core.WaitlistHeadReleasedEventType:
		return unmarshal[core.WaitlistHeadReleased](storableEvent.PayloadJSON)

	case core.ReservationFulfilledEventType:
		return unmarshal[core.ReservationFulfilled](storableEvent.PayloadJSON)

	case core.BookCheckedOutEventType:
		return unmarshal[core.BookCheckedOut](storableEvent.PayloadJSON)

	case core.BookReturnedEventType:
		return unmarshal[core.BookReturned](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshal[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
