package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is a fact of the lending domain.
type DomainEvent interface {
	// EventType returns the type under which the event is stored.
	EventType() EventTypeString

	// HasOccurredAt returns when the event occurred.
	HasOccurredAt() time.Time
}
