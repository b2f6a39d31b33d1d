package core

import (
	"time"

	"github.com/google/uuid"
)

// PatronRegisteredForLendingEventType is the event type identifier.
const PatronRegisteredForLendingEventType = "PatronRegisteredForLending"

// PatronRegisteredForLending is the fact that a patron may reserve and borrow books.
type PatronRegisteredForLending struct {
	PatronID   PatronIDString
	Name       string
	OccurredAt OccurredAtTS
}

// BuildPatronRegisteredForLending creates a new PatronRegisteredForLending event.
func BuildPatronRegisteredForLending(patronID uuid.UUID, name string, occurredAt time.Time) PatronRegisteredForLending {
	return PatronRegisteredForLending{
		PatronID:   patronID.String(),
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e PatronRegisteredForLending) EventType() EventTypeString {
	return PatronRegisteredForLendingEventType
}

func (e PatronRegisteredForLending) HasOccurredAt() time.Time {
	return e.OccurredAt
}
