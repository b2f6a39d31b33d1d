package returnbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	commandType = "ReturnBook"
)

// Command represents the intent of a patron to return a borrowed book.
type Command struct {
	BookID     core.ISBNString
	PatronID   uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. isbn must already be normalized.
func BuildCommand(isbn core.ISBNString, patronID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		BookID:     isbn,
		PatronID:   patronID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
