package checkoutbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	commandType = "CheckoutBook"
)

// Command represents the intent of a patron to borrow a book.
// CheckoutID identifies the CheckoutRecord the command creates.
type Command struct {
	CheckoutID uuid.UUID
	BookID     core.ISBNString
	PatronID   uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. isbn must already be normalized.
func BuildCommand(checkoutID uuid.UUID, isbn core.ISBNString, patronID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		CheckoutID: checkoutID,
		BookID:     isbn,
		PatronID:   patronID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
