package releasewaitlisthead

import (
	"time"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	commandType = "ReleaseWaitlistHead"
)

// Command represents the intent to dequeue the head of a book's waitlist.
type Command struct {
	BookID     core.ISBNString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. isbn must already be normalized.
func BuildCommand(isbn core.ISBNString, occurredAt time.Time) Command {
	return Command{
		BookID:     isbn,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
