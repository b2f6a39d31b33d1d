package registerbook

import (
	"time"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	commandType = "RegisterBook"
)

// Command represents the intent to make a book known to the lending engine.
type Command struct {
	BookID     core.ISBNString
	Title      string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. isbn must already be normalized.
func BuildCommand(isbn core.ISBNString, title string, occurredAt time.Time) Command {
	return Command{
		BookID:     isbn,
		Title:      title,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
