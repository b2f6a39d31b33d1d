package registerpatron

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	commandType = "RegisterPatron"
)

// Command represents the intent to let a patron reserve and borrow books.
type Command struct {
	PatronID   uuid.UUID
	Name       string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(patronID uuid.UUID, name string, occurredAt time.Time) Command {
	return Command{
		PatronID:   patronID,
		Name:       name,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
