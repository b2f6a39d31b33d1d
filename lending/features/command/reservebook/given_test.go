package reservebook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const isbn = "9780134685991"

var fakeClock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func givenRegisteredBookAndPatrons(t *testing.T, patrons ...uuid.UUID) core.DomainEvents {
	t.Helper()

	history := core.DomainEvents{core.BuildBookRegisteredForLending(isbn, "Effective Java", fakeClock)}
	for _, patron := range patrons {
		history = append(history, core.BuildPatronRegisteredForLending(patron, patron.String()[:8], fakeClock))
	}

	return history
}

func givenCheckedOutTo(t *testing.T, history core.DomainEvents, holder uuid.UUID) core.DomainEvents {
	t.Helper()

	return append(history, core.BuildBookCheckedOut(uuid.New(), isbn, holder, 14, fakeClock.Add(time.Hour)))
}
