package reservebook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// Decide implements the business logic to determine whether a patron may join a book's waitlist.
//
// Business Rules, checked in this order:
//
//	GIVEN: A book with BookID and a patron with PatronID
//	WHEN: ReserveBook command is received
//	THEN: PatronJoinedWaitlist is generated with the next queue position
//	ERROR: BookNotFound if the book is not registered
//	ERROR: PatronNotFound if the patron is not registered
//	ERROR: BookCurrentlyAvailable if nobody holds the book
//	ERROR: DuplicateReservation if the patron already waits for the book
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	patronID := command.PatronID.String()
	book := core.ProjectBookLending(history, command.BookID)

	if !book.Registered {
		return core.ErrorDecision(fmt.Errorf("%w: %s", core.ErrBookNotFound, command.BookID))
	}

	if !core.ProjectPatronLending(history, patronID).Registered {
		return core.ErrorDecision(fmt.Errorf("%w: %s", core.ErrPatronNotFound, patronID))
	}

	if book.IsAvailable() {
		return core.ErrorDecision(fmt.Errorf("%w: book %s can be checked out", core.ErrBookCurrentlyAvailable, command.BookID))
	}

	entry, err := book.Waitlist.Enqueue(patronID, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(
		core.BuildPatronJoinedWaitlist(command.BookID, command.PatronID, entry.QueuePosition, command.OccurredAt),
	)
}

// BuildEventFilter selects the book's lending aggregate and the patron's registration.
func BuildEventFilter(isbn core.ISBNString, patronID uuid.UUID) eventstore.Filter {
	return shell.OrMatchingPatronRegistration(shell.MatchingBookLending(isbn), patronID.String()).
		Finalize()
}
