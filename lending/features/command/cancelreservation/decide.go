package cancelreservation

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// Decide implements the business logic to determine whether a reservation can be cancelled.
//
// Business Rules:
//
//	GIVEN: A book with BookID and a patron with PatronID
//	WHEN: CancelReservation command is received
//	THEN: ReservationCancelled is generated for the patron's entry
//	ERROR: BookNotFound if the book is not registered
//	ERROR: ReservationNotFound if the patron does not wait for the book
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	patronID := command.PatronID.String()
	book := core.ProjectBookLending(history, command.BookID)

	if !book.Registered {
		return core.ErrorDecision(fmt.Errorf("%w: %s", core.ErrBookNotFound, command.BookID))
	}

	entry, found := book.Waitlist.Remove(patronID)
	if !found {
		return core.ErrorDecision(fmt.Errorf("%w: patron %s for book %s", core.ErrReservationNotFound, patronID, command.BookID))
	}

	return core.SuccessDecision(core.BuildReservationCancelled(entry, command.OccurredAt))
}

// BuildEventFilter selects the book's lending aggregate.
func BuildEventFilter(isbn core.ISBNString) eventstore.Filter {
	return shell.MatchingBookLending(isbn).Finalize()
}
