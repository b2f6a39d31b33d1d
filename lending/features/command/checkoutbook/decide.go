package checkoutbook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// Decide implements the business logic to determine whether a patron may check out a book.
//
// Business Rules, checked in this order:
//
//	GIVEN: A book with BookID, a patron with PatronID and a loan policy
//	WHEN: CheckoutBook command is received
//	THEN: BookCheckedOut is generated, due LoanDurationInDays after the checkout
//	AND: ReservationFulfilled is generated when the patron is the waitlist head
//	ERROR: BookNotFound if the book is not registered
//	ERROR: PatronNotFound if the patron is not registered
//	ERROR: BookNotAvailable if somebody holds the book
//	ERROR: NotPatronsTurn if others wait and the patron is not the head
//	ERROR: CheckoutLimitExceeded if the patron already holds MaxBooksPerPatron books
func Decide(history core.DomainEvents, command Command, policy core.LoanPolicy) core.DecisionResult {
	patronID := command.PatronID.String()
	book := core.ProjectBookLending(history, command.BookID)
	patron := core.ProjectPatronLending(history, patronID)

	if !book.Registered {
		return core.ErrorDecision(fmt.Errorf("%w: %s", core.ErrBookNotFound, command.BookID))
	}

	if !patron.Registered {
		return core.ErrorDecision(fmt.Errorf("%w: %s", core.ErrPatronNotFound, patronID))
	}

	if !book.IsAvailable() {
		return core.ErrorDecision(fmt.Errorf("%w: book %s is checked out", core.ErrBookNotAvailable, command.BookID))
	}

	head, hasHead := book.Waitlist.PeekHead()
	if hasHead && head.PatronID != patronID {
		return core.ErrorDecision(fmt.Errorf("%w: patron %s is at position %d", core.ErrNotPatronsTurn, head.PatronID, head.QueuePosition))
	}

	if patron.OpenCheckoutCount() >= policy.MaxBooksPerPatron {
		return core.ErrorDecision(fmt.Errorf("%w: %d of %d", core.ErrCheckoutLimitExceeded, patron.OpenCheckoutCount(), policy.MaxBooksPerPatron))
	}

	checkedOut := core.BuildBookCheckedOut(command.CheckoutID, command.BookID, command.PatronID, policy.LoanDurationInDays, command.OccurredAt)

	if hasHead {
		return core.SuccessDecision(checkedOut, core.BuildReservationFulfilled(head, checkedOut.CheckoutID, command.OccurredAt))
	}

	return core.SuccessDecision(checkedOut)
}

// BuildEventFilter selects the book's lending aggregate and the patron's registration and checkouts.
// Two checkouts by the same patron therefore conflict, which keeps the checkout limit exact.
func BuildEventFilter(isbn core.ISBNString, patronID uuid.UUID) eventstore.Filter {
	return shell.OrMatchingPatronLending(shell.MatchingBookLending(isbn), patronID.String()).
		Finalize()
}
