package returnbook

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// Decide implements the business logic to determine whether a patron can return a book.
//
// Business Rules:
//
//	GIVEN: A book with BookID, a patron with PatronID and a loan policy
//	WHEN: ReturnBook command is received
//	THEN: BookReturned is generated with the fees for the days held and the days late
//	ERROR: BookNotFound if the book is not registered
//	ERROR: NotCurrentlyBorrowed if the patron does not hold the book, also for a second return
func Decide(history core.DomainEvents, command Command, policy core.LoanPolicy) core.DecisionResult {
	patronID := command.PatronID.String()
	book := core.ProjectBookLending(history, command.BookID)

	if !book.Registered {
		return core.ErrorDecision(fmt.Errorf("%w: %s", core.ErrBookNotFound, command.BookID))
	}

	open, isOpen := book.OpenCheckout()
	if !isOpen || open.PatronID != patronID {
		return core.ErrorDecision(fmt.Errorf("%w: book %s by patron %s", core.ErrNotCurrentlyBorrowed, command.BookID, patronID))
	}

	fees := core.ComputeFees(open.CheckoutDate, open.DueDate, command.OccurredAt, policy)

	return core.SuccessDecision(core.BuildBookReturned(open, fees, command.OccurredAt))
}

// BuildEventFilter selects the book's lending aggregate.
func BuildEventFilter(isbn core.ISBNString) eventstore.Filter {
	return shell.MatchingBookLending(isbn).Finalize()
}
