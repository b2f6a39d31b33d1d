package core

// BookLendingEventTypes are the event types that make up a book's lending state.
// Their BookID payload field is the book's ISBN.
func BookLendingEventTypes() []EventTypeString {
	return []EventTypeString{
		BookRegisteredForLendingEventType,
		PatronJoinedWaitlistEventType,
		ReservationCancelledEventType,
		WaitlistHeadReleasedEventType,
		ReservationFulfilledEventType,
		BookCheckedOutEventType,
		BookReturnedEventType,
	}
}

// BookLending is the single per-book aggregate: registration, the open checkout and the waitlist.
// All three are projected from the same events, so availability and queue can never disagree.
type BookLending struct {
	ISBN       ISBNString
	Title      string
	Registered bool
	Waitlist   Waitlist

	openCheckout    CheckoutRecord
	hasOpenCheckout bool
}

// ProjectBookLending replays history, ignoring events of other books.
func ProjectBookLending(history DomainEvents, isbn ISBNString) BookLending {
	s := BookLending{ISBN: isbn, Waitlist: NewWaitlist(isbn)}

	for _, event := range history {
		switch e := event.(type) {
		case BookRegisteredForLending:
			if e.BookID == isbn {
				s.Registered = true
				s.Title = e.Title
			}

		case PatronJoinedWaitlist:
			if e.BookID == isbn {
				s.Waitlist.restore(e.Entry())
			}

		case ReservationCancelled:
			if e.BookID == isbn {
				s.Waitlist.Remove(e.PatronID)
			}

		case WaitlistHeadReleased:
			if e.BookID == isbn {
				s.Waitlist.Remove(e.PatronID)
			}

		case ReservationFulfilled:
			if e.BookID == isbn {
				s.Waitlist.Remove(e.PatronID)
			}

		case BookCheckedOut:
			if e.BookID == isbn {
				s.openCheckout = e.Record()
				s.hasOpenCheckout = true
			}

		case BookReturned:
			if e.BookID == isbn && s.hasOpenCheckout && s.openCheckout.CheckoutID == e.CheckoutID {
				s.openCheckout = CheckoutRecord{}
				s.hasOpenCheckout = false
			}
		}
	}

	return s
}

// IsAvailable is true iff the book is registered and nobody holds it.
func (s BookLending) IsAvailable() bool {
	return s.Registered && !s.hasOpenCheckout
}

func (s BookLending) OpenCheckout() (CheckoutRecord, bool) {
	return s.openCheckout, s.hasOpenCheckout
}

// IsBorrowedBy reports whether patronID holds the open checkout.
func (s BookLending) IsBorrowedBy(patronID PatronIDString) bool {
	return s.hasOpenCheckout && s.openCheckout.PatronID == patronID
}

func (s BookLending) Book() Book {
	return Book{ISBN: s.ISBN, Title: s.Title, IsAvailable: s.IsAvailable()}
}
