package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book is the lending view of a catalog entry.
type Book struct {
	ISBN        ISBNString
	Title       string
	IsAvailable bool
}

// ReservationEntry is a patron's place in a book's waitlist.
type ReservationEntry struct {
	BookID          ISBNString
	PatronID        PatronIDString
	QueuePosition   int
	ReservationDate time.Time
}

// CheckoutRecord is one loan. It is open until IsReturned, TotalFee stays zero until then.
type CheckoutRecord struct {
	CheckoutID   CheckoutIDString
	BookID       ISBNString
	PatronID     PatronIDString
	CheckoutDate time.Time
	DueDate      time.Time
	IsReturned   bool
	ReturnDate   time.Time
	TotalFee     decimal.Decimal
	Fees         Fees
}

// Closed returns the record as closed by returned.
func (r CheckoutRecord) Closed(returned BookReturned) CheckoutRecord {
	r.IsReturned = true
	r.ReturnDate = returned.ReturnDate
	r.Fees = returned.Fees()
	r.TotalFee = returned.TotalFee

	return r
}

// IsOverdueAt reports whether the open record's due day lies before now's day.
func (r CheckoutRecord) IsOverdueAt(now time.Time) bool {
	return !r.IsReturned && CivilDay(r.DueDate) < CivilDay(now)
}
