package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookReturnedEventType is the event type identifier.
const BookReturnedEventType = "BookReturned"

// BookReturned closes a checkout and fixes its fees. From now on the book is available.
type BookReturned struct {
	CheckoutID   CheckoutIDString
	BookID       ISBNString
	PatronID     PatronIDString
	CheckoutDate time.Time
	DueDate      time.Time
	ReturnDate   time.Time
	DaysHeld     int
	LateDays     int
	BorrowingFee decimal.Decimal
	LateFee      decimal.Decimal
	TotalFee     decimal.Decimal
	OccurredAt   OccurredAtTS
}

// BuildBookReturned creates a new BookReturned event for an open checkout.
func BuildBookReturned(open CheckoutRecord, fees Fees, occurredAt time.Time) BookReturned {
	returnDate := ToOccurredAt(occurredAt)

	return BookReturned{
		CheckoutID:   open.CheckoutID,
		BookID:       open.BookID,
		PatronID:     open.PatronID,
		CheckoutDate: open.CheckoutDate,
		DueDate:      open.DueDate,
		ReturnDate:   returnDate,
		DaysHeld:     fees.DaysHeld,
		LateDays:     fees.LateDays,
		BorrowingFee: fees.BorrowingFee,
		LateFee:      fees.LateFee,
		TotalFee:     fees.TotalFee,
		OccurredAt:   returnDate,
	}
}

func (e BookReturned) EventType() EventTypeString {
	return BookReturnedEventType
}

func (e BookReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Fees returns the fees fixed by this return.
func (e BookReturned) Fees() Fees {
	return Fees{
		DaysHeld:     e.DaysHeld,
		LateDays:     e.LateDays,
		BorrowingFee: e.BorrowingFee,
		LateFee:      e.LateFee,
		TotalFee:     e.TotalFee,
	}
}

// Record returns the closed checkout this return produced.
func (e BookReturned) Record() CheckoutRecord {
	return CheckoutRecord{
		CheckoutID:   e.CheckoutID,
		BookID:       e.BookID,
		PatronID:     e.PatronID,
		CheckoutDate: e.CheckoutDate,
		DueDate:      e.DueDate,
	}.Closed(e)
}
