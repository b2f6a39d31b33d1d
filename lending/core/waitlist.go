package core

import (
	"fmt"
	"slices"
	"time"
)

// Waitlist is the FIFO of patrons waiting for one book.
//
// Positions are 1-based and strictly increasing. A position is never handed out twice, even
// after its entry left the queue, so the next position is one above the highest ever assigned.
type Waitlist struct {
	bookID          ISBNString
	entries         []ReservationEntry
	highestPosition int
}

func NewWaitlist(bookID ISBNString) Waitlist {
	return Waitlist{bookID: bookID}
}

// Enqueue appends patronID with the next position.
func (w *Waitlist) Enqueue(patronID PatronIDString, at time.Time) (ReservationEntry, error) {
	if w.Contains(patronID) {
		return ReservationEntry{}, fmt.Errorf("%w: patron %s already waits for book %s", ErrDuplicateReservation, patronID, w.bookID)
	}

	entry := ReservationEntry{
		BookID:          w.bookID,
		PatronID:        patronID,
		QueuePosition:   w.NextPosition(),
		ReservationDate: ToOccurredAt(at),
	}

	w.restore(entry)

	return entry, nil
}

// PeekHead returns the entry with the lowest position.
func (w *Waitlist) PeekHead() (ReservationEntry, bool) {
	if len(w.entries) == 0 {
		return ReservationEntry{}, false
	}

	return w.entries[0], true
}

// Dequeue removes and returns the head.
func (w *Waitlist) Dequeue() (ReservationEntry, bool) {
	head, ok := w.PeekHead()
	if !ok {
		return ReservationEntry{}, false
	}

	w.entries = slices.Delete(w.entries, 0, 1)

	return head, true
}

// Remove takes patronID's entry out of the queue, wherever it is.
func (w *Waitlist) Remove(patronID PatronIDString) (ReservationEntry, bool) {
	idx := w.indexOf(patronID)
	if idx < 0 {
		return ReservationEntry{}, false
	}

	entry := w.entries[idx]
	w.entries = slices.Delete(w.entries, idx, idx+1)

	return entry, true
}

func (w *Waitlist) Length() int {
	return len(w.entries)
}

func (w *Waitlist) Contains(patronID PatronIDString) bool {
	return w.indexOf(patronID) >= 0
}

// IsHead reports whether patronID is first in line.
func (w *Waitlist) IsHead(patronID PatronIDString) bool {
	head, ok := w.PeekHead()

	return ok && head.PatronID == patronID
}

// NextPosition is the position the next Enqueue assigns.
func (w *Waitlist) NextPosition() int {
	return w.highestPosition + 1
}

// Entries returns a copy of the queue in position order.
func (w *Waitlist) Entries() []ReservationEntry {
	return slices.Clone(w.entries)
}

// restore inserts an entry replayed from history, keeping position order.
func (w *Waitlist) restore(entry ReservationEntry) {
	idx, _ := slices.BinarySearchFunc(w.entries, entry.QueuePosition, func(e ReservationEntry, position int) int {
		return e.QueuePosition - position
	})

	w.entries = slices.Insert(w.entries, idx, entry)
	w.highestPosition = max(w.highestPosition, entry.QueuePosition)
}

func (w *Waitlist) indexOf(patronID PatronIDString) int {
	return slices.IndexFunc(w.entries, func(e ReservationEntry) bool {
		return e.PatronID == patronID
	})
}
