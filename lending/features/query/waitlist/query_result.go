package waitlist

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// Waitlist is the queue of one book, lowest position first.
type Waitlist struct {
	BookID         core.ISBNString
	Registered     bool
	Entries        []core.ReservationEntry
	NextPosition   int
	SequenceNumber uint
}

// Head returns the entry with the lowest position.
func (r Waitlist) Head() (core.ReservationEntry, bool) {
	if len(r.Entries) == 0 {
		return core.ReservationEntry{}, false
	}

	return r.Entries[0], true
}

func (r Waitlist) Length() int {
	return len(r.Entries)
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r Waitlist) GetSequenceNumber() uint {
	return r.SequenceNumber
}
