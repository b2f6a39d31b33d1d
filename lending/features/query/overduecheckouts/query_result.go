package overduecheckouts

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// OverdueCheckouts holds the overdue records ordered by due date, then checkout id,
// and the distinct books of those records in the same order.
type OverdueCheckouts struct {
	Records        []core.CheckoutRecord
	Books          []core.Book
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r OverdueCheckouts) GetSequenceNumber() uint {
	return r.SequenceNumber
}
