package opencheckouts

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// OpenCheckouts are the open records, oldest checkout first.
type OpenCheckouts struct {
	Records        []core.CheckoutRecord
	Count          int
	SequenceNumber uint
}

// First returns the oldest open record. For a book query it is the only one.
func (r OpenCheckouts) First() (core.CheckoutRecord, bool) {
	if len(r.Records) == 0 {
		return core.CheckoutRecord{}, false
	}

	return r.Records[0], true
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r OpenCheckouts) GetSequenceNumber() uint {
	return r.SequenceNumber
}
