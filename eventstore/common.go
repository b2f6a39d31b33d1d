package eventstore

import (
	"errors"
)

var (
	ErrEmptyEventsTableName  = errors.New("empty events table name supplied")
	ErrNilDatabaseConnection = errors.New("nil database connection supplied")
	ErrConcurrencyConflict   = errors.New("concurrency error, no rows were affected")
	ErrNoEventsToAppend      = errors.New("no events to append")
)

var (
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrAppendingEventFailed        = errors.New("appending event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
	ErrBeginTransactionFailed      = errors.New("beginning transaction failed")
	ErrCommitTransactionFailed     = errors.New("committing transaction failed")
	ErrAcquiringLockFailed         = errors.New("acquiring append lock failed")
)

// MaxSequenceNumberUint is the highest sequence number of a "dynamic event stream" as seen by a Query.
type MaxSequenceNumberUint = uint
