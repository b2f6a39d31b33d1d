package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	_ "github.com/mattn/go-sqlite3" // database/sql driver

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/internal/observe"
)

const (
	driverName            = "sqlite3"
	dialectSQLite         = "sqlite3"
	defaultEventTableName = "events"
	busyTimeoutMillis     = 5000

	colSequenceNumber = "sequence_number"
	colOccurredAt     = "occurred_at"
	colEventType      = "event_type"
	colPayload        = "payload"
	colMetadata       = "metadata"

	jsonExtractEquals = "json_extract(?, ?) = ?"

	logMsgBuildQueryFailed    = "failed to build sqlite query"
	logMsgDBQueryFailed       = "sqlite query execution failed"
	logMsgScanRowFailed       = "failed to scan sqlite row"
	logMsgBuildStorableFailed = "failed to build storable event from sqlite row"
	logMsgBeginTxFailed       = "failed to begin sqlite transaction"
	logMsgDBExecFailed        = "sqlite insert failed"
	logMsgCommitFailed        = "failed to commit sqlite transaction"
	logMsgRollbackFailed      = "failed to roll back sqlite transaction"
	logMsgCloseRowsFailed     = "failed to close sqlite rows"
)

// ErrCreatingSchemaFailed is returned when a DDL statement fails.
var ErrCreatingSchemaFailed = errors.New("creating events schema failed")

// EventStore is the SQLite event store.
type EventStore struct {
	db             *sql.DB
	eventTableName string
	instruments    observe.Instruments
}

// Open opens the database file at path. Transactions start with BEGIN IMMEDIATE,
// the journal is in WAL mode and a busy connection waits up to 5s.
//
// The pool is limited to one connection because SQLite allows a single writer.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_txlock=immediate&_journal_mode=WAL&_foreign_keys=1", path, busyTimeoutMillis)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	return db, nil
}

// NewEventStore creates an EventStore. The db should come from Open,
// other DSNs lose the BEGIN IMMEDIATE guarantee.
func NewEventStore(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	es := EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// CreateSchema creates the events table and its index if they do not exist.
func (es EventStore) CreateSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
	%s INTEGER PRIMARY KEY AUTOINCREMENT,
	%s TEXT NOT NULL,
	%s TEXT NOT NULL,
	%s TEXT NOT NULL,
	%s TEXT NOT NULL DEFAULT '{}',
	appended_at TEXT NOT NULL DEFAULT (strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', 'now'))
)`, es.eventTableName, colSequenceNumber, colOccurredAt, colEventType, colPayload, colMetadata),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (%s)`, es.eventTableName+"_event_type_idx", es.eventTableName, colEventType),
	}

	for _, statement := range statements {
		if _, err := es.db.ExecContext(ctx, statement); err != nil {
			return errors.Join(ErrCreatingSchemaFailed, err)
		}
	}

	return nil
}

// Query returns the events matching filter in sequence order and the max sequence number
// among them (0 if none matched).
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.instruments.Start(ctx, observe.OperationQuery, nil)

	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc()).
		Prepared(true)

	if where := whereClauseFor(filter); where != nil {
		selectStmt = selectStmt.Where(where)
	}

	sqlQuery, args, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		op.Failed(logMsgBuildQueryFailed, toSQLErr)
		return nil, 0, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	rows, queryErr := es.db.QueryContext(ctx, sqlQuery, args...)
	op.LogSQL(sqlQuery, time.Since(start))

	if queryErr != nil {
		op.Failed(logMsgDBQueryFailed, queryErr, observe.AttrQuery, sqlQuery)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			op.Warn(logMsgCloseRowsFailed, closeErr)
		}
	}()

	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		var (
			eventType, occurredAt string
			payload, metadata     []byte
			sequenceNumber        int64
		)

		if scanErr := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &sequenceNumber); scanErr != nil {
			op.Failed(logMsgScanRowFailed, scanErr)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, scanErr)
		}

		occurred, parseErr := time.Parse(time.RFC3339Nano, occurredAt)
		if parseErr != nil {
			op.Failed(logMsgScanRowFailed, parseErr)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, parseErr)
		}

		event, buildErr := eventstore.BuildStorableEvent(eventType, occurred, payload, metadata)
		if buildErr != nil {
			op.Failed(logMsgBuildStorableFailed, buildErr)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		events = append(events, event)
		maxSequenceNumber = eventstore.MaxSequenceNumberUint(sequenceNumber) //nolint:gosec // AUTOINCREMENT is positive
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		op.Failed(logMsgDBQueryFailed, rowsErr)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, rowsErr)
	}

	op.Succeeded(len(events))

	return events, maxSequenceNumber, nil
}

// Append inserts events atomically if the filter's max sequence number still equals
// expectedMaxSequenceNumber, otherwise it returns eventstore.ErrConcurrencyConflict.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	if len(events) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	ctx, op := es.instruments.Start(ctx, observe.OperationAppend, map[string]string{
		observe.AttrEventCount:  fmt.Sprintf("%d", len(events)),
		observe.AttrExpectedSeq: fmt.Sprintf("%d", expectedMaxSequenceNumber),
	})

	maxSeqQuery, maxSeqArgs, insertQuery, insertArgs, buildErr := es.buildAppendQueries(filter, events)
	if buildErr != nil {
		op.Failed(logMsgBuildQueryFailed, buildErr)
		return errors.Join(eventstore.ErrBuildingQueryFailed, buildErr)
	}

	tx, beginErr := es.db.BeginTx(ctx, nil)
	if beginErr != nil {
		op.Failed(logMsgBeginTxFailed, beginErr)
		return errors.Join(eventstore.ErrBeginTransactionFailed, beginErr)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			op.Warn(logMsgRollbackFailed, rollbackErr)
		}
	}()

	var actualMaxSequenceNumber int64
	if scanErr := tx.QueryRowContext(ctx, maxSeqQuery, maxSeqArgs...).Scan(&actualMaxSequenceNumber); scanErr != nil {
		op.Failed(logMsgDBQueryFailed, scanErr, observe.AttrQuery, maxSeqQuery)
		return errors.Join(eventstore.ErrQueryingEventsFailed, scanErr)
	}

	if eventstore.MaxSequenceNumberUint(actualMaxSequenceNumber) != expectedMaxSequenceNumber { //nolint:gosec // positive
		op.Conflicted(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	start := time.Now()
	_, execErr := tx.ExecContext(ctx, insertQuery, insertArgs...)
	op.LogSQL(insertQuery, time.Since(start))

	if execErr != nil {
		op.Failed(logMsgDBExecFailed, execErr, observe.AttrQuery, insertQuery)
		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		op.Failed(logMsgCommitFailed, commitErr)
		return errors.Join(eventstore.ErrCommitTransactionFailed, commitErr)
	}

	committed = true
	op.Succeeded(len(events))

	return nil
}

func (es EventStore) buildAppendQueries(filter eventstore.Filter, events eventstore.StorableEvents) (
	maxSeqQuery string,
	maxSeqArgs []any,
	insertQuery string,
	insertArgs []any,
	err error,
) {

	builder := goqu.Dialect(dialectSQLite)

	maxSeqStmt := builder.
		From(es.eventTableName).
		Select(goqu.COALESCE(goqu.MAX(colSequenceNumber), 0)).
		Prepared(true)

	if where := whereClauseFor(filter); where != nil {
		maxSeqStmt = maxSeqStmt.Where(where)
	}

	maxSeqQuery, maxSeqArgs, err = maxSeqStmt.ToSQL()
	if err != nil {
		return "", nil, "", nil, err
	}

	rows := make([]any, 0, len(events))
	for _, event := range events {
		rows = append(rows, goqu.Record{
			colEventType:  event.EventType,
			colOccurredAt: event.OccurredAt.UTC().Format(time.RFC3339Nano),
			colPayload:    string(event.PayloadJSON),
			colMetadata:   string(event.MetadataJSON),
		})
	}

	insertQuery, insertArgs, err = builder.
		Insert(es.eventTableName).
		Rows(rows...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", nil, "", nil, err
	}

	return maxSeqQuery, maxSeqArgs, insertQuery, insertArgs, nil
}

// whereClauseFor translates the filter; nil means "all events".
func whereClauseFor(filter eventstore.Filter) exp.Expression {
	if filter.IsEmpty() {
		return nil
	}

	items := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		parts := make([]exp.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			eventTypes := make([]any, 0, len(item.EventTypes()))
			for _, eventType := range item.EventTypes() {
				eventTypes = append(eventTypes, eventType)
			}

			parts = append(parts, goqu.C(colEventType).In(eventTypes...))
		}

		if len(item.Predicates()) > 0 {
			predicates := make([]exp.Expression, 0, len(item.Predicates()))
			for _, predicate := range item.Predicates() {
				path := `$."` + predicate.Key() + `"`
				predicates = append(predicates, goqu.L(jsonExtractEquals, goqu.I(colPayload), path, predicate.Val()))
			}

			if item.AllPredicatesMustMatch() {
				parts = append(parts, goqu.And(predicates...))
			} else {
				parts = append(parts, goqu.Or(predicates...))
			}
		}

		items = append(items, goqu.And(parts...))
	}

	return goqu.Or(items...)
}
