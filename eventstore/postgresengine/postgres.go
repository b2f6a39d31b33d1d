package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/internal/observe"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName          = "events"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgBeginTxFailed            = "failed to begin append transaction"
	logMsgLockFailed               = "failed to acquire append locks"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgCommitFailed             = "failed to commit append transaction"
	logMsgRollbackFailed           = "failed to roll back append transaction"
	logAttrEventType               = "event_type"
	logAttrEventCount              = "event_count"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	cteContext                     = "context"
	cteVals                        = "vals"
	dialectPostgres                = "postgres"
	aliasMaxSeq                    = "max_seq"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamp with time zone"
	castJsonb                      = "?::jsonb"
	containsJsonb                  = "? @> ?::jsonb"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// EventStore is the PostgreSQL event store. It is safe for concurrent use.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	instruments    observe.Instruments
}

type queryResultRow struct {
	eventType      string
	payload        []byte
	metadata       []byte
	occurredAt     time.Time
	sequenceNumber int64
}

// NewEventStoreFromPGXPool creates an EventStore on a pgx pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates an EventStore that sends eventually consistent queries to replica.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil || replica == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on a database/sql DB.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates an EventStore on an sqlx DB.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (EventStore, error) {
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

// Query returns the events matching filter ordered by sequence number,
// and the max sequence number of this "dynamic event stream" at query time.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.instruments.Start(ctx, observe.OperationQuery, nil)

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		op.Failed(logMsgBuildSelectQueryFailed, buildQueryErr)
		return nil, 0, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
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

	eventStream, maxSequenceNumber, scanErr := es.processQueryResults(rows, op)
	if scanErr != nil {
		return nil, 0, scanErr
	}

	op.Succeeded(len(eventStream))

	return eventStream, maxSequenceNumber, nil
}

func (es EventStore) processQueryResults(rows adapters.DBRows, op *observe.Operation) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	result := queryResultRow{}
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.sequenceNumber)
		if rowScanErr != nil {
			op.Failed(logMsgScanRowFailed, rowScanErr)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, rowScanErr)
		}

		event, buildStorableErr := eventstore.BuildStorableEvent(result.eventType, result.occurredAt, result.payload, result.metadata)
		if buildStorableErr != nil {
			op.Failed(logMsgBuildStorableEventFailed, buildStorableErr, logAttrEventType, result.eventType)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildStorableErr)
		}

		eventStream = append(eventStream, event)
		maxSequenceNumber = eventstore.MaxSequenceNumberUint(result.sequenceNumber) //nolint:gosec // BIGSERIAL is positive
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		op.Failed(logMsgDBQueryFailed, rowsErr)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, rowsErr)
	}

	return eventStream, maxSequenceNumber, nil
}

// Append appends events atomically, but only if no event matching filter was appended
// after the caller's Query returned expectedMaxSequenceNumber.
// Otherwise it returns eventstore.ErrConcurrencyConflict and nothing is written.
//
// filter must be the one used for the Query the decision was based on.
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

	sqlQuery, buildQueryErr := es.buildAppendQuery(events, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		op.Failed(logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(events))
		return buildQueryErr
	}

	rowsAffected, execErr := es.executeAppend(ctx, op, es.lockStatements(filter, events), sqlQuery, len(events))
	if execErr != nil {
		return execErr
	}

	if rowsAffected < int64(len(events)) {
		op.Conflicted(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	op.Succeeded(len(events))

	return nil
}

// executeAppend runs lock statements and the conditional insert in one transaction.
// A short insert (conflict) is rolled back rather than committed.
func (es EventStore) executeAppend(
	ctx context.Context,
	op *observe.Operation,
	lockStatements []sqlQueryString,
	insertQuery sqlQueryString,
	eventCount int,
) (rowsAffectedInt64, error) {

	tx, beginErr := es.db.BeginTx(ctx)
	if beginErr != nil {
		op.Failed(logMsgBeginTxFailed, beginErr)
		return 0, errors.Join(eventstore.ErrBeginTransactionFailed, beginErr)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			op.Warn(logMsgRollbackFailed, rollbackErr)
		}
	}()

	for _, statement := range lockStatements {
		if _, lockErr := tx.Exec(ctx, statement); lockErr != nil {
			op.Failed(logMsgLockFailed, lockErr, observe.AttrQuery, statement)
			return 0, errors.Join(eventstore.ErrAcquiringLockFailed, lockErr)
		}
	}

	start := time.Now()
	result, execErr := tx.Exec(ctx, insertQuery)
	op.LogSQL(insertQuery, time.Since(start))

	if execErr != nil {
		op.Failed(logMsgDBExecFailed, execErr, observe.AttrQuery, insertQuery)
		return 0, errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		op.Failed(logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(eventCount) {
		return rowsAffected, nil
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		op.Failed(logMsgCommitFailed, commitErr)
		return 0, errors.Join(eventstore.ErrCommitTransactionFailed, commitErr)
	}

	committed = true

	return rowsAffected, nil
}

func (es EventStore) buildAppendQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	if len(events) == 1 {
		return es.buildInsertQueryForSingleEvent(events[0], filter, expectedMaxSequenceNumber)
	}

	return es.buildInsertQueryForMultipleEvents(events, filter, expectedMaxSequenceNumber)
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	whereClause, err := whereClauseFor(filter)
	if err != nil {
		return "", err
	}

	if whereClause != nil {
		selectStmt = selectStmt.Where(whereClause)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// contextCTE selects the current max sequence number of the filter's event stream.
func (es EventStore) contextCTE(filter eventstore.Filter) (*goqu.SelectDataset, error) {
	cteStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	whereClause, err := whereClauseFor(filter)
	if err != nil {
		return nil, err
	}

	if whereClause != nil {
		cteStmt = cteStmt.Where(whereClause)
	}

	return cteStmt, nil
}

func (es EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, err := es.contextCTE(filter)
	if err != nil {
		return "", err
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, err := es.contextCTE(filter)
	if err != nil {
		return "", err
	}

	// one SELECT per event, combined with UNION ALL; event order is sequence order
	valuesStmt := eventValues(builder, events[0])
	for _, event := range events[1:] {
		valuesStmt = valuesStmt.UnionAll(eventValues(builder, event))
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.I(cteVals+"."+colEventType),
					goqu.I(cteVals+"."+colOccurredAt),
					goqu.I(cteVals+"."+colPayload),
					goqu.I(cteVals+"."+colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func eventValues(builder goqu.DialectWrapper, event eventstore.StorableEvent) *goqu.SelectDataset {
	return builder.Select(
		goqu.L(castText, event.EventType).As(colEventType),
		goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
		goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
		goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
	)
}

// whereClauseFor translates the filter; nil means "all events".
// Predicates become JSONB containment with an interpolated, escaped JSON literal.
func whereClauseFor(filter eventstore.Filter) (exp.Expression, error) {
	if filter.IsEmpty() {
		return nil, nil
	}

	itemsExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpressions := make([]exp.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			eventTypes := make([]any, 0, len(item.EventTypes()))
			for _, eventType := range item.EventTypes() {
				eventTypes = append(eventTypes, eventType)
			}

			itemExpressions = append(itemExpressions, goqu.C(colEventType).In(eventTypes...))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))

			for _, predicate := range item.Predicates() {
				containment, err := jsoniter.ConfigFastest.Marshal(map[string]string{predicate.Key(): predicate.Val()})
				if err != nil {
					return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
				}

				predicateExpressions = append(predicateExpressions, goqu.L(containsJsonb, goqu.I(colPayload), string(containment)))
			}

			if item.AllPredicatesMustMatch() {
				itemExpressions = append(itemExpressions, goqu.And(predicateExpressions...))
			} else {
				itemExpressions = append(itemExpressions, goqu.Or(predicateExpressions...))
			}
		}

		itemsExpressions = append(itemsExpressions, goqu.And(itemExpressions...))
	}

	return goqu.Or(itemsExpressions...), nil
}
