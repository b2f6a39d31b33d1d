// Package observe reports engine operations to the optional eventstore observability ports.
// Every port may be nil.
package observe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

const (
	MetricQueryDuration        = "eventstore_query_duration_seconds"
	MetricAppendDuration       = "eventstore_append_duration_seconds"
	MetricEventsQueried        = "eventstore_events_queried"
	MetricEventsAppended       = "eventstore_events_appended"
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	MetricDatabaseErrors       = "eventstore_database_errors_total"

	SpanNameQuery  = "eventstore.query"
	SpanNameAppend = "eventstore.append"

	OperationQuery  = "query"
	OperationAppend = "append"

	StatusSuccess  = "success"
	StatusError    = "error"
	StatusConflict = "conflict"

	AttrOperation   = "operation"
	AttrStatus      = "status"
	AttrErrorType   = "error_type"
	AttrEventCount  = "event_count"
	AttrDurationMS  = "duration_ms"
	AttrExpectedSeq = "expected_sequence"
	AttrError       = "error"
	AttrQuery       = "query"

	ErrorTypeCanceled = "context_canceled"
	ErrorTypeTimeout  = "context_deadline_exceeded"
	ErrorTypeDatabase = "database"

	logMsgOperation = "eventstore operation: "
	logMsgSQL       = "executed sql for: "
)

// Instruments bundles the observability ports of an engine.
type Instruments struct {
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// Operation is one running query or append.
type Operation struct {
	ins       Instruments
	ctx       context.Context
	operation string
	span      eventstore.SpanContext
	start     time.Time
}

// Start opens a span for operation and starts the clock.
func (ins Instruments) Start(ctx context.Context, operation string, attrs map[string]string) (context.Context, *Operation) {
	op := &Operation{ins: ins, operation: operation, start: time.Now()}

	if ins.Tracing != nil {
		spanAttrs := map[string]string{AttrOperation: operation}
		for k, v := range attrs {
			spanAttrs[k] = v
		}

		ctx, op.span = ins.Tracing.StartSpan(ctx, spanName(operation), spanAttrs)
	}

	op.ctx = ctx

	return ctx, op
}

// LogSQL logs a statement at debug level.
func (op *Operation) LogSQL(sqlQuery string, duration time.Duration) {
	op.ins.log(op.ctx, levelDebug, logMsgSQL+op.operation, AttrDurationMS, ToMilliseconds(duration), AttrQuery, sqlQuery)
}

// Succeeded records duration, event count and span status.
func (op *Operation) Succeeded(eventCount int) {
	duration := time.Since(op.start)

	op.recordDuration(duration, StatusSuccess)

	switch op.operation {
	case OperationQuery:
		op.recordValue(MetricEventsQueried, float64(eventCount))
	case OperationAppend:
		op.recordValue(MetricEventsAppended, float64(eventCount))
	}

	op.finishSpan(StatusSuccess, map[string]string{
		AttrEventCount: fmt.Sprintf("%d", eventCount),
		AttrDurationMS: fmt.Sprintf("%.3f", ToMilliseconds(duration)),
	})

	op.ins.log(op.ctx, levelInfo, logMsgOperation+op.operation+" completed",
		AttrEventCount, eventCount,
		AttrDurationMS, ToMilliseconds(duration))
}

// Conflicted records a lost optimistic concurrency check.
func (op *Operation) Conflicted(expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint) {
	duration := time.Since(op.start)

	op.recordDuration(duration, StatusConflict)
	op.incrementCounter(MetricConcurrencyConflicts, map[string]string{AttrOperation: op.operation})
	op.finishSpan(StatusConflict, map[string]string{AttrExpectedSeq: fmt.Sprintf("%d", expectedMaxSequenceNumber)})

	op.ins.log(op.ctx, levelInfo, logMsgOperation+"concurrency conflict detected",
		AttrExpectedSeq, expectedMaxSequenceNumber,
		AttrDurationMS, ToMilliseconds(duration))
}

// Failed records a failure. msg is logged at error level together with err.
func (op *Operation) Failed(msg string, err error, args ...any) {
	duration := time.Since(op.start)
	errorType := ErrorType(err)

	op.recordDuration(duration, StatusError)
	op.incrementCounter(MetricDatabaseErrors, map[string]string{AttrOperation: op.operation, AttrErrorType: errorType})
	op.finishSpan(StatusError, map[string]string{AttrErrorType: errorType})

	allArgs := append([]any{AttrError, err.Error()}, args...)
	op.ins.log(op.ctx, levelError, msg, allArgs...)
}

// Warn logs a non-critical problem.
func (op *Operation) Warn(msg string, err error) {
	op.ins.log(op.ctx, levelWarn, msg, AttrError, err.Error())
}

// ErrorType categorizes err for metric labels.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return ErrorTypeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	default:
		return ErrorTypeDatabase
	}
}

// ToMilliseconds converts d to milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func spanName(operation string) string {
	if operation == OperationAppend {
		return SpanNameAppend
	}

	return SpanNameQuery
}

func (op *Operation) recordDuration(duration time.Duration, status string) {
	if op.ins.Metrics == nil {
		return
	}

	metric := MetricQueryDuration
	if op.operation == OperationAppend {
		metric = MetricAppendDuration
	}

	labels := map[string]string{AttrOperation: op.operation, AttrStatus: status}

	if contextual, ok := op.ins.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(op.ctx, metric, duration, labels)
		return
	}

	op.ins.Metrics.RecordDuration(metric, duration, labels)
}

func (op *Operation) recordValue(metric string, value float64) {
	if op.ins.Metrics == nil {
		return
	}

	labels := map[string]string{AttrOperation: op.operation}

	if contextual, ok := op.ins.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(op.ctx, metric, value, labels)
		return
	}

	op.ins.Metrics.RecordValue(metric, value, labels)
}

func (op *Operation) incrementCounter(metric string, labels map[string]string) {
	if op.ins.Metrics == nil {
		return
	}

	if contextual, ok := op.ins.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(op.ctx, metric, labels)
		return
	}

	op.ins.Metrics.IncrementCounter(metric, labels)
}

func (op *Operation) finishSpan(status string, attrs map[string]string) {
	if op.ins.Tracing == nil || op.span == nil {
		return
	}

	op.ins.Tracing.FinishSpan(op.span, status, attrs)
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

// log prefers the contextual logger so trace ids end up in the record.
func (ins Instruments) log(ctx context.Context, lvl level, msg string, args ...any) {
	if ins.ContextualLogger != nil {
		switch lvl {
		case levelDebug:
			ins.ContextualLogger.DebugContext(ctx, msg, args...)
		case levelInfo:
			ins.ContextualLogger.InfoContext(ctx, msg, args...)
		case levelWarn:
			ins.ContextualLogger.WarnContext(ctx, msg, args...)
		case levelError:
			ins.ContextualLogger.ErrorContext(ctx, msg, args...)
		}

		return
	}

	if ins.Logger == nil {
		return
	}

	switch lvl {
	case levelDebug:
		ins.Logger.Debug(msg, args...)
	case levelInfo:
		ins.Logger.Info(msg, args...)
	case levelWarn:
		ins.Logger.Warn(msg, args...)
	case levelError:
		ins.Logger.Error(msg, args...)
	}
}
