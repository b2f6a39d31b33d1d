package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// CommandWrapper instruments a command handler. It never changes the handler's result.
type CommandWrapper[C shell.Command] struct {
	coreHandler      shell.CommandHandler[C]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandWrapper wraps coreHandler. The command type is taken from C's zero value.
func NewCommandWrapper[C shell.Command](coreHandler shell.CommandHandler[C], opts ...CommandOption[C]) (*CommandWrapper[C], error) {
	var zeroCommand C

	wrapper := &CommandWrapper[C]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

func (w *CommandWrapper[C]) Handle(ctx context.Context, command C) (shell.HandlerResult, error) {
	start := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType)
	shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandStarted, shell.LogAttrCommandType, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)
	duration := time.Since(start)

	w.recordRetryMetrics(ctx, result)

	status := shell.StatusOf(err)
	if err == nil && result.Idempotent {
		status = shell.StatusIdempotent
	}

	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)

	args := []any{
		shell.LogAttrCommandType, w.commandType,
		shell.LogAttrBusinessOutcome, status,
		shell.LogAttrDurationMS, shell.ToMilliseconds(duration),
	}

	switch status {
	case shell.StatusSuccess, shell.StatusIdempotent:
		args = append(args, shell.LogAttrEventCount, len(result.Events))
		shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandCompleted, args...)
	case shell.StatusRejected:
		args = append(args, shell.LogAttrError, err.Error())
		shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandRejected, args...)
	default:
		args = append(args, shell.LogAttrError, err.Error())
		shell.LogError(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandFailed, args...)
	}

	return result, err
}

// CommandOption configures a CommandWrapper.
type CommandOption[C shell.Command] func(*CommandWrapper[C]) error

func WithCommandMetrics[C shell.Command](collector shell.MetricsCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.metricsCollector = collector
		return nil
	}
}

func WithCommandTracing[C shell.Command](collector shell.TracingCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.tracingCollector = collector
		return nil
	}
}

func WithCommandContextualLogging[C shell.Command](logger shell.ContextualLogger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.contextualLogger = logger
		return nil
	}
}

func WithCommandLogging[C shell.Command](logger shell.Logger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.logger = logger
		return nil
	}
}

func (w *CommandWrapper[C]) recordRetryMetrics(ctx context.Context, result shell.HandlerResult) {
	if w.metricsCollector == nil || result.RetryAttempts <= 1 {
		return
	}

	labels := shell.BuildRetryLabels(w.commandType, result.RetryAttempts-1, result.LastErrorType)
	delayLabels := map[string]string{shell.LogAttrCommandType: w.commandType}

	if contextual, ok := w.metricsCollector.(shell.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, shell.CommandHandlerRetriesMetric, labels)
		contextual.RecordDurationContext(ctx, shell.CommandHandlerRetryDelayMetric, result.TotalRetryDelay, delayLabels)

		return
	}

	w.metricsCollector.IncrementCounter(shell.CommandHandlerRetriesMetric, labels)
	w.metricsCollector.RecordDuration(shell.CommandHandlerRetryDelayMetric, result.TotalRetryDelay, delayLabels)
}
