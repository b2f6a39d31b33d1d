package lending

import (
	"time"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/notify"
)

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy replaces the default static loan policy.
func WithPolicy(provider core.PolicyProvider) Option {
	return func(e *Engine) {
		e.policy = provider
	}
}

// WithConflictRetry opts the command handlers into retrying concurrency conflicts.
// Without it a conflict is returned to the caller as ErrConcurrentModification.
func WithConflictRetry(opts ...shell.RetryOption) Option {
	return func(e *Engine) {
		e.retryOptions = append(e.retryOptions, opts...)
	}
}

// WithTrigger sets the notification trigger called after successful transitions.
func WithTrigger(trigger notify.Trigger) Option {
	return func(e *Engine) {
		e.trigger = trigger
	}
}

// WithMetrics instruments every handler and counts notification failures.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(e *Engine) {
		e.metricsCollector = collector
	}
}

// WithTracing opens one span per handled command or query.
func WithTracing(collector shell.TracingCollector) Option {
	return func(e *Engine) {
		e.tracingCollector = collector
	}
}

// WithLogger logs handler outcomes and notification failures.
func WithLogger(logger shell.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithContextualLogger takes precedence over WithLogger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(e *Engine) {
		e.contextualLogger = logger
	}
}

// WithClock replaces time.Now as the source of occurred-at timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}
