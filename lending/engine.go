package lending

import (
	"time"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/checkoutbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/registerbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/registerpatron"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/releasewaitlisthead"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/reservebook"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/bookavailability"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/opencheckouts"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/overduecheckouts"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/waitlist"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell/observable"
	"github.com/AntonStoeckl/library-lending-engine/notify"
)

// Engine is the lending state machine. It is safe for concurrent use.
type Engine struct {
	policy       core.PolicyProvider
	retryOptions []shell.RetryOption
	trigger      notify.Trigger
	now          func() time.Time

	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	logger           shell.Logger
	contextualLogger shell.ContextualLogger

	registerBook        shell.CommandHandler[registerbook.Command]
	registerPatron      shell.CommandHandler[registerpatron.Command]
	reserveBook         shell.CommandHandler[reservebook.Command]
	cancelReservation   shell.CommandHandler[cancelreservation.Command]
	releaseWaitlistHead shell.CommandHandler[releasewaitlisthead.Command]
	checkoutBook        shell.CommandHandler[checkoutbook.Command]
	returnBook          shell.CommandHandler[returnbook.Command]

	bookAvailability shell.QueryHandler[bookavailability.Query, bookavailability.BookAvailability]
	waitlist         shell.QueryHandler[waitlist.Query, waitlist.Waitlist]
	openCheckouts    shell.QueryHandler[opencheckouts.Query, opencheckouts.OpenCheckouts]
	overdueCheckouts shell.QueryHandler[overduecheckouts.Query, overduecheckouts.OverdueCheckouts]
}

// NewEngine builds an Engine on eventStore.
// Defaults: core.DefaultLoanPolicy, no conflict retries, notify.Nop and time.Now.
func NewEngine(eventStore shell.EventStore, opts ...Option) (*Engine, error) {
	engine := &Engine{
		policy:  core.StaticPolicy(core.DefaultLoanPolicy()),
		trigger: notify.Nop{},
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(engine)
	}

	var err error

	if engine.registerBook, err = wrapCommand[registerbook.Command](engine,
		registerbook.NewCommandHandler(eventStore, registerbook.WithRetryOptions(engine.retryOptions...)),
	); err != nil {
		return nil, err
	}

	if engine.registerPatron, err = wrapCommand[registerpatron.Command](engine,
		registerpatron.NewCommandHandler(eventStore, registerpatron.WithRetryOptions(engine.retryOptions...)),
	); err != nil {
		return nil, err
	}

	if engine.reserveBook, err = wrapCommand[reservebook.Command](engine,
		reservebook.NewCommandHandler(eventStore, reservebook.WithRetryOptions(engine.retryOptions...)),
	); err != nil {
		return nil, err
	}

	if engine.cancelReservation, err = wrapCommand[cancelreservation.Command](engine,
		cancelreservation.NewCommandHandler(eventStore, cancelreservation.WithRetryOptions(engine.retryOptions...)),
	); err != nil {
		return nil, err
	}

	if engine.releaseWaitlistHead, err = wrapCommand[releasewaitlisthead.Command](engine,
		releasewaitlisthead.NewCommandHandler(eventStore, releasewaitlisthead.WithRetryOptions(engine.retryOptions...)),
	); err != nil {
		return nil, err
	}

	if engine.checkoutBook, err = wrapCommand[checkoutbook.Command](engine,
		checkoutbook.NewCommandHandler(eventStore, engine.policy, checkoutbook.WithRetryOptions(engine.retryOptions...)),
	); err != nil {
		return nil, err
	}

	if engine.returnBook, err = wrapCommand[returnbook.Command](engine,
		returnbook.NewCommandHandler(eventStore, engine.policy, returnbook.WithRetryOptions(engine.retryOptions...)),
	); err != nil {
		return nil, err
	}

	if engine.bookAvailability, err = wrapQuery[bookavailability.Query, bookavailability.BookAvailability](engine,
		bookavailability.NewQueryHandler(eventStore),
	); err != nil {
		return nil, err
	}

	if engine.waitlist, err = wrapQuery[waitlist.Query, waitlist.Waitlist](engine,
		waitlist.NewQueryHandler(eventStore),
	); err != nil {
		return nil, err
	}

	if engine.openCheckouts, err = wrapQuery[opencheckouts.Query, opencheckouts.OpenCheckouts](engine,
		opencheckouts.NewQueryHandler(eventStore),
	); err != nil {
		return nil, err
	}

	if engine.overdueCheckouts, err = wrapQuery[overduecheckouts.Query, overduecheckouts.OverdueCheckouts](engine,
		overduecheckouts.NewQueryHandler(eventStore),
	); err != nil {
		return nil, err
	}

	return engine, nil
}

func (e *Engine) isObserved() bool {
	return e.metricsCollector != nil || e.tracingCollector != nil || e.logger != nil || e.contextualLogger != nil
}

func wrapCommand[C shell.Command](e *Engine, handler shell.CommandHandler[C]) (shell.CommandHandler[C], error) {
	if !e.isObserved() {
		return handler, nil
	}

	var opts []observable.CommandOption[C]

	if e.metricsCollector != nil {
		opts = append(opts, observable.WithCommandMetrics[C](e.metricsCollector))
	}

	if e.tracingCollector != nil {
		opts = append(opts, observable.WithCommandTracing[C](e.tracingCollector))
	}

	if e.contextualLogger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[C](e.contextualLogger))
	}

	if e.logger != nil {
		opts = append(opts, observable.WithCommandLogging[C](e.logger))
	}

	return observable.NewCommandWrapper[C](handler, opts...)
}

func wrapQuery[Q shell.Query, R shell.QueryResult](e *Engine, handler shell.QueryHandler[Q, R]) (shell.QueryHandler[Q, R], error) {
	if !e.isObserved() {
		return handler, nil
	}

	var opts []observable.QueryOption[Q, R]

	if e.metricsCollector != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](e.metricsCollector))
	}

	if e.tracingCollector != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](e.tracingCollector))
	}

	if e.contextualLogger != nil {
		opts = append(opts, observable.WithQueryContextualLogging[Q, R](e.contextualLogger))
	}

	if e.logger != nil {
		opts = append(opts, observable.WithQueryLogging[Q, R](e.logger))
	}

	return observable.NewQueryWrapper[Q, R](handler, opts...)
}
