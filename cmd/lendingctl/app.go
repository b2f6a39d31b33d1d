package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AntonStoeckl/library-lending-engine/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-lending-engine/lending"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell/config"
	"github.com/AntonStoeckl/library-lending-engine/notify"
	"github.com/AntonStoeckl/library-lending-engine/notify/boltoutbox"
)

const (
	serviceName    = "lendingctl"
	serviceVersion = "0.1.0"

	// conflictAttempts lets a transition that lost the consistency check run once more.
	conflictAttempts = 2
)

var ErrUnknownLogLevel = errors.New("unknown log level")

// flags are the persistent root flags shared by every subcommand.
type flags struct {
	store       string
	adapter     string
	sqlitePath  string
	postgresDSN string
	policyPath  string
	logLevel    string
	outboxPath  string
	metrics     bool
}

// app is everything a subcommand needs. close releases it in reverse order of acquisition.
type app struct {
	engine    *lending.Engine
	policy    *config.ReloadablePolicy
	outbox    *boltoutbox.Outbox
	providers *config.ObservabilityProviders
	logger    *slog.Logger
	closers   []func() error
}

func openApp(ctx context.Context, f *flags, stderr io.Writer) (*app, error) {
	a := &app{}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLogLevel, f.logLevel)
	}

	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	a.logger = slog.New(handler)
	contextualLogger := oteladapters.NewSlogLogger(handler)

	providers, err := config.NewObservabilityProviders(serviceName, serviceVersion)
	if err != nil {
		return nil, err
	}

	a.providers = providers
	a.closers = append(a.closers, providers.Shutdown)

	metrics := oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(serviceName))
	tracing := oteladapters.NewTracingCollector(providers.TracerProvider.Tracer(serviceName))

	if a.policy, err = config.NewReloadablePolicy(f.policyPath, os.LookupEnv); err != nil {
		a.close()
		return nil, err
	}

	eventStore, closeStore, err := openEventStore(ctx, f, storeObservability{
		logger:           a.logger,
		contextualLogger: contextualLogger,
		metrics:          metrics,
		tracing:          tracing,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	a.closers = append(a.closers, closeStore)

	triggers := notify.Fanout{notify.NewLogTrigger(a.logger)}

	if f.outboxPath != "" {
		if a.outbox, err = boltoutbox.Open(f.outboxPath); err != nil {
			a.close()
			return nil, err
		}

		a.closers = append(a.closers, a.outbox.Close)
		triggers = append(triggers, a.outbox)
	}

	a.engine, err = lending.NewEngine(eventStore,
		lending.WithPolicy(a.policy),
		lending.WithTrigger(triggers),
		lending.WithConflictRetry(shell.WithMaxAttempts(conflictAttempts)),
		lending.WithContextualLogger(contextualLogger),
		lending.WithMetrics(metrics),
		lending.WithTracing(tracing),
	)
	if err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

// printMetrics writes one line per instrument recorded during this run.
func (a *app) printMetrics(ctx context.Context, out io.Writer) error {
	summaries, err := a.providers.CollectMetrics(ctx)
	if err != nil {
		return err
	}

	for _, summary := range summaries {
		_, _ = fmt.Fprintf(out, "metric %s points=%d count=%d sum=%.3f\n",
			summary.Name, summary.DataPoints, summary.Count, summary.Sum)
	}

	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("closing resource failed", "error", err.Error())
		}
	}

	a.closers = nil
}
