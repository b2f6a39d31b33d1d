package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell/config"
)

func newRootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "lendingctl",
		Short:         "Reserve, check out and return library books",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.store, "store", storeMemory, "event store: memory, sqlite or postgres")
	pf.StringVar(&f.adapter, "adapter", adapterPGX, "postgres adapter: pgx, sql or sqlx")
	pf.StringVar(&f.sqlitePath, "sqlite-path", "lending.db", "SQLite database file")
	pf.StringVar(&f.postgresDSN, "postgres-dsn", "", "Postgres DSN, defaults to $"+config.EnvPostgresDSN)
	pf.StringVar(&f.policyPath, "policy", "", "loan policy YAML file")
	pf.StringVar(&f.logLevel, "log-level", "warn", "debug, info, warn or error")
	pf.StringVar(&f.outboxPath, "outbox", "", "Bolt file that records notifications")
	pf.BoolVar(&f.metrics, "metrics", false, "print the recorded metrics after the command")

	root.AddCommand(
		newRegisterBookCommand(f),
		newRegisterPatronCommand(f),
		newReserveCommand(f),
		newCancelCommand(f),
		newReleaseHeadCommand(f),
		newCheckoutCommand(f),
		newReturnCommand(f),
		newBookCommand(f),
		newWaitlistCommand(f),
		newCheckoutsCommand(f),
		newOverdueCommand(f),
		newWatchOverdueCommand(f),
		newOutboxCommand(f),
		newDemoCommand(f),
	)

	return root
}

type runFunc func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error

// withApp opens the app for one subcommand run and closes it afterwards.
func withApp(f *flags, run runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := openApp(ctx, f, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.close()

		if err = run(ctx, cmd, a, args); err != nil {
			return err
		}

		if f.metrics {
			return a.printMetrics(ctx, cmd.OutOrStdout())
		}

		return nil
	}
}

func parsePatronID(raw string) (uuid.UUID, error) {
	patronID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", core.ErrInvalidPatronID, raw)
	}

	return patronID, nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
