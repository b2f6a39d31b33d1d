package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

const defaultOverdueSchedule = "0 8 * * *"

func newWatchOverdueCommand(f *flags) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch-overdue",
		Short: "Scan for overdue checkouts on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			scheduler := cron.New()

			if _, err := scheduler.AddFunc(schedule, func() { scanOverdue(ctx, cmd, a) }); err != nil {
				return err
			}

			scheduler.Start()
			a.logger.Info("watching for overdue checkouts", "schedule", schedule)

			<-ctx.Done()
			<-scheduler.Stop().Done()

			return nil
		}),
	}

	cmd.Flags().StringVar(&schedule, "schedule", defaultOverdueSchedule, "cron expression for the scan")

	return cmd
}

// scanOverdue reloads the policy so that a changed file applies from the next transition on.
func scanOverdue(ctx context.Context, cmd *cobra.Command, a *app) {
	if err := a.policy.Reload(); err != nil {
		a.logger.Warn("reloading policy failed, keeping the previous one", "error", err.Error())
	}

	count, err := a.engine.NotifyOverdue(ctx, time.Now())
	if err != nil {
		a.logger.Error("overdue scan failed", "error", err.Error())
		return
	}

	printf(cmd, "%s %d overdue", time.Now().UTC().Format(time.RFC3339), count)
}
