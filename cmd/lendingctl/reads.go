package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBookCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "book ISBN",
		Short: "Show a book's availability and waitlist length",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			book, err := a.engine.GetBook(ctx, args[0])
			if err != nil {
				return err
			}

			length, err := a.engine.WaitlistLength(ctx, args[0])
			if err != nil {
				return err
			}

			printf(cmd, "%s %q available=%t waitlist=%d", book.ISBN, book.Title, book.IsAvailable, length)

			return nil
		}),
	}
}

func newWaitlistCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "waitlist ISBN",
		Short: "List a book's waitlist, head first",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			entries, err := a.engine.GetWaitlist(ctx, args[0])
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				printf(cmd, "waitlist is empty")
				return nil
			}

			for _, entry := range entries {
				printf(cmd, "%d %s since=%s", entry.QueuePosition, entry.PatronID, entry.ReservationDate.Format(time.DateOnly))
			}

			return nil
		}),
	}
}

func newCheckoutsCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "checkouts PATRON",
		Short: "List a patron's open checkouts",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			patronID, err := parsePatronID(args[0])
			if err != nil {
				return err
			}

			records, err := a.engine.GetOpenCheckoutsForPatron(ctx, patronID)
			if err != nil {
				return err
			}

			for _, record := range records {
				printCheckout(cmd, "open", record)
			}

			printf(cmd, "%d open", len(records))

			return nil
		}),
	}
}

func newOverdueCommand(f *flags) *cobra.Command {
	var (
		at     string
		notify bool
	)

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List overdue checkouts and their books",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			now, err := parseDay(at)
			if err != nil {
				return err
			}

			records, err := a.engine.GetOverdueCheckouts(ctx, now)
			if err != nil {
				return err
			}

			for _, record := range records {
				printCheckout(cmd, "overdue", record)
			}

			books, err := a.engine.GetOverdueBooks(ctx, now)
			if err != nil {
				return err
			}

			for _, book := range books {
				printf(cmd, "book %s %q", book.ISBN, book.Title)
			}

			if notify {
				if _, err = a.engine.NotifyOverdue(ctx, now); err != nil {
					return err
				}
			}

			printf(cmd, "%d overdue", len(records))

			return nil
		}),
	}

	cmd.Flags().StringVar(&at, "at", "", "scan as of this day (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&notify, "notify", false, "trigger an overdue notification per checkout")

	return cmd
}

func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}

	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: %w", raw, err)
	}

	return day, nil
}
