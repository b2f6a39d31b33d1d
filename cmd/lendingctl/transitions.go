package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

func newRegisterBookCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "register-book ISBN TITLE",
		Short: "Add a book to the lending catalog",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			isbn, err := a.engine.RegisterBook(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			printf(cmd, "registered book %s", isbn)

			return nil
		}),
	}
}

func newRegisterPatronCommand(f *flags) *cobra.Command {
	var rawID string

	cmd := &cobra.Command{
		Use:   "register-patron NAME",
		Short: "Allow a patron to borrow and reserve",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			patronID := uuid.New()

			if rawID != "" {
				var err error
				if patronID, err = parsePatronID(rawID); err != nil {
					return err
				}
			}

			if err := a.engine.RegisterPatron(ctx, patronID, args[0]); err != nil {
				return err
			}

			printf(cmd, "registered patron %s", patronID)

			return nil
		}),
	}

	cmd.Flags().StringVar(&rawID, "id", "", "patron id (UUID), generated when empty")

	return cmd
}

func newReserveCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "reserve ISBN PATRON",
		Short: "Join the waitlist of a checked out book",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			patronID, err := parsePatronID(args[1])
			if err != nil {
				return err
			}

			entry, err := a.engine.Reserve(ctx, args[0], patronID)
			if err != nil {
				return err
			}

			printf(cmd, "reserved %s for %s at position %d", entry.BookID, entry.PatronID, entry.QueuePosition)

			return nil
		}),
	}
}

func newCancelCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ISBN PATRON",
		Short: "Leave the waitlist of a book",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			patronID, err := parsePatronID(args[1])
			if err != nil {
				return err
			}

			entry, err := a.engine.CancelReservation(ctx, args[0], patronID)
			if err != nil {
				return err
			}

			printf(cmd, "cancelled reservation of %s at position %d", entry.PatronID, entry.QueuePosition)

			return nil
		}),
	}
}

func newReleaseHeadCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "release-head ISBN",
		Short: "Remove the head of a waitlist without a checkout",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			entry, released, err := a.engine.ReleaseWaitlistHead(ctx, args[0])
			if err != nil {
				return err
			}

			if !released {
				printf(cmd, "waitlist is empty")
				return nil
			}

			printf(cmd, "released %s at position %d", entry.PatronID, entry.QueuePosition)

			return nil
		}),
	}
}

func newCheckoutCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout ISBN PATRON",
		Short: "Lend a book to a patron",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			patronID, err := parsePatronID(args[1])
			if err != nil {
				return err
			}

			record, err := a.engine.Checkout(ctx, args[0], patronID)
			if err != nil {
				return err
			}

			printCheckout(cmd, "checked out", record)

			return nil
		}),
	}
}

func newReturnCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "return ISBN PATRON",
		Short: "Return a borrowed book and settle its fees",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			patronID, err := parsePatronID(args[1])
			if err != nil {
				return err
			}

			record, err := a.engine.Return(ctx, args[0], patronID)
			if err != nil {
				return err
			}

			printf(cmd, "returned %s days_held=%d late_days=%d borrowing_fee=%s late_fee=%s total_fee=%s",
				record.BookID,
				record.Fees.DaysHeld,
				record.Fees.LateDays,
				record.Fees.BorrowingFee.StringFixed(2),
				record.Fees.LateFee.StringFixed(2),
				record.TotalFee.StringFixed(2),
			)

			return nil
		}),
	}
}

func printCheckout(cmd *cobra.Command, prefix string, record core.CheckoutRecord) {
	printf(cmd, "%s %s patron=%s checkout=%s since=%s due=%s",
		prefix,
		record.BookID,
		record.PatronID,
		record.CheckoutID,
		record.CheckoutDate.Format(time.DateOnly),
		record.DueDate.Format(time.DateOnly),
	)
}
