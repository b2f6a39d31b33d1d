package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var ErrOutboxNotConfigured = errors.New("--outbox is required")

func newOutboxCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Inspect recorded notifications",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List notifications not yet delivered, oldest first",
			Args:  cobra.NoArgs,
			RunE: withApp(f, func(_ context.Context, cmd *cobra.Command, a *app, _ []string) error {
				if a.outbox == nil {
					return ErrOutboxNotConfigured
				}

				pending, err := a.outbox.Pending()
				if err != nil {
					return err
				}

				for _, n := range pending {
					printf(cmd, "%s %s book=%s patron=%s created=%s",
						n.ID, n.Kind, n.BookID, n.PatronID, n.CreatedAt.Format(time.RFC3339))
				}

				printf(cmd, "%d pending", len(pending))

				return nil
			}),
		},
		&cobra.Command{
			Use:   "mark ID",
			Short: "Mark a notification as delivered",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(f, func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
				if a.outbox == nil {
					return ErrOutboxNotConfigured
				}

				if err := a.outbox.MarkDelivered(args[0]); err != nil {
					return err
				}

				printf(cmd, "delivered %s", args[0])

				return nil
			}),
		},
	)

	return cmd
}
