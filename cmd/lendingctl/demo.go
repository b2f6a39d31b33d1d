package main

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	demoISBN  = "978-0-13-468599-1"
	demoTitle = "Effective Java"
)

// newDemoCommand walks one book through checkout, two reservations and a fair handover.
func newDemoCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted lending scenario",
		Args:  cobra.NoArgs,
		RunE: withApp(f, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			isbn, err := a.engine.RegisterBook(ctx, demoISBN, demoTitle)
			if err != nil {
				return err
			}

			names := []string{"alice", "bob", "carol"}
			patrons := make(map[string]uuid.UUID, len(names))

			for _, name := range names {
				patrons[name] = uuid.New()
				if err = a.engine.RegisterPatron(ctx, patrons[name], name); err != nil {
					return err
				}
			}

			step := func(label string, err error) error {
				switch {
				case err == nil:
					printf(cmd, "%-28s ok", label)
				case core.IsClientError(err):
					printf(cmd, "%-28s refused: %v", label, err)
				default:
					return err
				}

				return nil
			}

			steps := []struct {
				label string
				run   func() error
			}{
				{"alice checks out", func() error { _, err := a.engine.Checkout(ctx, isbn, patrons["alice"]); return err }},
				{"bob reserves", func() error { _, err := a.engine.Reserve(ctx, isbn, patrons["bob"]); return err }},
				{"carol reserves", func() error { _, err := a.engine.Reserve(ctx, isbn, patrons["carol"]); return err }},
				{"bob reserves again", func() error { _, err := a.engine.Reserve(ctx, isbn, patrons["bob"]); return err }},
				{"carol checks out", func() error { _, err := a.engine.Checkout(ctx, isbn, patrons["carol"]); return err }},
				{"alice returns", func() error { _, err := a.engine.Return(ctx, isbn, patrons["alice"]); return err }},
				{"carol jumps the queue", func() error { _, err := a.engine.Checkout(ctx, isbn, patrons["carol"]); return err }},
				{"bob checks out", func() error { _, err := a.engine.Checkout(ctx, isbn, patrons["bob"]); return err }},
				{"alice returns again", func() error { _, err := a.engine.Return(ctx, isbn, patrons["alice"]); return err }},
			}

			for _, s := range steps {
				if err = step(s.label, s.run()); err != nil {
					return err
				}
			}

			head, ok, err := a.engine.PeekWaitlistHead(ctx, isbn)
			if err != nil {
				return err
			}

			if !ok {
				return errors.New("demo: waitlist unexpectedly empty")
			}

			printf(cmd, "next in line: position %d", head.QueuePosition)

			return nil
		}),
	}
}
