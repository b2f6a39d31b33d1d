// Command lendingctl runs lending transitions and reads against a memory, SQLite or Postgres
// event store.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitClientError = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)

		return exitCodeOf(err)
	}

	return exitOK
}

func exitCodeOf(err error) int {
	if core.IsClientError(err) {
		return exitClientError
	}

	return exitFailure
}
