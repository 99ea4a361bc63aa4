// Command efield relaxes opposite charges on two conductors until each
// conductor is an equipotential, then reports the potentials and capacitance.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"efield/internal/observability"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "efield:", err)
		os.Exit(1)
	}
}
