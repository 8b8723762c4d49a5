package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/topoforge/cmd"
	"github.com/xkilldash9x/topoforge/internal/observability"
)

func main() {
	// Generation is a bounded batch computation; SIGINT/SIGTERM cancel the
	// context so a run aborts cleanly between pipeline phases instead of
	// leaving a half-written output file.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
