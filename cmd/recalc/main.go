// Package main rebuilds beautiful dates for every stored event.
//
// Run after changing the strategy catalog, or periodically to retire
// milestones that have passed. Pacing is controlled by --bulk-rate.
//
// Usage:
//
//	go run ./cmd/recalc --data-path ~/Milestone/data
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/milestoneapp/milestone-server/internal/di"
	"github.com/milestoneapp/milestone-server/internal/engine"
	"github.com/milestoneapp/milestone-server/internal/logger"
)

func main() {
	injector := di.NewContainer()

	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	eng, err := do.Invoke[*engine.Engine](injector)
	if err != nil {
		log.Fatal("Failed to build engine", "error", err)
	}

	// Ctrl-C stops politely between events.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	created, err := eng.RecalculateAll(ctx)
	if err != nil {
		log.Error("Recalculation interrupted", "created", created, "error", err)
	} else {
		log.Info("Recalculation complete", "created", created)
	}

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
}
