// Package main installs the default strategy catalog into the database.
//
// Safe to run repeatedly: existing strategies are left untouched.
//
// Usage:
//
//	go run ./cmd/seed --data-path ~/Milestone/data
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/milestoneapp/milestone-server/internal/di"
	"github.com/milestoneapp/milestone-server/internal/di/providers"
	"github.com/milestoneapp/milestone-server/internal/logger"
	"github.com/milestoneapp/milestone-server/internal/seed"
)

func main() {
	injector := di.NewContainer()

	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	storeHandle, err := do.Invoke[*providers.StoreHandle](injector)
	if err != nil {
		log.Fatal("Failed to open database", "error", err)
	}

	created, err := seed.Strategies(context.Background(), storeHandle.Store, log.Logger)
	if err != nil {
		log.Fatal("Seeding failed", "error", err)
	}

	log.Info("Seeding complete", "created", created)

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
}
