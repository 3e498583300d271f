// Package di provides dependency injection configuration for the Milestone
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/milestoneapp/milestone-server/internal/config"
	"github.com/milestoneapp/milestone-server/internal/di/providers"
	"github.com/milestoneapp/milestone-server/internal/engine"
	"github.com/milestoneapp/milestone-server/internal/logger"
	"github.com/milestoneapp/milestone-server/internal/plural"
	"github.com/milestoneapp/milestone-server/internal/service"
	"github.com/milestoneapp/milestone-server/internal/strategy"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideFeedCache)

	// Calculation layer
	do.Provide(injector, providers.ProvidePluralService)
	do.Provide(injector, providers.ProvideStrategyRegistry)
	do.Provide(injector, providers.ProvideEngine)

	// Business services
	do.Provide(injector, providers.ProvideEventService)
	do.Provide(injector, providers.ProvideFeedService)

	return injector
}

// Bootstrap triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.FeedCacheHandle](injector)
	_ = do.MustInvoke[*plural.Service](injector)
	_ = do.MustInvoke[*strategy.Registry](injector)
	_ = do.MustInvoke[*engine.Engine](injector)
	_ = do.MustInvoke[*service.EventService](injector)
	_ = do.MustInvoke[*service.FeedService](injector)
	return nil
}
