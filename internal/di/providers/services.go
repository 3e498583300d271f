package providers

import (
	"github.com/samber/do/v2"

	"github.com/milestoneapp/milestone-server/internal/config"
	"github.com/milestoneapp/milestone-server/internal/engine"
	"github.com/milestoneapp/milestone-server/internal/logger"
	"github.com/milestoneapp/milestone-server/internal/plural"
	"github.com/milestoneapp/milestone-server/internal/service"
	"github.com/milestoneapp/milestone-server/internal/strategy"
)

// ProvidePluralService provides the bilingual unit labeler.
func ProvidePluralService(i do.Injector) (*plural.Service, error) {
	return plural.NewService(), nil
}

// ProvideStrategyRegistry provides the strategy registry.
func ProvideStrategyRegistry(i do.Injector) (*strategy.Registry, error) {
	labels := do.MustInvoke[*plural.Service](i)
	return strategy.NewRegistry(labels), nil
}

// ProvideEngine provides the recalculation engine.
func ProvideEngine(i do.Injector) (*engine.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*FeedCacheHandle](i)
	registry := do.MustInvoke[*strategy.Registry](i)

	return engine.New(storeHandle.Store, registry, cacheHandle.FeedCache, log.Logger, cfg.Engine.BulkRatePerSecond), nil
}

// ProvideEventService provides the event service.
func ProvideEventService(i do.Injector) (*service.EventService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*FeedCacheHandle](i)
	eng := do.MustInvoke[*engine.Engine](i)

	return service.NewEventService(storeHandle.Store, eng, cacheHandle.FeedCache, log.Logger, cfg.Limits.MaxEventsPerUser), nil
}

// ProvideFeedService provides the feed service.
func ProvideFeedService(i do.Injector) (*service.FeedService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*FeedCacheHandle](i)

	return service.NewFeedService(storeHandle.Store, cacheHandle.FeedCache, log.Logger), nil
}
