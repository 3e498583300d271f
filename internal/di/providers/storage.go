package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/milestoneapp/milestone-server/internal/cache"
	"github.com/milestoneapp/milestone-server/internal/config"
	"github.com/milestoneapp/milestone-server/internal/logger"
	"github.com/milestoneapp/milestone-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Storage.DataPath, 0o750); err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.DatabasePath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.DatabasePath())
	return &StoreHandle{Store: db}, nil
}

// FeedCacheHandle wraps the feed cache with shutdown capability.
type FeedCacheHandle struct {
	*cache.FeedCache
}

// Shutdown implements do.Shutdownable.
func (h *FeedCacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideFeedCache provides the feed cache.
func ProvideFeedCache(i do.Injector) (*FeedCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	fc, err := cache.Open(cfg.Cache.Path, cfg.Cache.TTL, log.Logger)
	if err != nil {
		return nil, err
	}

	mode := "persistent"
	if cfg.Cache.Path == "" {
		mode = "in-memory"
	}
	log.Info("Feed cache initialized", "mode", mode, "ttl", cfg.Cache.TTL)
	return &FeedCacheHandle{FeedCache: fc}, nil
}
