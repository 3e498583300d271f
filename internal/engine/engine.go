// Package engine turns a milestone event plus the active strategy catalog
// into the persisted set of beautiful dates.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/milestoneapp/milestone-server/internal/domain"
	"github.com/milestoneapp/milestone-server/internal/store"
	"github.com/milestoneapp/milestone-server/internal/strategy"
)

// FeedInvalidator drops cached feed state for a user after their beautiful
// dates change. Implemented by internal/cache; nil disables invalidation.
type FeedInvalidator interface {
	InvalidateUser(userID int64)
}

// Engine recalculates beautiful dates. Recalculation is delete-then-
// reinsert per event: simpler to reason about than diffing, at the price
// of resetting lazily minted share tokens (previously distributed share
// links stop resolving; see DESIGN.md).
type Engine struct {
	store    store.Store
	registry *strategy.Registry
	cache    FeedInvalidator
	logger   *slog.Logger

	// bulk pacing for RecalculateAll, so an administrative reseed does
	// not monopolize the single SQLite writer.
	limiter *rate.Limiter

	now func() time.Time
}

// New creates an engine. bulkPerSecond caps how many events per second
// RecalculateAll processes; 0 means unpaced.
func New(st store.Store, registry *strategy.Registry, cache FeedInvalidator, logger *slog.Logger, bulkPerSecond float64) *Engine {
	limit := rate.Inf
	if bulkPerSecond > 0 {
		limit = rate.Limit(bulkPerSecond)
	}

	return &Engine{
		store:    st,
		registry: registry,
		cache:    cache,
		logger:   logger,
		limiter:  rate.NewLimiter(limit, 1),
		now:      domain.Today,
	}
}

// Recalculate rebuilds one event's beautiful dates from the currently
// active strategy configurations and returns the number of rows created.
// Unknown strategy types and invalid parameter bags are skipped with a
// warning; store failures roll the whole replacement back and propagate.
func (e *Engine) Recalculate(ctx context.Context, event *domain.Event) (int, error) {
	configs, err := e.store.ListActiveStrategyConfigs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active strategy configs: %w", err)
	}
	return e.recalculate(ctx, event, configs)
}

func (e *Engine) recalculate(ctx context.Context, event *domain.Event, configs []*domain.StrategyConfig) (int, error) {
	today := e.now()

	var rows []*domain.BeautifulDate
	for _, cfg := range configs {
		impl, ok := e.registry.Resolve(cfg.Type)
		if !ok {
			e.logger.Warn("unknown strategy type, skipping config",
				"strategy_id", cfg.ID,
				"strategy_type", cfg.Type,
			)
			continue
		}

		candidates, err := impl.Calculate(event.Date, event.Title, cfg.Params)
		if err != nil {
			e.logger.Warn("strategy calculation failed, skipping config",
				"strategy_id", cfg.ID,
				"strategy_type", cfg.Type,
				"error", err,
			)
			continue
		}

		for _, c := range candidates {
			if c.TargetDate.Before(today) {
				continue
			}
			rows = append(rows, &domain.BeautifulDate{
				EventID:       event.ID,
				StrategyID:    cfg.ID,
				TargetDate:    c.TargetDate,
				LabelRU:       c.LabelRU,
				LabelEN:       c.LabelEN,
				IntervalValue: c.IntervalValue,
				IntervalUnit:  c.IntervalUnit,
				CompoundParts: c.CompoundParts,
			})
		}
	}

	created, err := e.store.ReplaceBeautifulDates(ctx, event.ID, rows)
	if err != nil {
		return 0, fmt.Errorf("replace beautiful dates: %w", err)
	}

	if e.cache != nil {
		e.cache.InvalidateUser(event.UserID)
	}

	e.logger.Info("recalculated beautiful dates",
		"event_id", event.ID,
		"event_title", event.Title,
		"created", created,
	)
	return created, nil
}

// RecalculateForUser rebuilds beautiful dates for every event a user owns.
// Events are processed independently; one event's failure does not abort
// the rest.
func (e *Engine) RecalculateForUser(ctx context.Context, userID int64) (int, error) {
	events, err := e.store.ListEventsForUser(ctx, userID, 0, -1)
	if err != nil {
		return 0, fmt.Errorf("list events for user %d: %w", userID, err)
	}
	return e.recalculateMany(ctx, events, false)
}

// RecalculateAll rebuilds beautiful dates for every event; used
// administratively after a strategy catalog change. Paced by the bulk
// limiter.
func (e *Engine) RecalculateAll(ctx context.Context) (int, error) {
	events, err := e.store.ListEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("list events: %w", err)
	}
	return e.recalculateMany(ctx, events, true)
}

func (e *Engine) recalculateMany(ctx context.Context, events []*domain.Event, paced bool) (int, error) {
	configs, err := e.store.ListActiveStrategyConfigs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active strategy configs: %w", err)
	}

	total := 0
	for _, event := range events {
		if paced {
			if err := e.limiter.Wait(ctx); err != nil {
				return total, err
			}
		} else if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := e.recalculate(ctx, event, configs)
		if err != nil {
			e.logger.Error("recalculation failed for event, continuing",
				"event_id", event.ID,
				"error", err,
			)
			continue
		}
		total += n
	}
	return total, nil
}
