package store

import (
	"context"
	"time"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

// Store is the persistence interface the engine and services depend on.
// internal/store/sqlite provides the production implementation.
type Store interface {
	EventStore
	StrategyConfigStore
	BeautifulDateStore

	Close() error
}

// EventStore persists milestone events.
type EventStore interface {
	CreateEvent(ctx context.Context, e *domain.Event) error
	// GetEvent returns ErrNotFound for an unknown ID.
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	// ListEventsForUser returns a user's events, newest event date first.
	// A negative limit returns all rows from offset.
	ListEventsForUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.Event, error)
	CountEventsForUser(ctx context.Context, userID int64) (int, error)
	// ListEvents returns every event; used by administrative bulk
	// recalculation.
	ListEvents(ctx context.Context) ([]*domain.Event, error)
	UpdateEvent(ctx context.Context, e *domain.Event) error
	// DeleteEvent removes the event and, via FK cascade, all its
	// beautiful dates.
	DeleteEvent(ctx context.Context, id string) error
}

// StrategyConfigStore persists the strategy catalog.
type StrategyConfigStore interface {
	CreateStrategyConfig(ctx context.Context, c *domain.StrategyConfig) error
	GetStrategyConfigByName(ctx context.Context, nameEN string) (*domain.StrategyConfig, error)
	// ListActiveStrategyConfigs returns active configs ordered by
	// priority; this is the set a recalculation run snapshots.
	ListActiveStrategyConfigs(ctx context.Context) ([]*domain.StrategyConfig, error)
	ListStrategyConfigs(ctx context.Context) ([]*domain.StrategyConfig, error)
	SetStrategyConfigActive(ctx context.Context, id string, active bool) error
}

// BeautifulDateStore persists computed beautiful dates.
type BeautifulDateStore interface {
	// ReplaceBeautifulDates atomically deletes an event's rows and
	// inserts the new set in one transaction; a concurrent reader sees
	// either the old complete set or the new one, never a mix. Returns
	// the number of rows inserted.
	ReplaceBeautifulDates(ctx context.Context, eventID string, rows []*domain.BeautifulDate) (int, error)
	// GetFeed returns rows of all the user's events with target_date >=
	// from, ordered by target_date then insertion order.
	GetFeed(ctx context.Context, userID int64, from time.Time, offset, limit int) ([]*domain.BeautifulDate, error)
	CountFeed(ctx context.Context, userID int64, from time.Time) (int, error)
	ListBeautifulDatesForEvent(ctx context.Context, eventID string, from time.Time, offset, limit int) ([]*domain.BeautifulDate, error)
	GetBeautifulDate(ctx context.Context, id int64) (*domain.BeautifulDate, error)
	// ClaimShareToken sets the row's share token if it has none and
	// returns the committed token either way (compare-and-set: the first
	// writer wins, later callers read the winner's token). ErrNotFound
	// for an unknown row.
	ClaimShareToken(ctx context.Context, id int64, token string) (string, error)
	// GetByShareToken returns the row with its owning Event populated.
	GetByShareToken(ctx context.Context, token string) (*domain.BeautifulDate, error)
}
