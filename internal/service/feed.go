package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/milestoneapp/milestone-server/internal/domain"
	"github.com/milestoneapp/milestone-server/internal/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// feedCache is the read-through cache for the default upcoming-dates view.
// Implemented by internal/cache; nil disables caching.
type feedCache interface {
	GetPage(userID int64, offset, limit int) ([]*domain.BeautifulDate, bool)
	SetPage(userID int64, offset, limit int, rows []*domain.BeautifulDate)
	GetCount(userID int64) (int, bool)
	SetCount(userID int64, count int)
}

// FeedService serves the ordered feed of upcoming beautiful dates and mints
// share tokens for individual rows.
type FeedService struct {
	store  store.Store
	cache  feedCache
	logger *slog.Logger
}

// NewFeedService creates a feed service.
func NewFeedService(st store.Store, cache feedCache, logger *slog.Logger) *FeedService {
	return &FeedService{
		store:  st,
		cache:  cache,
		logger: logger,
	}
}

// GetFeed returns a page of the user's beautiful dates with target date on
// or after from, soonest first. A zero from means "from today", which is the
// view the cache covers; explicit cutoffs always hit the store.
func (s *FeedService) GetFeed(ctx context.Context, userID int64, from time.Time, offset, limit int) ([]*domain.BeautifulDate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	offset, limit = clampPage(offset, limit)

	cacheable := from.IsZero()
	if cacheable {
		from = domain.Today()
		if s.cache != nil {
			if rows, ok := s.cache.GetPage(userID, offset, limit); ok {
				return rows, nil
			}
		}
	}

	rows, err := s.store.GetFeed(ctx, userID, domain.Day(from), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}

	if cacheable && s.cache != nil {
		s.cache.SetPage(userID, offset, limit, rows)
	}
	return rows, nil
}

// CountFeed returns how many beautiful dates the user has on or after from.
// A zero from counts from today and is served through the cache.
func (s *FeedService) CountFeed(ctx context.Context, userID int64, from time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cacheable := from.IsZero()
	if cacheable {
		from = domain.Today()
		if s.cache != nil {
			if count, ok := s.cache.GetCount(userID); ok {
				return count, nil
			}
		}
	}

	count, err := s.store.CountFeed(ctx, userID, domain.Day(from))
	if err != nil {
		return 0, fmt.Errorf("count feed: %w", err)
	}

	if cacheable && s.cache != nil {
		s.cache.SetCount(userID, count)
	}
	return count, nil
}

// GetForEvent returns the user's upcoming beautiful dates for one event.
// A zero from means "from today".
func (s *FeedService) GetForEvent(ctx context.Context, userID int64, eventID string, from time.Time, offset, limit int) ([]*domain.BeautifulDate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, store.ErrNotFound
	}

	if from.IsZero() {
		from = domain.Today()
	}
	offset, limit = clampPage(offset, limit)
	return s.store.ListBeautifulDatesForEvent(ctx, eventID, domain.Day(from), offset, limit)
}

// GenerateShareToken returns the share token for one of the user's beautiful
// dates, minting it on first use. Tokens are stable: concurrent callers all
// receive the same committed value.
func (s *FeedService) GenerateShareToken(ctx context.Context, userID int64, beautifulDateID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	bd, err := s.store.GetBeautifulDate(ctx, beautifulDateID)
	if err != nil {
		return "", err
	}
	event, err := s.store.GetEvent(ctx, bd.EventID)
	if err != nil {
		return "", fmt.Errorf("get owning event: %w", err)
	}
	if event.UserID != userID {
		return "", store.ErrNotFound
	}

	if bd.ShareToken != nil {
		return *bd.ShareToken, nil
	}

	token, err := s.store.ClaimShareToken(ctx, beautifulDateID, uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("claim share token: %w", err)
	}

	s.logger.Info("share token minted",
		"beautiful_date_id", beautifulDateID,
		"user_id", userID,
	)
	return token, nil
}

// GetByShareToken resolves a shared beautiful date for public viewing. The
// returned row has its owning event attached; ErrNotFound for tokens that
// were never minted or whose row has since been recalculated away.
func (s *FeedService) GetByShareToken(ctx context.Context, token string) (*domain.BeautifulDate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, store.ErrNotFound
	}
	return s.store.GetByShareToken(ctx, token)
}

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit
}
