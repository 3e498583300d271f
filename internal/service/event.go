// Package service provides the business logic layer over milestone events,
// their computed beautiful dates, and the shared feed.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/milestoneapp/milestone-server/internal/domain"
	"github.com/milestoneapp/milestone-server/internal/engine"
	"github.com/milestoneapp/milestone-server/internal/id"
	"github.com/milestoneapp/milestone-server/internal/store"
	"github.com/milestoneapp/milestone-server/internal/validation"
)

// ErrEventLimitReached is returned when a user already owns the maximum
// number of events.
var ErrEventLimitReached = errors.New("event limit reached for user")

// ErrSystemEvent is returned when a user tries to delete a system-managed
// event.
var ErrSystemEvent = errors.New("system events cannot be deleted")

// CreateEventParams carries user input for a new event.
type CreateEventParams struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Date        time.Time `json:"date" validate:"required"`
	Description string    `json:"description" validate:"max=1000"`
}

// UpdateEventParams carries a partial update; nil fields are left unchanged.
type UpdateEventParams struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Date        *time.Time `json:"date"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
}

// EventService manages milestone events. Every mutation that changes an
// event's date or title rebuilds its beautiful dates through the engine.
type EventService struct {
	store     store.Store
	engine    *engine.Engine
	cache     engine.FeedInvalidator
	validator *validation.Validator
	logger    *slog.Logger

	maxEventsPerUser int
}

// NewEventService creates an event service. maxEventsPerUser <= 0 disables
// the per-user limit.
func NewEventService(st store.Store, eng *engine.Engine, cache engine.FeedInvalidator, logger *slog.Logger, maxEventsPerUser int) *EventService {
	return &EventService{
		store:            st,
		engine:           eng,
		cache:            cache,
		validator:        validation.New(),
		logger:           logger,
		maxEventsPerUser: maxEventsPerUser,
	}
}

// Create stores a new event for the user and immediately computes its
// beautiful dates. The event is kept even if the computation fails; a later
// recalculation will fill the gap.
func (s *EventService) Create(ctx context.Context, userID int64, params CreateEventParams) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	if s.maxEventsPerUser > 0 {
		count, err := s.store.CountEventsForUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("count events: %w", err)
		}
		if count >= s.maxEventsPerUser {
			return nil, ErrEventLimitReached
		}
	}

	eventID, err := id.Generate(id.PrefixEvent)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &domain.Event{
		ID:          eventID,
		UserID:      userID,
		Title:       params.Title,
		Date:        domain.Day(params.Date),
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("event created",
		"event_id", event.ID,
		"user_id", userID,
		"date", event.Date.Format(time.DateOnly),
	)

	if _, err := s.engine.Recalculate(ctx, event); err != nil {
		s.logger.Error("initial recalculation failed",
			"event_id", event.ID,
			"error", err,
		)
	}
	return event, nil
}

// Get returns the user's event. An event owned by someone else is reported
// as not found rather than forbidden.
func (s *EventService) Get(ctx context.Context, userID int64, eventID string) (*domain.Event, error) {
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
	return event, nil
}

// ListForUser returns a page of the user's events, newest event date first.
func (s *EventService) ListForUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	return s.store.ListEventsForUser(ctx, userID, offset, limit)
}

// Count returns how many events the user owns.
func (s *EventService) Count(ctx context.Context, userID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.CountEventsForUser(ctx, userID)
}

// Update applies a partial update to the user's event. Changing the date or
// the title rebuilds beautiful dates, since both flow into the stored rows.
func (s *EventService) Update(ctx context.Context, userID int64, eventID string, params UpdateEventParams) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	event, err := s.Get(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	recalc := false
	if params.Title != nil && *params.Title != event.Title {
		event.Title = *params.Title
		recalc = true
	}
	if params.Date != nil && !domain.Day(*params.Date).Equal(event.Date) {
		event.Date = domain.Day(*params.Date)
		recalc = true
	}
	if params.Description != nil {
		event.Description = *params.Description
	}
	event.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if recalc {
		if _, err := s.engine.Recalculate(ctx, event); err != nil {
			return nil, fmt.Errorf("recalculate after update: %w", err)
		}
	}

	s.logger.Info("event updated",
		"event_id", event.ID,
		"user_id", userID,
		"recalculated", recalc,
	)
	return event, nil
}

// Delete removes the user's event; its beautiful dates go with it via the
// foreign key cascade. System-managed events are refused.
func (s *EventService) Delete(ctx context.Context, userID int64, eventID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	event, err := s.Get(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if event.IsSystem {
		return ErrSystemEvent
	}
	if err := s.store.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}

	s.logger.Info("event deleted",
		"event_id", eventID,
		"user_id", userID,
	)
	return nil
}
