package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/milestoneapp/milestone-server/internal/domain"
	"github.com/milestoneapp/milestone-server/internal/store"
)

// eventColumns is the ordered list of columns selected in event queries.
// Must match the scan order in scanEvent.
const eventColumns = `id, user_id, title, event_date, description, is_system, created_at, updated_at`

// scanEvent scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Event.
func scanEvent(scanner interface{ Scan(dest ...any) error }) (*domain.Event, error) {
	var e domain.Event

	var (
		eventDate   string
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&e.ID,
		&e.UserID,
		&e.Title,
		&eventDate,
		&description,
		&e.IsSystem,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Description = description.String

	e.Date, err = parseDate(eventDate)
	if err != nil {
		return nil, err
	}
	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// CreateEvent inserts a new event.
func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, user_id, title, event_date, description, is_system, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.UserID,
		e.Title,
		formatDate(e.Date),
		nullString(e.Description),
		e.IsSystem,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetEvent retrieves an event by ID. Returns store.ErrNotFound if it does
// not exist.
func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEventsForUser returns a user's events ordered by event date, newest
// first.
func (s *Store) ListEventsForUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE user_id = ?
		ORDER BY event_date DESC, id ASC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

// CountEventsForUser returns how many events a user has.
func (s *Store) CountEventsForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListEvents returns every event, oldest created first.
func (s *Store) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

// UpdateEvent updates an event's mutable fields. Returns store.ErrNotFound
// if the event does not exist.
func (s *Store) UpdateEvent(ctx context.Context, e *domain.Event) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events
		SET title = ?, event_date = ?, description = ?, is_system = ?, updated_at = ?
		WHERE id = ?`,
		e.Title,
		formatDate(e.Date),
		nullString(e.Description),
		e.IsSystem,
		formatTime(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteEvent removes an event; its beautiful dates go with it via the FK
// cascade. Returns store.ErrNotFound if the event does not exist.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
