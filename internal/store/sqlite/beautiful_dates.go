package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/milestoneapp/milestone-server/internal/domain"
	"github.com/milestoneapp/milestone-server/internal/store"
)

const beautifulDateColumns = `id, event_id, strategy_id, target_date, label_ru, label_en, interval_value, interval_unit, compound_parts, share_token`

func scanBeautifulDate(scanner interface{ Scan(dest ...any) error }) (*domain.BeautifulDate, error) {
	var bd domain.BeautifulDate

	var (
		targetDate    string
		intervalUnit  string
		compoundParts sql.NullString
		shareToken    sql.NullString
	)

	err := scanner.Scan(
		&bd.ID,
		&bd.EventID,
		&bd.StrategyID,
		&targetDate,
		&bd.LabelRU,
		&bd.LabelEN,
		&bd.IntervalValue,
		&intervalUnit,
		&compoundParts,
		&shareToken,
	)
	if err != nil {
		return nil, err
	}

	bd.TargetDate, err = parseDate(targetDate)
	if err != nil {
		return nil, err
	}
	bd.IntervalUnit = domain.Unit(intervalUnit)

	if compoundParts.Valid && compoundParts.String != "" {
		if err := json.Unmarshal([]byte(compoundParts.String), &bd.CompoundParts); err != nil {
			return nil, fmt.Errorf("decode compound_parts: %w", err)
		}
	}
	if shareToken.Valid {
		bd.ShareToken = &shareToken.String
	}

	return &bd, nil
}

// ReplaceBeautifulDates deletes an event's rows and inserts the new set in
// one transaction. SQLite's single-writer model serializes concurrent
// replacements of the same event: the last committed run wins cleanly.
func (s *Store) ReplaceBeautifulDates(ctx context.Context, eventID string, rows []*domain.BeautifulDate) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM beautiful_dates WHERE event_id = ?`, eventID); err != nil {
		return 0, fmt.Errorf("delete beautiful_dates: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO beautiful_dates (event_id, strategy_id, target_date, label_ru, label_en, interval_value, interval_unit, compound_parts, share_token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, bd := range rows {
		var compoundParts sql.NullString
		if bd.CompoundParts != nil {
			b, err := json.Marshal(bd.CompoundParts)
			if err != nil {
				return 0, fmt.Errorf("encode compound_parts: %w", err)
			}
			compoundParts = sql.NullString{String: string(b), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			eventID,
			bd.StrategyID,
			formatDate(bd.TargetDate),
			bd.LabelRU,
			bd.LabelEN,
			bd.IntervalValue,
			string(bd.IntervalUnit),
			compoundParts,
		)
		if err != nil {
			return 0, fmt.Errorf("insert beautiful_date: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(rows), nil
}

// GetFeed returns beautiful dates of all the user's events from the given
// date onward, ordered by target date and then insertion order.
func (s *Store) GetFeed(ctx context.Context, userID int64, from time.Time, offset, limit int) ([]*domain.BeautifulDate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bd.id, bd.event_id, bd.strategy_id, bd.target_date, bd.label_ru, bd.label_en,
		       bd.interval_value, bd.interval_unit, bd.compound_parts, bd.share_token
		FROM beautiful_dates bd
		JOIN events e ON e.id = bd.event_id
		WHERE e.user_id = ? AND bd.target_date >= ?
		ORDER BY bd.target_date ASC, bd.id ASC
		LIMIT ? OFFSET ?`,
		userID, formatDate(from), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBeautifulDates(rows)
}

// CountFeed counts the user's upcoming beautiful dates.
func (s *Store) CountFeed(ctx context.Context, userID int64, from time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM beautiful_dates bd
		JOIN events e ON e.id = bd.event_id
		WHERE e.user_id = ? AND bd.target_date >= ?`,
		userID, formatDate(from)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListBeautifulDatesForEvent returns one event's upcoming beautiful dates,
// same ordering as GetFeed.
func (s *Store) ListBeautifulDatesForEvent(ctx context.Context, eventID string, from time.Time, offset, limit int) ([]*domain.BeautifulDate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+beautifulDateColumns+` FROM beautiful_dates
		WHERE event_id = ? AND target_date >= ?
		ORDER BY target_date ASC, id ASC
		LIMIT ? OFFSET ?`,
		eventID, formatDate(from), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBeautifulDates(rows)
}

// GetBeautifulDate retrieves a row by ID.
func (s *Store) GetBeautifulDate(ctx context.Context, id int64) (*domain.BeautifulDate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+beautifulDateColumns+` FROM beautiful_dates WHERE id = ?`, id)

	bd, err := scanBeautifulDate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return bd, nil
}

// ClaimShareToken sets the share token if the row has none, then returns
// whatever token is committed. The conditional UPDATE makes the first
// writer win; concurrent callers read the winner's value.
func (s *Store) ClaimShareToken(ctx context.Context, id int64, token string) (string, error) {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE beautiful_dates SET share_token = ? WHERE id = ? AND share_token IS NULL`,
		token, id); err != nil {
		return "", err
	}

	var committed sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT share_token FROM beautiful_dates WHERE id = ?`, id).Scan(&committed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !committed.Valid {
		// Unreachable after a successful conditional update, but a
		// plain string return must not invent an empty token.
		return "", store.ErrNotFound
	}
	return committed.String, nil
}

// GetByShareToken returns the row for a share token with its owning event
// populated, so the caller needs no second query.
func (s *Store) GetByShareToken(ctx context.Context, token string) (*domain.BeautifulDate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT bd.id, bd.event_id, bd.strategy_id, bd.target_date, bd.label_ru, bd.label_en,
		       bd.interval_value, bd.interval_unit, bd.compound_parts, bd.share_token,
		       e.id, e.user_id, e.title, e.event_date, e.description, e.is_system, e.created_at, e.updated_at
		FROM beautiful_dates bd
		JOIN events e ON e.id = bd.event_id
		WHERE bd.share_token = ?`, token)

	var (
		bd domain.BeautifulDate
		e  domain.Event

		targetDate    string
		intervalUnit  string
		compoundParts sql.NullString
		shareToken    sql.NullString
		eventDate     string
		description   sql.NullString
		createdAt     string
		updatedAt     string
	)

	err := row.Scan(
		&bd.ID, &bd.EventID, &bd.StrategyID, &targetDate, &bd.LabelRU, &bd.LabelEN,
		&bd.IntervalValue, &intervalUnit, &compoundParts, &shareToken,
		&e.ID, &e.UserID, &e.Title, &eventDate, &description, &e.IsSystem, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	bd.TargetDate, err = parseDate(targetDate)
	if err != nil {
		return nil, err
	}
	bd.IntervalUnit = domain.Unit(intervalUnit)
	if compoundParts.Valid && compoundParts.String != "" {
		if err := json.Unmarshal([]byte(compoundParts.String), &bd.CompoundParts); err != nil {
			return nil, fmt.Errorf("decode compound_parts: %w", err)
		}
	}
	if shareToken.Valid {
		bd.ShareToken = &shareToken.String
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

	bd.Event = &e
	return &bd, nil
}

func collectBeautifulDates(rows *sql.Rows) ([]*domain.BeautifulDate, error) {
	var dates []*domain.BeautifulDate
	for rows.Next() {
		bd, err := scanBeautifulDate(rows)
		if err != nil {
			return nil, err
		}
		dates = append(dates, bd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if dates == nil {
		dates = []*domain.BeautifulDate{}
	}
	return dates, nil
}
