package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/milestoneapp/milestone-server/internal/domain"
	"github.com/milestoneapp/milestone-server/internal/store"
)

const strategyConfigColumns = `id, name_ru, name_en, strategy_type, params, active, priority, created_at, updated_at`

func scanStrategyConfig(scanner interface{ Scan(dest ...any) error }) (*domain.StrategyConfig, error) {
	var c domain.StrategyConfig

	var (
		params    string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&c.ID,
		&c.NameRU,
		&c.NameEN,
		&c.Type,
		&params,
		&c.Active,
		&c.Priority,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Params = json.RawMessage(params)

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateStrategyConfig inserts a new strategy configuration. Returns
// store.ErrAlreadyExists on a duplicate English name.
func (s *Store) CreateStrategyConfig(ctx context.Context, c *domain.StrategyConfig) error {
	params := string(c.Params)
	if params == "" {
		params = "{}"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO strategy_configs (id, name_ru, name_en, strategy_type, params, active, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.NameRU,
		c.NameEN,
		c.Type,
		params,
		c.Active,
		c.Priority,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetStrategyConfigByName retrieves a config by its unique English name.
func (s *Store) GetStrategyConfigByName(ctx context.Context, nameEN string) (*domain.StrategyConfig, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+strategyConfigColumns+` FROM strategy_configs WHERE name_en = ?`, nameEN)

	c, err := scanStrategyConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListActiveStrategyConfigs returns active configs ordered by priority.
func (s *Store) ListActiveStrategyConfigs(ctx context.Context) ([]*domain.StrategyConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+strategyConfigColumns+` FROM strategy_configs
		WHERE active = 1
		ORDER BY priority ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStrategyConfigs(rows)
}

// ListStrategyConfigs returns every config ordered by priority.
func (s *Store) ListStrategyConfigs(ctx context.Context) ([]*domain.StrategyConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+strategyConfigColumns+` FROM strategy_configs
		ORDER BY priority ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStrategyConfigs(rows)
}

// SetStrategyConfigActive toggles a config's active flag.
func (s *Store) SetStrategyConfigActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE strategy_configs SET active = ?, updated_at = ? WHERE id = ?`,
		active, formatTime(nowUTC()), id)
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

func collectStrategyConfigs(rows *sql.Rows) ([]*domain.StrategyConfig, error) {
	var configs []*domain.StrategyConfig
	for rows.Next() {
		c, err := scanStrategyConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if configs == nil {
		configs = []*domain.StrategyConfig{}
	}
	return configs, nil
}
