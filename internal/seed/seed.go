// Package seed installs the default strategy catalog.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/milestoneapp/milestone-server/internal/domain"
	"github.com/milestoneapp/milestone-server/internal/id"
	"github.com/milestoneapp/milestone-server/internal/store"
)

type entry struct {
	nameRU   string
	nameEN   string
	typ      string
	params   string
	priority int
}

// catalog is the stock set of sixteen strategies. Priority doubles as the
// display order of a milestone's label when several strategies hit the same
// day.
var catalog = []entry{
	{"Круглые десятки дней", "Round tens of days", domain.StrategyMultiples,
		`{"base": 10, "min": 10, "max": 180, "unit": "days"}`, 1},
	{"Круглые сотни дней", "Round hundreds of days", domain.StrategyMultiples,
		`{"base": 100, "min": 100, "max": 1000, "unit": "days"}`, 2},
	{"Круглые 500 дней", "Round 500s of days", domain.StrategyMultiples,
		`{"base": 500, "min": 500, "max": 10000, "unit": "days"}`, 3},
	{"Круглые тысячи дней", "Round thousands of days", domain.StrategyMultiples,
		`{"base": 1000, "min": 1000, "max": 100000, "unit": "days"}`, 4},
	{"Круглые десятки недель", "Round tens of weeks", domain.StrategyMultiples,
		`{"base": 10, "min": 10, "max": 520, "unit": "weeks"}`, 5},
	{"Круглые сотни недель", "Round hundreds of weeks", domain.StrategyMultiples,
		`{"base": 100, "min": 100, "max": 5200, "unit": "weeks"}`, 6},
	{"Круглые десятки месяцев", "Round tens of months", domain.StrategyMultiples,
		`{"base": 10, "min": 10, "max": 120, "unit": "months"}`, 7},
	{"Круглые сотни месяцев", "Round hundreds of months", domain.StrategyMultiples,
		`{"base": 100, "min": 100, "max": 1200, "unit": "months"}`, 8},
	{"Репдиджиты (одинаковые цифры)", "Repdigits (same digits)", domain.StrategyRepdigits,
		`{"exclude": [333, 666], "max_days": 100000}`, 9},
	{"Последовательности", "Sequences", domain.StrategySequence,
		`{"sequences": [123, 1234, 12345, 123456]}`, 10},
	{"Особые числа", "Special numbers", domain.StrategySpecial,
		`{"numbers": [69]}`, 11},
	{"N дней N недель N месяцев", "N days N weeks N months", domain.StrategyCompound,
		`{"parts": ["days", "weeks", "months"], "min_n": 1, "max_n": 12}`, 12},
	{"N дней N месяцев N лет", "N days N months N years", domain.StrategyCompound,
		`{"parts": ["days", "months", "years"], "min_n": 1, "max_n": 12}`, 13},
	{"Годовщины", "Anniversaries", domain.StrategyAnniversary,
		`{"years": [1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 15, 20, 25, 30, 40, 50, 60, 70, 75, 100]}`, 14},
	{"N недель N месяцев N лет", "N weeks N months N years", domain.StrategyCompound,
		`{"parts": ["weeks", "months", "years"], "min_n": 1, "max_n": 12}`, 15},
	{"Степени двойки", "Powers of two", domain.StrategyPowersOfTwo,
		`{"min_power": 8, "max_power": 20, "units": ["days", "weeks"]}`, 16},
}

// Strategies installs any catalog entries not yet present, keyed by English
// name, and returns how many were created. Safe to run repeatedly; existing
// rows are never modified, so local tweaks survive a reseed.
func Strategies(ctx context.Context, st store.Store, logger *slog.Logger) (int, error) {
	created := 0
	for _, e := range catalog {
		_, err := st.GetStrategyConfigByName(ctx, e.nameEN)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return created, fmt.Errorf("look up strategy %q: %w", e.nameEN, err)
		}

		now := time.Now().UTC()
		cfg := &domain.StrategyConfig{
			ID:        id.MustGenerate(id.PrefixStrategy),
			NameRU:    e.nameRU,
			NameEN:    e.nameEN,
			Type:      e.typ,
			Params:    json.RawMessage(e.params),
			Active:    true,
			Priority:  e.priority,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := st.CreateStrategyConfig(ctx, cfg); err != nil {
			return created, fmt.Errorf("create strategy %q: %w", e.nameEN, err)
		}
		created++

		logger.Info("strategy seeded",
			"name", e.nameEN,
			"type", e.typ,
			"priority", e.priority,
		)
	}
	return created, nil
}
