package engine

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milestoneapp/milestone-server/internal/domain"
	"github.com/milestoneapp/milestone-server/internal/plural"
	"github.com/milestoneapp/milestone-server/internal/store"
	"github.com/milestoneapp/milestone-server/internal/store/sqlite"
	"github.com/milestoneapp/milestone-server/internal/strategy"
)

var testToday = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

type recordingCache struct {
	invalidated []int64
}

func (c *recordingCache) InvalidateUser(userID int64) {
	c.invalidated = append(c.invalidated, userID)
}

func newTestEngine(t *testing.T) (*Engine, store.Store, *recordingCache) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "engine.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cache := &recordingCache{}
	registry := strategy.NewRegistry(plural.NewService())
	e := New(st, registry, cache, logger, 0)
	e.now = func() time.Time { return testToday }
	return e, st, cache
}

func createTestEvent(t *testing.T, st store.Store, id string, userID int64, date time.Time) *domain.Event {
	t.Helper()
	event := &domain.Event{
		ID:     id,
		UserID: userID,
		Title:  "Свадьба",
		Date:   date,
	}
	require.NoError(t, st.CreateEvent(context.Background(), event))
	return event
}

func createTestConfig(t *testing.T, st store.Store, id, nameEN, typ string, params any, priority int) *domain.StrategyConfig {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	cfg := &domain.StrategyConfig{
		ID:       id,
		NameRU:   nameEN,
		NameEN:   nameEN,
		Type:     typ,
		Params:   raw,
		Active:   true,
		Priority: priority,
	}
	require.NoError(t, st.CreateStrategyConfig(context.Background(), cfg))
	return cfg
}

func TestRecalculate_FutureOnly(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()

	// Anchor five days in the past; daily multiples 1..10 straddle today.
	event := createTestEvent(t, st, "evt-1", 100, testToday.AddDate(0, 0, -5))
	createTestConfig(t, st, "strat-1", "Every day", domain.StrategyMultiples,
		map[string]any{"base": 1, "min": 1, "max": 10, "unit": "days"}, 1)

	n, err := e.Recalculate(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 6, n) // intervals 5..10 land on or after today

	rows, err := st.ListBeautifulDatesForEvent(ctx, event.ID, testToday, 0, 100)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.True(t, rows[0].TargetDate.Equal(testToday))
	assert.Equal(t, 5, rows[0].IntervalValue)
	assert.Equal(t, 10, rows[5].IntervalValue)
	for _, row := range rows {
		assert.False(t, row.TargetDate.Before(testToday), "row %d is in the past", row.ID)
	}
}

func TestRecalculate_ReplacesPreviousRows(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()

	event := createTestEvent(t, st, "evt-1", 100, testToday)
	createTestConfig(t, st, "strat-1", "Round anniversaries", domain.StrategyAnniversary,
		map[string]any{"years": []int{1, 2, 5}}, 1)

	n, err := e.Recalculate(ctx, event)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	// Repeating with the same inputs must not accumulate rows.
	n, err = e.Recalculate(ctx, event)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	count, err := st.CountFeed(ctx, event.UserID, testToday)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// A moved anchor produces a fresh set reflecting the new date.
	event.Date = testToday.AddDate(0, 1, 0)
	require.NoError(t, st.UpdateEvent(ctx, event))
	_, err = e.Recalculate(ctx, event)
	require.NoError(t, err)

	rows, err := st.ListBeautifulDatesForEvent(ctx, event.ID, testToday, 0, 100)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].TargetDate.Equal(event.Date.AddDate(1, 0, 0)))
}

func TestRecalculate_SkipsBrokenConfigs(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()

	event := createTestEvent(t, st, "evt-1", 100, testToday)
	createTestConfig(t, st, "strat-1", "Round anniversaries", domain.StrategyAnniversary,
		map[string]any{"years": []int{1}}, 1)
	createTestConfig(t, st, "strat-2", "Lunar phases", "lunar_phases",
		map[string]any{}, 2)
	createTestConfig(t, st, "strat-3", "Broken multiples", domain.StrategyMultiples,
		map[string]any{"base": 0}, 3)

	n, err := e.Recalculate(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecalculate_SkipsInactiveConfigs(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()

	event := createTestEvent(t, st, "evt-1", 100, testToday)
	createTestConfig(t, st, "strat-1", "Round anniversaries", domain.StrategyAnniversary,
		map[string]any{"years": []int{1, 2}}, 1)
	off := createTestConfig(t, st, "strat-2", "Every hundred days", domain.StrategyMultiples,
		map[string]any{"base": 100, "min": 100, "max": 1000, "unit": "days"}, 2)
	require.NoError(t, st.SetStrategyConfigActive(ctx, off.ID, false))

	n, err := e.Recalculate(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecalculate_InvalidatesOwnerCache(t *testing.T) {
	e, st, cache := newTestEngine(t)
	ctx := context.Background()

	event := createTestEvent(t, st, "evt-1", 42, testToday)
	createTestConfig(t, st, "strat-1", "Round anniversaries", domain.StrategyAnniversary,
		map[string]any{"years": []int{1}}, 1)

	_, err := e.Recalculate(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, cache.invalidated)
}

func TestRecalculate_ResetsShareTokens(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()

	event := createTestEvent(t, st, "evt-1", 100, testToday)
	createTestConfig(t, st, "strat-1", "Round anniversaries", domain.StrategyAnniversary,
		map[string]any{"years": []int{1}}, 1)

	_, err := e.Recalculate(ctx, event)
	require.NoError(t, err)

	rows, err := st.ListBeautifulDatesForEvent(ctx, event.ID, testToday, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	token, err := st.ClaimShareToken(ctx, rows[0].ID, "tok-before")
	require.NoError(t, err)
	require.Equal(t, "tok-before", token)

	_, err = e.Recalculate(ctx, event)
	require.NoError(t, err)

	_, err = st.GetByShareToken(ctx, "tok-before")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestRecalculateForUser_OnlyTouchesOwnEvents(t *testing.T) {
	e, st, cache := newTestEngine(t)
	ctx := context.Background()

	createTestEvent(t, st, "evt-a1", 1, testToday)
	createTestEvent(t, st, "evt-a2", 1, testToday.AddDate(-1, -1, 0))
	createTestEvent(t, st, "evt-b1", 2, testToday)
	createTestConfig(t, st, "strat-1", "Round anniversaries", domain.StrategyAnniversary,
		map[string]any{"years": []int{1, 2}}, 1)

	n, err := e.RecalculateForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n) // evt-a1 yields 2 future rows, evt-a2 only its +2y row

	count, err := st.CountFeed(ctx, 2, testToday)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, []int64{1, 1}, cache.invalidated)
}

func TestRecalculateAll(t *testing.T) {
	e, st, _ := newTestEngine(t)
	ctx := context.Background()

	createTestEvent(t, st, "evt-a1", 1, testToday)
	createTestEvent(t, st, "evt-b1", 2, testToday)
	createTestConfig(t, st, "strat-1", "Round anniversaries", domain.StrategyAnniversary,
		map[string]any{"years": []int{1, 2, 5}}, 1)

	n, err := e.RecalculateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestRecalculateAll_ContextCancelled(t *testing.T) {
	e, st, _ := newTestEngine(t)

	createTestEvent(t, st, "evt-a1", 1, testToday)
	createTestConfig(t, st, "strat-1", "Round anniversaries", domain.StrategyAnniversary,
		map[string]any{"years": []int{1}}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.RecalculateAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
