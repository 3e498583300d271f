package cache

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milestoneapp/milestone-server/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) *FeedCache {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	c, err := Open("", ttl, logger)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func samplePage() []*domain.BeautifulDate {
	token := "tok"
	return []*domain.BeautifulDate{
		{
			ID:            1,
			EventID:       "evt-1",
			StrategyID:    "strat-1",
			TargetDate:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			LabelRU:       "100 дней с «Свадьба»",
			LabelEN:       `100 days since "Свадьба"`,
			IntervalValue: 100,
			IntervalUnit:  domain.UnitDays,
		},
		{
			ID:            2,
			EventID:       "evt-1",
			StrategyID:    "strat-2",
			TargetDate:    time.Date(2030, 2, 8, 0, 0, 0, 0, time.UTC),
			IntervalValue: 39,
			IntervalUnit:  domain.UnitCompound,
			CompoundParts: map[string]int{"days": 1, "weeks": 1, "months": 1},
			ShareToken:    &token,
		},
	}
}

func TestPage_RoundTrip(t *testing.T) {
	c := newTestCache(t, time.Minute)

	_, ok := c.GetPage(7, 0, 10)
	assert.False(t, ok, "empty cache must miss")

	c.SetPage(7, 0, 10, samplePage())

	got, ok := c.GetPage(7, 0, 10)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "100 дней с «Свадьба»", got[0].LabelRU)
	assert.Equal(t, map[string]int{"days": 1, "weeks": 1, "months": 1}, got[1].CompoundParts)
	require.NotNil(t, got[1].ShareToken)
	assert.Equal(t, "tok", *got[1].ShareToken)

	// Different offset is a different key.
	_, ok = c.GetPage(7, 10, 10)
	assert.False(t, ok)
}

func TestCount_RoundTrip(t *testing.T) {
	c := newTestCache(t, time.Minute)

	_, ok := c.GetCount(7)
	assert.False(t, ok)

	c.SetCount(7, 123)
	got, ok := c.GetCount(7)
	require.True(t, ok)
	assert.Equal(t, 123, got)
}

func TestInvalidateUser(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.SetPage(7, 0, 10, samplePage())
	c.SetPage(7, 10, 10, samplePage())
	c.SetCount(7, 4)
	c.SetPage(8, 0, 10, samplePage())
	c.SetCount(8, 2)

	c.InvalidateUser(7)

	_, ok := c.GetPage(7, 0, 10)
	assert.False(t, ok)
	_, ok = c.GetPage(7, 10, 10)
	assert.False(t, ok)
	_, ok = c.GetCount(7)
	assert.False(t, ok)

	// User 8 untouched.
	_, ok = c.GetPage(8, 0, 10)
	assert.True(t, ok)
	count, ok := c.GetCount(8)
	assert.True(t, ok)
	assert.Equal(t, 2, count)
}

func TestTTL_Expires(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond)

	c.SetCount(7, 9)
	_, ok := c.GetCount(7)
	require.True(t, ok)

	time.Sleep(120 * time.Millisecond)

	_, ok = c.GetCount(7)
	assert.False(t, ok, "entry must expire after the TTL")
}
