package tests

import (
	"context"
	"testing"
	"time"

	"groupcart/stats-svc/internal/domain"
	"groupcart/stats-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStatsStore(t *testing.T, now time.Time) (*storage.StatsStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return storage.NewStatsStore(rdb).WithClock(func() time.Time { return now }), mr
}

func TestStatsStore_RecordOrder(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	store, mr := setupStatsStore(t, now)

	ev := completedEvent(1)
	ev.Timestamp = now
	require.NoError(t, store.RecordOrder(ctx, ev))

	second := completedEvent(2)
	second.Timestamp = now
	second.TotalPrice = 12000
	second.Items = []domain.OrderItem{{MenuID: 4, Name: "Carbonara", Quantity: 1, Price: 12000}}
	require.NoError(t, store.RecordOrder(ctx, second))

	stats, err := store.RestaurantStats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Orders)
	assert.Equal(t, int64(40000), stats.Revenue)
	require.NotNil(t, stats.LastCompleted)
	assert.Equal(t, now, *stats.LastCompleted)

	top, err := store.TopMenus(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, domain.MenuScore{MenuID: 4, Name: "Carbonara", Quantity: 3}, top[0])
	assert.Equal(t, domain.MenuScore{MenuID: 9, Name: "Cola", Quantity: 2}, top[1])

	today, err := store.TopMenusToday(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, 4, today[0].MenuID)

	assert.True(t, mr.Exists("stats:daily:2026-05-01:10"))
	assert.Equal(t, 7*24*time.Hour, mr.TTL("stats:daily:2026-05-01:10"))
}

func TestStatsStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStatsStore(t, time.Now())

	first, err := store.MarkProcessed(ctx, 42)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkProcessed(ctx, 42)
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, store.ClearProcessed(ctx, 42))
	retry, err := store.MarkProcessed(ctx, 42)
	require.NoError(t, err)
	assert.True(t, retry)
}

func TestStatsStore_EmptyRestaurant(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStatsStore(t, time.Now())

	stats, err := store.RestaurantStats(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.RestaurantStats{RestaurantID: 99}, stats)

	top, err := store.TopMenus(ctx, 99, 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}
