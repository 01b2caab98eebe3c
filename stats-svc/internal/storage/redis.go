package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"groupcart/stats-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	dailyTTL     = 7 * 24 * time.Hour
	processedTTL = 7 * 24 * time.Hour
	dateLayout   = "2006-01-02"
)

type StatsStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewStatsStore(rdb *redis.Client) *StatsStore {
	return &StatsStore{rdb: rdb, now: time.Now}
}

// WithClock replaces the time source used for daily keys.
func (s *StatsStore) WithClock(now func() time.Time) *StatsStore {
	s.now = now
	return s
}

func restaurantKey(restaurantID int) string {
	return fmt.Sprintf("stats:restaurant:%d", restaurantID)
}

func dailyKey(day string, restaurantID int) string {
	return fmt.Sprintf("stats:daily:%s:%d", day, restaurantID)
}

func allTimeKey(restaurantID int) string {
	return fmt.Sprintf("stats:alltime:%d", restaurantID)
}

func menuNamesKey(restaurantID int) string {
	return fmt.Sprintf("stats:menus:%d", restaurantID)
}

func processedKey(orderID int) string {
	return fmt.Sprintf("stats:processed:%d", orderID)
}

// MarkProcessed reports whether the order is seen for the first time.
// Kafka delivers at least once, so duplicates are dropped here.
func (s *StatsStore) MarkProcessed(ctx context.Context, orderID int) (bool, error) {
	return s.rdb.SetNX(ctx, processedKey(orderID), 1, processedTTL).Result()
}

// ClearProcessed drops the marker so a redelivered event is recorded again.
func (s *StatsStore) ClearProcessed(ctx context.Context, orderID int) error {
	return s.rdb.Del(ctx, processedKey(orderID)).Err()
}

func (s *StatsStore) RecordOrder(ctx context.Context, event domain.OrderEvent) error {
	completed := event.Timestamp
	if completed.IsZero() {
		completed = s.now()
	}
	day := dailyKey(completed.UTC().Format(dateLayout), event.RestaurantID)

	pipe := s.rdb.TxPipeline()
	rk := restaurantKey(event.RestaurantID)
	pipe.HIncrBy(ctx, rk, "orders", 1)
	pipe.HIncrBy(ctx, rk, "revenue", event.TotalPrice)
	pipe.HSet(ctx, rk, "last_completed", completed.Unix())

	for _, item := range event.Items {
		member := strconv.Itoa(item.MenuID)
		pipe.ZIncrBy(ctx, day, float64(item.Quantity), member)
		pipe.ZIncrBy(ctx, allTimeKey(event.RestaurantID), float64(item.Quantity), member)
		pipe.HSet(ctx, menuNamesKey(event.RestaurantID), member, item.Name)
	}
	pipe.Expire(ctx, day, dailyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record order %d: %w", event.OrderID, err)
	}
	return nil
}

func (s *StatsStore) RestaurantStats(ctx context.Context, restaurantID int) (domain.RestaurantStats, error) {
	stats := domain.RestaurantStats{RestaurantID: restaurantID}
	fields, err := s.rdb.HGetAll(ctx, restaurantKey(restaurantID)).Result()
	if err != nil {
		return stats, err
	}
	stats.Orders, _ = strconv.ParseInt(fields["orders"], 10, 64)
	stats.Revenue, _ = strconv.ParseInt(fields["revenue"], 10, 64)
	if ts, err := strconv.ParseInt(fields["last_completed"], 10, 64); err == nil {
		t := time.Unix(ts, 0).UTC()
		stats.LastCompleted = &t
	}
	return stats, nil
}

func (s *StatsStore) TopMenus(ctx context.Context, restaurantID, limit int) ([]domain.MenuScore, error) {
	return s.leaderboard(ctx, restaurantID, allTimeKey(restaurantID), limit)
}

func (s *StatsStore) TopMenusToday(ctx context.Context, restaurantID, limit int) ([]domain.MenuScore, error) {
	return s.leaderboard(ctx, restaurantID, dailyKey(s.now().UTC().Format(dateLayout), restaurantID), limit)
}

func (s *StatsStore) leaderboard(ctx context.Context, restaurantID int, key string, limit int) ([]domain.MenuScore, error) {
	result, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	scores := make([]domain.MenuScore, 0, len(result))
	if len(result) == 0 {
		return scores, nil
	}

	members := make([]string, 0, len(result))
	for _, z := range result {
		members = append(members, z.Member.(string))
	}
	names, err := s.rdb.HMGet(ctx, menuNamesKey(restaurantID), members...).Result()
	if err != nil {
		return nil, err
	}

	for i, z := range result {
		menuID, _ := strconv.Atoi(members[i])
		score := domain.MenuScore{MenuID: menuID, Quantity: int64(z.Score)}
		if name, ok := names[i].(string); ok {
			score.Name = name
		}
		scores = append(scores, score)
	}
	return scores, nil
}
