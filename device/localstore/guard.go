package localstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultCompletionTTL = 5 * time.Minute

// Guard is the completion marker per (identity, restaurant). An expired or
// missing marker is always claimable.
type Guard struct {
	rdb  *redis.Client
	keys keys
	ttl  time.Duration
	now  func() time.Time
}

func NewGuard(rdb *redis.Client, namespace string, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultCompletionTTL
	}
	return &Guard{rdb: rdb, keys: newKeys(namespace), ttl: ttl, now: time.Now}
}

// Claim atomically sets the marker and reports whether the caller won.
func (g *Guard) Claim(ctx context.Context, identity string, restaurantID int) (bool, error) {
	won, err := g.rdb.SetNX(ctx, g.keys.completion(identity, restaurantID), g.now().UnixMilli(), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim completion marker: %w", err)
	}
	return won, nil
}

func (g *Guard) Clear(ctx context.Context, identity string, restaurantID int) error {
	if err := g.rdb.Del(ctx, g.keys.completion(identity, restaurantID)).Err(); err != nil {
		return fmt.Errorf("clear completion marker: %w", err)
	}
	return nil
}

// Active reports whether a fresh marker exists. Read errors count as absent.
func (g *Guard) Active(ctx context.Context, identity string, restaurantID int) bool {
	n, err := g.rdb.Exists(ctx, g.keys.completion(identity, restaurantID)).Result()
	return err == nil && n > 0
}
