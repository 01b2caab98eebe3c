package localstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Counts persists identity -> restaurant -> menu -> quantity as one hash per
// (identity, restaurant).
type Counts struct {
	rdb  *redis.Client
	keys keys
}

func NewCounts(rdb *redis.Client, namespace string) *Counts {
	return &Counts{rdb: rdb, keys: newKeys(namespace)}
}

// SaveCounts replaces the stored quantities. An empty map deletes them.
func (c *Counts) SaveCounts(ctx context.Context, identity string, restaurantID int, counts map[int]int) error {
	key := c.keys.counts(identity, restaurantID)

	fields := make(map[string]interface{}, len(counts))
	for menuID, qty := range counts {
		if qty > 0 {
			fields[strconv.Itoa(menuID)] = qty
		}
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save counts: %w", err)
	}
	return nil
}

// LoadCounts returns every stored restaurant for identity.
func (c *Counts) LoadCounts(ctx context.Context, identity string) (map[int]map[int]int, error) {
	out := make(map[int]map[int]int)

	iter := c.rdb.Scan(ctx, 0, c.keys.countsPattern(identity), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		rid, err := strconv.Atoi(key[strings.LastIndex(key, ":")+1:])
		if err != nil {
			continue
		}

		raw, err := c.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("load counts %s: %w", key, err)
		}
		counts := make(map[int]int, len(raw))
		for field, value := range raw {
			menuID, err1 := strconv.Atoi(field)
			qty, err2 := strconv.Atoi(value)
			if err1 != nil || err2 != nil || qty <= 0 {
				continue
			}
			counts[menuID] = qty
		}
		if len(counts) > 0 {
			out[rid] = counts
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan counts: %w", err)
	}
	return out, nil
}
