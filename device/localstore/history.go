package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const maxAppendRetries = 5

var ErrHistoryContention = errors.New("history append contention")

// History is a per-identity order log, newest first.
type History struct {
	rdb  *redis.Client
	keys keys
}

func NewHistory(rdb *redis.Client, namespace string) *History {
	return &History{rdb: rdb, keys: newKeys(namespace)}
}

// Append adds entry unless an entry with the same id is already present.
// It reports whether the entry was written.
func (h *History) Append(ctx context.Context, identity string, entry OrderEntry) (bool, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("marshal history entry: %w", err)
	}
	key := h.keys.history(identity)

	for i := 0; i < maxAppendRetries; i++ {
		appended := false
		err := h.rdb.Watch(ctx, func(tx *redis.Tx) error {
			existing, err := tx.LRange(ctx, key, 0, -1).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			for _, raw := range existing {
				var e OrderEntry
				if json.Unmarshal([]byte(raw), &e) == nil && e.ID == entry.ID {
					return nil
				}
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.LPush(ctx, key, payload)
				return nil
			})
			if err == nil {
				appended = true
			}
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("append history: %w", err)
		}
		return appended, nil
	}
	return false, ErrHistoryContention
}

// List returns the identity's entries, newest first. Entries that no longer
// decode are skipped.
func (h *History) List(ctx context.Context, identity string) ([]OrderEntry, error) {
	raw, err := h.rdb.LRange(ctx, h.keys.history(identity), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("list history: %w", err)
	}

	out := make([]OrderEntry, 0, len(raw))
	for _, r := range raw {
		var e OrderEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil || e.ID == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
