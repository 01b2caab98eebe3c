package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Handoffs struct {
	rdb  *redis.Client
	keys keys
}

func NewHandoffs(rdb *redis.Client, namespace string) *Handoffs {
	return &Handoffs{rdb: rdb, keys: newKeys(namespace)}
}

// Save replaces any existing record.
func (h *Handoffs) Save(ctx context.Context, handoff Handoff) error {
	payload, err := json.Marshal(handoff)
	if err != nil {
		return fmt.Errorf("marshal handoff: %w", err)
	}
	if err := h.rdb.Set(ctx, h.keys.pendingOrder(), payload, 0).Err(); err != nil {
		return fmt.Errorf("save handoff: %w", err)
	}
	return nil
}

// Load returns nil when there is no record. A record that no longer decodes
// is dropped and reported as absent.
func (h *Handoffs) Load(ctx context.Context) (*Handoff, error) {
	raw, err := h.rdb.Get(ctx, h.keys.pendingOrder()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load handoff: %w", err)
	}

	var out Handoff
	if err := json.Unmarshal(raw, &out); err != nil || out.RestaurantID <= 0 {
		_ = h.rdb.Del(ctx, h.keys.pendingOrder()).Err()
		return nil, nil
	}
	return &out, nil
}

func (h *Handoffs) Clear(ctx context.Context) error {
	if err := h.rdb.Del(ctx, h.keys.pendingOrder()).Err(); err != nil {
		return fmt.Errorf("clear handoff: %w", err)
	}
	return nil
}
