// Package pipeline applies a user's one-unit cart change locally first and
// then on the server, undoing the local change when the server call fails.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"groupcart/device/api"
	"groupcart/device/cart"
	"groupcart/device/completion"
	"groupcart/logger"
)

const DefaultRequestTimeout = 10 * time.Second

type DeltaApplier interface {
	ApplyDelta(ctx context.Context, restaurantID, menuID, delta int) (api.CombinedResult, error)
}

type ActorEvaluator interface {
	EvaluateActor(ctx context.Context, identity string, restaurantID int, st api.State) error
}

var (
	_ DeltaApplier   = (*api.Client)(nil)
	_ ActorEvaluator = (*completion.Coordinator)(nil)
)

// Outcome describes one Increase or Decrease. Applied is false when nothing
// was sent to the server.
type Outcome struct {
	Quantity int
	State    api.State
	Applied  bool
}

type Pipeline struct {
	store   *cart.Store
	api     DeltaApplier
	actor   ActorEvaluator
	timeout time.Duration
	log     *logger.Logger
}

// New builds a pipeline. actor may be nil.
func New(store *cart.Store, applier DeltaApplier, actor ActorEvaluator, timeout time.Duration, log *logger.Logger) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{store: store, api: applier, actor: actor, timeout: timeout, log: log}
}

func (p *Pipeline) Increase(ctx context.Context, identity string, restaurantID, menuID int) (Outcome, error) {
	p.store.Increment(ctx, identity, restaurantID, menuID)

	res, err := p.send(ctx, restaurantID, menuID, 1)
	if err != nil {
		qty, _ := p.store.Decrement(ctx, identity, restaurantID, menuID)
		p.log.Warn("add rolled back",
			"identity", identity,
			"restaurant_id", restaurantID,
			"menu_id", menuID,
			"error", err)
		return Outcome{Quantity: qty}, fmt.Errorf("add menu %d: %w", menuID, err)
	}

	st := res.Restaurant
	if p.actor != nil {
		if err := p.actor.EvaluateActor(ctx, identity, restaurantID, st); err != nil && !errors.Is(err, completion.ErrConflict) {
			p.log.Warn("failed to start completion",
				"identity", identity,
				"restaurant_id", restaurantID,
				"error", err)
		}
	}
	return Outcome{
		Quantity: p.store.Quantity(identity, restaurantID, menuID),
		State:    st,
		Applied:  true,
	}, nil
}

// Decrease at a local quantity of zero does nothing.
func (p *Pipeline) Decrease(ctx context.Context, identity string, restaurantID, menuID int) (Outcome, error) {
	if _, ok := p.store.Decrement(ctx, identity, restaurantID, menuID); !ok {
		st, _ := p.store.Snapshot(restaurantID)
		return Outcome{State: st}, nil
	}

	res, err := p.send(ctx, restaurantID, menuID, -1)
	if err != nil {
		qty := p.store.Increment(ctx, identity, restaurantID, menuID)
		p.log.Warn("remove rolled back",
			"identity", identity,
			"restaurant_id", restaurantID,
			"menu_id", menuID,
			"error", err)
		return Outcome{Quantity: qty}, fmt.Errorf("remove menu %d: %w", menuID, err)
	}
	return Outcome{
		Quantity: p.store.Quantity(identity, restaurantID, menuID),
		State:    res.Restaurant,
		Applied:  true,
	}, nil
}

// send adopts the server's snapshot on success.
func (p *Pipeline) send(ctx context.Context, restaurantID, menuID, delta int) (api.CombinedResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res, err := p.api.ApplyDelta(ctx, restaurantID, menuID, delta)
	if err != nil {
		return api.CombinedResult{}, err
	}

	res.Restaurant.ID = restaurantID
	p.store.SetSnapshot(res.Restaurant)
	return res, nil
}
