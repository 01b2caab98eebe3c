// Package completion turns a shared total that reached the minimum order into
// exactly one confirmed checkout per completion event.
//
// Each (identity, restaurant) pair moves Idle -> Completing ->
// AwaitingConfirmation -> Idle. Entering Completing requires winning the
// completion marker, so the acting device's immediate check and its
// background watcher cannot both finalize. A device acts once its own
// increment comes back at or above the minimum; other devices learn about
// the completion when their poller sees the total drop to zero.
package completion

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"groupcart/device/api"
	"groupcart/device/cart"
	"groupcart/device/localstore"
	"groupcart/logger"

	"github.com/google/uuid"
)

var (
	ErrConflict         = errors.New("completion already in progress")
	ErrNothingToConfirm = errors.New("nothing to confirm")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCompleting
	PhaseAwaitingConfirmation
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCompleting:
		return "completing"
	case PhaseAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type Guard interface {
	Claim(ctx context.Context, identity string, restaurantID int) (bool, error)
	Clear(ctx context.Context, identity string, restaurantID int) error
	Active(ctx context.Context, identity string, restaurantID int) bool
}

type HandoffStore interface {
	Save(ctx context.Context, handoff localstore.Handoff) error
	Load(ctx context.Context) (*localstore.Handoff, error)
	Clear(ctx context.Context) error
}

type HistoryLog interface {
	Append(ctx context.Context, identity string, entry localstore.OrderEntry) (bool, error)
}

type Checkouter interface {
	Checkout(ctx context.Context, restaurantID int) (api.CheckoutResult, error)
}

var (
	_ Guard        = (*localstore.Guard)(nil)
	_ HandoffStore = (*localstore.Handoffs)(nil)
	_ HistoryLog   = (*localstore.History)(nil)
	_ Checkouter   = (*api.Client)(nil)
)

type pairKey struct {
	identity     string
	restaurantID int
}

type Config struct {
	Store    *cart.Store
	Guard    Guard
	Handoffs HandoffStore
	History  HistoryLog
	API      Checkouter
	// OnAwaiting is called, outside the coordinator lock, whenever a
	// hand-off becomes ready for confirmation.
	OnAwaiting func(localstore.Handoff)
	Log        *logger.Logger
}

// Coordinator serializes all of its operations.
type Coordinator struct {
	mu     sync.Mutex
	phases map[pairKey]Phase
	actors map[pairKey]bool

	store      *cart.Store
	guard      Guard
	handoffs   HandoffStore
	history    HistoryLog
	api        Checkouter
	onAwaiting func(localstore.Handoff)
	log        *logger.Logger

	now   func() time.Time
	newID func() string
}

func New(cfg Config) *Coordinator {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		phases:     make(map[pairKey]Phase),
		actors:     make(map[pairKey]bool),
		store:      cfg.Store,
		guard:      cfg.Guard,
		handoffs:   cfg.Handoffs,
		history:    cfg.History,
		api:        cfg.API,
		onAwaiting: cfg.OnAwaiting,
		log:        log,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// WithClock replaces the time source used for order dates and hand-offs.
func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

func (c *Coordinator) Phase(identity string, restaurantID int) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phases[pairKey{identity, restaurantID}]
}

// EvaluateActor is fed the server snapshot returned to this device's own
// successful increment. A snapshot at or above the minimum makes the identity
// the actor for the restaurant, whether or not this increment was the one
// that reached it.
func (c *Coordinator) EvaluateActor(ctx context.Context, identity string, restaurantID int, st api.State) error {
	if !st.ThresholdReached() {
		return nil
	}

	c.mu.Lock()
	k := pairKey{identity, restaurantID}
	c.actors[k] = true
	handoff, err := c.begin(ctx, k, st)
	c.mu.Unlock()

	c.announce(handoff)
	return err
}

// ObserveThreshold is the watcher path. It proceeds only for identities this
// device is the actor for.
func (c *Coordinator) ObserveThreshold(ctx context.Context, restaurantID int, st api.State) {
	c.mu.Lock()
	var ready []*localstore.Handoff
	for _, k := range c.actorKeys(restaurantID) {
		handoff, err := c.begin(ctx, k, st)
		switch {
		case errors.Is(err, ErrConflict):
			c.log.Debug("watcher lost completion claim",
				"identity", k.identity,
				"restaurant_id", restaurantID)
		case err != nil:
			c.log.Warn("watcher failed to start completion",
				"identity", k.identity,
				"restaurant_id", restaurantID,
				"error", err)
		default:
			ready = append(ready, handoff)
		}
	}
	c.mu.Unlock()

	for _, h := range ready {
		c.announce(h)
	}
}

// ObserveReset handles a shared total that dropped to zero: a group order
// was finalized by someone. Identities not finalizing on this device get a
// locally scoped history entry, then the restaurant is cleared for everyone.
func (c *Coordinator) ObserveReset(ctx context.Context, restaurantID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, identity := range c.store.Identities(restaurantID) {
		k := pairKey{identity, restaurantID}
		if c.phases[k] != PhaseIdle || c.guard.Active(ctx, identity, restaurantID) {
			continue
		}

		entry := c.buildEntry(identity, restaurantID)
		if len(entry.Items) == 0 {
			continue
		}
		if _, err := c.history.Append(ctx, identity, entry); err != nil {
			c.log.Warn("failed to append history after remote completion",
				"identity", identity,
				"restaurant_id", restaurantID,
				"error", err)
		}
	}

	c.store.ResetRestaurant(ctx, restaurantID)
	for k := range c.actors {
		if k.restaurantID == restaurantID && c.phases[k] == PhaseIdle {
			delete(c.actors, k)
		}
	}
}

// Pending returns the hand-off awaiting confirmation, or nil.
func (c *Coordinator) Pending(ctx context.Context) (*localstore.Handoff, error) {
	return c.handoffs.Load(ctx)
}

// Confirm checks out the pending hand-off. A failed checkout keeps the
// hand-off so the user can retry.
func (c *Coordinator) Confirm(ctx context.Context) (localstore.OrderEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, err := c.handoffs.Load(ctx)
	if err != nil {
		return localstore.OrderEntry{}, err
	}
	if h == nil {
		return localstore.OrderEntry{}, ErrNothingToConfirm
	}
	k := pairKey{h.Identity, h.RestaurantID}

	res, err := c.api.Checkout(ctx, h.RestaurantID)
	if err != nil {
		c.clearGuard(ctx, k)
		return localstore.OrderEntry{}, fmt.Errorf("checkout restaurant %d: %w", h.RestaurantID, err)
	}

	if len(h.Order.Items) > 0 {
		if _, err := c.history.Append(ctx, h.Identity, h.Order); err != nil {
			c.log.Warn("failed to append history after checkout",
				"identity", h.Identity,
				"restaurant_id", h.RestaurantID,
				"error", err)
		}
	}
	if err := c.handoffs.Clear(ctx); err != nil {
		c.log.Warn("failed to clear handoff", "error", err)
	}

	c.store.ResetRestaurant(ctx, h.RestaurantID)
	c.clearGuard(ctx, k)
	delete(c.phases, k)
	delete(c.actors, k)

	st := res.State
	st.ID = h.RestaurantID
	c.store.SetSnapshot(st)

	c.log.Info("group order confirmed",
		"identity", h.Identity,
		"restaurant_id", h.RestaurantID,
		"order_id", res.CompletedOrderID,
		"entry_id", h.Order.ID)
	return h.Order, nil
}

// Cancel abandons the pending hand-off and frees the marker so the order can
// be completed later. The identity stays the actor for this restaurant.
func (c *Coordinator) Cancel(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, err := c.handoffs.Load(ctx)
	if err != nil {
		return err
	}
	if h == nil {
		return ErrNothingToConfirm
	}
	k := pairKey{h.Identity, h.RestaurantID}

	c.clearGuard(ctx, k)
	if err := c.handoffs.Clear(ctx); err != nil {
		return err
	}
	delete(c.phases, k)
	return nil
}

// Recover resumes a hand-off persisted before a restart.
func (c *Coordinator) Recover(ctx context.Context) error {
	h, err := c.handoffs.Load(ctx)
	if err != nil || h == nil {
		return err
	}

	c.mu.Lock()
	k := pairKey{h.Identity, h.RestaurantID}
	c.phases[k] = PhaseAwaitingConfirmation
	c.actors[k] = true
	c.mu.Unlock()

	c.log.Info("recovered pending order",
		"identity", h.Identity,
		"restaurant_id", h.RestaurantID)
	c.announce(h)
	return nil
}

// begin must be called with c.mu held.
func (c *Coordinator) begin(ctx context.Context, k pairKey, st api.State) (*localstore.Handoff, error) {
	if c.phases[k] != PhaseIdle || c.awaitingAny() {
		return nil, ErrConflict
	}
	c.phases[k] = PhaseCompleting

	won, err := c.guard.Claim(ctx, k.identity, k.restaurantID)
	if err != nil {
		delete(c.phases, k)
		return nil, err
	}
	if !won {
		delete(c.phases, k)
		return nil, ErrConflict
	}

	name := fmt.Sprintf("restaurant %d", k.restaurantID)
	if meta, ok := c.store.Meta(k.restaurantID); ok && meta.Name != "" {
		name = meta.Name
	}
	handoff := localstore.Handoff{
		Identity:       k.identity,
		RestaurantID:   k.restaurantID,
		RestaurantName: name,
		MinOrderPrice:  st.MinOrderPrice,
		Order:          c.buildEntry(k.identity, k.restaurantID),
		CreatedAt:      c.now().UTC(),
	}

	if err := c.handoffs.Save(ctx, handoff); err != nil {
		c.clearGuard(ctx, k)
		delete(c.phases, k)
		return nil, err
	}
	c.phases[k] = PhaseAwaitingConfirmation

	c.log.Info("group order awaiting confirmation",
		"identity", k.identity,
		"restaurant_id", k.restaurantID,
		"pending_price", st.PendingPrice,
		"min_order_price", st.MinOrderPrice)
	return &handoff, nil
}

func (c *Coordinator) buildEntry(identity string, restaurantID int) localstore.OrderEntry {
	counts := c.store.Counts(identity, restaurantID)
	menuIDs := make([]int, 0, len(counts))
	for id := range counts {
		menuIDs = append(menuIDs, id)
	}
	sort.Ints(menuIDs)

	name := fmt.Sprintf("restaurant %d", restaurantID)
	if meta, ok := c.store.Meta(restaurantID); ok && meta.Name != "" {
		name = meta.Name
	}

	entry := localstore.OrderEntry{
		ID:             c.newID(),
		RestaurantName: name,
		Items:          []string{},
		OrderDate:      c.now().Format(localstore.OrderDateLayout),
		Status:         localstore.StatusDelivered,
	}
	for _, id := range menuIDs {
		menu, ok := c.store.Menu(restaurantID, id)
		if !ok {
			continue
		}
		qty := counts[id]
		if qty > 1 {
			entry.Items = append(entry.Items, fmt.Sprintf("%s x%d", menu.Name, qty))
		} else {
			entry.Items = append(entry.Items, menu.Name)
		}
		entry.TotalPrice += menu.Price * int64(qty)
	}
	return entry
}

func (c *Coordinator) actorKeys(restaurantID int) []pairKey {
	var out []pairKey
	for k, ok := range c.actors {
		if ok && k.restaurantID == restaurantID && c.phases[k] == PhaseIdle {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].identity < out[j].identity })
	return out
}

func (c *Coordinator) awaitingAny() bool {
	for _, p := range c.phases {
		if p == PhaseAwaitingConfirmation {
			return true
		}
	}
	return false
}

func (c *Coordinator) clearGuard(ctx context.Context, k pairKey) {
	if err := c.guard.Clear(ctx, k.identity, k.restaurantID); err != nil {
		c.log.Warn("failed to clear completion marker",
			"identity", k.identity,
			"restaurant_id", k.restaurantID,
			"error", err)
	}
}

func (c *Coordinator) announce(h *localstore.Handoff) {
	if h != nil && c.onAwaiting != nil {
		c.onAwaiting(*h)
	}
}
