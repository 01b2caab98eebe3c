// Package poller reconciles the device's cached snapshots with the server
// on a fixed interval. The server value always replaces the cached one.
package poller

import (
	"context"
	"sort"
	"sync"
	"time"

	"groupcart/device/api"
	"groupcart/device/cart"
	"groupcart/device/completion"
	"groupcart/logger"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultInterval = 1200 * time.Millisecond
	maxParallel     = 8
)

type StateReader interface {
	GetRestaurant(ctx context.Context, restaurantID int) (api.Restaurant, error)
	ListMenus(ctx context.Context, restaurantID int) ([]api.Menu, error)
	ReadState(ctx context.Context, restaurantID int) (api.State, error)
}

// Watcher is told about threshold crossings and about totals returning to
// zero. Calls happen on the polling goroutine, one restaurant at a time.
type Watcher interface {
	ObserveThreshold(ctx context.Context, restaurantID int, st api.State)
	ObserveReset(ctx context.Context, restaurantID int)
}

var (
	_ StateReader = (*api.Client)(nil)
	_ Watcher     = (*completion.Coordinator)(nil)
)

type Poller struct {
	api      StateReader
	store    *cart.Store
	watcher  Watcher
	interval time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	tracked map[int]struct{}
}

// New builds a poller. watcher may be nil.
func New(reader StateReader, store *cart.Store, watcher Watcher, interval time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Poller{
		api:      reader,
		store:    store,
		watcher:  watcher,
		interval: interval,
		log:      log,
		tracked:  make(map[int]struct{}),
	}
}

func (p *Poller) Track(restaurantID int) {
	p.mu.Lock()
	p.tracked[restaurantID] = struct{}{}
	p.mu.Unlock()
}

func (p *Poller) Untrack(restaurantID int) {
	p.mu.Lock()
	delete(p.tracked, restaurantID)
	p.mu.Unlock()
}

func (p *Poller) Tracked() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, 0, len(p.tracked))
	for id := range p.tracked {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Run ticks immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

type fetched struct {
	ok    bool
	state api.State
	meta  *cart.RestaurantMeta
	menus []cart.MenuInfo
}

// Tick fetches every tracked restaurant in parallel and then applies the
// results in restaurant order. Failed fetches are skipped until the next
// tick. Nothing is applied once ctx is done.
func (p *Poller) Tick(ctx context.Context) {
	ids := p.Tracked()
	results := make([]fetched, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, rid := range ids {
		g.Go(func() error {
			results[i] = p.fetch(gctx, rid)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return
	}
	for i, rid := range ids {
		if results[i].ok {
			p.apply(ctx, rid, results[i])
		}
	}
}

func (p *Poller) fetch(ctx context.Context, restaurantID int) fetched {
	st, err := p.api.ReadState(ctx, restaurantID)
	if err != nil {
		p.log.Debug("poll skipped", "restaurant_id", restaurantID, "error", err)
		return fetched{}
	}
	out := fetched{ok: true, state: st}

	if !p.store.HasMenus(restaurantID) {
		if menus, err := p.api.ListMenus(ctx, restaurantID); err == nil {
			out.menus = make([]cart.MenuInfo, 0, len(menus))
			for _, m := range menus {
				out.menus = append(out.menus, cart.MenuInfo{ID: m.ID, Name: m.Name, Price: m.Price})
			}
		} else {
			p.log.Debug("menu refresh skipped", "restaurant_id", restaurantID, "error", err)
		}
	}
	if _, ok := p.store.Meta(restaurantID); !ok {
		if r, err := p.api.GetRestaurant(ctx, restaurantID); err == nil {
			out.meta = &cart.RestaurantMeta{ID: r.ID, Name: r.Name, MinOrderPrice: r.MinOrderPrice}
		} else {
			p.log.Debug("restaurant refresh skipped", "restaurant_id", restaurantID, "error", err)
		}
	}
	return out
}

func (p *Poller) apply(ctx context.Context, restaurantID int, r fetched) {
	if r.meta != nil {
		p.store.SetMeta(*r.meta)
	}
	if r.menus != nil {
		p.store.SetMenus(restaurantID, r.menus)
	}

	prev, known := p.store.Snapshot(restaurantID)
	cur := r.state
	cur.ID = restaurantID
	p.store.SetSnapshot(cur)

	if p.watcher == nil {
		return
	}
	if cur.ThresholdReached() && (!known || !prev.ThresholdReached()) {
		p.watcher.ObserveThreshold(ctx, restaurantID, cur)
	}
	if known && prev.PendingPrice > 0 && cur.PendingPrice == 0 {
		p.watcher.ObserveReset(ctx, restaurantID)
	}
}
