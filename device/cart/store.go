// Package cart holds the device-local view of shared carts: the cached
// server snapshots plus each identity's own item quantities.
//
// The server snapshot always overwrites the cache. Local quantities are only
// the record of what this device itself changed, used for rollback, badges
// and history entries.
package cart

import (
	"context"
	"sort"
	"sync"

	"groupcart/device/api"
	"groupcart/logger"
)

type EventKind int

const (
	EventSnapshot EventKind = iota
	EventMeta
	EventMenus
	EventQuantity
	EventReset
)

type Event struct {
	Kind         EventKind
	RestaurantID int
	// Identity is set for EventQuantity only.
	Identity string
	MenuID   int
	Quantity int
}

type RestaurantMeta struct {
	ID            int
	Name          string
	MinOrderPrice int64
}

type MenuInfo struct {
	ID    int
	Name  string
	Price int64
}

// CountsSink persists one identity's quantities for one restaurant. An empty
// map means the restaurant has nothing left for that identity.
type CountsSink interface {
	SaveCounts(ctx context.Context, identity string, restaurantID int, counts map[int]int) error
}

type Store struct {
	// notifyMu orders listener calls by mutation order; mu guards state.
	notifyMu sync.Mutex
	mu       sync.Mutex

	snapshots map[int]api.State
	meta      map[int]RestaurantMeta
	menus     map[int]map[int]MenuInfo
	counts    map[string]map[int]map[int]int

	listeners    map[int]func(Event)
	nextListener int

	sink CountsSink
	log  *logger.Logger
}

// NewStore builds an empty store. sink may be nil.
func NewStore(sink CountsSink, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		snapshots: make(map[int]api.State),
		meta:      make(map[int]RestaurantMeta),
		menus:     make(map[int]map[int]MenuInfo),
		counts:    make(map[string]map[int]map[int]int),
		listeners: make(map[int]func(Event)),
		sink:      sink,
		log:       log,
	}
}

// Subscribe registers fn for every change. Listeners run synchronously in
// mutation order, outside the state lock, and must not mutate the store.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SetSnapshot adopts a server snapshot.
func (s *Store) SetSnapshot(st api.State) {
	s.mutate(func() []Event {
		s.snapshots[st.ID] = st
		if m, ok := s.meta[st.ID]; ok && st.MinOrderPrice > 0 {
			m.MinOrderPrice = st.MinOrderPrice
			s.meta[st.ID] = m
		}
		return []Event{{Kind: EventSnapshot, RestaurantID: st.ID}}
	})
}

func (s *Store) Snapshot(restaurantID int) (api.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.snapshots[restaurantID]
	return st, ok
}

func (s *Store) SetMeta(meta RestaurantMeta) {
	s.mutate(func() []Event {
		s.meta[meta.ID] = meta
		return []Event{{Kind: EventMeta, RestaurantID: meta.ID}}
	})
}

func (s *Store) Meta(restaurantID int) (RestaurantMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meta[restaurantID]
	return m, ok
}

func (s *Store) SetMenus(restaurantID int, menus []MenuInfo) {
	s.mutate(func() []Event {
		byID := make(map[int]MenuInfo, len(menus))
		for _, m := range menus {
			byID[m.ID] = m
		}
		s.menus[restaurantID] = byID
		return []Event{{Kind: EventMenus, RestaurantID: restaurantID}}
	})
}

func (s *Store) Menu(restaurantID, menuID int) (MenuInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.menus[restaurantID][menuID]
	return m, ok
}

func (s *Store) HasMenus(restaurantID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.menus[restaurantID]
	return ok
}

func (s *Store) Quantity(identity string, restaurantID, menuID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[identity][restaurantID][menuID]
}

// Counts returns a copy of the identity's non-zero quantities.
func (s *Store) Counts(identity string, restaurantID int) map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounts(s.counts[identity][restaurantID])
}

// Increment adds one unit and returns the new quantity.
func (s *Store) Increment(ctx context.Context, identity string, restaurantID, menuID int) int {
	var qty int
	s.mutateCounts(ctx, identity, restaurantID, func(c map[int]int) bool {
		c[menuID]++
		qty = c[menuID]
		return true
	}, func() Event {
		return Event{Kind: EventQuantity, RestaurantID: restaurantID, Identity: identity, MenuID: menuID, Quantity: qty}
	})
	return qty
}

// Decrement removes one unit. At zero it is a no-op and reports false.
func (s *Store) Decrement(ctx context.Context, identity string, restaurantID, menuID int) (int, bool) {
	var (
		qty     int
		changed bool
	)
	s.mutateCounts(ctx, identity, restaurantID, func(c map[int]int) bool {
		if c[menuID] <= 0 {
			return false
		}
		c[menuID]--
		qty = c[menuID]
		if qty == 0 {
			delete(c, menuID)
		}
		changed = true
		return true
	}, func() Event {
		return Event{Kind: EventQuantity, RestaurantID: restaurantID, Identity: identity, MenuID: menuID, Quantity: qty}
	})
	return qty, changed
}

// Hydrate loads persisted quantities without writing them back.
func (s *Store) Hydrate(identity string, byRestaurant map[int]map[int]int) {
	s.mutate(func() []Event {
		var events []Event
		for rid, counts := range byRestaurant {
			c := s.restaurantCounts(identity, rid)
			for menuID, qty := range counts {
				if qty > 0 {
					c[menuID] = qty
				}
			}
			events = append(events, Event{Kind: EventQuantity, RestaurantID: rid, Identity: identity})
		}
		return events
	})
}

// ResetRestaurant clears the restaurant's quantities for every identity known
// to this device and returns the identities that had something.
func (s *Store) ResetRestaurant(ctx context.Context, restaurantID int) []string {
	var cleared []string
	s.mutate(func() []Event {
		for identity, byRestaurant := range s.counts {
			if len(byRestaurant[restaurantID]) > 0 {
				cleared = append(cleared, identity)
			}
			delete(byRestaurant, restaurantID)
		}
		return []Event{{Kind: EventReset, RestaurantID: restaurantID}}
	})
	sort.Strings(cleared)

	for _, identity := range cleared {
		s.persist(ctx, identity, restaurantID, nil)
	}
	return cleared
}

// Identities lists identities holding a non-empty view of the restaurant.
func (s *Store) Identities(restaurantID int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for identity, byRestaurant := range s.counts {
		if len(byRestaurant[restaurantID]) > 0 {
			out = append(out, identity)
		}
	}
	sort.Strings(out)
	return out
}

// Restaurants lists restaurants where identity has at least one item.
func (s *Store) Restaurants(identity string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for rid, c := range s.counts[identity] {
		if len(c) > 0 {
			out = append(out, rid)
		}
	}
	sort.Ints(out)
	return out
}

func (s *Store) restaurantCounts(identity string, restaurantID int) map[int]int {
	byRestaurant, ok := s.counts[identity]
	if !ok {
		byRestaurant = make(map[int]map[int]int)
		s.counts[identity] = byRestaurant
	}
	c, ok := byRestaurant[restaurantID]
	if !ok {
		c = make(map[int]int)
		byRestaurant[restaurantID] = c
	}
	return c
}

func (s *Store) mutateCounts(ctx context.Context, identity string, restaurantID int, fn func(map[int]int) bool, event func() Event) {
	var (
		snapshot map[int]int
		changed  bool
	)
	s.mutate(func() []Event {
		c := s.restaurantCounts(identity, restaurantID)
		if changed = fn(c); !changed {
			return nil
		}
		snapshot = copyCounts(c)
		return []Event{event()}
	})
	if changed {
		s.persist(ctx, identity, restaurantID, snapshot)
	}
}

func (s *Store) mutate(fn func() []Event) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	events := fn()
	listeners := make([]func(Event), 0, len(s.listeners))
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

func (s *Store) persist(ctx context.Context, identity string, restaurantID int, counts map[int]int) {
	if s.sink == nil {
		return
	}
	if err := s.sink.SaveCounts(ctx, identity, restaurantID, counts); err != nil {
		s.log.Warn("failed to persist local counts",
			"identity", identity,
			"restaurant_id", restaurantID,
			"error", err)
	}
}

func copyCounts(c map[int]int) map[int]int {
	out := make(map[int]int, len(c))
	for k, v := range c {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}
