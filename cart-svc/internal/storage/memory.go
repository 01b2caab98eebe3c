package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"groupcart/cart-svc/internal/domain"
)

type memRestaurant struct {
	mu        sync.Mutex
	data      domain.Restaurant
	menus     map[int]*domain.MenuItem
	menuOrder []int
}

type memOrder struct {
	order domain.GroupOrder
	qr    []byte
}

// MemoryStore keeps aggregates in process memory. Each restaurant has its
// own mutex, which serializes all reads and writes of that aggregate.
type MemoryStore struct {
	mu               sync.RWMutex
	restaurants      map[int]*memRestaurant
	byName           map[string]int
	nextRestaurantID int
	nextMenuID       int

	ordersMu    sync.Mutex
	orders      map[int]*memOrder
	nextOrderID int

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		restaurants: make(map[int]*memRestaurant),
		byName:      make(map[string]int),
		orders:      make(map[int]*memOrder),
		now:         time.Now,
	}
}

// WithClock replaces the time source used for UpdatedAt and order dates.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// AddRestaurant registers a restaurant and its menus, returning the stored
// rows. A name that already exists returns the existing rows untouched.
func (s *MemoryStore) AddRestaurant(seed domain.SeedRestaurant) (domain.Restaurant, []domain.MenuItem) {
	s.mu.Lock()
	id, ok := s.byName[seed.Name]
	if !ok {
		s.nextRestaurantID++
		id = s.nextRestaurantID
		rest := &memRestaurant{
			data: domain.Restaurant{
				ID:            id,
				Name:          seed.Name,
				Latitude:      seed.Latitude,
				Longitude:     seed.Longitude,
				MinOrderPrice: seed.MinOrderPrice,
				UpdatedAt:     s.now(),
			},
			menus: make(map[int]*domain.MenuItem),
		}
		for _, m := range seed.Menus {
			s.nextMenuID++
			rest.menus[s.nextMenuID] = &domain.MenuItem{
				ID:           s.nextMenuID,
				RestaurantID: id,
				Name:         m.Name,
				Price:        m.Price,
			}
			rest.menuOrder = append(rest.menuOrder, s.nextMenuID)
		}
		s.restaurants[id] = rest
		s.byName[seed.Name] = id
	}
	rest := s.restaurants[id]
	s.mu.Unlock()

	rest.mu.Lock()
	defer rest.mu.Unlock()
	return rest.data, rest.menuList()
}

func (s *MemoryStore) SeedCatalog(_ context.Context, catalog []domain.SeedRestaurant) error {
	for _, rest := range catalog {
		s.AddRestaurant(rest)
	}
	return nil
}

func (s *MemoryStore) ListRestaurants(_ context.Context, query string, limit int) ([]domain.Restaurant, error) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.restaurants))
	for id := range s.restaurants {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Ints(ids)

	q := strings.ToLower(query)
	out := []domain.Restaurant{}
	for _, id := range ids {
		rest, _ := s.get(id)
		rest.mu.Lock()
		data := rest.data
		rest.mu.Unlock()
		if q != "" && !strings.Contains(strings.ToLower(data.Name), q) {
			continue
		}
		out = append(out, data)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) GetRestaurant(_ context.Context, restaurantID int) (*domain.Restaurant, error) {
	rest, err := s.get(restaurantID)
	if err != nil {
		return nil, err
	}
	rest.mu.Lock()
	defer rest.mu.Unlock()
	data := rest.data
	return &data, nil
}

func (s *MemoryStore) ListMenus(_ context.Context, restaurantID int) ([]domain.MenuItem, error) {
	rest, err := s.get(restaurantID)
	if err != nil {
		return nil, err
	}
	rest.mu.Lock()
	defer rest.mu.Unlock()
	return rest.menuList(), nil
}

func (s *MemoryStore) ReadState(_ context.Context, restaurantID int) (domain.Snapshot, error) {
	rest, err := s.get(restaurantID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	rest.mu.Lock()
	defer rest.mu.Unlock()
	return rest.snapshot(), nil
}

func (s *MemoryStore) ApplyPriceDelta(_ context.Context, restaurantID int, delta domain.Money) (domain.Snapshot, error) {
	rest, err := s.get(restaurantID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	rest.mu.Lock()
	defer rest.mu.Unlock()
	price, err := addMoney(rest.data.PendingPrice, delta)
	if err != nil {
		return domain.Snapshot{}, err
	}
	rest.data.PendingPrice = price
	rest.data.UpdatedAt = s.now()
	return rest.snapshot(), nil
}

func (s *MemoryStore) ApplyItemDelta(_ context.Context, restaurantID, menuID, delta int) (domain.MenuItem, error) {
	rest, err := s.get(restaurantID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	rest.mu.Lock()
	defer rest.mu.Unlock()
	menu, ok := rest.menus[menuID]
	if !ok {
		return domain.MenuItem{}, domain.ErrMenuNotFound
	}
	menu.AmountOrdered = floorCount(menu.AmountOrdered + delta)
	rest.data.UpdatedAt = s.now()
	return *menu, nil
}

func (s *MemoryStore) ApplyCombinedDelta(_ context.Context, restaurantID, menuID, delta int) (domain.CombinedResult, error) {
	rest, err := s.get(restaurantID)
	if err != nil {
		return domain.CombinedResult{}, err
	}
	rest.mu.Lock()
	defer rest.mu.Unlock()
	menu, ok := rest.menus[menuID]
	if !ok {
		return domain.CombinedResult{}, domain.ErrMenuNotFound
	}

	effective := effectiveDelta(menu.AmountOrdered, delta)
	if effective != 0 {
		menu.AmountOrdered += effective
		rest.data.PendingPrice = floorMoney(rest.data.PendingPrice + menu.Price*domain.Money(effective))
		rest.data.UpdatedAt = s.now()
	}
	return domain.CombinedResult{Menu: *menu, Restaurant: rest.snapshot()}, nil
}

func (s *MemoryStore) Checkout(_ context.Context, restaurantID int) (domain.Snapshot, *domain.GroupOrder, error) {
	rest, err := s.get(restaurantID)
	if err != nil {
		return domain.Snapshot{}, nil, err
	}
	rest.mu.Lock()
	defer rest.mu.Unlock()

	var order *domain.GroupOrder
	if rest.data.PendingPrice > 0 {
		items := []domain.OrderItem{}
		for _, id := range rest.menuOrder {
			m := rest.menus[id]
			if m.AmountOrdered > 0 {
				items = append(items, domain.OrderItem{MenuID: m.ID, Name: m.Name, Quantity: m.AmountOrdered, Price: m.Price})
			}
		}
		order = s.recordOrder(domain.GroupOrder{
			RestaurantID:   rest.data.ID,
			RestaurantName: rest.data.Name,
			TotalPrice:     rest.data.PendingPrice,
			Status:         domain.OrderStatusCompleted,
			Items:          items,
		})
	}

	rest.data.PendingPrice = 0
	rest.data.UpdatedAt = s.now()
	for _, m := range rest.menus {
		m.AmountOrdered = 0
	}
	return rest.snapshot(), order, nil
}

func (s *MemoryStore) GetOrder(_ context.Context, orderID int) (*domain.GroupOrder, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order := o.order
	order.Items = append([]domain.OrderItem(nil), o.order.Items...)
	return &order, nil
}

func (s *MemoryStore) SaveQRCode(_ context.Context, orderID int, qr []byte) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.qr = qr
	return nil
}

func (s *MemoryStore) GetQRCode(_ context.Context, orderID int) ([]byte, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o.qr, nil
}

func (s *MemoryStore) get(restaurantID int) (*memRestaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rest, ok := s.restaurants[restaurantID]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	return rest, nil
}

func (s *MemoryStore) recordOrder(order domain.GroupOrder) *domain.GroupOrder {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	s.nextOrderID++
	order.ID = s.nextOrderID
	order.CreatedAt = s.now()
	s.orders[order.ID] = &memOrder{order: order}
	out := order
	return &out
}

func (r *memRestaurant) snapshot() domain.Snapshot {
	return domain.Snapshot{ID: r.data.ID, PendingPrice: r.data.PendingPrice, MinOrderPrice: r.data.MinOrderPrice}
}

func (r *memRestaurant) menuList() []domain.MenuItem {
	out := make([]domain.MenuItem, 0, len(r.menuOrder))
	for _, id := range r.menuOrder {
		out = append(out, *r.menus[id])
	}
	return out
}
