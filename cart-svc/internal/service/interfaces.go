package service

import (
	"context"

	"groupcart/cart-svc/internal/domain"
)

// AggregateStore owns the restaurant and menu aggregates. Every mutation is
// atomic per restaurant.
type AggregateStore interface {
	ListRestaurants(ctx context.Context, query string, limit int) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error)
	ListMenus(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	ReadState(ctx context.Context, restaurantID int) (domain.Snapshot, error)
	ApplyPriceDelta(ctx context.Context, restaurantID int, delta domain.Money) (domain.Snapshot, error)
	ApplyItemDelta(ctx context.Context, restaurantID, menuID, delta int) (domain.MenuItem, error)
	ApplyCombinedDelta(ctx context.Context, restaurantID, menuID, delta int) (domain.CombinedResult, error)
	Checkout(ctx context.Context, restaurantID int) (domain.Snapshot, *domain.GroupOrder, error)
}

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID int) (*domain.GroupOrder, error)
	SaveQRCode(ctx context.Context, orderID int, qr []byte) error
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
}

type OrderPublisher interface {
	PublishOrderCompleted(ctx context.Context, event domain.OrderEvent) error
}

type AggregateServiceInterface interface {
	ListRestaurants(ctx context.Context, query string) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error)
	ListMenus(ctx context.Context, restaurantID int) ([]domain.MenuItem, error)
	ReadState(ctx context.Context, restaurantID int) (domain.Snapshot, error)
	ApplyPriceDelta(ctx context.Context, restaurantID int, delta domain.Money) (domain.Snapshot, error)
	ApplyItemDelta(ctx context.Context, restaurantID, menuID, delta int) (domain.MenuItem, error)
	ApplyCombinedDelta(ctx context.Context, restaurantID, menuID, delta int) (domain.CombinedResult, error)
	Checkout(ctx context.Context, restaurantID int) (domain.CheckoutResult, error)
	GetOrder(ctx context.Context, orderID int) (*domain.GroupOrder, error)
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
}

var _ AggregateServiceInterface = (*AggregateService)(nil)
