package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"groupcart/cart-svc/internal/domain"
	"groupcart/logger"
)

const maxRestaurantsListed = 30

type AggregateService struct {
	store     AggregateStore
	orders    OrderRepository
	qr        QRGenerator
	publisher OrderPublisher
	log       *logger.Logger
}

// NewAggregateService wires the aggregate store with the best-effort
// checkout side effects. qr and publisher may be nil.
func NewAggregateService(store AggregateStore, orders OrderRepository, qr QRGenerator, publisher OrderPublisher, log *logger.Logger) *AggregateService {
	if log == nil {
		log = logger.Nop()
	}
	return &AggregateService{
		store:     store,
		orders:    orders,
		qr:        qr,
		publisher: publisher,
		log:       log,
	}
}

func (s *AggregateService) ListRestaurants(ctx context.Context, query string) ([]domain.Restaurant, error) {
	return s.store.ListRestaurants(ctx, strings.TrimSpace(query), maxRestaurantsListed)
}

func (s *AggregateService) GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error) {
	if restaurantID <= 0 {
		return nil, domain.ErrRestaurantNotFound
	}
	return s.store.GetRestaurant(ctx, restaurantID)
}

func (s *AggregateService) ListMenus(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	if restaurantID <= 0 {
		return nil, domain.ErrRestaurantNotFound
	}
	return s.store.ListMenus(ctx, restaurantID)
}

func (s *AggregateService) ReadState(ctx context.Context, restaurantID int) (domain.Snapshot, error) {
	if restaurantID <= 0 {
		return domain.Snapshot{}, domain.ErrRestaurantNotFound
	}
	return s.store.ReadState(ctx, restaurantID)
}

// ApplyPriceDelta is the legacy single-field mutation. It keeps the floor at
// zero but does not touch menu counts.
func (s *AggregateService) ApplyPriceDelta(ctx context.Context, restaurantID int, delta domain.Money) (domain.Snapshot, error) {
	if delta == 0 {
		return domain.Snapshot{}, fmt.Errorf("%w: price delta must be non-zero", domain.ErrInvalidDelta)
	}
	if restaurantID <= 0 {
		return domain.Snapshot{}, domain.ErrRestaurantNotFound
	}
	return s.store.ApplyPriceDelta(ctx, restaurantID, delta)
}

// ApplyItemDelta is the legacy single-field mutation of amountOrdered.
func (s *AggregateService) ApplyItemDelta(ctx context.Context, restaurantID, menuID, delta int) (domain.MenuItem, error) {
	if err := validateUnitDelta(delta); err != nil {
		return domain.MenuItem{}, err
	}
	if restaurantID <= 0 || menuID <= 0 {
		return domain.MenuItem{}, domain.ErrMenuNotFound
	}
	return s.store.ApplyItemDelta(ctx, restaurantID, menuID, delta)
}

func (s *AggregateService) ApplyCombinedDelta(ctx context.Context, restaurantID, menuID, delta int) (domain.CombinedResult, error) {
	if err := validateUnitDelta(delta); err != nil {
		return domain.CombinedResult{}, err
	}
	if restaurantID <= 0 || menuID <= 0 {
		return domain.CombinedResult{}, domain.ErrMenuNotFound
	}
	return s.store.ApplyCombinedDelta(ctx, restaurantID, menuID, delta)
}

// Checkout zeroes the aggregate. When something was pending a group order is
// recorded; its QR code and the completion event are best effort and never
// fail the checkout.
func (s *AggregateService) Checkout(ctx context.Context, restaurantID int) (domain.CheckoutResult, error) {
	if restaurantID <= 0 {
		return domain.CheckoutResult{}, domain.ErrRestaurantNotFound
	}
	snapshot, order, err := s.store.Checkout(ctx, restaurantID)
	if err != nil {
		return domain.CheckoutResult{}, err
	}

	result := domain.CheckoutResult{Snapshot: snapshot}
	if order == nil {
		s.log.Debug("checkout on empty aggregate", "restaurant_id", restaurantID)
		return result, nil
	}
	result.CompletedOrderID = order.ID

	s.log.Info("group order completed",
		"restaurant_id", restaurantID,
		"order_id", order.ID,
		"total_price", order.TotalPrice,
		"items", len(order.Items))

	if s.qr != nil && s.orders != nil {
		if qr, err := s.qr.Generate(order.ID); err != nil {
			s.log.Warn("failed to generate receipt qr", "order_id", order.ID, "error", err)
		} else if err := s.orders.SaveQRCode(ctx, order.ID, qr); err != nil {
			s.log.Warn("failed to save receipt qr", "order_id", order.ID, "error", err)
		}
	}

	if s.publisher != nil {
		event := domain.OrderEvent{
			Type:         domain.EventOrderCompleted,
			OrderID:      order.ID,
			RestaurantID: order.RestaurantID,
			TotalPrice:   order.TotalPrice,
			Items:        order.Items,
			Timestamp:    time.Now().UTC(),
		}
		if err := s.publisher.PublishOrderCompleted(ctx, event); err != nil {
			s.log.Warn("failed to publish order event", "order_id", order.ID, "error", err)
		}
	}

	return result, nil
}

func (s *AggregateService) GetOrder(ctx context.Context, orderID int) (*domain.GroupOrder, error) {
	if orderID <= 0 {
		return nil, domain.ErrOrderNotFound
	}
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.qr != nil {
		order.QRCode = s.qr.Link(order.ID)
	}
	return order, nil
}

func (s *AggregateService) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	if orderID <= 0 {
		return nil, domain.ErrOrderNotFound
	}
	return s.orders.GetQRCode(ctx, orderID)
}

func validateUnitDelta(delta int) error {
	if delta != 1 && delta != -1 {
		return fmt.Errorf("%w: item delta must be +1 or -1, got %d", domain.ErrInvalidDelta, delta)
	}
	return nil
}
