package service

import (
	"context"

	"groupcart/stats-svc/internal/domain"
	"groupcart/stats-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StatsStore interface {
	MarkProcessed(ctx context.Context, orderID int) (bool, error)
	ClearProcessed(ctx context.Context, orderID int) error
	RecordOrder(ctx context.Context, event domain.OrderEvent) error
	RestaurantStats(ctx context.Context, restaurantID int) (domain.RestaurantStats, error)
	TopMenus(ctx context.Context, restaurantID, limit int) ([]domain.MenuScore, error)
	TopMenusToday(ctx context.Context, restaurantID, limit int) ([]domain.MenuScore, error)
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessEvent(ctx context.Context, event domain.OrderEvent) error
}

type StatsServiceInterface interface {
	RestaurantStats(ctx context.Context, restaurantID int) (domain.RestaurantStats, error)
	TopMenus(ctx context.Context, restaurantID, limit int) ([]domain.MenuScore, error)
	TopMenusToday(ctx context.Context, restaurantID, limit int) ([]domain.MenuScore, error)
}

var (
	_ StatsStore            = (*storage.StatsStore)(nil)
	_ ConsumerInterface     = (*Consumer)(nil)
	_ StatsServiceInterface = (*StatsService)(nil)
)
