package service

import (
	"context"

	"groupcart/stats-svc/internal/domain"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 50
)

type StatsService struct {
	store StatsStore
}

func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{store: store}
}

func (s *StatsService) RestaurantStats(ctx context.Context, restaurantID int) (domain.RestaurantStats, error) {
	return s.store.RestaurantStats(ctx, restaurantID)
}

func (s *StatsService) TopMenus(ctx context.Context, restaurantID, limit int) ([]domain.MenuScore, error) {
	return s.store.TopMenus(ctx, restaurantID, clampLimit(limit))
}

func (s *StatsService) TopMenusToday(ctx context.Context, restaurantID, limit int) ([]domain.MenuScore, error) {
	return s.store.TopMenusToday(ctx, restaurantID, clampLimit(limit))
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultTopLimit
	case limit > maxTopLimit:
		return maxTopLimit
	default:
		return limit
	}
}
