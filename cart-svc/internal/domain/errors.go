package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrRestaurantNotFound = fmt.Errorf("restaurant %w", ErrNotFound)
	ErrMenuNotFound       = fmt.Errorf("menu item %w", ErrNotFound)
	ErrOrderNotFound      = fmt.Errorf("order %w", ErrNotFound)

	ErrInvalidDelta = errors.New("invalid delta")
)
