package storage

import (
	"fmt"
	"math"

	"groupcart/cart-svc/internal/domain"
)

func floorMoney(v domain.Money) domain.Money {
	if v < 0 {
		return 0
	}
	return v
}

// addMoney applies a price delta to a non-negative total, flooring at zero.
// A sum that does not fit in Money is rejected.
func addMoney(current, delta domain.Money) (domain.Money, error) {
	if delta > 0 && current > math.MaxInt64-delta {
		return 0, fmt.Errorf("%w: pending price would overflow", domain.ErrInvalidDelta)
	}
	return floorMoney(current + delta), nil
}

func floorCount(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// effectiveDelta clamps a requested count change so the count never goes
// below zero. A decrement against zero becomes a no-op.
func effectiveDelta(current, requested int) int {
	if current+requested < 0 {
		return -current
	}
	return requested
}
