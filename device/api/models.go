package api

// State is the authoritative aggregate snapshot of one restaurant.
type State struct {
	ID            int   `json:"id"`
	PendingPrice  int64 `json:"pendingPrice"`
	MinOrderPrice int64 `json:"minOrderPrice"`
}

// ThresholdReached reports whether the shared total meets the minimum order.
func (s State) ThresholdReached() bool {
	return s.MinOrderPrice > 0 && s.PendingPrice > 0 && s.PendingPrice >= s.MinOrderPrice
}

type Restaurant struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	MinOrderPrice int64   `json:"minOrderPrice"`
	PendingPrice  int64   `json:"pendingPrice"`
}

type Menu struct {
	ID            int    `json:"id"`
	RestaurantID  int    `json:"restaurantId"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	AmountOrdered int    `json:"amountOrdered"`
}

type CombinedResult struct {
	Menu       Menu  `json:"menu"`
	Restaurant State `json:"restaurant"`
}

type CheckoutResult struct {
	State
	CompletedOrderID int `json:"completedOrderId,omitempty"`
}
