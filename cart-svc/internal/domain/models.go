package domain

import "time"

// Money is an amount in the smallest currency unit.
type Money = int64

type Restaurant struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	MinOrderPrice Money     `json:"minOrderPrice"`
	PendingPrice  Money     `json:"pendingPrice"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type MenuItem struct {
	ID            int    `json:"id"`
	RestaurantID  int    `json:"restaurantId"`
	Name          string `json:"name"`
	Price         Money  `json:"price"`
	AmountOrdered int    `json:"amountOrdered"`
}

// Snapshot is the externally visible state of one restaurant aggregate.
type Snapshot struct {
	ID            int   `json:"id"`
	PendingPrice  Money `json:"pendingPrice"`
	MinOrderPrice Money `json:"minOrderPrice"`
}

func (s Snapshot) ThresholdReached() bool {
	return s.MinOrderPrice > 0 && s.PendingPrice > 0 && s.PendingPrice >= s.MinOrderPrice
}

type CombinedResult struct {
	Menu       MenuItem `json:"menu"`
	Restaurant Snapshot `json:"restaurant"`
}

type CheckoutResult struct {
	Snapshot
	CompletedOrderID int `json:"completedOrderId,omitempty"`
}

// GroupOrder is the server-side record of one finalized group order.
type GroupOrder struct {
	ID             int         `json:"id"`
	RestaurantID   int         `json:"restaurantId"`
	RestaurantName string      `json:"restaurantName"`
	TotalPrice     Money       `json:"totalPrice"`
	Status         string      `json:"status"`
	QRCode         string      `json:"qrCode,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	Items          []OrderItem `json:"items"`
}

type OrderItem struct {
	MenuID   int    `json:"menuId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    Money  `json:"price"`
}

const (
	OrderStatusCompleted = "completed"

	EventOrderCompleted = "order_completed"
)

type OrderEvent struct {
	Type         string      `json:"type"`
	OrderID      int         `json:"orderId"`
	RestaurantID int         `json:"restaurantId"`
	TotalPrice   Money       `json:"totalPrice"`
	Items        []OrderItem `json:"items"`
	Timestamp    time.Time   `json:"timestamp"`
}

// SeedRestaurant describes catalog rows created at start-up.
type SeedRestaurant struct {
	Name          string
	Latitude      float64
	Longitude     float64
	MinOrderPrice Money
	Menus         []SeedMenu
}

type SeedMenu struct {
	Name  string
	Price Money
}
