package domain

import "time"

const EventOrderCompleted = "order_completed"

// OrderEvent is the message cart-svc publishes when a group order completes.
type OrderEvent struct {
	Type         string      `json:"type"`
	OrderID      int         `json:"orderId"`
	RestaurantID int         `json:"restaurantId"`
	TotalPrice   int64       `json:"totalPrice"`
	Items        []OrderItem `json:"items"`
	Timestamp    time.Time   `json:"timestamp"`
}

type OrderItem struct {
	MenuID   int    `json:"menuId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type RestaurantStats struct {
	RestaurantID  int        `json:"restaurantId"`
	Orders        int64      `json:"orders"`
	Revenue       int64      `json:"revenue"`
	LastCompleted *time.Time `json:"lastCompleted,omitempty"`
}

type MenuScore struct {
	MenuID   int    `json:"menuId"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}
