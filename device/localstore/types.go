package localstore

import "time"

const StatusDelivered = "delivered"

// OrderDateLayout renders orderDate as "YYYY.MM.DD HH:mm".
const OrderDateLayout = "2006.01.02 15:04"

type OrderEntry struct {
	ID             string   `json:"id"`
	RestaurantName string   `json:"restaurantName"`
	Thumbnail      string   `json:"thumbnail,omitempty"`
	Items          []string `json:"items"`
	TotalPrice     int64    `json:"totalPrice"`
	OrderDate      string   `json:"orderDate"`
	Status         string   `json:"status"`
}

// Handoff carries a finalized but unconfirmed order to the confirmation
// step. At most one exists per device.
type Handoff struct {
	Identity       string     `json:"identityKey"`
	RestaurantID   int        `json:"restaurantId"`
	RestaurantName string     `json:"restaurantName"`
	MinOrderPrice  int64      `json:"minOrderPrice"`
	Order          OrderEntry `json:"orderEntry"`
	CreatedAt      time.Time  `json:"createdAt"`
}
