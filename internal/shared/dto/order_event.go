package dto

import "time"

// OrderEvent is the payload of order events published by order-service.
type OrderEvent struct {
	OrderID     int64     `json:"order_id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"`
	Fee         float64   `json:"fee"`
	OrderedAt   time.Time `json:"ordered_at"`
}
