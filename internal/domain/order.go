package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// KnownStatus reports whether s is one of the defined order statuses.
func KnownStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is a placed purchase. Items, total and shipping address are a frozen
// snapshot taken at creation; only Status changes afterwards.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Items           []CartItem      `json:"items"`
	TotalCents      int64           `json:"totalCents"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentIntentID string          `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}
