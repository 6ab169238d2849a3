package domain

import "time"

// CustomerInfo is collected fresh per checkout and never persisted beyond the
// single outbound notification.
type CustomerInfo struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city"`
	DetailedAddress string `json:"detailed_address"`
	Notes           string `json:"notes,omitempty"`
	DiscountCode    string `json:"discount_code,omitempty"`
}

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusSent    OrderStatus = "sent"
	OrderStatusFailed  OrderStatus = "failed"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusSent || s == OrderStatusFailed
}

func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem is the snapshot of a cart line carried in the outbound notification.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order exists only for the duration of one notification attempt. It is never
// stored locally.
type Order struct {
	ID           string       `json:"id"`
	Items        []OrderItem  `json:"items"`
	Customer     CustomerInfo `json:"customer_info"`
	Subtotal     float64      `json:"subtotal"`
	ShippingCost float64      `json:"shipping_cost"`
	Total        float64      `json:"total"`
	Currency     string       `json:"currency"`
	Status       OrderStatus  `json:"status"`
	CreatedAt    time.Time    `json:"timestamp"`
}
