package domain

import "time"

// CartItem is a cart line. Price is the unit price copied from the catalog at
// add time, not live-linked to it. Quantity is always >= 1; removing a line
// deletes it instead of zeroing the quantity.
type CartItem struct {
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	Open      bool       `json:"open"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Subtotal sums price*quantity over all lines, in the canonical currency.
func (c Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}
