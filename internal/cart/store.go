package cart

import (
	"errors"

	"github.com/lamasat/storefront/internal/domain"
)

// Common errors returned by the store
var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Store defines the interface for cart state operations. Carts are keyed by
// browser session and live only for the session's lifetime.
type Store interface {
	// Get returns the cart for a session, or an empty cart if none exists yet.
	Get(sessionID string) domain.Cart

	// AddItem appends a line, or increments the quantity when the product is
	// already in the cart. A quantity below 1 is rejected.
	AddItem(sessionID string, item domain.CartItem) (domain.Cart, error)

	// UpdateQuantity sets a line's quantity. Quantities below 1 are rejected;
	// removal is an explicit RemoveItem, never a zero quantity.
	UpdateQuantity(sessionID string, productID int64, quantity int) (domain.Cart, error)

	// RemoveItem deletes the line for a product.
	RemoveItem(sessionID string, productID int64) (domain.Cart, error)

	// Clear empties the cart. Issued after a successful order submission.
	Clear(sessionID string) error

	// ToggleVisibility flips the display flag used by the surrounding UI.
	ToggleVisibility(sessionID string) domain.Cart
}
