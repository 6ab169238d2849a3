package cart

import (
	"sync"
	"time"

	"github.com/lamasat/storefront/internal/domain"
)

// MemoryStore implements Store with in-memory storage. All operations are
// synchronous and deterministic given the current state and the payload.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart // sessionID -> cart
}

// NewMemoryStore creates a new in-memory cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*domain.Cart),
	}
}

func (s *MemoryStore) Get(sessionID string) domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, exists := s.carts[sessionID]
	if !exists {
		return domain.Cart{SessionID: sessionID}
	}
	return copyCart(cart)
}

func (s *MemoryStore) AddItem(sessionID string, item domain.CartItem) (domain.Cart, error) {
	if item.Quantity < 1 {
		return domain.Cart{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getOrCreate(sessionID)
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			cart.UpdatedAt = time.Now()
			return copyCart(cart), nil
		}
	}

	item.AddedAt = time.Now()
	cart.Items = append(cart.Items, item)
	cart.UpdatedAt = time.Now()
	return copyCart(cart), nil
}

func (s *MemoryStore) UpdateQuantity(sessionID string, productID int64, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return domain.Cart{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, exists := s.carts[sessionID]
	if !exists {
		return domain.Cart{}, ErrCartNotFound
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			cart.UpdatedAt = time.Now()
			return copyCart(cart), nil
		}
	}
	return domain.Cart{}, ErrItemNotFound
}

func (s *MemoryStore) RemoveItem(sessionID string, productID int64) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, exists := s.carts[sessionID]
	if !exists {
		return domain.Cart{}, ErrCartNotFound
	}

	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			cart.UpdatedAt = time.Now()
			return copyCart(cart), nil
		}
	}
	return domain.Cart{}, ErrItemNotFound
}

func (s *MemoryStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, exists := s.carts[sessionID]
	if !exists {
		return nil // clearing an absent cart is a no-op
	}

	cart.Items = nil
	cart.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) ToggleVisibility(sessionID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getOrCreate(sessionID)
	cart.Open = !cart.Open
	cart.UpdatedAt = time.Now()
	return copyCart(cart)
}

// getOrCreate must be called with the write lock held.
func (s *MemoryStore) getOrCreate(sessionID string) *domain.Cart {
	cart, exists := s.carts[sessionID]
	if !exists {
		now := time.Now()
		cart = &domain.Cart{
			SessionID: sessionID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.carts[sessionID] = cart
	}
	return cart
}

// copyCart returns a snapshot so callers never share the store's slice.
func copyCart(cart *domain.Cart) domain.Cart {
	snapshot := *cart
	snapshot.Items = make([]domain.CartItem, len(cart.Items))
	copy(snapshot.Items, cart.Items)
	return snapshot
}
