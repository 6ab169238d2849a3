package favorites

import (
	"sort"
	"sync"
)

// Store holds per-session favorite product ids. Toggling is idempotent in
// pairs: toggling twice restores the original membership.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]map[int64]struct{} // sessionID -> product id set
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]map[int64]struct{}),
	}
}

// Toggle flips membership of a product id and reports whether the product is
// a favorite after the call.
func (s *Store) Toggle(sessionID string, productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, exists := s.sessions[sessionID]
	if !exists {
		set = make(map[int64]struct{})
		s.sessions[sessionID] = set
	}

	if _, favored := set[productID]; favored {
		delete(set, productID)
		return false
	}
	set[productID] = struct{}{}
	return true
}

// Contains reports whether a product is favored in a session.
func (s *Store) Contains(sessionID string, productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, favored := s.sessions[sessionID][productID]
	return favored
}

// Count returns the cardinality of a session's favorites set.
func (s *Store) Count(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions[sessionID])
}

// List returns the favored product ids in ascending order.
func (s *Store) List(sessionID string) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.sessions[sessionID]
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
