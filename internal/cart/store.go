package cart

import "sync"

// Store keeps one cart per signed-in buyer. It replaces the ambient global
// cart of the mobile client with an injected, session-scoped registry.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Get returns the buyer's cart, creating an empty one on first use.
func (s *Store) Get(buyerID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[buyerID]
	if !ok {
		c = New(buyerID)
		s.carts[buyerID] = c
	}
	return c
}

// Drop discards the buyer's cart entirely. Used on sign-out.
func (s *Store) Drop(buyerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, buyerID)
}
