package session

import (
	"context"
	"sync"
	"time"

	"github.com/quickshop/backend/internal/domain/cart"
)

type memoryEntry struct {
	cart      *cart.Cart
	expiresAt time.Time
}

// MemoryCartStore implements cart.Store using an in-memory map. This is
// suitable for single-instance deployments and testing.
type MemoryCartStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryCartStore creates a new in-memory cart store. A zero ttl means
// carts never expire.
func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	return &MemoryCartStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get loads a session's cart. A session with no stored cart gets a fresh
// empty one.
func (s *MemoryCartStore) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	if sessionID == "" {
		return nil, cart.ErrEmptySession
	}

	s.mu.RLock()
	e, exists := s.entries[sessionID]
	s.mu.RUnlock()

	if !exists || (!e.expiresAt.IsZero() && time.Now().After(e.expiresAt)) {
		return cart.NewCart(sessionID)
	}

	// Hand out a copy so callers cannot mutate the stored cart in place
	snapshot := e.cart.Snapshot()
	c, err := cart.NewCart(sessionID)
	if err != nil {
		return nil, err
	}
	c.Restore(snapshot)
	return c, nil
}

// Put saves a cart and refreshes its TTL
func (s *MemoryCartStore) Put(ctx context.Context, c *cart.Cart) error {
	if c == nil || c.SessionID == "" {
		return cart.ErrEmptySession
	}

	stored, err := cart.NewCart(c.SessionID)
	if err != nil {
		return err
	}
	stored.Restore(c.Snapshot())

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[c.SessionID] = memoryEntry{cart: stored, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

// Delete removes a session's cart. Deleting an absent cart is not an error.
func (s *MemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return cart.ErrEmptySession
	}

	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Size returns the number of stored carts (for testing/monitoring)
func (s *MemoryCartStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure MemoryCartStore implements cart.Store
var _ cart.Store = (*MemoryCartStore)(nil)
