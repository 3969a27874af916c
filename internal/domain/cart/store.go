package cart

import "context"

// Store persists carts between requests, keyed by session ID. Every mutation
// writes through immediately; a missing session yields a fresh empty cart
// rather than an error.
type Store interface {
	// Get loads the cart for a session, returning a new empty cart when none
	// is stored.
	Get(ctx context.Context, sessionID string) (*Cart, error)

	// Put stores the cart under its session ID
	Put(ctx context.Context, c *Cart) error

	// Delete removes the cart for a session. Deleting an absent session is
	// not an error.
	Delete(ctx context.Context, sessionID string) error
}
