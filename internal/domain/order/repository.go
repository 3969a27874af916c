package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the append-only store for placed orders. Orders are never
// updated or deleted once appended.
type Repository interface {
	// Append persists a new order. When beforeCommit is non-nil it runs
	// after the insert is staged and before it becomes visible; an error
	// from the hook rolls the insert back so the order never lands.
	Append(ctx context.Context, o *Order, beforeCommit func(context.Context) error) error

	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListBySession returns a session's orders, newest first
	ListBySession(ctx context.Context, sessionID string) ([]Order, error)

	// CountBySession counts a session's orders
	CountBySession(ctx context.Context, sessionID string) (int64, error)
}
