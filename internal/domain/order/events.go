package order

import (
	"github.com/google/uuid"

	"github.com/quickshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced = "OrderPlaced"
)

// OrderPlacedEvent is published when a checkout completes and the order is
// appended to the store
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	SessionID     string    `json:"session_id"`
	ItemCount     int       `json:"item_count"`
	GrandTotal    string    `json:"grand_total"`
	PaymentMethod string    `json:"payment_method"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.Number,
		SessionID:       o.SessionID,
		ItemCount:       o.ItemCount(),
		GrandTotal:      o.GrandTotal.StringFixed(2),
		PaymentMethod:   string(o.PaymentMethod),
	}
}
