package checkout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quickshop/backend/internal/domain/order"
	"github.com/quickshop/backend/internal/domain/shared"
)

// OrderPlacedHandler reacts to OrderPlacedEvent. It stands in for the
// fulfillment side of the shop: confirmation email, inventory export and
// similar follow-ups hang off this handler.
type OrderPlacedHandler struct {
	logger *zap.Logger
}

// NewOrderPlacedHandler creates a new handler for order placed events.
func NewOrderPlacedHandler(logger *zap.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle processes an OrderPlacedEvent.
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", order.EventTypeOrderPlaced),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderPlaced, event.EventType())
	}

	h.logger.Info("Order confirmation queued",
		zap.String("order_id", placed.OrderID.String()),
		zap.String("order_number", placed.OrderNumber),
		zap.String("session_id", placed.SessionID),
		zap.Int("item_count", placed.ItemCount),
		zap.String("grand_total", placed.GrandTotal),
		zap.String("payment_method", placed.PaymentMethod),
	)
	return nil
}

var _ shared.EventHandler = (*OrderPlacedHandler)(nil)
