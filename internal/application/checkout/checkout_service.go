package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quickshop/backend/internal/domain/cart"
	"github.com/quickshop/backend/internal/domain/order"
	"github.com/quickshop/backend/internal/domain/shared"
)

// State tracks a checkout attempt through its lifecycle. An attempt moves
// Idle -> Validating -> Submitting and ends in Succeeded or Failed; an empty
// cart is rejected before validation starts.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// CheckoutService runs the checkout workflow: it freezes the session cart
// into an immutable order, appends it to the order store, and empties the
// cart. A failure at any step leaves the cart untouched for retry.
type CheckoutService struct {
	orderRepo order.Repository
	cartStore cart.Store
	pricing   cart.Pricing
	publisher shared.EventPublisher
	logger    *zap.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewCheckoutService creates a new checkout service. The publisher may be nil
// when no event bus is wired.
func NewCheckoutService(orderRepo order.Repository, cartStore cart.Store, pricing cart.Pricing, publisher shared.EventPublisher, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		orderRepo: orderRepo,
		cartStore: cartStore,
		pricing:   pricing,
		publisher: publisher,
		logger:    logger,
		inflight:  make(map[string]struct{}),
	}
}

// begin latches the session for a checkout attempt. It returns false when an
// attempt is already outstanding.
func (s *CheckoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *CheckoutService) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}

// Submit runs a checkout for the session's cart. Exactly one order is
// appended per successful submit; a second submit while one is outstanding
// is rejected without creating an order.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, req CheckoutRequest) (*OrderResponse, error) {
	if sessionID == "" {
		return nil, cart.ErrEmptySession
	}
	if !s.begin(sessionID) {
		return nil, shared.ErrCheckoutInFlight
	}
	defer s.end(sessionID)

	c, err := s.cartStore.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	s.transition(sessionID, StateIdle, StateValidating)

	shipping := order.ShippingInfo{
		FullName:   req.FullName,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
	}

	o, err := order.NewOrder(sessionID, c.Snapshot(), c.Totals(s.pricing), shipping, order.PaymentMethod(req.PaymentMethod))
	if err != nil {
		s.transition(sessionID, StateValidating, StateFailed)
		return nil, err
	}

	s.transition(sessionID, StateValidating, StateSubmitting)

	// The cart delete runs inside the append transaction: a failed delete
	// rolls the order back, so either both sides land or neither does.
	err = s.orderRepo.Append(ctx, o, func(ctx context.Context) error {
		return s.cartStore.Delete(ctx, sessionID)
	})
	if err != nil {
		// The delete may have landed before the commit failed; put the
		// cart back so the session can retry with its items intact.
		if putErr := s.cartStore.Put(ctx, c); putErr != nil {
			s.logger.Error("Failed to restore cart after aborted checkout",
				zap.String("session_id", sessionID),
				zap.Error(putErr))
		}
		s.transition(sessionID, StateSubmitting, StateFailed)
		s.logger.Error("Failed to append order",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.transition(sessionID, StateSubmitting, StateSucceeded)

	s.logger.Info("Order placed",
		zap.String("session_id", sessionID),
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.Number),
		zap.Int("item_count", o.ItemCount()),
		zap.String("grand_total", o.GrandTotal.StringFixed(2)))

	response := ToOrderResponse(o)
	return &response, nil
}

// GetOrder returns one of the session's orders. Another session's order is
// reported as not found rather than forbidden.
func (s *CheckoutService) GetOrder(ctx context.Context, sessionID string, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.SessionID != sessionID {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ListOrders returns the session's order history, newest first
func (s *CheckoutService) ListOrders(ctx context.Context, sessionID string) ([]OrderResponse, int64, error) {
	orders, err := s.orderRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountBySession(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

func (s *CheckoutService) transition(sessionID string, from, to State) {
	s.logger.Debug("Checkout state transition",
		zap.String("session_id", sessionID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
}

func (s *CheckoutService) publishEvents(ctx context.Context, o *order.Order) {
	if s.publisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		// The order is already placed; event delivery is best effort.
		s.logger.Warn("Failed to publish order events",
			zap.String("order_number", o.Number),
			zap.Error(err))
	}
	o.ClearDomainEvents()
}
