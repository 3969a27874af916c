package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quickshop/backend/internal/domain/cart"
	"github.com/quickshop/backend/internal/domain/catalog"
	"github.com/quickshop/backend/internal/domain/shared/valueobject"
	"github.com/quickshop/backend/internal/infrastructure/config"
)

// CartService manages session carts. Every mutation loads the cart from the
// store, applies the change, and writes the whole cart back, so the store
// always holds a consistent snapshot.
type CartService struct {
	store       cart.Store
	productRepo catalog.ProductRepository
	pricing     cart.Pricing
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store cart.Store, productRepo catalog.ProductRepository, pricing cart.Pricing, logger *zap.Logger) *CartService {
	return &CartService{
		store:       store,
		productRepo: productRepo,
		pricing:     pricing,
		logger:      logger,
	}
}

// PricingFromConfig builds the pricing policy from configuration strings
func PricingFromConfig(cfg config.PricingConfig) (cart.Pricing, error) {
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return cart.Pricing{}, fmt.Errorf("invalid free shipping threshold %q: %w", cfg.FreeShippingThreshold, err)
	}
	fee, err := decimal.NewFromString(cfg.ShippingFee)
	if err != nil {
		return cart.Pricing{}, fmt.Errorf("invalid shipping fee %q: %w", cfg.ShippingFee, err)
	}
	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return cart.Pricing{}, fmt.Errorf("invalid tax rate %q: %w", cfg.TaxRate, err)
	}

	return cart.Pricing{
		FreeShippingThreshold: valueobject.NewMoneyUSD(threshold),
		ShippingFee:           valueobject.NewMoneyUSD(fee),
		TaxRate:               taxRate,
	}, nil
}

// Get returns the cart for a session, empty when none is stored
func (s *CartService) Get(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	response := ToCartResponse(c, s.pricing)
	return &response, nil
}

// AddItem adds a product to the cart, freezing the product's current name,
// price and image into the line. Adding a product already in the cart merges
// quantities.
func (s *CartService) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	name, price, imageURL, category := product.Snapshot()
	snapshot := cart.ProductSnapshot{
		ProductID: product.ID,
		Name:      name,
		UnitPrice: price,
		ImageURL:  imageURL,
		Category:  category,
	}

	if err := c.AddItem(snapshot, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Debug("Added item to cart",
		zap.String("session_id", sessionID),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", req.Quantity))

	response := ToCartResponse(c, s.pricing)
	return &response, nil
}

// UpdateQuantity replaces the quantity on an existing line. An unknown
// product ID leaves the cart unchanged.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, req UpdateQuantityRequest) (*CartResponse, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c, s.pricing)
	return &response, nil
}

// RemoveItem removes a product line from the cart. Removing an absent
// product is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)

	if err := s.store.Put(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c, s.pricing)
	return &response, nil
}

// Clear empties the cart for a session
func (s *CartService) Clear(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.Clear()

	if err := s.store.Put(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c, s.pricing)
	return &response, nil
}
