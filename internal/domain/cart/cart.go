package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickshop/backend/internal/domain/shared"
	"github.com/quickshop/backend/internal/domain/shared/valueobject"
)

// Cart domain errors
var (
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	ErrInvalidPrice    = shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	ErrEmptySession    = shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
)

// ProductSnapshot is the caller-supplied view of a product at the moment it
// enters the cart. The cart trusts it; later catalog changes do not reprice
// lines already in the cart.
type ProductSnapshot struct {
	ProductID uuid.UUID         `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice valueobject.Money `json:"unit_price"`
	ImageURL  string            `json:"image_url"`
	Category  string            `json:"category"`
}

// LineItem is one product line in a cart. Quantity is always >= 1.
type LineItem struct {
	ProductID uuid.UUID         `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice valueobject.Money `json:"unit_price"`
	ImageURL  string            `json:"image_url"`
	Category  string            `json:"category"`
	Quantity  int               `json:"quantity"`
}

// LineTotal returns unit price times quantity
func (li LineItem) LineTotal() valueobject.Money {
	return li.UnitPrice.MultiplyByInt(int64(li.Quantity))
}

// Cart holds a session's pending line items. It lives in the session store,
// not the database, so it is keyed by session ID rather than a surrogate
// entity ID. Items keep insertion order.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart for the given session
func NewCart(sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}
	return &Cart{
		SessionID: sessionID,
		Items:     make([]LineItem, 0),
		UpdatedAt: time.Now(),
	}, nil
}

// AddItem appends a product to the cart, merging quantities when the product
// is already present. A quantity below 1 or a negative price is rejected and
// the cart is left unchanged.
func (c *Cart) AddItem(p ProductSnapshot, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if p.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	for i := range c.Items {
		if c.Items[i].ProductID == p.ProductID {
			c.Items[i].Quantity += quantity
			c.touch()
			return nil
		}
	}

	c.Items = append(c.Items, LineItem{
		ProductID: p.ProductID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		ImageURL:  p.ImageURL,
		Category:  p.Category,
		Quantity:  quantity,
	})
	c.touch()
	return nil
}

// RemoveItem deletes the line for the given product. Removing a product that
// is not in the cart is a silent no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return
		}
	}
}

// UpdateQuantity replaces the quantity for the given product. A quantity
// below 1 is rejected so a line can never persist with qty <= 0; an unknown
// product ID is a silent no-op.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.touch()
			return nil
		}
	}
	return nil
}

// Clear removes all items
func (c *Cart) Clear() {
	c.Items = make([]LineItem, 0)
	c.touch()
}

// IsEmpty returns true when the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the number of distinct product lines
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// TotalQuantity returns the sum of quantities across all lines
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal returns the sum of line totals
func (c *Cart) Subtotal() valueobject.Money {
	subtotal := valueobject.ZeroUSD()
	for _, item := range c.Items {
		subtotal = subtotal.MustAdd(item.LineTotal())
	}
	return subtotal
}

// Totals prices the cart under the given policy
func (c *Cart) Totals(policy Pricing) Totals {
	return policy.Compute(c.Subtotal())
}

// Snapshot returns a deep copy of the items, used to freeze cart contents
// into an order and to restore the cart if a checkout fails after clearing.
func (c *Cart) Snapshot() []LineItem {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return items
}

// Restore replaces the cart contents with a previously taken snapshot
func (c *Cart) Restore(items []LineItem) {
	c.Items = make([]LineItem, len(items))
	copy(c.Items, items)
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
