package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickshop/backend/internal/domain/cart"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantityRequest represents a request to change a line's quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// LineItemResponse represents one cart line in API responses
type LineItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// TotalsResponse represents the priced view of a cart
type TotalsResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shipping"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// CartResponse represents a cart with its computed totals
type CartResponse struct {
	SessionID     string             `json:"session_id"`
	Items         []LineItemResponse `json:"items"`
	ItemCount     int                `json:"item_count"`
	TotalQuantity int                `json:"total_quantity"`
	Totals        TotalsResponse     `json:"totals"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToTotalsResponse converts domain totals to TotalsResponse
func ToTotalsResponse(t cart.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:   t.Subtotal.Amount(),
		Shipping:   t.Shipping.Amount(),
		Tax:        t.Tax.Amount(),
		GrandTotal: t.GrandTotal.Amount(),
	}
}

// ToCartResponse converts a domain cart priced under the given policy
func ToCartResponse(c *cart.Cart, policy cart.Pricing) CartResponse {
	items := make([]LineItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, LineItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.Amount(),
			ImageURL:  item.ImageURL,
			Category:  item.Category,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().Amount(),
		})
	}

	return CartResponse{
		SessionID:     c.SessionID,
		Items:         items,
		ItemCount:     c.ItemCount(),
		TotalQuantity: c.TotalQuantity(),
		Totals:        ToTotalsResponse(c.Totals(policy)),
		UpdatedAt:     c.UpdatedAt,
	}
}
