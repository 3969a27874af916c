package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickshop/backend/internal/domain/order"
)

// CheckoutRequest represents a checkout submission. Card fields are collected
// for the form round-trip but never verified or stored.
type CheckoutRequest struct {
	FullName      string `json:"full_name" binding:"required,max=100"`
	Email         string `json:"email" binding:"required,email,max=200"`
	Address       string `json:"address" binding:"required,max=200"`
	City          string `json:"city" binding:"required,max=100"`
	State         string `json:"state" binding:"required,max=100"`
	PostalCode    string `json:"postal_code" binding:"required,max=20"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=credit_card paypal cod"`
	CardNumber    string `json:"card_number" binding:"omitempty,max=24"`
	CardExpiry    string `json:"card_expiry" binding:"omitempty,max=8"`
	CardCVC       string `json:"card_cvc" binding:"omitempty,max=4"`
}

// OrderItemResponse represents one frozen line of a placed order
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ShippingResponse represents the delivery address on a placed order
type ShippingResponse struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// OrderResponse represents a placed order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Number        string              `json:"number"`
	Shipping      ShippingResponse    `json:"shipping"`
	PaymentMethod string              `json:"payment_method"`
	Items         []OrderItemResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	ShippingFee   decimal.Decimal     `json:"shipping_fee"`
	Tax           decimal.Decimal     `json:"tax"`
	GrandTotal    decimal.Decimal     `json:"grand_total"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ToOrderResponse converts a domain order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.Amount(),
			ImageURL:  item.ImageURL,
			Category:  item.Category,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().Amount(),
		})
	}

	return OrderResponse{
		ID:     o.ID,
		Number: o.Number,
		Shipping: ShippingResponse{
			FullName:   o.Shipping.FullName,
			Email:      o.Shipping.Email,
			Address:    o.Shipping.Address,
			City:       o.Shipping.City,
			State:      o.Shipping.State,
			PostalCode: o.Shipping.PostalCode,
		},
		PaymentMethod: string(o.PaymentMethod),
		Items:         items,
		Subtotal:      o.Subtotal.Amount(),
		ShippingFee:   o.ShippingFee.Amount(),
		Tax:           o.Tax.Amount(),
		GrandTotal:    o.GrandTotal.Amount(),
		CreatedAt:     o.CreatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses
}
