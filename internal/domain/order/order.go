package order

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/quickshop/backend/internal/domain/cart"
	"github.com/quickshop/backend/internal/domain/shared"
	"github.com/quickshop/backend/internal/domain/shared/valueobject"
)

// PaymentMethod identifies how the customer chose to pay. Card details are
// collected at checkout but never verified or stored.
type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentPaypal         PaymentMethod = "paypal"
	PaymentCashOnDelivery PaymentMethod = "cod"
)

// IsValid returns true for a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCreditCard, PaymentPaypal, PaymentCashOnDelivery:
		return true
	}
	return false
}

// Order domain errors
var (
	ErrNoItems              = shared.NewDomainError("ORDER_NO_ITEMS", "Order must contain at least one item")
	ErrMissingShippingField = shared.NewDomainError("MISSING_SHIPPING_FIELD", "All shipping fields are required")
	ErrInvalidPayment       = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be credit_card, paypal or cod")
)

// ShippingInfo is the delivery address captured at checkout. Every field is
// required.
type ShippingInfo struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Validate checks that no shipping field is blank
func (s ShippingInfo) Validate() error {
	fields := []string{s.FullName, s.Email, s.Address, s.City, s.State, s.PostalCode}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return ErrMissingShippingField
		}
	}
	return nil
}

// Order is an immutable record of a completed checkout. Items and totals are
// frozen copies of the cart at submission time; later catalog or pricing
// changes never reprice a placed order.
type Order struct {
	shared.BaseAggregateRoot
	Number        string          `gorm:"index;size:16;not null"`
	SessionID     string          `gorm:"index;size:64;not null"`
	Shipping      ShippingInfo    `gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod PaymentMethod   `gorm:"size:16;not null"`
	Items         []cart.LineItem `gorm:"serializer:json;not null"`
	Subtotal      valueobject.Money
	ShippingFee   valueobject.Money
	Tax           valueobject.Money
	GrandTotal    valueobject.Money
}

// TableName returns the database table name
func (Order) TableName() string {
	return "orders"
}

// NewOrder freezes a cart's items and totals into a new order. The cart
// itself is not modified; clearing it is the caller's concern.
func NewOrder(sessionID string, items []cart.LineItem, totals cart.Totals, shipping ShippingInfo, payment PaymentMethod) (*Order, error) {
	if sessionID == "" {
		return nil, cart.ErrEmptySession
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if err := shipping.Validate(); err != nil {
		return nil, err
	}
	if !payment.IsValid() {
		return nil, ErrInvalidPayment
	}

	frozen := make([]cart.LineItem, len(items))
	copy(frozen, items)

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            newOrderNumber(),
		SessionID:         sessionID,
		Shipping:          shipping,
		PaymentMethod:     payment,
		Items:             frozen,
		Subtotal:          totals.Subtotal,
		ShippingFee:       totals.Shipping,
		Tax:               totals.Tax,
		GrandTotal:        totals.GrandTotal,
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// ItemCount returns the number of distinct product lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// newOrderNumber produces the short human-facing order reference shown on
// the confirmation page.
func newOrderNumber() string {
	return fmt.Sprintf("QS-%06d", rand.Intn(1000000))
}
