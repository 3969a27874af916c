package cart

import (
	"github.com/shopspring/decimal"

	"github.com/quickshop/backend/internal/domain/shared/valueobject"
)

// Pricing holds the storefront pricing rules: a flat shipping fee waived
// above a free-shipping threshold, and a single tax rate applied to the
// subtotal. Values come from configuration; DefaultPricing pins the
// shipped defaults.
type Pricing struct {
	FreeShippingThreshold valueobject.Money
	ShippingFee           valueobject.Money
	TaxRate               decimal.Decimal
}

// DefaultPricing returns the default pricing rules: free shipping above
// 100.00, flat 5.99 fee otherwise, 10% tax.
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: valueobject.NewMoneyUSDFromFloat(100.00),
		ShippingFee:           valueobject.NewMoneyUSDFromFloat(5.99),
		TaxRate:               decimal.NewFromFloat(0.10),
	}
}

// Totals is the priced view of a cart. GrandTotal is always
// Subtotal + Shipping + Tax.
type Totals struct {
	Subtotal   valueobject.Money `json:"subtotal"`
	Shipping   valueobject.Money `json:"shipping"`
	Tax        valueobject.Money `json:"tax"`
	GrandTotal valueobject.Money `json:"grand_total"`
}

// Compute prices a subtotal under this policy. It is pure: the same
// subtotal always yields the same totals. Shipping is free only when the
// subtotal strictly exceeds the threshold; at exactly the threshold the
// fee applies. Tax is rounded to cents.
func (p Pricing) Compute(subtotal valueobject.Money) Totals {
	shipping := valueobject.ZeroUSD()
	if free, _ := subtotal.GreaterThan(p.FreeShippingThreshold); !free {
		shipping = p.ShippingFee
	}

	tax := subtotal.Multiply(p.TaxRate).Round(2)
	grand := subtotal.MustAdd(shipping).MustAdd(tax)

	return Totals{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: grand,
	}
}
