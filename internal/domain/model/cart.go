package model

import "github.com/manojneupaneweb/GoGain-sub000/internal/domain"

// CartLineItem is one product line in a cart, priced in whole rupees.
type CartLineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

func (li CartLineItem) Validate() error {
	if li.ProductID == "" || li.Quantity <= 0 || li.UnitPrice < 0 {
		return domain.ErrInvalidArgument
	}
	return nil
}

// CartTotals holds the derived money values for a cart. They are always
// recomputed from the line items, never stored.
type CartTotals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// ShippingPolicy is the step function applied to a cart subtotal:
// free at or above FreeAbove, a flat Fee below it.
type ShippingPolicy struct {
	FreeAbove int64
	Fee       int64
}

// DefaultShippingPolicy matches the storefront contract: orders of 100
// rupees or more ship free, smaller orders pay a flat 10.
var DefaultShippingPolicy = ShippingPolicy{FreeAbove: 100, Fee: 10}

// Subtotal sums quantity times unit price over all line items.
func Subtotal(items []CartLineItem) int64 {
	var sum int64
	for _, li := range items {
		sum += int64(li.Quantity) * li.UnitPrice
	}
	return sum
}

// Totals derives subtotal, shipping and total for the given items.
func (p ShippingPolicy) Totals(items []CartLineItem) CartTotals {
	sub := Subtotal(items)
	var ship int64
	if sub > 0 && sub < p.FreeAbove {
		ship = p.Fee
	}
	return CartTotals{Subtotal: sub, Shipping: ship, Total: sub + ship}
}
