package models

import "math"

// TotalsTolerance is the maximum drift allowed between the reported total and
// the total recomputed from its components.
const TotalsTolerance = 0.01

// CartItem is a single cart line.
type CartItem struct {
	ProductID        string  `json:"product_id"`
	VariationID      string  `json:"variation_id,omitempty"`
	Name             string  `json:"name"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price"`
	Total            float64 `json:"total"`
	RequiresShipping bool    `json:"requires_shipping"`
}

// Cart is the read-only cart snapshot a checkout operates on.
type Cart struct {
	ID       string     `json:"id"`
	Items    []CartItem `json:"items"`
	Currency string     `json:"currency"`
	Totals   OrderTotals `json:"totals"`
}

// IsEmpty reports whether the cart has no purchasable lines.
func (c Cart) IsEmpty() bool {
	for _, item := range c.Items {
		if item.Quantity > 0 {
			return false
		}
	}
	return true
}

// RequiresShipping reports whether any line needs physical delivery.
func (c Cart) RequiresShipping() bool {
	for _, item := range c.Items {
		if item.RequiresShipping {
			return true
		}
	}
	return false
}

// ItemCount returns the total unit count across all lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// OrderTotals is the monetary breakdown of a checkout or order.
type OrderTotals struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	Shipping    float64 `json:"shipping"`
	ShippingTax float64 `json:"shipping_tax"`
	Fees        float64 `json:"fees"`
	FeesTax     float64 `json:"fees_tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// ComputedTotal recomputes the total from its components.
func (t OrderTotals) ComputedTotal() float64 {
	return t.Subtotal + t.Tax + t.Shipping + t.ShippingTax + t.Fees + t.FeesTax - t.Discount
}

// IsConsistent reports whether the reported total matches the computed one
// within TotalsTolerance.
func (t OrderTotals) IsConsistent() bool {
	return math.Abs(t.Total-t.ComputedTotal()) <= TotalsTolerance
}
