package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusOnHold     OrderStatus = "on-hold"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusFailed     OrderStatus = "failed"
)

// CanCancel reports whether an order in this status may still be cancelled.
func (s OrderStatus) CanCancel() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusOnHold:
		return true
	}
	return false
}

// OrderLineItem is an immutable order line snapshot.
type OrderLineItem struct {
	ProductID   string  `json:"product_id"`
	VariationID string  `json:"variation_id,omitempty"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// Order is a confirmed order. Line items are immutable after creation.
type Order struct {
	ID              string          `json:"id"`
	Number          string          `json:"number"`
	Status          OrderStatus     `json:"status"`
	Currency        string          `json:"currency"`
	Totals          OrderTotals     `json:"totals"`
	LineItems       []OrderLineItem `json:"line_items"`
	BillingAddress  Address         `json:"billing_address"`
	ShippingAddress Address         `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	ShippingMethod  string          `json:"shipping_method,omitempty"`
	CustomerNote    string          `json:"customer_note,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RequiresPayment reports whether the order carries a payable amount.
func (o Order) RequiresPayment() bool {
	return o.Totals.Total > TotalsTolerance/2
}

// CreateOrderRequest is the payload submitted to the backend.
type CreateOrderRequest struct {
	Number          string          `json:"number"`
	Currency        string          `json:"currency"`
	Totals          OrderTotals     `json:"totals"`
	LineItems       []OrderLineItem `json:"line_items"`
	BillingAddress  Address         `json:"billing_address"`
	ShippingAddress Address         `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	ShippingMethod  string          `json:"shipping_method,omitempty"`
	CustomerNote    string          `json:"customer_note,omitempty"`
	SessionID       string          `json:"session_id"`
	IsGuest         bool            `json:"is_guest"`
}

// StockAdjustment names one product and quantity for an inventory operation.
type StockAdjustment struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
