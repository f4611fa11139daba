package client

import (
	"context"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// BackendClient is the capability contract the checkout engine consumes.
// Retry and backoff policy belongs to the transport behind this interface;
// the engine classifies failures but never retries them itself.
type BackendClient interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)

	GetShippingRates(ctx context.Context, req models.RateRequest) (*models.RateSet, error)

	ValidatePaymentMethod(ctx context.Context, methodID string, amount float64, currency string) (*models.ValidationResult, error)
	ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	InitializePayment(ctx context.Context, req models.PaymentInitRequest) (*models.PaymentInit, error)

	ReserveStock(ctx context.Context, orderKey string, items []models.StockAdjustment) error
	ReleaseStock(ctx context.Context, orderKey string, items []models.StockAdjustment) error
	CommitStock(ctx context.Context, orderKey string, items []models.StockAdjustment) error
	RestoreStock(ctx context.Context, orderKey string, items []models.StockAdjustment) error
}
