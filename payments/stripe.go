package payments

import (
	"context"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"go.uber.org/zap"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// Initializer starts a payment flow for an order. The backend client
// satisfies this for gateway-agnostic initialization; StripeInitializer goes
// straight to Stripe instead.
type Initializer interface {
	InitializePayment(ctx context.Context, req models.PaymentInitRequest) (*models.PaymentInit, error)
}

// StripeInitializer creates Stripe payment intents directly.
type StripeInitializer struct {
	logger *zap.Logger
}

// NewStripeInitializer configures the Stripe SDK with the given secret key.
func NewStripeInitializer(secretKey string, logger *zap.Logger) *StripeInitializer {
	stripe.Key = secretKey
	return &StripeInitializer{logger: logger}
}

func (s *StripeInitializer) InitializePayment(ctx context.Context, req models.PaymentInitRequest) (*models.PaymentInit, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(req.Amount * 100))),
		Currency: stripe.String(strings.ToLower(req.Currency)),
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	s.logger.Info("stripe payment intent created",
		zap.String("order_id", req.OrderID),
		zap.String("intent_id", pi.ID),
	)

	return &models.PaymentInit{
		TransactionID: pi.ID,
		ClientSecret:  pi.ClientSecret,
		Status:        string(pi.Status),
	}, nil
}

var _ Initializer = (*StripeInitializer)(nil)
