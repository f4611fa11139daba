package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/madebyaris/woo-headless-sub002/client"
	apperrors "github.com/madebyaris/woo-headless-sub002/errors"
	"github.com/madebyaris/woo-headless-sub002/models"
	"github.com/madebyaris/woo-headless-sub002/notifications"
	"github.com/madebyaris/woo-headless-sub002/payments"
)

// AssemblyResult is the outcome of a completed order assembly. PaymentError
// is set when payment initialization failed after the order was created; the
// order then remains pending and is still authoritative.
type AssemblyResult struct {
	Order        *models.Order
	Payment      *models.PaymentInit
	PaymentError string
	EmailSent    bool
}

// OrderAssembler turns a validated session and cart into a confirmed order.
// The assembly is a saga: reserve inventory, submit the order, commit the
// reservation, then initialize payment. Order submission failure triggers
// exactly one inventory-release compensation.
type OrderAssembler struct {
	client      client.BackendClient
	initializer payments.Initializer
	email       notifications.EmailSender
	manageStock bool
	logger      *zap.Logger
}

// NewOrderAssembler creates an assembler. initializer may be nil, in which
// case the backend client initializes payments; email may be nil to disable
// confirmation mail.
func NewOrderAssembler(backend client.BackendClient, initializer payments.Initializer, email notifications.EmailSender, manageStock bool, logger *zap.Logger) *OrderAssembler {
	if initializer == nil {
		initializer = backend
	}
	return &OrderAssembler{
		client:      backend,
		initializer: initializer,
		email:       email,
		manageStock: manageStock,
		logger:      logger,
	}
}

// CreateOrder runs the order-assembly saga. Precondition violations fail fast
// with a ValidationError before any side effect.
func (a *OrderAssembler) CreateOrder(ctx context.Context, session models.CheckoutSession, cart models.Cart) (*AssemblyResult, error) {
	totals := effectiveTotals(session, cart)
	if err := validatePreconditions(session, cart, totals); err != nil {
		return nil, err
	}

	items := stockAdjustments(cart)

	if a.manageStock {
		if err := a.client.ReserveStock(ctx, session.ID, items); err != nil {
			a.logger.Warn("inventory reservation failed, aborting before submission",
				zap.String("session_id", session.ID), zap.Error(err))
			return nil, err
		}
	}

	req := buildOrderRequest(session, cart, totals)
	order, err := a.client.CreateOrder(ctx, req)
	if err != nil {
		a.compensateReservation(ctx, session.ID, items)
		return nil, err
	}

	if a.manageStock {
		if commitErr := a.client.CommitStock(ctx, session.ID, items); commitErr != nil {
			// order is authoritative at this point; the reservation stays held
			a.logger.Error("stock commit failed after order creation",
				zap.String("order_id", order.ID), zap.Error(commitErr))
		}
	}

	result := &AssemblyResult{Order: order}

	if totals.Total > models.TotalsTolerance/2 && session.SelectedPaymentMethod != "" {
		init, payErr := a.initializer.InitializePayment(ctx, models.PaymentInitRequest{
			OrderID:  order.ID,
			Method:   session.SelectedPaymentMethod,
			Amount:   totals.Total,
			Currency: cart.Currency,
		})
		if payErr != nil {
			// documented behavior: the order stays pending, no compensating
			// cancellation is attempted
			result.PaymentError = payErr.Error()
			a.logger.Warn("payment initialization failed, order remains pending",
				zap.String("order_id", order.ID),
				zap.String("method", session.SelectedPaymentMethod),
				zap.Error(payErr),
			)
		} else {
			result.Payment = init
		}
	}

	result.EmailSent = a.sendConfirmation(ctx, session, order)
	return result, nil
}

// compensateReservation issues exactly one inventory release. A failed
// release is a potential inventory leak and is flagged, never retried.
func (a *OrderAssembler) compensateReservation(ctx context.Context, sessionID string, items []models.StockAdjustment) {
	if !a.manageStock {
		return
	}
	if releaseErr := a.client.ReleaseStock(ctx, sessionID, items); releaseErr != nil {
		a.logger.Error("inventory release failed after order submission failure",
			zap.String("session_id", sessionID),
			zap.Bool("inventory_leak", true),
			zap.Error(releaseErr),
		)
	}
}

// CancelOrder cancels an order that is still pending, processing, or on-hold
// and restores inventory for every line item exactly once.
func (a *OrderAssembler) CancelOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := a.client.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanCancel() {
		return nil, apperrors.NewValidationError("status", "not_cancellable",
			fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
	}

	cancelled, err := a.client.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}

	if a.manageStock {
		items := make([]models.StockAdjustment, 0, len(order.LineItems))
		for _, line := range order.LineItems {
			items = append(items, models.StockAdjustment{ProductID: line.ProductID, Quantity: line.Quantity})
		}
		if restoreErr := a.client.RestoreStock(ctx, orderID, items); restoreErr != nil {
			a.logger.Error("inventory restore failed after cancellation",
				zap.String("order_id", orderID),
				zap.Bool("inventory_leak", true),
				zap.Error(restoreErr),
			)
			return cancelled, fmt.Errorf("order cancelled but inventory restore failed: %w", restoreErr)
		}
	}

	a.logger.Info("order cancelled", zap.String("order_id", orderID))
	return cancelled, nil
}

func validatePreconditions(session models.CheckoutSession, cart models.Cart, totals models.OrderTotals) error {
	if cart.IsEmpty() {
		return apperrors.NewValidationError("cart", "empty", "cannot create an order from an empty cart")
	}
	if totals.Total < 0 {
		return apperrors.NewValidationError("totals.total", "negative", "order total cannot be negative")
	}
	if session.BillingAddress == nil || session.BillingAddress.IsEmpty() {
		return apperrors.NewValidationError("billing_address", "required", "billing address is required")
	}
	if cart.RequiresShipping() && !session.UseShippingAsBilling &&
		(session.ShippingAddress == nil || session.ShippingAddress.IsEmpty()) {
		return apperrors.NewValidationError("shipping_address", "required", "shipping address is required")
	}
	if totals.Total > models.TotalsTolerance/2 && session.SelectedPaymentMethod == "" {
		return apperrors.NewValidationError("selected_payment_method", "required", "a payment method is required for paid orders")
	}
	if !session.TermsAccepted {
		return apperrors.NewValidationError("terms_accepted", "required", "terms and conditions must be accepted")
	}
	return nil
}

func buildOrderRequest(session models.CheckoutSession, cart models.Cart, totals models.OrderTotals) models.CreateOrderRequest {
	lineItems := make([]models.OrderLineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		lineItems = append(lineItems, models.OrderLineItem{
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		})
	}

	billing := *session.BillingAddress
	shipping := billing
	if !session.UseShippingAsBilling && session.ShippingAddress != nil {
		shipping = *session.ShippingAddress
	}

	return models.CreateOrderRequest{
		Number:          generateOrderNumber(),
		Currency:        cart.Currency,
		Totals:          totals,
		LineItems:       lineItems,
		BillingAddress:  billing,
		ShippingAddress: shipping,
		PaymentMethod:   session.SelectedPaymentMethod,
		ShippingMethod:  session.SelectedShippingMethod,
		CustomerNote:    session.OrderNotes,
		SessionID:       session.ID,
		IsGuest:         session.IsGuest,
	}
}

func stockAdjustments(cart models.Cart) []models.StockAdjustment {
	items := make([]models.StockAdjustment, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.StockAdjustment{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return items
}

func effectiveTotals(session models.CheckoutSession, cart models.Cart) models.OrderTotals {
	if session.Totals != (models.OrderTotals{}) {
		return session.Totals
	}
	return cart.Totals
}

func generateOrderNumber() string {
	return "ORD-" + time.Now().Format("20060102-150405") + "-" + uuid.New().String()[:8]
}

// sendConfirmation emails the order confirmation best-effort.
func (a *OrderAssembler) sendConfirmation(ctx context.Context, session models.CheckoutSession, order *models.Order) bool {
	if a.email == nil || session.BillingAddress == nil || session.BillingAddress.Email == "" {
		return false
	}

	subject := fmt.Sprintf("Order %s confirmed", order.Number)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order <strong>%s</strong> has been received. Total: %.2f %s.</p>",
		session.BillingAddress.FirstName, order.Number, order.Totals.Total, order.Currency,
	)

	if _, err := a.email.SendEmail(ctx, session.BillingAddress.Email, subject, body); err != nil {
		a.logger.Warn("confirmation email failed",
			zap.String("order_id", order.ID), zap.Error(err))
		return false
	}
	return true
}
