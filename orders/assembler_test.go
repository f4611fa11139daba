package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	apperrors "github.com/madebyaris/woo-headless-sub002/errors"
	"github.com/madebyaris/woo-headless-sub002/models"
	"github.com/madebyaris/woo-headless-sub002/notifications"
	"github.com/madebyaris/woo-headless-sub002/orders"
)

// ---- mock backend ----

type mockBackend struct {
	order     *models.Order
	createErr error

	getOrder  *models.Order
	getErr    error
	updateErr error

	reserveErr error
	releaseErr error
	commitErr  error
	restoreErr error

	createCalls  int
	reserveCalls int
	releaseCalls int
	commitCalls  int
	restoreCalls int
	updateCalls  int

	lastCreateReq models.CreateOrderRequest
	lastStatus    models.OrderStatus
	initRes       *models.PaymentInit
	initErr       error
	initCalls     int
}

func (m *mockBackend) CreateOrder(_ context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	m.createCalls++
	m.lastCreateReq = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.order, nil
}

func (m *mockBackend) GetOrder(_ context.Context, _ string) (*models.Order, error) {
	return m.getOrder, m.getErr
}

func (m *mockBackend) UpdateOrderStatus(_ context.Context, _ string, status models.OrderStatus) (*models.Order, error) {
	m.updateCalls++
	m.lastStatus = status
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	updated := *m.getOrder
	updated.Status = status
	return &updated, nil
}

func (m *mockBackend) GetShippingRates(_ context.Context, _ models.RateRequest) (*models.RateSet, error) {
	return nil, nil
}

func (m *mockBackend) ValidatePaymentMethod(_ context.Context, _ string, _ float64, _ string) (*models.ValidationResult, error) {
	return nil, nil
}

func (m *mockBackend) ListPaymentMethods(_ context.Context) ([]models.PaymentMethod, error) {
	return nil, nil
}

func (m *mockBackend) InitializePayment(_ context.Context, _ models.PaymentInitRequest) (*models.PaymentInit, error) {
	m.initCalls++
	if m.initErr != nil {
		return nil, m.initErr
	}
	return m.initRes, nil
}

func (m *mockBackend) ReserveStock(_ context.Context, _ string, _ []models.StockAdjustment) error {
	m.reserveCalls++
	return m.reserveErr
}

func (m *mockBackend) ReleaseStock(_ context.Context, _ string, _ []models.StockAdjustment) error {
	m.releaseCalls++
	return m.releaseErr
}

func (m *mockBackend) CommitStock(_ context.Context, _ string, _ []models.StockAdjustment) error {
	m.commitCalls++
	return m.commitErr
}

func (m *mockBackend) RestoreStock(_ context.Context, _ string, _ []models.StockAdjustment) error {
	m.restoreCalls++
	return m.restoreErr
}

// ---- mock email sender ----

type mockEmail struct {
	sent    []string
	sendErr error
}

func (m *mockEmail) SendEmail(_ context.Context, to, _, _ string) (notifications.SendResult, error) {
	m.sent = append(m.sent, to)
	if m.sendErr != nil {
		return notifications.SendResult{}, m.sendErr
	}
	return notifications.SendResult{MessageID: "msg-1"}, nil
}

// ---- helpers ----

func paidCart() models.Cart {
	return models.Cart{
		ID:       "cart-1",
		Currency: "USD",
		Items: []models.CartItem{
			{ProductID: "p1", Name: "Widget", Quantity: 2, Price: 25, Total: 50, RequiresShipping: true},
			{ProductID: "p2", Name: "Gadget", Quantity: 1, Price: 4, Total: 4, RequiresShipping: true},
		},
		Totals: models.OrderTotals{Subtotal: 54, Tax: 0, Shipping: 5, Total: 59},
	}
}

func freeCart() models.Cart {
	return models.Cart{
		ID:       "cart-2",
		Currency: "USD",
		Items:    []models.CartItem{{ProductID: "sample", Name: "Free Sample", Quantity: 1}},
		Totals:   models.OrderTotals{},
	}
}

func readySession(cart models.Cart) models.CheckoutSession {
	return models.CheckoutSession{
		ID:     "sess-1",
		CartID: cart.ID,
		BillingAddress: &models.Address{
			FirstName: "Jane", LastName: "Doe",
			Address1: "1 Main St", City: "Austin", State: "TX",
			Postcode: "73301", Country: "US", Email: "jane@example.com",
		},
		UseShippingAsBilling:   true,
		SelectedShippingMethod: "rate_1",
		SelectedPaymentMethod:  "stripe",
		TermsAccepted:          true,
		Totals:                 cart.Totals,
	}
}

func confirmedOrder() *models.Order {
	return &models.Order{
		ID:       "order-1",
		Number:   "ORD-20250101-120000-abcd1234",
		Status:   models.OrderStatusPending,
		Currency: "USD",
		Totals:   models.OrderTotals{Subtotal: 54, Shipping: 5, Total: 59},
		LineItems: []models.OrderLineItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	}
}

func newAssembler(backend *mockBackend, email notifications.EmailSender, manageStock bool) *orders.OrderAssembler {
	return orders.NewOrderAssembler(backend, nil, email, manageStock, zap.NewNop())
}

// ---- tests ----

func TestCreateOrder_HappyPath(t *testing.T) {
	backend := &mockBackend{order: confirmedOrder(), initRes: &models.PaymentInit{TransactionID: "pi_1"}}
	email := &mockEmail{}
	assembler := newAssembler(backend, email, true)
	cart := paidCart()

	result, err := assembler.CreateOrder(context.Background(), readySession(cart), cart)
	assert.NoError(t, err)
	assert.Equal(t, "order-1", result.Order.ID)
	assert.Equal(t, 1, backend.reserveCalls)
	assert.Equal(t, 1, backend.createCalls)
	assert.Equal(t, 1, backend.commitCalls)
	assert.Equal(t, 0, backend.releaseCalls)
	assert.NotNil(t, result.Payment)
	assert.Empty(t, result.PaymentError)
	assert.True(t, result.EmailSent)
	assert.Equal(t, []string{"jane@example.com"}, email.sent)
}

func TestCreateOrder_RequestCarriesSessionChoices(t *testing.T) {
	backend := &mockBackend{order: confirmedOrder()}
	assembler := newAssembler(backend, nil, false)
	cart := paidCart()
	session := readySession(cart)
	session.OrderNotes = "leave at door"
	session.IsGuest = true

	_, err := assembler.CreateOrder(context.Background(), session, cart)
	assert.NoError(t, err)

	req := backend.lastCreateReq
	assert.Len(t, req.LineItems, 2)
	assert.Equal(t, "stripe", req.PaymentMethod)
	assert.Equal(t, "rate_1", req.ShippingMethod)
	assert.Equal(t, "leave at door", req.CustomerNote)
	assert.True(t, req.IsGuest)
	assert.Regexp(t, `^ORD-\d{8}-\d{6}-[0-9a-f]{8}$`, req.Number)
	// use-shipping-as-billing collapses both addresses onto billing
	assert.Equal(t, req.BillingAddress, req.ShippingAddress)
}

func TestCreateOrder_PreconditionsFailBeforeSideEffects(t *testing.T) {
	cart := paidCart()

	cases := []struct {
		name   string
		mutate func(*models.CheckoutSession)
		field  string
	}{
		{"missing billing address", func(s *models.CheckoutSession) { s.BillingAddress = nil }, "billing_address"},
		{"missing shipping address", func(s *models.CheckoutSession) { s.UseShippingAsBilling = false }, "shipping_address"},
		{"missing payment method", func(s *models.CheckoutSession) { s.SelectedPaymentMethod = "" }, "selected_payment_method"},
		{"terms not accepted", func(s *models.CheckoutSession) { s.TermsAccepted = false }, "terms_accepted"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &mockBackend{order: confirmedOrder()}
			assembler := newAssembler(backend, nil, true)
			session := readySession(cart)
			tc.mutate(&session)

			_, err := assembler.CreateOrder(context.Background(), session, cart)
			var vErr *apperrors.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
			assert.Equal(t, 0, backend.reserveCalls)
			assert.Equal(t, 0, backend.createCalls)
		})
	}
}

func TestCreateOrder_EmptyCartFailsFast(t *testing.T) {
	backend := &mockBackend{}
	assembler := newAssembler(backend, nil, true)

	_, err := assembler.CreateOrder(context.Background(), readySession(models.Cart{}), models.Cart{})
	var vErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, backend.reserveCalls)
}

func TestCreateOrder_ReservationFailureAbortsBeforeSubmission(t *testing.T) {
	backend := &mockBackend{reserveErr: apperrors.NewAPIError(409, "insufficient_stock", "not enough stock")}
	assembler := newAssembler(backend, nil, true)
	cart := paidCart()

	_, err := assembler.CreateOrder(context.Background(), readySession(cart), cart)
	assert.Error(t, err)
	assert.Equal(t, 0, backend.createCalls)
	assert.Equal(t, 0, backend.releaseCalls)
}

func TestCreateOrder_SubmissionFailureReleasesExactlyOnce(t *testing.T) {
	submitErr := apperrors.NewAPIError(500, "server_error", "order submission failed")
	backend := &mockBackend{createErr: submitErr}
	assembler := newAssembler(backend, nil, true)
	cart := paidCart()

	_, err := assembler.CreateOrder(context.Background(), readySession(cart), cart)
	assert.Equal(t, 1, backend.reserveCalls)
	assert.Equal(t, 1, backend.releaseCalls)
	assert.Equal(t, 0, backend.commitCalls)

	// the submission error surfaces unchanged, not the compensation outcome
	var apiErr *apperrors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.True(t, apiErr.Retryable())
}

func TestCreateOrder_ReleaseFailureStillReturnsSubmitError(t *testing.T) {
	submitErr := apperrors.NewAPIError(502, "bad_gateway", "order submission failed")
	backend := &mockBackend{
		createErr:  submitErr,
		releaseErr: errors.New("release timed out"),
	}
	assembler := newAssembler(backend, nil, true)
	cart := paidCart()

	_, err := assembler.CreateOrder(context.Background(), readySession(cart), cart)
	assert.Equal(t, 1, backend.releaseCalls)
	var apiErr *apperrors.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 502, apiErr.StatusCode)
}

func TestCreateOrder_StockDisabledSkipsInventoryCalls(t *testing.T) {
	backend := &mockBackend{createErr: apperrors.NewAPIError(500, "server_error", "boom")}
	assembler := newAssembler(backend, nil, false)
	cart := paidCart()

	_, err := assembler.CreateOrder(context.Background(), readySession(cart), cart)
	assert.Error(t, err)
	assert.Equal(t, 0, backend.reserveCalls)
	assert.Equal(t, 0, backend.releaseCalls)
}

func TestCreateOrder_CommitFailureKeepsOrderAuthoritative(t *testing.T) {
	backend := &mockBackend{order: confirmedOrder(), commitErr: errors.New("commit timed out")}
	assembler := newAssembler(backend, nil, true)
	cart := paidCart()

	result, err := assembler.CreateOrder(context.Background(), readySession(cart), cart)
	assert.NoError(t, err)
	assert.NotNil(t, result.Order)
	assert.Equal(t, 1, backend.commitCalls)
	assert.Equal(t, 0, backend.releaseCalls)
}

func TestCreateOrder_PaymentInitFailureLeavesOrderPending(t *testing.T) {
	backend := &mockBackend{
		order:   confirmedOrder(),
		initErr: apperrors.NewAPIError(502, "gateway_down", "payment gateway unavailable"),
	}
	assembler := newAssembler(backend, nil, true)
	cart := paidCart()

	result, err := assembler.CreateOrder(context.Background(), readySession(cart), cart)
	assert.NoError(t, err)
	assert.NotNil(t, result.Order)
	assert.Nil(t, result.Payment)
	assert.Contains(t, result.PaymentError, "payment gateway unavailable")
	// no compensating cancellation is attempted
	assert.Equal(t, 0, backend.updateCalls)
	assert.Equal(t, 0, backend.releaseCalls)
}

func TestCreateOrder_ZeroTotalSkipsPayment(t *testing.T) {
	order := confirmedOrder()
	order.Totals = models.OrderTotals{}
	backend := &mockBackend{order: order}
	assembler := newAssembler(backend, nil, true)
	cart := freeCart()
	session := readySession(cart)
	session.SelectedPaymentMethod = ""
	session.SelectedShippingMethod = ""

	result, err := assembler.CreateOrder(context.Background(), session, cart)
	assert.NoError(t, err)
	assert.Equal(t, 0, backend.initCalls)
	assert.Nil(t, result.Payment)
	assert.Empty(t, result.PaymentError)
}

func TestCreateOrder_EmailFailureIsSoft(t *testing.T) {
	backend := &mockBackend{order: confirmedOrder()}
	email := &mockEmail{sendErr: errors.New("smtp down")}
	assembler := newAssembler(backend, email, true)
	cart := paidCart()

	result, err := assembler.CreateOrder(context.Background(), readySession(cart), cart)
	assert.NoError(t, err)
	assert.False(t, result.EmailSent)
	assert.NotNil(t, result.Order)
}

func TestCancelOrder_RestoresInventoryExactlyOnce(t *testing.T) {
	backend := &mockBackend{getOrder: confirmedOrder()}
	assembler := newAssembler(backend, nil, true)

	cancelled, err := assembler.CancelOrder(context.Background(), "order-1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, models.OrderStatusCancelled, backend.lastStatus)
	assert.Equal(t, 1, backend.restoreCalls)
}

func TestCancelOrder_CompletedOrderIsNotCancellable(t *testing.T) {
	done := confirmedOrder()
	done.Status = models.OrderStatusCompleted
	backend := &mockBackend{getOrder: done}
	assembler := newAssembler(backend, nil, true)

	_, err := assembler.CancelOrder(context.Background(), "order-1")
	var vErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "not_cancellable", vErr.Code)
	assert.Equal(t, 0, backend.updateCalls)
	assert.Equal(t, 0, backend.restoreCalls)
}

func TestCancelOrder_OnHoldOrderIsCancellable(t *testing.T) {
	held := confirmedOrder()
	held.Status = models.OrderStatusOnHold
	backend := &mockBackend{getOrder: held}
	assembler := newAssembler(backend, nil, true)

	cancelled, err := assembler.CancelOrder(context.Background(), "order-1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}

func TestCancelOrder_RestoreFailureSurfacesLeak(t *testing.T) {
	backend := &mockBackend{getOrder: confirmedOrder(), restoreErr: errors.New("restore timed out")}
	assembler := newAssembler(backend, nil, true)

	cancelled, err := assembler.CancelOrder(context.Background(), "order-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "inventory restore failed")
	// the status update still happened
	assert.NotNil(t, cancelled)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}

func TestCancelOrder_StatusUpdateFailurePropagates(t *testing.T) {
	backend := &mockBackend{getOrder: confirmedOrder(), updateErr: apperrors.NewAPIError(500, "server_error", "update failed")}
	assembler := newAssembler(backend, nil, true)

	_, err := assembler.CancelOrder(context.Background(), "order-1")
	assert.Error(t, err)
	assert.Equal(t, 0, backend.restoreCalls)
}
