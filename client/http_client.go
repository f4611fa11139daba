package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/madebyaris/woo-headless-sub002/errors"
	"github.com/madebyaris/woo-headless-sub002/models"
)

// HTTPClient talks to the commerce backend over HTTP/JSON.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPClient creates a backend client. Timeouts are enforced here; the
// engine surfaces them as TimeoutError without retrying.
func NewHTTPClient(baseURL, apiKey, apiSecret string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type backendError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.SetBasicAuth(c.apiKey, c.apiSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		op := fmt.Sprintf("%s %s", method, path)
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) && urlErr.Timeout() {
			return &apperrors.TimeoutError{Op: op, Err: err}
		}
		if stderrors.Is(err, context.DeadlineExceeded) {
			return &apperrors.TimeoutError{Op: op, Err: err}
		}
		return &apperrors.APIError{StatusCode: 0, Message: op + " failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var backendErr backendError
		_ = json.NewDecoder(resp.Body).Decode(&backendErr)
		if backendErr.Message == "" {
			backendErr.Message = fmt.Sprintf("%s %s failed", method, path)
		}
		return &apperrors.APIError{
			StatusCode: resp.StatusCode,
			Code:       backendErr.Code,
			Message:    backendErr.Message,
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &apperrors.APIError{StatusCode: resp.StatusCode, Message: "invalid backend response", Err: err}
		}
	}
	return nil
}

// CreateOrder submits an order to the backend.
func (c *HTTPClient) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	c.logger.Info("order created", zap.String("order_id", order.ID), zap.String("number", order.Number))
	return &order, nil
}

// GetOrder fetches an order by id.
func (c *HTTPClient) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+id, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus transitions an order's status.
func (c *HTTPClient) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	payload := map[string]string{"status": string(status)}
	var order models.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+id+"/status", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetShippingRates resolves rates for a destination and cart.
func (c *HTTPClient) GetShippingRates(ctx context.Context, req models.RateRequest) (*models.RateSet, error) {
	var set models.RateSet
	if err := c.do(ctx, http.MethodPost, "/shipping/rates", req, &set); err != nil {
		return nil, err
	}
	if set.FetchedAt.IsZero() {
		set.FetchedAt = time.Now()
	}
	return &set, nil
}

// ValidatePaymentMethod asks the backend to validate a gateway choice.
func (c *HTTPClient) ValidatePaymentMethod(ctx context.Context, methodID string, amount float64, currency string) (*models.ValidationResult, error) {
	payload := map[string]interface{}{
		"method_id": methodID,
		"amount":    amount,
		"currency":  currency,
	}
	var result models.ValidationResult
	if err := c.do(ctx, http.MethodPost, "/payments/validate", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPaymentMethods fetches the backend's live gateway list.
func (c *HTTPClient) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := c.do(ctx, http.MethodGet, "/payments/methods", nil, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// InitializePayment starts a payment flow for an order.
func (c *HTTPClient) InitializePayment(ctx context.Context, req models.PaymentInitRequest) (*models.PaymentInit, error) {
	var init models.PaymentInit
	if err := c.do(ctx, http.MethodPost, "/payments/initialize", req, &init); err != nil {
		return nil, err
	}
	return &init, nil
}

type stockRequest struct {
	OrderKey string                   `json:"order_key"`
	Items    []models.StockAdjustment `json:"items"`
}

// ReserveStock reserves inventory for order items.
func (c *HTTPClient) ReserveStock(ctx context.Context, orderKey string, items []models.StockAdjustment) error {
	return c.stockOp(ctx, "/inventory/reserve", orderKey, items)
}

// ReleaseStock releases a previous reservation.
func (c *HTTPClient) ReleaseStock(ctx context.Context, orderKey string, items []models.StockAdjustment) error {
	return c.stockOp(ctx, "/inventory/release", orderKey, items)
}

// CommitStock converts a reservation into a real decrement.
func (c *HTTPClient) CommitStock(ctx context.Context, orderKey string, items []models.StockAdjustment) error {
	return c.stockOp(ctx, "/inventory/commit", orderKey, items)
}

// RestoreStock increases inventory back, used on order cancellation.
func (c *HTTPClient) RestoreStock(ctx context.Context, orderKey string, items []models.StockAdjustment) error {
	return c.stockOp(ctx, "/inventory/restore", orderKey, items)
}

func (c *HTTPClient) stockOp(ctx context.Context, path, orderKey string, items []models.StockAdjustment) error {
	err := c.do(ctx, http.MethodPost, path, stockRequest{OrderKey: orderKey, Items: items}, nil)
	if err != nil {
		return err
	}
	c.logger.Info("inventory operation applied",
		zap.String("path", path),
		zap.String("order_key", orderKey),
		zap.Int("items", len(items)),
	)
	return nil
}

var _ BackendClient = (*HTTPClient)(nil)
