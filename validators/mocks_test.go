package validators_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// mockBackend is a hand-rolled BackendClient with per-call knobs.
type mockBackend struct {
	rates         []models.ShippingRate
	ratesErr      error
	ratesCalls    int
	methods       []models.PaymentMethod
	methodsErr    error
	methodsCalls  int
	validateRes   *models.ValidationResult
	validateErr   error
	order         *models.Order
	createErr     error
	initRes       *models.PaymentInit
	initErr       error
	stockErr      error
}

func (m *mockBackend) CreateOrder(_ context.Context, _ models.CreateOrderRequest) (*models.Order, error) {
	return m.order, m.createErr
}

func (m *mockBackend) GetOrder(_ context.Context, _ string) (*models.Order, error) {
	return m.order, nil
}

func (m *mockBackend) UpdateOrderStatus(_ context.Context, _ string, _ models.OrderStatus) (*models.Order, error) {
	return m.order, nil
}

func (m *mockBackend) GetShippingRates(_ context.Context, _ models.RateRequest) (*models.RateSet, error) {
	m.ratesCalls++
	if m.ratesErr != nil {
		return nil, m.ratesErr
	}
	return &models.RateSet{Rates: m.rates}, nil
}

func (m *mockBackend) ValidatePaymentMethod(_ context.Context, _ string, _ float64, _ string) (*models.ValidationResult, error) {
	return m.validateRes, m.validateErr
}

func (m *mockBackend) ListPaymentMethods(_ context.Context) ([]models.PaymentMethod, error) {
	m.methodsCalls++
	return m.methods, m.methodsErr
}

func (m *mockBackend) InitializePayment(_ context.Context, _ models.PaymentInitRequest) (*models.PaymentInit, error) {
	return m.initRes, m.initErr
}

func (m *mockBackend) ReserveStock(_ context.Context, _ string, _ []models.StockAdjustment) error {
	return m.stockErr
}

func (m *mockBackend) ReleaseStock(_ context.Context, _ string, _ []models.StockAdjustment) error {
	return m.stockErr
}

func (m *mockBackend) CommitStock(_ context.Context, _ string, _ []models.StockAdjustment) error {
	return m.stockErr
}

func (m *mockBackend) RestoreStock(_ context.Context, _ string, _ []models.StockAdjustment) error {
	return m.stockErr
}

// mockCache is an in-memory cache.Cache.
type mockCache struct {
	entries map[string][]byte
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string][]byte{}}
}

func (c *mockCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *mockCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	c.sets++
	return nil
}

func (c *mockCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}
