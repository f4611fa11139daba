package validators

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/madebyaris/woo-headless-sub002/cache"
	"github.com/madebyaris/woo-headless-sub002/client"
	"github.com/madebyaris/woo-headless-sub002/models"
)

const paymentMethodsCacheKey = "payments:methods"

// PaymentGatewayAdapter validates a chosen payment method against the
// configured supported list, global and method-specific amount bounds, and
// the backend's live method list.
type PaymentGatewayAdapter struct {
	client    client.BackendClient
	cache     cache.Cache
	cacheTTL  time.Duration
	supported []string
	globalMin float64
	globalMax float64
	logger    *zap.Logger
}

// NewPaymentGatewayAdapter creates a gateway adapter. cache may be nil;
// globalMax of zero means no upper bound.
func NewPaymentGatewayAdapter(backend client.BackendClient, methodCache cache.Cache, cacheTTL time.Duration, supported []string, globalMin, globalMax float64, logger *zap.Logger) *PaymentGatewayAdapter {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &PaymentGatewayAdapter{
		client:    backend,
		cache:     methodCache,
		cacheTTL:  cacheTTL,
		supported: supported,
		globalMin: globalMin,
		globalMax: globalMax,
		logger:    logger,
	}
}

// listMethods fetches the live gateway list through the cache.
func (a *PaymentGatewayAdapter) listMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	if a.cache != nil {
		var cached []models.PaymentMethod
		if hit, _ := a.cache.Get(ctx, paymentMethodsCacheKey, &cached); hit {
			return cached, nil
		}
	}

	methods, err := a.client.ListPaymentMethods(ctx)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		_ = a.cache.Set(ctx, paymentMethodsCacheKey, methods, a.cacheTTL)
	}
	return methods, nil
}

// Validate checks the chosen method for the given amount and currency.
// Infrastructure failures are returned, not folded into the verdict.
func (a *PaymentGatewayAdapter) Validate(ctx context.Context, methodID string, amount float64, currency string) (models.ValidationResult, error) {
	result := models.NewValidationResult(models.ComponentPaymentMethod)

	if len(a.supported) > 0 && !contains(a.supported, methodID) {
		result.AddError(fmt.Sprintf("payment method %q is not supported", methodID))
		return result, nil
	}

	if amount < a.globalMin {
		result.AddError(fmt.Sprintf("order amount %.2f is below the minimum of %.2f", amount, a.globalMin))
	}
	if a.globalMax > 0 && amount > a.globalMax {
		result.AddError(fmt.Sprintf("order amount %.2f exceeds the maximum of %.2f", amount, a.globalMax))
	}

	methods, err := a.listMethods(ctx)
	if err != nil {
		return result, err
	}

	var method *models.PaymentMethod
	for i := range methods {
		if methods[i].ID == methodID {
			method = &methods[i]
			break
		}
	}

	if method == nil {
		result.AddError(fmt.Sprintf("payment method %q is not available", methodID))
		return result, nil
	}
	if !method.Enabled {
		result.AddError(fmt.Sprintf("payment method %q is currently disabled", methodID))
	}
	if !method.SupportsCurrency(currency) {
		result.AddError(fmt.Sprintf("payment method %q does not accept %s", methodID, currency))
	}
	if method.MinAmount > 0 && amount < method.MinAmount {
		result.AddError(fmt.Sprintf("amount %.2f is below the %q minimum of %.2f", amount, methodID, method.MinAmount))
	}
	if method.MaxAmount > 0 && amount > method.MaxAmount {
		result.AddError(fmt.Sprintf("amount %.2f exceeds the %q maximum of %.2f", amount, methodID, method.MaxAmount))
	}

	if !result.IsValid {
		a.logger.Debug("payment method validation failed",
			zap.String("method", methodID),
			zap.Float64("amount", amount),
			zap.Strings("errors", result.Errors),
		)
	}
	return result, nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
