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

// fastestMethodPriority is the fixed priority list used to pick the fastest
// rate. The first rate whose method id matches wins; when none match the
// first available rate is used.
var fastestMethodPriority = []string{
	"overnight",
	"expedited",
	"flat_rate",
	"table_rate",
	"local_pickup",
	"free_shipping",
}

// ShippingRateResolver fetches rate sets for a destination and cart and
// validates that a previously selected rate still exists. Rates are not
// assumed stable between requests.
type ShippingRateResolver struct {
	client   client.BackendClient
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewShippingRateResolver creates a resolver. cache may be nil.
func NewShippingRateResolver(backend client.BackendClient, rateCache cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *ShippingRateResolver {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &ShippingRateResolver{
		client:   backend,
		cache:    rateCache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func rateCacheKey(req models.RateRequest) string {
	return fmt.Sprintf("shipping:rates:%s:%s:%s:%d:%.2f:%s",
		req.Destination.Country,
		req.Destination.State,
		req.Destination.Postcode,
		len(req.Items),
		req.CartTotal,
		req.Currency,
	)
}

// FetchRates resolves the rate set for a destination and cart, consulting the
// cache first. A cache fault falls through to the backend.
func (r *ShippingRateResolver) FetchRates(ctx context.Context, req models.RateRequest) (*models.RateSet, error) {
	key := rateCacheKey(req)
	if r.cache != nil {
		var cached models.RateSet
		if hit, _ := r.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	set, err := r.client.GetShippingRates(ctx, req)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, key, set, r.cacheTTL)
	}
	return set, nil
}

// ValidateSelection re-validates the selected rate id against a freshly
// fetched set, bypassing the cache. It guards against rates changing between
// steps. Infrastructure failures are returned, not folded into the verdict.
func (r *ShippingRateResolver) ValidateSelection(ctx context.Context, selectedID string, req models.RateRequest) (models.ValidationResult, error) {
	result := models.NewValidationResult(models.ComponentShippingMethod)

	set, err := r.client.GetShippingRates(ctx, req)
	if err != nil {
		return result, err
	}
	if len(set.Rates) == 0 {
		result.AddError("no shipping rates available for the destination")
		return result, nil
	}

	rate := set.FindRate(selectedID)
	if rate == nil {
		result.AddError(fmt.Sprintf("selected shipping rate %q is no longer available", selectedID))
		r.logger.Warn("selected rate disappeared between requests",
			zap.String("rate_id", selectedID),
			zap.Int("available", len(set.Rates)),
		)
		return result, nil
	}

	result.Metadata = map[string]interface{}{
		"rate_id":   rate.ID,
		"method_id": rate.MethodID,
		"cost":      rate.Cost,
	}
	return result, nil
}

// CheapestRate returns the minimum-cost rate, ties broken by first
// encountered. Returns nil for an empty set.
func CheapestRate(rates []models.ShippingRate) *models.ShippingRate {
	if len(rates) == 0 {
		return nil
	}
	cheapest := &rates[0]
	for i := 1; i < len(rates); i++ {
		if rates[i].Cost < cheapest.Cost {
			cheapest = &rates[i]
		}
	}
	return cheapest
}

// FastestRate returns the first rate matching the fixed method priority list,
// falling back to the first available rate when none match.
func FastestRate(rates []models.ShippingRate) *models.ShippingRate {
	if len(rates) == 0 {
		return nil
	}
	for _, method := range fastestMethodPriority {
		for i := range rates {
			if rates[i].MethodID == method {
				return &rates[i]
			}
		}
	}
	return &rates[0]
}

// GroupRatesByZone buckets rates by their zone label. Rates with no zone go
// under the empty key.
func GroupRatesByZone(rates []models.ShippingRate) map[string][]models.ShippingRate {
	grouped := make(map[string][]models.ShippingRate)
	for _, rate := range rates {
		grouped[rate.Zone] = append(grouped[rate.Zone], rate)
	}
	return grouped
}
