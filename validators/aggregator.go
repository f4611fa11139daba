package validators

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// ValidationAggregator runs the domain checks relevant to a step (or the full
// pass at completion) and reduces them to one go/no-go verdict. Validation
// failures travel inside the returned aggregate; only infrastructure faults
// from a sub-validator are returned as errors, and those abort the whole
// aggregation with no partial verdict.
type ValidationAggregator struct {
	address        *AddressValidator
	shipping       *ShippingRateResolver
	payment        *PaymentGatewayAdapter
	minOrderAmount float64
	maxOrderAmount float64
	logger         *zap.Logger
}

// NewValidationAggregator creates an aggregator. maxOrderAmount of zero means
// no upper bound.
func NewValidationAggregator(address *AddressValidator, shipping *ShippingRateResolver, payment *PaymentGatewayAdapter, minOrderAmount, maxOrderAmount float64, logger *zap.Logger) *ValidationAggregator {
	return &ValidationAggregator{
		address:        address,
		shipping:       shipping,
		payment:        payment,
		minOrderAmount: minOrderAmount,
		maxOrderAmount: maxOrderAmount,
		logger:         logger,
	}
}

// ValidateStep runs the checks relevant to one step. Cart integrity and
// totals consistency are checked on every step.
func (g *ValidationAggregator) ValidateStep(ctx context.Context, session models.CheckoutSession, cart models.Cart, step models.StepType) (*models.AggregateValidationResult, error) {
	results := []models.ValidationResult{
		g.checkCart(cart),
		g.checkTotals(session, cart),
	}

	switch step {
	case models.StepAddress:
		addressResults := g.checkAddresses(session, cart)
		results = append(results, addressResults...)
	case models.StepShipping:
		if session.SelectedShippingMethod != "" {
			result, err := g.checkShippingSelection(ctx, session, cart)
			if err != nil {
				return nil, err
			}
			results = append(results, result)
		}
	case models.StepPayment:
		if session.SelectedPaymentMethod != "" {
			result, err := g.checkPaymentSelection(ctx, session, cart)
			if err != nil {
				return nil, err
			}
			results = append(results, result)
		}
	case models.StepReview:
		return g.ValidateAll(ctx, session, cart)
	}

	return g.reduce(results), nil
}

// ValidateAll runs every applicable domain check. Applicability follows
// session state: the distinct shipping address is skipped when shipping uses
// billing, and the shipping/payment method checks are skipped while no method
// has been selected yet.
func (g *ValidationAggregator) ValidateAll(ctx context.Context, session models.CheckoutSession, cart models.Cart) (*models.AggregateValidationResult, error) {
	results := []models.ValidationResult{
		g.checkCart(cart),
		g.checkTotals(session, cart),
	}
	results = append(results, g.checkAddresses(session, cart)...)

	if session.SelectedShippingMethod != "" {
		result, err := g.checkShippingSelection(ctx, session, cart)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if session.SelectedPaymentMethod != "" {
		result, err := g.checkPaymentSelection(ctx, session, cart)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return g.reduce(results), nil
}

func (g *ValidationAggregator) checkAddresses(session models.CheckoutSession, cart models.Cart) []models.ValidationResult {
	var billing models.Address
	if session.BillingAddress != nil {
		billing = *session.BillingAddress
	}
	results := []models.ValidationResult{
		g.address.Validate(billing, models.AddressKindBilling),
	}

	// distinct shipping address only matters for shippable carts
	if cart.RequiresShipping() && !session.UseShippingAsBilling {
		var shipping models.Address
		if session.ShippingAddress != nil {
			shipping = *session.ShippingAddress
		}
		results = append(results, g.address.Validate(shipping, models.AddressKindShipping))
	}
	return results
}

func (g *ValidationAggregator) checkShippingSelection(ctx context.Context, session models.CheckoutSession, cart models.Cart) (models.ValidationResult, error) {
	destination := session.EffectiveShippingAddress()
	if destination == nil {
		result := models.NewValidationResult(models.ComponentShippingMethod)
		result.AddError("shipping destination is required before selecting a rate")
		return result, nil
	}

	req := models.RateRequest{
		Destination: *destination,
		Items:       cart.Items,
		CartTotal:   cart.Totals.Total,
		Currency:    cart.Currency,
	}
	return g.shipping.ValidateSelection(ctx, session.SelectedShippingMethod, req)
}

func (g *ValidationAggregator) checkPaymentSelection(ctx context.Context, session models.CheckoutSession, cart models.Cart) (models.ValidationResult, error) {
	totals := g.effectiveTotals(session, cart)
	return g.payment.Validate(ctx, session.SelectedPaymentMethod, totals.Total, cart.Currency)
}

func (g *ValidationAggregator) checkCart(cart models.Cart) models.ValidationResult {
	result := models.NewValidationResult(models.ComponentCart)

	if cart.IsEmpty() {
		result.AddError("cart is empty")
		return result
	}
	for _, item := range cart.Items {
		if item.Quantity < 0 {
			result.AddError(fmt.Sprintf("item %s has a negative quantity", item.ProductID))
		}
	}
	if cart.Totals.Total < g.minOrderAmount {
		result.AddError(fmt.Sprintf("order total %.2f is below the minimum of %.2f", cart.Totals.Total, g.minOrderAmount))
	}
	if g.maxOrderAmount > 0 && cart.Totals.Total > g.maxOrderAmount {
		result.AddError(fmt.Sprintf("order total %.2f exceeds the maximum of %.2f", cart.Totals.Total, g.maxOrderAmount))
	}
	return result
}

func (g *ValidationAggregator) checkTotals(session models.CheckoutSession, cart models.Cart) models.ValidationResult {
	result := models.NewValidationResult(models.ComponentTotals)

	totals := g.effectiveTotals(session, cart)
	if !totals.IsConsistent() {
		result.AddError(fmt.Sprintf(
			"total %.2f does not match its components (%.2f)",
			totals.Total, totals.ComputedTotal(),
		))
	}
	return result
}

func (g *ValidationAggregator) effectiveTotals(session models.CheckoutSession, cart models.Cart) models.OrderTotals {
	if session.Totals != (models.OrderTotals{}) {
		return session.Totals
	}
	return cart.Totals
}

// reduce concatenates per-domain results into the aggregate verdict.
// canProceed holds iff every domain is valid and no blocker was derived.
func (g *ValidationAggregator) reduce(results []models.ValidationResult) *models.AggregateValidationResult {
	agg := &models.AggregateValidationResult{
		IsValid: true,
		Results: results,
	}

	blockerSeen := make(map[string]bool)
	for _, result := range results {
		agg.CriticalErrors = append(agg.CriticalErrors, result.Errors...)
		agg.Warnings = append(agg.Warnings, result.Warnings...)

		if result.IsValid {
			continue
		}
		agg.IsValid = false

		var blocker string
		switch result.Component {
		case models.ComponentBillingAddress, models.ComponentShippingAddress:
			blocker = models.BlockerAddress
		case models.ComponentPaymentMethod:
			blocker = models.BlockerPayment
		case models.ComponentCart:
			blocker = models.BlockerStock
		}
		if blocker != "" && !blockerSeen[blocker] {
			blockerSeen[blocker] = true
			agg.Blockers = append(agg.Blockers, blocker)
		}
	}

	agg.CanProceed = agg.IsValid && len(agg.Blockers) == 0

	if !agg.CanProceed {
		g.logger.Debug("aggregate validation blocked",
			zap.Strings("blockers", agg.Blockers),
			zap.Int("errors", len(agg.CriticalErrors)),
		)
	}
	return agg
}
