package checkout

import "github.com/madebyaris/woo-headless-sub002/models"

// stepTitles maps step types to display titles.
var stepTitles = map[models.StepType]string{
	models.StepAddress:  "Addresses",
	models.StepShipping: "Shipping",
	models.StepPayment:  "Payment",
	models.StepReview:   "Review",
}

// BuildSteps builds the canonical ordered step registry for a cart. Both the
// state machine and the validator consult this single ordering; the numeric
// step index is authoritative and step types are labels on registry rows.
// The shipping step is omitted when nothing in the cart ships, and the
// payment step is omitted for zero-total carts.
func BuildSteps(cart models.Cart) []models.CheckoutStep {
	types := []models.StepType{models.StepAddress}
	if cart.RequiresShipping() {
		types = append(types, models.StepShipping)
	}
	if cart.Totals.Total > models.TotalsTolerance/2 {
		types = append(types, models.StepPayment)
	}
	types = append(types, models.StepReview)

	steps := make([]models.CheckoutStep, 0, len(types))
	for _, t := range types {
		steps = append(steps, models.CheckoutStep{
			Type:     t,
			Title:    stepTitles[t],
			Optional: t == models.StepShipping && !cart.RequiresShipping(),
		})
	}
	return steps
}
