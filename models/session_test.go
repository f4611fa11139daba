package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/madebyaris/woo-headless-sub002/errors"
	"github.com/madebyaris/woo-headless-sub002/models"
)

func baseSession() models.CheckoutSession {
	cart := models.Cart{
		ID:       "cart-1",
		Currency: "USD",
		Items:    []models.CartItem{{ProductID: "p1", Quantity: 1, Price: 10, Total: 10, RequiresShipping: true}},
		Totals:   models.OrderTotals{Subtotal: 10, Total: 10},
	}
	return models.NewCheckoutSession(cart, false, 30*time.Minute)
}

func strPtr(s string) *string { return &s }

func TestApplySessionPatch_MergesFields(t *testing.T) {
	session := baseSession()
	accepted := true
	patch := models.SessionPatch{
		SelectedPaymentMethod: strPtr("stripe"),
		OrderNotes:            strPtr("leave at door"),
		TermsAccepted:         &accepted,
	}

	updated, err := models.ApplySessionPatch(session, patch)
	assert.NoError(t, err)
	assert.Equal(t, "stripe", updated.SelectedPaymentMethod)
	assert.Equal(t, "leave at door", updated.OrderNotes)
	assert.True(t, updated.TermsAccepted)
	// untouched fields survive
	assert.Equal(t, session.ID, updated.ID)
	assert.Equal(t, session.Totals, updated.Totals)
}

func TestApplySessionPatch_AllOrNothing(t *testing.T) {
	session := baseSession()
	patch := models.SessionPatch{
		OrderNotes: strPtr("should not be applied"),
		BillingAddress: &models.Address{
			FirstName: "Ada", LastName: "Lovelace",
			Address1: "1 Main St", City: "Springfield",
			Country: "USA", // invalid: not alpha-2
		},
	}

	unchanged, err := models.ApplySessionPatch(session, patch)
	assert.Error(t, err)
	var vErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, session, unchanged)
	assert.Empty(t, unchanged.OrderNotes)
}

func TestApplySessionPatch_RejectsInconsistentTotals(t *testing.T) {
	session := baseSession()
	patch := models.SessionPatch{
		Totals: &models.OrderTotals{Subtotal: 10, Tax: 1, Total: 20},
	}

	unchanged, err := models.ApplySessionPatch(session, patch)
	assert.Error(t, err)
	assert.Equal(t, session.Totals, unchanged.Totals)
}

func TestApplySessionPatch_BlankMethodIDRejected(t *testing.T) {
	session := baseSession()
	_, err := models.ApplySessionPatch(session, models.SessionPatch{SelectedPaymentMethod: strPtr("  ")})
	assert.Error(t, err)
}

func TestOrderTotals_ConsistencyTolerance(t *testing.T) {
	totals := models.OrderTotals{
		Subtotal: 100, Tax: 8.25, Shipping: 5, ShippingTax: 0.41,
		Fees: 2, FeesTax: 0.17, Discount: 10,
	}
	totals.Total = totals.ComputedTotal() + 0.009
	assert.True(t, totals.IsConsistent())

	totals.Total = totals.ComputedTotal() + 0.02
	assert.False(t, totals.IsConsistent())
}

func TestSessionExpiry(t *testing.T) {
	session := baseSession()
	assert.False(t, session.IsExpired(time.Now()))
	assert.True(t, session.IsExpired(session.ExpiresAt.Add(time.Second)))
}

func TestEffectiveShippingAddress(t *testing.T) {
	session := baseSession()
	billing := models.Address{FirstName: "Ada", Country: "US"}
	shipping := models.Address{FirstName: "Bob", Country: "CA"}
	session.BillingAddress = &billing
	session.ShippingAddress = &shipping

	assert.Equal(t, &shipping, session.EffectiveShippingAddress())

	session.UseShippingAsBilling = true
	assert.Equal(t, &billing, session.EffectiveShippingAddress())
}
