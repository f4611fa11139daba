package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/madebyaris/woo-headless-sub002/errors"
)

// CheckoutSession is the ephemeral state of one checkout attempt. It is owned
// by the flow manager for its lifetime and superseded by an Order on success.
type CheckoutSession struct {
	ID                     string      `json:"id"`
	CartID                 string      `json:"cart_id"`
	IsGuest                bool        `json:"is_guest"`
	BillingAddress         *Address    `json:"billing_address,omitempty"`
	ShippingAddress        *Address    `json:"shipping_address,omitempty"`
	UseShippingAsBilling   bool        `json:"use_shipping_as_billing"`
	SelectedShippingMethod string      `json:"selected_shipping_method,omitempty"`
	SelectedPaymentMethod  string      `json:"selected_payment_method,omitempty"`
	OrderNotes             string      `json:"order_notes,omitempty"`
	TermsAccepted          bool        `json:"terms_accepted"`
	Totals                 OrderTotals `json:"totals"`
	ExpiresAt              time.Time   `json:"expires_at"`
	CreatedAt              time.Time   `json:"created_at"`
	UpdatedAt              time.Time   `json:"updated_at"`
}

// NewCheckoutSession creates a fresh session for the given cart.
func NewCheckoutSession(cart Cart, isGuest bool, ttl time.Duration) CheckoutSession {
	now := time.Now()
	return CheckoutSession{
		ID:        uuid.New().String(),
		CartID:    cart.ID,
		IsGuest:   isGuest,
		Totals:    cart.Totals,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsExpired reports whether the session has passed its expiry.
func (s CheckoutSession) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// EffectiveShippingAddress resolves the address goods ship to, honoring the
// use-shipping-as-billing flag.
func (s CheckoutSession) EffectiveShippingAddress() *Address {
	if s.UseShippingAsBilling {
		return s.BillingAddress
	}
	return s.ShippingAddress
}

// SessionPatch is a partial update to a session. Nil fields are left
// untouched.
type SessionPatch struct {
	BillingAddress         *Address     `json:"billing_address,omitempty"`
	ShippingAddress        *Address     `json:"shipping_address,omitempty"`
	UseShippingAsBilling   *bool        `json:"use_shipping_as_billing,omitempty"`
	SelectedShippingMethod *string      `json:"selected_shipping_method,omitempty"`
	SelectedPaymentMethod  *string      `json:"selected_payment_method,omitempty"`
	OrderNotes             *string      `json:"order_notes,omitempty"`
	TermsAccepted          *bool        `json:"terms_accepted,omitempty"`
	Totals                 *OrderTotals `json:"totals,omitempty"`
}

// ApplySessionPatch merges a patch into a session and returns the result.
// The merge is all-or-nothing: when any patched field fails its embedded
// validation the original session is returned unchanged alongside the error.
func ApplySessionPatch(session CheckoutSession, patch SessionPatch) (CheckoutSession, error) {
	if patch.BillingAddress != nil && !patch.BillingAddress.IsEmpty() {
		if err := checkPatchAddress(*patch.BillingAddress, "billing_address"); err != nil {
			return session, err
		}
	}
	if patch.ShippingAddress != nil && !patch.ShippingAddress.IsEmpty() {
		if err := checkPatchAddress(*patch.ShippingAddress, "shipping_address"); err != nil {
			return session, err
		}
	}
	if patch.SelectedShippingMethod != nil && strings.TrimSpace(*patch.SelectedShippingMethod) == "" {
		return session, apperrors.NewValidationError("selected_shipping_method", "empty", "shipping method id must not be blank")
	}
	if patch.SelectedPaymentMethod != nil && strings.TrimSpace(*patch.SelectedPaymentMethod) == "" {
		return session, apperrors.NewValidationError("selected_payment_method", "empty", "payment method id must not be blank")
	}
	if patch.Totals != nil && !patch.Totals.IsConsistent() {
		return session, apperrors.NewValidationError("totals", "inconsistent", "total does not match its components")
	}

	updated := session
	if patch.BillingAddress != nil {
		addr := *patch.BillingAddress
		updated.BillingAddress = &addr
	}
	if patch.ShippingAddress != nil {
		addr := *patch.ShippingAddress
		updated.ShippingAddress = &addr
	}
	if patch.UseShippingAsBilling != nil {
		updated.UseShippingAsBilling = *patch.UseShippingAsBilling
	}
	if patch.SelectedShippingMethod != nil {
		updated.SelectedShippingMethod = *patch.SelectedShippingMethod
	}
	if patch.SelectedPaymentMethod != nil {
		updated.SelectedPaymentMethod = *patch.SelectedPaymentMethod
	}
	if patch.OrderNotes != nil {
		updated.OrderNotes = *patch.OrderNotes
	}
	if patch.TermsAccepted != nil {
		updated.TermsAccepted = *patch.TermsAccepted
	}
	if patch.Totals != nil {
		updated.Totals = *patch.Totals
	}
	updated.UpdatedAt = time.Now()
	return updated, nil
}

func checkPatchAddress(addr Address, field string) error {
	if strings.TrimSpace(addr.Country) == "" {
		return apperrors.NewValidationError(field+".country", "required", "country is required")
	}
	if len(strings.TrimSpace(addr.Country)) != 2 {
		return apperrors.NewValidationError(field+".country", "format", "country must be an ISO 3166-1 alpha-2 code")
	}
	if addr.Email != "" && !strings.Contains(addr.Email, "@") {
		return apperrors.NewValidationError(field+".email", "format", "email address is malformed")
	}
	return nil
}
