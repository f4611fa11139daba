package models

// Validation component tags.
const (
	ComponentBillingAddress  = "billing_address"
	ComponentShippingAddress = "shipping_address"
	ComponentShippingMethod  = "shipping_method"
	ComponentPaymentMethod   = "payment_method"
	ComponentCart            = "cart"
	ComponentTotals          = "totals"
)

// Blocker categories. A blocker unconditionally prevents proceeding,
// independent of warnings.
const (
	BlockerAddress = "address"
	BlockerPayment = "payment"
	BlockerStock   = "stock"
)

// ValidationResult is the verdict of one domain check.
type ValidationResult struct {
	Component string                 `json:"component"`
	IsValid   bool                   `json:"is_valid"`
	Errors    []string               `json:"errors,omitempty"`
	Warnings  []string               `json:"warnings,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// AddError appends an error and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

// AddWarning appends a warning without affecting validity.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// NewValidationResult creates a passing result for a component.
func NewValidationResult(component string) ValidationResult {
	return ValidationResult{Component: component, IsValid: true}
}

// AggregateValidationResult reduces several domain checks to one verdict.
// Invariant: CanProceed implies IsValid and an empty Blockers list.
type AggregateValidationResult struct {
	IsValid         bool               `json:"is_valid"`
	CanProceed      bool               `json:"can_proceed"`
	Results         []ValidationResult `json:"results"`
	CriticalErrors  []string           `json:"critical_errors,omitempty"`
	Warnings        []string           `json:"warnings,omitempty"`
	Blockers        []string           `json:"blockers,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
}
