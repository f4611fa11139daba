package models

// StepType names a checkout step. The numeric index in FlowState is the
// authoritative representation; step types are labels on registry rows.
type StepType string

const (
	StepAddress  StepType = "address"
	StepShipping StepType = "shipping"
	StepPayment  StepType = "payment"
	StepReview   StepType = "review"
)

// CheckoutStep is an ordered step descriptor in the flow.
type CheckoutStep struct {
	Type      StepType `json:"type"`
	Title     string   `json:"title"`
	Optional  bool     `json:"optional"`
	Completed bool     `json:"completed"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors,omitempty"`
}

// FlowState is the externally visible state of a checkout flow.
// CurrentStep ranges over [1, TotalSteps+1]; TotalSteps+1 means completed.
type FlowState struct {
	CurrentStep    int             `json:"current_step"`
	TotalSteps     int             `json:"total_steps"`
	CompletedSteps map[int]bool    `json:"completed_steps"`
	CanProceed     bool            `json:"can_proceed"`
	CanGoBack      bool            `json:"can_go_back"`
	Session        CheckoutSession `json:"session"`
}

// IsComplete reports whether the flow reached its terminal state.
func (s FlowState) IsComplete() bool {
	return s.CurrentStep > s.TotalSteps
}

// TransitionResult is the outcome of a flow transition attempt.
type TransitionResult struct {
	Success      bool         `json:"success"`
	PreviousStep int          `json:"previous_step"`
	NewStep      int          `json:"new_step"`
	BlockingStep int          `json:"blocking_step,omitempty"`
	Completed    bool         `json:"completed"`
	Errors       []string     `json:"errors,omitempty"`
	Blockers     []string     `json:"blockers,omitempty"`
	Order        *Order       `json:"order,omitempty"`
	Payment      *PaymentInit `json:"payment,omitempty"`
	PaymentError string       `json:"payment_error,omitempty"`
}
