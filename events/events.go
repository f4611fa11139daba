package events

import (
	"time"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// Event types emitted by the checkout listener sinks.
const (
	EventStepChanged      = "checkout.step_changed"
	EventStepCompleted    = "checkout.step_completed"
	EventValidationFailed = "checkout.validation_failed"
	EventCompleted        = "checkout.completed"
	EventFailed           = "checkout.failed"
)

// StepChangedEvent is emitted when the flow moves between steps.
type StepChangedEvent struct {
	EventType string    `json:"event_type"`
	FromStep  int       `json:"from_step"`
	ToStep    int       `json:"to_step"`
	Timestamp time.Time `json:"timestamp"`
}

// StepCompletedEvent is emitted when a step is marked complete.
type StepCompletedEvent struct {
	EventType string    `json:"event_type"`
	Step      string    `json:"step"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidationFailedEvent is emitted when a forward transition is blocked.
type ValidationFailedEvent struct {
	EventType string    `json:"event_type"`
	Errors    []string  `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckoutCompletedEvent is emitted when an order is created.
type CheckoutCompletedEvent struct {
	EventType   string             `json:"event_type"`
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	Total       float64            `json:"total"`
	Currency    string             `json:"currency"`
	Status      models.OrderStatus `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
}

// CheckoutFailedEvent is emitted when a checkout operation errors.
type CheckoutFailedEvent struct {
	EventType string    `json:"event_type"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
