package checkout_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/madebyaris/woo-headless-sub002/checkout"
	"github.com/madebyaris/woo-headless-sub002/events"
	"github.com/madebyaris/woo-headless-sub002/models"
)

// event sinks plug straight into the flow as listeners
var (
	_ checkout.CheckoutListener = (*events.SNSPublisher)(nil)
	_ checkout.CheckoutListener = (*events.KafkaPublisher)(nil)
)

func TestListenerGroup_FansOutToAllListeners(t *testing.T) {
	first := &recordingListener{}
	second := &recordingListener{}

	group := &checkout.ListenerGroup{}
	group.Add(first)
	group.Add(second)

	group.OnStepChange(2, 1)
	group.OnStepComplete(models.CheckoutStep{Type: models.StepAddress})
	group.OnValidationError([]string{"postcode is required"})
	group.OnCheckoutComplete(models.Order{ID: "order-1"})
	group.OnCheckoutError(errors.New("boom"))

	for _, l := range []*recordingListener{first, second} {
		assert.Equal(t, [][2]int{{1, 2}}, l.stepChanges)
		assert.Equal(t, []models.StepType{models.StepAddress}, l.completedSteps)
		assert.Len(t, l.validationErrors, 1)
		assert.Len(t, l.completedOrders, 1)
		assert.Len(t, l.errors, 1)
	}
}

func TestListenerGroup_EmptyGroupIsSafe(t *testing.T) {
	group := &checkout.ListenerGroup{}
	group.OnStepChange(2, 1)
	group.OnCheckoutError(errors.New("boom"))
}

func TestNoopListener_SatisfiesInterfaceQuietly(t *testing.T) {
	var l checkout.CheckoutListener = checkout.NoopListener{}
	l.OnStepChange(2, 1)
	l.OnCheckoutComplete(models.Order{})
}
