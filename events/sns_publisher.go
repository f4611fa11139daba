package events

import (
	"context"
	"encoding/json"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// snsAPI is the slice of the SNS client the publisher uses.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher mirrors checkout events onto an SNS topic. Publishing is
// best-effort; failures are logged and never surface to the flow.
type SNSPublisher struct {
	client   snsAPI
	topicARN string
	logger   *zap.Logger
}

// NewSNSPublisher creates an SNS-backed event sink using the default AWS
// credential chain.
func NewSNSPublisher(ctx context.Context, topicARN string, logger *zap.Logger) (*SNSPublisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &SNSPublisher{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
		logger:   logger,
	}, nil
}

func (p *SNSPublisher) publish(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal checkout event", zap.Error(err))
		return
	}
	msg := string(data)
	_, err = p.client.Publish(context.Background(), &sns.PublishInput{
		TopicArn: &p.topicARN,
		Message:  &msg,
	})
	if err != nil {
		p.logger.Error("failed to publish checkout event to SNS",
			zap.String("topic", p.topicARN), zap.Error(err))
	}
}

func (p *SNSPublisher) OnStepChange(newStep, prevStep int) {
	p.publish(StepChangedEvent{EventType: EventStepChanged, FromStep: prevStep, ToStep: newStep, Timestamp: time.Now()})
}

func (p *SNSPublisher) OnStepComplete(step models.CheckoutStep) {
	p.publish(StepCompletedEvent{EventType: EventStepCompleted, Step: string(step.Type), Timestamp: time.Now()})
}

func (p *SNSPublisher) OnValidationError(errors []string) {
	p.publish(ValidationFailedEvent{EventType: EventValidationFailed, Errors: errors, Timestamp: time.Now()})
}

func (p *SNSPublisher) OnCheckoutComplete(order models.Order) {
	p.publish(CheckoutCompletedEvent{
		EventType:   EventCompleted,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Total:       order.Totals.Total,
		Currency:    order.Currency,
		Status:      order.Status,
		Timestamp:   time.Now(),
	})
}

func (p *SNSPublisher) OnCheckoutError(err error) {
	p.publish(CheckoutFailedEvent{EventType: EventFailed, Error: err.Error(), Timestamp: time.Now()})
}
