package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// KafkaPublisher mirrors checkout events onto a Kafka topic. Publishing is
// best-effort; failures are logged and never surface to the flow.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaPublisher creates a Kafka-backed event sink.
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) publish(key string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal checkout event", zap.Error(err))
		return
	}
	err = p.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
	if err != nil {
		p.logger.Error("failed to publish checkout event to kafka", zap.Error(err))
	}
}

func (p *KafkaPublisher) OnStepChange(newStep, prevStep int) {
	p.publish(EventStepChanged, StepChangedEvent{EventType: EventStepChanged, FromStep: prevStep, ToStep: newStep, Timestamp: time.Now()})
}

func (p *KafkaPublisher) OnStepComplete(step models.CheckoutStep) {
	p.publish(EventStepCompleted, StepCompletedEvent{EventType: EventStepCompleted, Step: string(step.Type), Timestamp: time.Now()})
}

func (p *KafkaPublisher) OnValidationError(errors []string) {
	p.publish(EventValidationFailed, ValidationFailedEvent{EventType: EventValidationFailed, Errors: errors, Timestamp: time.Now()})
}

func (p *KafkaPublisher) OnCheckoutComplete(order models.Order) {
	p.publish(order.ID, CheckoutCompletedEvent{
		EventType:   EventCompleted,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Total:       order.Totals.Total,
		Currency:    order.Currency,
		Status:      order.Status,
		Timestamp:   time.Now(),
	})
}

func (p *KafkaPublisher) OnCheckoutError(err error) {
	p.publish(EventFailed, CheckoutFailedEvent{EventType: EventFailed, Error: err.Error(), Timestamp: time.Now()})
}
