package checkout

import (
	"go.uber.org/zap"

	"github.com/madebyaris/woo-headless-sub002/models"
)

// CheckoutListener observes flow events. Implementations must not block; the
// flow invokes them synchronously after each state mutation.
type CheckoutListener interface {
	OnStepChange(newStep, prevStep int)
	OnStepComplete(step models.CheckoutStep)
	OnValidationError(errors []string)
	OnCheckoutComplete(order models.Order)
	OnCheckoutError(err error)
}

// NoopListener is an embeddable no-op base for partial listeners.
type NoopListener struct{}

func (NoopListener) OnStepChange(newStep, prevStep int)         {}
func (NoopListener) OnStepComplete(step models.CheckoutStep)    {}
func (NoopListener) OnValidationError(errors []string)          {}
func (NoopListener) OnCheckoutComplete(order models.Order)      {}
func (NoopListener) OnCheckoutError(err error)                  {}

// ListenerGroup fans out flow events to zero or more listeners. Both "no
// listener attached" and "multiple listeners" are well-defined.
type ListenerGroup struct {
	listeners []CheckoutListener
}

// Add registers a listener.
func (g *ListenerGroup) Add(l CheckoutListener) {
	g.listeners = append(g.listeners, l)
}

func (g *ListenerGroup) OnStepChange(newStep, prevStep int) {
	for _, l := range g.listeners {
		l.OnStepChange(newStep, prevStep)
	}
}

func (g *ListenerGroup) OnStepComplete(step models.CheckoutStep) {
	for _, l := range g.listeners {
		l.OnStepComplete(step)
	}
}

func (g *ListenerGroup) OnValidationError(errors []string) {
	for _, l := range g.listeners {
		l.OnValidationError(errors)
	}
}

func (g *ListenerGroup) OnCheckoutComplete(order models.Order) {
	for _, l := range g.listeners {
		l.OnCheckoutComplete(order)
	}
}

func (g *ListenerGroup) OnCheckoutError(err error) {
	for _, l := range g.listeners {
		l.OnCheckoutError(err)
	}
}

// LoggingListener logs flow events through zap.
type LoggingListener struct {
	Logger *zap.Logger
}

func (l *LoggingListener) OnStepChange(newStep, prevStep int) {
	l.Logger.Info("checkout step changed", zap.Int("from", prevStep), zap.Int("to", newStep))
}

func (l *LoggingListener) OnStepComplete(step models.CheckoutStep) {
	l.Logger.Info("checkout step completed", zap.String("step", string(step.Type)))
}

func (l *LoggingListener) OnValidationError(errors []string) {
	l.Logger.Warn("checkout validation failed", zap.Strings("errors", errors))
}

func (l *LoggingListener) OnCheckoutComplete(order models.Order) {
	l.Logger.Info("checkout completed",
		zap.String("order_id", order.ID),
		zap.String("number", order.Number),
	)
}

func (l *LoggingListener) OnCheckoutError(err error) {
	l.Logger.Error("checkout failed", zap.Error(err))
}

var (
	_ CheckoutListener = (*ListenerGroup)(nil)
	_ CheckoutListener = (*LoggingListener)(nil)
	_ CheckoutListener = NoopListener{}
)
