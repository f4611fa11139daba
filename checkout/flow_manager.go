package checkout

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/madebyaris/woo-headless-sub002/database"
	apperrors "github.com/madebyaris/woo-headless-sub002/errors"
	"github.com/madebyaris/woo-headless-sub002/models"
	"github.com/madebyaris/woo-headless-sub002/orders"
)

// StepValidator reduces the domain checks for a step (or the full pass at
// completion) to one aggregate verdict.
type StepValidator interface {
	ValidateStep(ctx context.Context, session models.CheckoutSession, cart models.Cart, step models.StepType) (*models.AggregateValidationResult, error)
	ValidateAll(ctx context.Context, session models.CheckoutSession, cart models.Cart) (*models.AggregateValidationResult, error)
}

// OrderCreator assembles the final order once the flow completes.
type OrderCreator interface {
	CreateOrder(ctx context.Context, session models.CheckoutSession, cart models.Cart) (*orders.AssemblyResult, error)
}

// FlowManager drives one checkout attempt through its steps. Step indices
// run 1..N with N+1 as the terminal "completed" state. A FlowManager owns
// its session exclusively and is not safe for concurrent use; callers must
// serialize access (single-writer discipline).
type FlowManager struct {
	validator  StepValidator
	assembler  OrderCreator
	store      database.SessionStore
	listeners  *ListenerGroup
	sessionTTL time.Duration
	logger     *zap.Logger

	steps []models.CheckoutStep
	state *models.FlowState
}

// NewFlowManager creates a flow manager. store may be nil to disable session
// snapshot persistence.
func NewFlowManager(validator StepValidator, assembler OrderCreator, store database.SessionStore, sessionTTL time.Duration, logger *zap.Logger) *FlowManager {
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	return &FlowManager{
		validator:  validator,
		assembler:  assembler,
		store:      store,
		listeners:  &ListenerGroup{},
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// AddListener registers a flow event listener.
func (m *FlowManager) AddListener(l CheckoutListener) {
	m.listeners.Add(l)
}

// Initialize starts a new checkout for the cart, resetting state to step 1.
func (m *FlowManager) Initialize(ctx context.Context, cart models.Cart, isGuest bool) (*models.FlowState, error) {
	if cart.IsEmpty() {
		return nil, apperrors.NewValidationError("cart", "empty", "cannot start checkout with an empty cart")
	}
	for _, item := range cart.Items {
		if item.Quantity < 0 {
			return nil, apperrors.NewValidationError("cart", "malformed", fmt.Sprintf("item %s has a negative quantity", item.ProductID))
		}
	}

	m.steps = BuildSteps(cart)
	session := models.NewCheckoutSession(cart, isGuest, m.sessionTTL)
	m.state = &models.FlowState{
		CurrentStep:    1,
		TotalSteps:     len(m.steps),
		CompletedSteps: make(map[int]bool),
		Session:        session,
	}

	m.logger.Info("checkout initialized",
		zap.String("session_id", session.ID),
		zap.Int("steps", len(m.steps)),
		zap.Bool("guest", isGuest),
	)
	m.persistSnapshot(ctx)
	return m.State(), nil
}

// Next validates the current step and advances on success. When the new
// index would pass the last step, it completes the checkout instead.
func (m *FlowManager) Next(ctx context.Context, cart models.Cart) (*models.TransitionResult, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}

	cur := m.state.CurrentStep
	verdict, err := m.validator.ValidateStep(ctx, m.state.Session, cart, m.steps[cur-1].Type)
	if err != nil {
		wrapped := fmt.Errorf("checkout step validation failed: %w", err)
		m.listeners.OnCheckoutError(wrapped)
		return nil, wrapped
	}
	m.applyVerdict(cur, verdict)

	if !verdict.CanProceed {
		m.state.CanProceed = false
		m.listeners.OnValidationError(verdict.CriticalErrors)
		return &models.TransitionResult{
			Success:      false,
			PreviousStep: cur,
			NewStep:      cur,
			Errors:       verdict.CriticalErrors,
			Blockers:     verdict.Blockers,
		}, nil
	}

	m.markCompleted(cur)

	newStep := cur + 1
	if newStep > m.state.TotalSteps {
		return m.Complete(ctx, cart)
	}

	m.state.CurrentStep = newStep
	m.state.CanGoBack = true
	m.state.CanProceed = false
	m.listeners.OnStepChange(newStep, cur)
	m.persistSnapshot(ctx)

	return &models.TransitionResult{
		Success:      true,
		PreviousStep: cur,
		NewStep:      newStep,
	}, nil
}

// Previous steps back one step. It fails from step 1 or when back-navigation
// is disabled. The departed step's completion is revoked since downstream
// validity is no longer asserted.
func (m *FlowManager) Previous(ctx context.Context) (*models.TransitionResult, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}

	cur := m.state.CurrentStep
	if cur <= 1 || !m.state.CanGoBack {
		return nil, apperrors.NewValidationError("step", "at_first_step", "cannot navigate back from the first step")
	}

	newStep := cur - 1
	m.unmarkCompleted(newStep)
	m.state.CurrentStep = newStep
	m.state.CanGoBack = newStep > 1
	m.state.CanProceed = false
	m.listeners.OnStepChange(newStep, cur)
	m.persistSnapshot(ctx)

	return &models.TransitionResult{
		Success:      true,
		PreviousStep: cur,
		NewStep:      newStep,
	}, nil
}

// GoTo jumps to an arbitrary step. Forward jumps validate every step in
// [current, target) in order; the first failing step blocks the jump and is
// reported, with no index change. Backward jumps never re-validate but prune
// completion for steps at or after the target.
func (m *FlowManager) GoTo(ctx context.Context, target int, cart models.Cart) (*models.TransitionResult, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}

	cur := m.state.CurrentStep
	if target < 1 || target > m.state.TotalSteps {
		return nil, apperrors.NewValidationError("step", "out_of_range",
			fmt.Sprintf("step %d is out of range [1, %d]", target, m.state.TotalSteps))
	}
	if target == cur {
		return &models.TransitionResult{Success: true, PreviousStep: cur, NewStep: cur}, nil
	}

	if target > cur {
		for i := cur; i < target; i++ {
			verdict, err := m.validator.ValidateStep(ctx, m.state.Session, cart, m.steps[i-1].Type)
			if err != nil {
				wrapped := fmt.Errorf("checkout step validation failed: %w", err)
				m.listeners.OnCheckoutError(wrapped)
				return nil, wrapped
			}
			m.applyVerdict(i, verdict)
			if !verdict.CanProceed {
				m.listeners.OnValidationError(verdict.CriticalErrors)
				return &models.TransitionResult{
					Success:      false,
					PreviousStep: cur,
					NewStep:      cur,
					BlockingStep: i,
					Errors:       verdict.CriticalErrors,
					Blockers:     verdict.Blockers,
				}, nil
			}
		}
		for i := cur; i < target; i++ {
			m.markCompleted(i)
		}
	} else {
		for idx := range m.state.CompletedSteps {
			if idx >= target {
				m.unmarkCompleted(idx)
			}
		}
	}

	m.state.CurrentStep = target
	m.state.CanGoBack = target > 1
	m.state.CanProceed = false
	m.listeners.OnStepChange(target, cur)
	m.persistSnapshot(ctx)

	return &models.TransitionResult{Success: true, PreviousStep: cur, NewStep: target}, nil
}

// Update merges a partial session patch and re-validates only the current
// step. The patch is all-or-nothing: a patch whose embedded validation fails
// is rejected with no field updates visible, and an infrastructure failure
// during re-validation leaves the pre-mutation state active.
func (m *FlowManager) Update(ctx context.Context, patch models.SessionPatch, cart models.Cart) (*models.FlowState, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}

	applied, err := models.ApplySessionPatch(m.state.Session, patch)
	if err != nil {
		return nil, err
	}

	cur := m.state.CurrentStep
	verdict, verr := m.validator.ValidateStep(ctx, applied, cart, m.steps[cur-1].Type)
	if verr != nil {
		wrapped := fmt.Errorf("checkout update validation failed: %w", verr)
		m.listeners.OnCheckoutError(wrapped)
		return nil, wrapped
	}

	m.state.Session = applied
	m.state.CanProceed = verdict.CanProceed
	m.applyVerdict(cur, verdict)
	if !verdict.CanProceed {
		m.listeners.OnValidationError(verdict.CriticalErrors)
	}
	m.persistSnapshot(ctx)
	return m.State(), nil
}

// Complete runs the full validation pass and delegates to the order
// assembler. On a blocked verdict no order is created. Assembly failures are
// wrapped, routed to the failure callback, and leave the pre-mutation state
// active.
func (m *FlowManager) Complete(ctx context.Context, cart models.Cart) (*models.TransitionResult, error) {
	if err := m.ensureActive(); err != nil {
		return nil, err
	}

	cur := m.state.CurrentStep
	verdict, err := m.validator.ValidateAll(ctx, m.state.Session, cart)
	if err != nil {
		wrapped := fmt.Errorf("checkout completion validation failed: %w", err)
		m.listeners.OnCheckoutError(wrapped)
		return nil, wrapped
	}

	if !verdict.CanProceed {
		m.listeners.OnValidationError(verdict.CriticalErrors)
		return &models.TransitionResult{
			Success:      false,
			PreviousStep: cur,
			NewStep:      cur,
			Errors:       verdict.CriticalErrors,
			Blockers:     verdict.Blockers,
		}, nil
	}

	assembly, err := m.assembler.CreateOrder(ctx, m.state.Session, cart)
	if err != nil {
		wrapped := fmt.Errorf("checkout completion failed: %w", err)
		m.listeners.OnCheckoutError(wrapped)
		return nil, wrapped
	}

	for i := 1; i <= m.state.TotalSteps; i++ {
		m.markCompleted(i)
	}
	m.state.CurrentStep = m.state.TotalSteps + 1
	m.state.CanProceed = false
	m.state.CanGoBack = false
	m.listeners.OnStepChange(m.state.CurrentStep, cur)
	m.listeners.OnCheckoutComplete(*assembly.Order)
	m.persistSnapshot(ctx)

	return &models.TransitionResult{
		Success:      true,
		PreviousStep: cur,
		NewStep:      m.state.CurrentStep,
		Completed:    true,
		Order:        assembly.Order,
		Payment:      assembly.Payment,
		PaymentError: assembly.PaymentError,
	}, nil
}

// Reset discards the current session and clears its persisted snapshot.
func (m *FlowManager) Reset(ctx context.Context) error {
	if m.state != nil && m.store != nil {
		if err := m.store.Clear(ctx, m.state.Session.ID); err != nil {
			m.logger.Warn("session snapshot clear failed",
				zap.String("session_id", m.state.Session.ID), zap.Error(err))
		}
	}
	m.state = nil
	m.steps = nil
	return nil
}

// State returns a copy of the current flow state, or nil before Initialize.
func (m *FlowManager) State() *models.FlowState {
	if m.state == nil {
		return nil
	}
	copied := *m.state
	copied.CompletedSteps = make(map[int]bool, len(m.state.CompletedSteps))
	for k, v := range m.state.CompletedSteps {
		copied.CompletedSteps[k] = v
	}
	return &copied
}

// Steps returns a copy of the step registry.
func (m *FlowManager) Steps() []models.CheckoutStep {
	out := make([]models.CheckoutStep, len(m.steps))
	copy(out, m.steps)
	return out
}

func (m *FlowManager) ensureActive() error {
	if m.state == nil {
		return apperrors.NewValidationError("session", "not_initialized", "checkout has not been initialized")
	}
	if m.state.IsComplete() {
		return apperrors.NewValidationError("session", "completed", "checkout is already complete")
	}
	if m.state.Session.IsExpired(time.Now()) {
		return apperrors.NewValidationError("session", "expired", "checkout session has expired")
	}
	return nil
}

func (m *FlowManager) applyVerdict(step int, verdict *models.AggregateValidationResult) {
	m.steps[step-1].Valid = verdict.IsValid
	m.steps[step-1].Errors = verdict.CriticalErrors
}

func (m *FlowManager) markCompleted(step int) {
	if !m.state.CompletedSteps[step] {
		m.state.CompletedSteps[step] = true
		m.steps[step-1].Completed = true
		m.listeners.OnStepComplete(m.steps[step-1])
	}
}

func (m *FlowManager) unmarkCompleted(step int) {
	delete(m.state.CompletedSteps, step)
	m.steps[step-1].Completed = false
}

// persistSnapshot stores the flow state best-effort; persistence failures
// never block the primary result.
func (m *FlowManager) persistSnapshot(ctx context.Context) {
	if m.store == nil || m.state == nil {
		return
	}
	if err := m.store.Persist(ctx, m.state.Session.ID, *m.state); err != nil {
		m.logger.Warn("session snapshot persistence failed",
			zap.String("session_id", m.state.Session.ID), zap.Error(err))
	}
}
