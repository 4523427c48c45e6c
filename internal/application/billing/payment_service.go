package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
)

// PaymentService records direct payments and spreads them over the
// agent's pending debts, oldest period first.
type PaymentService struct {
	paymentRepo billing.PaymentRepository
	debtRepo    billing.DebtRepository
	store       billing.AllocationStore
	eventBus    shared.EventPublisher
	locks       *shared.KeyedMutex
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo billing.PaymentRepository,
	debtRepo billing.DebtRepository,
	store billing.AllocationStore,
	eventBus shared.EventPublisher,
	locks *shared.KeyedMutex,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		debtRepo:    debtRepo,
		store:       store,
		eventBus:    eventBus,
		locks:       locks,
		logger:      logger,
	}
}

// RecordPaymentRequest carries a payment to allocate
type RecordPaymentRequest struct {
	AgentID   uuid.UUID
	Amount    decimal.Decimal
	Method    string
	Reference string
	ProofRef  string
}

// RecordPaymentResult reports how the payment was spread
type RecordPaymentResult struct {
	PaymentID   uuid.UUID                `json:"payment_id"`
	Allocated   decimal.Decimal          `json:"allocated"`
	Unallocated decimal.Decimal          `json:"unallocated"`
	Allocations []billing.DebtAllocation `json:"allocations"`
}

// RecordPayment allocates a payment against the agent's pending debts
// in period order. A remainder beyond all open debts is surfaced in the
// result but not credited. A non-positive amount is a silent no-op:
// nothing is persisted and an empty allocation result comes back.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	amount := valueobject.NewMoneyUSD(req.Amount)

	if !amount.IsPositive() {
		s.logger.Warn("Ignoring non-positive payment amount",
			zap.String("agent_id", req.AgentID.String()),
			zap.String("amount", req.Amount.String()),
		)
		return &RecordPaymentResult{
			Allocated:   decimal.Zero,
			Unallocated: decimal.Zero,
			Allocations: nil,
		}, nil
	}

	payment, err := billing.NewPayment(req.AgentID, amount, req.Method, req.Reference)
	if err != nil {
		return nil, err
	}
	payment.ProofRef = req.ProofRef

	// Serialize per agent so concurrent payments cannot allocate
	// against the same debt snapshot.
	key := req.AgentID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	debts, err := s.debtRepo.FindPendingByAgent(ctx, req.AgentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending debts: %w", err)
	}

	allocation, err := billing.Allocate(payment, debts)
	if err != nil {
		return nil, err
	}

	if err := payment.Complete(allocation.Allocated, allocation.Unallocated); err != nil {
		return nil, err
	}

	touched := make([]*billing.Debt, 0, len(allocation.Allocations))
	touchedIDs := make(map[uuid.UUID]struct{}, len(allocation.Allocations))
	for _, a := range allocation.Allocations {
		touchedIDs[a.DebtID] = struct{}{}
	}
	for _, d := range debts {
		if _, ok := touchedIDs[d.ID]; ok {
			touched = append(touched, d)
		}
	}

	if err := s.store.SaveAllocation(ctx, payment, touched); err != nil {
		return nil, fmt.Errorf("failed to save allocation: %w", err)
	}

	if !allocation.Unallocated.IsZero() {
		s.logger.Warn("Payment exceeds outstanding debt, remainder discarded",
			zap.String("agent_id", req.AgentID.String()),
			zap.String("payment_id", payment.ID.String()),
			zap.String("unallocated", allocation.Unallocated.String()),
		)
	}

	for _, d := range touched {
		s.publishEvents(ctx, d)
	}

	s.logger.Info("Payment recorded",
		zap.String("agent_id", req.AgentID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("allocated", allocation.Allocated.String()),
		zap.Int("debts_touched", len(touched)),
	)

	return &RecordPaymentResult{
		PaymentID:   payment.ID,
		Allocated:   allocation.Allocated.Amount(),
		Unallocated: allocation.Unallocated.Amount(),
		Allocations: allocation.Allocations,
	}, nil
}

// GetPayment returns one payment, restricted to its owner unless the
// caller is an admin
func (s *PaymentService) GetPayment(ctx context.Context, paymentID, callerID uuid.UUID, isAdmin bool) (*billing.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && payment.AgentID != callerID {
		return nil, shared.ErrForbidden
	}
	return payment, nil
}

// ListByAgent returns an agent's payments, newest first
func (s *PaymentService) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]*billing.Payment, error) {
	return s.paymentRepo.FindByAgent(ctx, agentID)
}

// ListAll returns recent payments across all agents for the admin view
func (s *PaymentService) ListAll(ctx context.Context, limit int) ([]*billing.Payment, error) {
	return s.paymentRepo.FindAll(ctx, limit)
}

func (s *PaymentService) publishEvents(ctx context.Context, debt *billing.Debt) {
	events := debt.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish debt events",
			zap.String("debt_id", debt.ID.String()),
			zap.Error(err),
		)
	}
	debt.ClearDomainEvents()
}
