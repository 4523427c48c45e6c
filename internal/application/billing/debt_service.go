package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
)

// DebtService runs the payment verification workflow: agents submit
// proof for a pending debt, admins approve or reject it.
type DebtService struct {
	debtRepo billing.DebtRepository
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewDebtService creates a new DebtService
func NewDebtService(debtRepo billing.DebtRepository, eventBus shared.EventPublisher, logger *zap.Logger) *DebtService {
	return &DebtService{
		debtRepo: debtRepo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// SubmitProofRequest carries an agent's payment proof for one debt
type SubmitProofRequest struct {
	DebtID    uuid.UUID
	AgentID   uuid.UUID
	Method    string
	Reference string
	ProofRef  string
}

// SubmitProof attaches payment proof to a pending debt and moves it to
// pending_verification. Resubmitting replaces the earlier proof.
func (s *DebtService) SubmitProof(ctx context.Context, req SubmitProofRequest) (*billing.Debt, error) {
	debt, err := s.debtRepo.FindByID(ctx, req.DebtID)
	if err != nil {
		return nil, err
	}
	if debt.AgentID != req.AgentID {
		return nil, shared.ErrForbidden
	}

	if err := debt.SubmitProof(req.Method, req.Reference, req.ProofRef); err != nil {
		return nil, err
	}

	if err := s.debtRepo.Update(ctx, debt); err != nil {
		return nil, fmt.Errorf("failed to save proof: %w", err)
	}

	s.publishEvents(ctx, debt)
	return debt, nil
}

// Approve confirms a submitted proof and marks the debt paid
func (s *DebtService) Approve(ctx context.Context, debtID uuid.UUID, reviewedBy string) (*billing.Debt, error) {
	debt, err := s.debtRepo.FindByID(ctx, debtID)
	if err != nil {
		return nil, err
	}

	if err := debt.Approve(reviewedBy); err != nil {
		return nil, err
	}

	if err := s.debtRepo.Update(ctx, debt); err != nil {
		return nil, fmt.Errorf("failed to save approval: %w", err)
	}

	s.logger.Info("Debt approved",
		zap.String("debt_id", debt.ID.String()),
		zap.String("agent_id", debt.AgentID.String()),
		zap.String("reviewed_by", reviewedBy),
	)

	s.publishEvents(ctx, debt)
	return debt, nil
}

// Reject declines a submitted proof. The debt stays owed in its
// terminal rejected state; new overage opens a fresh debt.
func (s *DebtService) Reject(ctx context.Context, debtID uuid.UUID, reviewedBy string) (*billing.Debt, error) {
	debt, err := s.debtRepo.FindByID(ctx, debtID)
	if err != nil {
		return nil, err
	}

	if err := debt.Reject(reviewedBy); err != nil {
		return nil, err
	}

	if err := s.debtRepo.Update(ctx, debt); err != nil {
		return nil, fmt.Errorf("failed to save rejection: %w", err)
	}

	s.logger.Info("Debt rejected",
		zap.String("debt_id", debt.ID.String()),
		zap.String("agent_id", debt.AgentID.String()),
		zap.String("reviewed_by", reviewedBy),
	)

	s.publishEvents(ctx, debt)
	return debt, nil
}

// GetDebt returns one debt, restricted to its owner unless the caller
// is an admin
func (s *DebtService) GetDebt(ctx context.Context, debtID, callerID uuid.UUID, isAdmin bool) (*billing.Debt, error) {
	debt, err := s.debtRepo.FindByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && debt.AgentID != callerID {
		return nil, shared.ErrForbidden
	}
	return debt, nil
}

// ListOutstanding returns an agent's unpaid debts, oldest period first
func (s *DebtService) ListOutstanding(ctx context.Context, agentID uuid.UUID) ([]*billing.Debt, error) {
	return s.debtRepo.FindOutstandingByAgent(ctx, agentID)
}

// ListByAgent returns an agent's full debt history, newest first
func (s *DebtService) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]*billing.Debt, error) {
	return s.debtRepo.FindByAgent(ctx, agentID)
}

// SummarizeOutstanding returns per-agent outstanding totals for the
// admin overview
func (s *DebtService) SummarizeOutstanding(ctx context.Context) ([]billing.AgentDebtSummary, error) {
	return s.debtRepo.SummarizeOutstanding(ctx)
}

// publishEvents drains the aggregate's pending events onto the bus.
// Publication is best effort; subscribers handle their own errors.
func (s *DebtService) publishEvents(ctx context.Context, debt *billing.Debt) {
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
