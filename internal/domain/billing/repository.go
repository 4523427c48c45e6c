package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printshop/backend/internal/domain/usage"
)

// DebtRepository defines the interface for debt persistence
type DebtRepository interface {
	// Create stores a new debt
	Create(ctx context.Context, debt *Debt) error

	// Update updates an existing debt with optimistic locking
	Update(ctx context.Context, debt *Debt) error

	// FindByID finds a debt by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Debt, error)

	// FindPendingForPeriod finds the agent's single pending debt for a
	// period instance: exact period date for daily, period date >=
	// week start for weekly. Returns shared.ErrNotFound when absent.
	FindPendingForPeriod(ctx context.Context, agentID uuid.UUID, periodType usage.PeriodType, periodStart time.Time) (*Debt, error)

	// FindPendingByAgent returns the agent's pending debts ordered by
	// period date ascending (allocation order)
	FindPendingByAgent(ctx context.Context, agentID uuid.UUID) ([]*Debt, error)

	// FindOutstandingByAgent returns the agent's non-terminal debts,
	// period date ascending
	FindOutstandingByAgent(ctx context.Context, agentID uuid.UUID) ([]*Debt, error)

	// FindByAgent returns all debts for an agent, newest first
	FindByAgent(ctx context.Context, agentID uuid.UUID) ([]*Debt, error)

	// SummarizeOutstanding returns per-agent outstanding totals for
	// the admin overview
	SummarizeOutstanding(ctx context.Context) ([]AgentDebtSummary, error)
}

// AgentDebtSummary aggregates an agent's outstanding position
type AgentDebtSummary struct {
	AgentID          uuid.UUID
	DebtCount        int
	TotalOutstanding decimal.Decimal
	OldestPeriod     time.Time
}

// AssessmentStore persists a print event together with the debt rows
// it created or reassessed, in one transaction
type AssessmentStore interface {
	SaveAssessment(ctx context.Context, event *usage.PrintEvent, created []*Debt, updated []*Debt) error
}

// AllocationStore persists a completed payment together with every
// debt it touched, in one transaction
type AllocationStore interface {
	SaveAllocation(ctx context.Context, payment *Payment, updated []*Debt) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Create stores a new payment
	Create(ctx context.Context, payment *Payment) error

	// Update updates an existing payment
	Update(ctx context.Context, payment *Payment) error

	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByAgent returns an agent's payments, newest first
	FindByAgent(ctx context.Context, agentID uuid.UUID) ([]*Payment, error)

	// FindAll returns all payments, newest first, capped at limit
	FindAll(ctx context.Context, limit int) ([]*Payment, error)
}
