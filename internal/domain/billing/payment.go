package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // Received, not yet allocated
	PaymentStatusCompleted PaymentStatus = "completed" // Allocated against debts
)

// Payment records money an agent sent to settle debts. Allocation
// spreads the amount over the agent's pending debts oldest first.
type Payment struct {
	shared.BaseAggregateRoot
	AgentID   uuid.UUID
	Amount    decimal.Decimal
	Method    string
	Reference string
	ProofRef  string
	Status    PaymentStatus

	// Allocation outcome, filled once completed
	Allocated   decimal.Decimal
	Unallocated decimal.Decimal
	CompletedAt *time.Time
}

// NewPayment creates a new pending payment
func NewPayment(agentID uuid.UUID, amount valueobject.Money, method, reference string) (*Payment, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AgentID:           agentID,
		Amount:            amount.Amount(),
		Method:            method,
		Reference:         reference,
		Status:            PaymentStatusPending,
		Allocated:         decimal.Zero,
		Unallocated:       decimal.Zero,
	}, nil
}

// Complete records the allocation outcome and marks the payment done
func (p *Payment) Complete(allocated, unallocated valueobject.Money) error {
	if p.Status != PaymentStatusPending {
		return shared.ErrInvalidState
	}

	now := time.Now()
	p.Allocated = allocated.Amount()
	p.Unallocated = unallocated.Amount()
	p.Status = PaymentStatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// AmountMoney returns the payment amount as a Money value object
func (p *Payment) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Amount)
}
