package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/printshop/backend/internal/domain/usage"
)

// DebtStatus represents the status of a debt
type DebtStatus string

const (
	DebtStatusPending             DebtStatus = "pending"              // Owed, no proof submitted
	DebtStatusPendingVerification DebtStatus = "pending_verification" // Proof submitted, awaiting admin review
	DebtStatusPaid                DebtStatus = "paid"                 // Verified paid
	DebtStatusRejected            DebtStatus = "rejected"             // Proof rejected by admin
)

// IsValid checks if the status is a valid DebtStatus
func (s DebtStatus) IsValid() bool {
	switch s {
	case DebtStatusPending, DebtStatusPendingVerification, DebtStatusPaid, DebtStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of DebtStatus
func (s DebtStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the debt is in a terminal state
func (s DebtStatus) IsTerminal() bool {
	return s == DebtStatusPaid || s == DebtStatusRejected
}

// CanApplyPayment returns true if payments can be applied in this status
func (s DebtStatus) CanApplyPayment() bool {
	return s == DebtStatusPending
}

// PaymentProof holds the proof details an agent submits for review
type PaymentProof struct {
	Method      string    // e.g. "transfer", "mobile_payment", "cash"
	Reference   string    // Bank reference or receipt number
	ProofRef    string    // Opaque reference to the uploaded proof
	SubmittedAt time.Time
}

// Debt tracks money an agent owes for printing beyond the configured
// limits. At most one pending debt exists per agent, period type, and
// period instance; while pending, re-assessment of the same period
// replaces the amount rather than accumulating it.
type Debt struct {
	shared.BaseAggregateRoot
	AgentID      uuid.UUID
	PeriodType   usage.PeriodType
	PeriodStart  time.Time // Day start for daily, Monday 00:00 for weekly
	OveragePages int
	AmountOwed   decimal.Decimal
	ItemID       *uuid.UUID // Catalog item that triggered the overage, if any
	PrintEventID *uuid.UUID // Event that last (re)assessed this debt
	Status       DebtStatus
	Proof        *PaymentProof
	ReviewedBy   *string
	ReviewedAt   *time.Time
	PaidAt       *time.Time
}

// NewDebt creates a new pending debt for an overage assessment
func NewDebt(agentID uuid.UUID, periodType usage.PeriodType, periodStart time.Time, overagePages int, amount valueobject.Money) (*Debt, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}
	if overagePages <= 0 {
		return nil, shared.NewDomainError("INVALID_OVERAGE", "Overage pages must be positive")
	}

	debt := &Debt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AgentID:           agentID,
		PeriodType:        periodType,
		PeriodStart:       periodStart,
		OveragePages:      overagePages,
		AmountOwed:        amount.Amount(),
		Status:            DebtStatusPending,
	}

	debt.AddDomainEvent(NewDebtCreatedEvent(debt))

	return debt, nil
}

// ReplaceAssessment replaces the debt's overage and amount with a fresh
// assessment of the same period. Only pending debts can be reassessed.
func (d *Debt) ReplaceAssessment(overagePages int, amount valueobject.Money, printEventID uuid.UUID) error {
	if d.Status != DebtStatusPending {
		return shared.ErrInvalidState
	}
	if !amount.IsPositive() {
		return shared.ErrInvalidAmount
	}

	d.OveragePages = overagePages
	d.AmountOwed = amount.Amount()
	d.PrintEventID = &printEventID
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDebtReassessedEvent(d))

	return nil
}

// SubmitProof attaches payment proof and moves the debt to
// pending_verification. Submitting again while already under
// verification overwrites the proof; the latest submission wins.
func (d *Debt) SubmitProof(method, reference, proofRef string) error {
	if d.Status != DebtStatusPending && d.Status != DebtStatusPendingVerification {
		return shared.ErrInvalidState
	}

	now := time.Now()
	d.Proof = &PaymentProof{
		Method:      method,
		Reference:   reference,
		ProofRef:    proofRef,
		SubmittedAt: now,
	}
	d.Status = DebtStatusPendingVerification
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDebtProofSubmittedEvent(d))

	return nil
}

// Approve confirms the submitted proof and marks the debt paid
func (d *Debt) Approve(reviewedBy string) error {
	if d.Status != DebtStatusPendingVerification {
		return shared.ErrInvalidState
	}

	now := time.Now()
	d.Status = DebtStatusPaid
	d.ReviewedBy = &reviewedBy
	d.ReviewedAt = &now
	d.PaidAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDebtApprovedEvent(d, reviewedBy))

	return nil
}

// Reject declines the submitted proof. A rejected debt is terminal:
// later overage in the same period opens a fresh debt instead.
func (d *Debt) Reject(reviewedBy string) error {
	if d.Status != DebtStatusPendingVerification {
		return shared.ErrInvalidState
	}

	now := time.Now()
	d.Status = DebtStatusRejected
	d.ReviewedBy = &reviewedBy
	d.ReviewedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDebtRejectedEvent(d, reviewedBy))

	return nil
}

// ApplyPayment applies up to amount against the debt and returns the
// portion actually consumed. A full cover marks the debt paid; a
// partial cover reduces the amount owed and leaves it pending.
func (d *Debt) ApplyPayment(amount valueobject.Money, paymentID uuid.UUID) (valueobject.Money, error) {
	if !d.Status.CanApplyPayment() {
		return valueobject.ZeroUSD(), shared.ErrInvalidState
	}
	if !amount.IsPositive() {
		return valueobject.ZeroUSD(), shared.ErrInvalidAmount
	}

	owed := valueobject.NewMoneyUSD(d.AmountOwed)
	now := time.Now()

	covered, err := amount.GreaterThanOrEqual(owed)
	if err != nil {
		return valueobject.ZeroUSD(), err
	}

	if covered {
		d.AmountOwed = decimal.Zero
		d.Status = DebtStatusPaid
		d.PaidAt = &now
		d.UpdatedAt = now
		d.IncrementVersion()
		d.AddDomainEvent(NewDebtPaidEvent(d, paymentID))
		return owed, nil
	}

	remaining := owed.MustSubtract(amount)
	d.AmountOwed = remaining.Amount()
	d.UpdatedAt = now
	d.IncrementVersion()
	d.AddDomainEvent(NewDebtPartiallyPaidEvent(d, paymentID, amount))
	return amount, nil
}

// AmountOwedMoney returns the amount owed as a Money value object
func (d *Debt) AmountOwedMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(d.AmountOwed)
}

// IsPending returns true if the debt has no proof submitted yet
func (d *Debt) IsPending() bool {
	return d.Status == DebtStatusPending
}

// IsOutstanding returns true if the debt still requires action from
// the agent or the admin
func (d *Debt) IsOutstanding() bool {
	return !d.Status.IsTerminal()
}
