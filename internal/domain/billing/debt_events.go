package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/printshop/backend/internal/domain/usage"
)

// Aggregate type constant for Debt
const AggregateTypeDebt = "Debt"

// Debt domain event types
const (
	EventTypeDebtCreated        = "DebtCreated"
	EventTypeDebtReassessed     = "DebtReassessed"
	EventTypeDebtProofSubmitted = "DebtProofSubmitted"
	EventTypeDebtApproved       = "DebtApproved"
	EventTypeDebtRejected       = "DebtRejected"
	EventTypeDebtPaid           = "DebtPaid"
	EventTypeDebtPartiallyPaid  = "DebtPartiallyPaid"
)

// DebtCreatedEvent is published when a pending debt is opened
type DebtCreatedEvent struct {
	shared.BaseDomainEvent
	AgentID    uuid.UUID        `json:"agent_id"`
	PeriodType usage.PeriodType `json:"period_type"`
	Amount     decimal.Decimal  `json:"amount"`
}

// NewDebtCreatedEvent creates a new DebtCreatedEvent
func NewDebtCreatedEvent(debt *Debt) *DebtCreatedEvent {
	return &DebtCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtCreated, AggregateTypeDebt, debt.ID),
		AgentID:         debt.AgentID,
		PeriodType:      debt.PeriodType,
		Amount:          debt.AmountOwed,
	}
}

// DebtReassessedEvent is published when a pending debt's amount is
// replaced by a fresh assessment of the same period
type DebtReassessedEvent struct {
	shared.BaseDomainEvent
	AgentID uuid.UUID       `json:"agent_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewDebtReassessedEvent creates a new DebtReassessedEvent
func NewDebtReassessedEvent(debt *Debt) *DebtReassessedEvent {
	return &DebtReassessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtReassessed, AggregateTypeDebt, debt.ID),
		AgentID:         debt.AgentID,
		Amount:          debt.AmountOwed,
	}
}

// DebtProofSubmittedEvent is published when an agent submits payment proof
type DebtProofSubmittedEvent struct {
	shared.BaseDomainEvent
	AgentID   uuid.UUID `json:"agent_id"`
	Method    string    `json:"method"`
	Reference string    `json:"reference"`
}

// NewDebtProofSubmittedEvent creates a new DebtProofSubmittedEvent
func NewDebtProofSubmittedEvent(debt *Debt) *DebtProofSubmittedEvent {
	e := &DebtProofSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtProofSubmitted, AggregateTypeDebt, debt.ID),
		AgentID:         debt.AgentID,
	}
	if debt.Proof != nil {
		e.Method = debt.Proof.Method
		e.Reference = debt.Proof.Reference
	}
	return e
}

// DebtApprovedEvent is published when an admin confirms payment proof
type DebtApprovedEvent struct {
	shared.BaseDomainEvent
	AgentID    uuid.UUID       `json:"agent_id"`
	Amount     decimal.Decimal `json:"amount"`
	ReviewedBy string          `json:"reviewed_by"`
}

// NewDebtApprovedEvent creates a new DebtApprovedEvent
func NewDebtApprovedEvent(debt *Debt, reviewedBy string) *DebtApprovedEvent {
	return &DebtApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtApproved, AggregateTypeDebt, debt.ID),
		AgentID:         debt.AgentID,
		Amount:          debt.AmountOwed,
		ReviewedBy:      reviewedBy,
	}
}

// DebtRejectedEvent is published when an admin rejects payment proof
type DebtRejectedEvent struct {
	shared.BaseDomainEvent
	AgentID    uuid.UUID       `json:"agent_id"`
	Amount     decimal.Decimal `json:"amount"`
	ReviewedBy string          `json:"reviewed_by"`
}

// NewDebtRejectedEvent creates a new DebtRejectedEvent
func NewDebtRejectedEvent(debt *Debt, reviewedBy string) *DebtRejectedEvent {
	return &DebtRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtRejected, AggregateTypeDebt, debt.ID),
		AgentID:         debt.AgentID,
		Amount:          debt.AmountOwed,
		ReviewedBy:      reviewedBy,
	}
}

// DebtPaidEvent is published when a payment fully covers a debt
type DebtPaidEvent struct {
	shared.BaseDomainEvent
	AgentID   uuid.UUID `json:"agent_id"`
	PaymentID uuid.UUID `json:"payment_id"`
}

// NewDebtPaidEvent creates a new DebtPaidEvent
func NewDebtPaidEvent(debt *Debt, paymentID uuid.UUID) *DebtPaidEvent {
	return &DebtPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtPaid, AggregateTypeDebt, debt.ID),
		AgentID:         debt.AgentID,
		PaymentID:       paymentID,
	}
}

// DebtPartiallyPaidEvent is published when a payment covers part of a debt
type DebtPartiallyPaidEvent struct {
	shared.BaseDomainEvent
	AgentID   uuid.UUID       `json:"agent_id"`
	PaymentID uuid.UUID       `json:"payment_id"`
	Applied   decimal.Decimal `json:"applied"`
	Remaining decimal.Decimal `json:"remaining"`
}

// NewDebtPartiallyPaidEvent creates a new DebtPartiallyPaidEvent
func NewDebtPartiallyPaidEvent(debt *Debt, paymentID uuid.UUID, applied valueobject.Money) *DebtPartiallyPaidEvent {
	return &DebtPartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtPartiallyPaid, AggregateTypeDebt, debt.ID),
		AgentID:         debt.AgentID,
		PaymentID:       paymentID,
		Applied:         applied.Amount(),
		Remaining:       debt.AmountOwed,
	}
}
