package usage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printshop/backend/internal/domain/shared"
)

// PrintEvent records a batch of pages printed by an agent. Events are
// immutable once recorded: corrections happen by recording compensating
// events, never by editing history. The assessed overage snapshot is
// captured at recording time so history reflects the limits then in
// force, not the current ones.
type PrintEvent struct {
	shared.BaseEntity
	AgentID    uuid.UUID
	ItemID     *uuid.UUID // Optional catalog item reference
	Pages      int
	OccurredAt time.Time

	// Assessment snapshot, filled before persisting
	OveragePages int
	ExtraCost    decimal.Decimal
}

// NewPrintEvent creates a new print event for the given agent
func NewPrintEvent(agentID uuid.UUID, pages int, occurredAt time.Time) (*PrintEvent, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent ID cannot be empty")
	}
	if pages <= 0 {
		return nil, shared.NewDomainError("INVALID_PAGES", "Pages must be a positive integer")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &PrintEvent{
		BaseEntity: shared.NewBaseEntity(),
		AgentID:    agentID,
		Pages:      pages,
		OccurredAt: occurredAt,
		ExtraCost:  decimal.Zero,
	}, nil
}

// WithItem associates a catalog item with the event
func (e *PrintEvent) WithItem(itemID uuid.UUID) *PrintEvent {
	e.ItemID = &itemID
	return e
}

// RecordAssessment stores the billed overage snapshot on the event.
// Must be called before the event is persisted.
func (e *PrintEvent) RecordAssessment(overagePages int, extraCost decimal.Decimal) {
	e.OveragePages = overagePages
	e.ExtraCost = extraCost
}
