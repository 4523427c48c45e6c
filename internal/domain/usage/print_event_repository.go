package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemPageCount is a per-catalog-item page total within a window.
// Events recorded without an item reference are grouped under a nil
// ItemID.
type ItemPageCount struct {
	ItemID *uuid.UUID
	Pages  int
}

// PrintEventRepository defines the interface for print event persistence
type PrintEventRepository interface {
	// Create stores a new print event
	Create(ctx context.Context, event *PrintEvent) error

	// FindByID finds a print event by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PrintEvent, error)

	// FindByAgentInRange returns the agent's events with
	// from <= occurred_at < to, ordered by occurrence
	FindByAgentInRange(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]*PrintEvent, error)

	// SumPagesByAgentInRange returns the agent's total pages with
	// from <= occurred_at < to
	SumPagesByAgentInRange(ctx context.Context, agentID uuid.UUID, from, to time.Time) (int, error)

	// SumPagesByItemInRange returns the agent's page totals grouped
	// by catalog item with from <= occurred_at < to
	SumPagesByItemInRange(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]ItemPageCount, error)

	// FindRecent returns the most recent events across all agents,
	// newest first, capped at limit
	FindRecent(ctx context.Context, limit int) ([]*PrintEvent, error)
}
