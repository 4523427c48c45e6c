package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository defines the interface for catalog item persistence
type ItemRepository interface {
	// Create creates a new item
	Create(ctx context.Context, item *Item) error

	// Update updates an existing item
	Update(ctx context.Context, item *Item) error

	// FindByID finds an item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindAll returns all items, optionally restricted to active ones
	FindAll(ctx context.Context, activeOnly bool) ([]*Item, error)

	// FindAvailableToAgent returns active items the agent may print:
	// unassigned items plus items assigned to that agent
	FindAvailableToAgent(ctx context.Context, agentID uuid.UUID) ([]*Item, error)
}
