package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/printshop/backend/internal/domain/shared"
)

// ItemStatus represents the status of a catalog item
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

// Item represents a printable product in the catalog (a flyer, form,
// or other document agents print). It carries an opaque file reference
// rather than the file itself; storage mechanics live outside the core.
type Item struct {
	shared.BaseAggregateRoot
	Name            string
	Category        string
	FileRef         string     // Opaque reference to the printable asset
	AssignedAgentID *uuid.UUID // When set, only this agent prints the item
	Status          ItemStatus
	SortOrder       int
}

// NewItem creates a new catalog item
func NewItem(name, category, fileRef string) (*Item, error) {
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if len(category) > 100 {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}

	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Category:          strings.TrimSpace(category),
		FileRef:           fileRef,
		Status:            ItemStatusActive,
	}

	item.AddDomainEvent(NewItemCreatedEvent(item))

	return item, nil
}

// Update updates the item's basic information
func (i *Item) Update(name, category string) error {
	if err := validateItemName(name); err != nil {
		return err
	}
	if len(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}

	i.Name = strings.TrimSpace(name)
	i.Category = strings.TrimSpace(category)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetFileRef replaces the item's file reference
func (i *Item) SetFileRef(fileRef string) {
	i.FileRef = fileRef
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// AssignAgent restricts the item to a single agent
func (i *Item) AssignAgent(agentID uuid.UUID) error {
	if agentID == uuid.Nil {
		return shared.NewDomainError("INVALID_AGENT", "Agent ID cannot be empty")
	}
	i.AssignedAgentID = &agentID
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// UnassignAgent makes the item available to all agents
func (i *Item) UnassignAgent() {
	i.AssignedAgentID = nil
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// AvailableTo returns true if the given agent may print this item
func (i *Item) AvailableTo(agentID uuid.UUID) bool {
	if i.Status != ItemStatusActive {
		return false
	}
	return i.AssignedAgentID == nil || *i.AssignedAgentID == agentID
}

// Activate marks the item as active
func (i *Item) Activate() {
	i.Status = ItemStatusActive
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Deactivate marks the item as inactive. Inactive items keep their
// history but cannot be referenced by new print events.
func (i *Item) Deactivate() {
	i.Status = ItemStatusInactive
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// IsActive returns true if the item is active
func (i *Item) IsActive() bool {
	return i.Status == ItemStatusActive
}

func validateItemName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 200 characters")
	}
	return nil
}
