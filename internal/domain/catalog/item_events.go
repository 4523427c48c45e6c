package catalog

import (
	"github.com/printshop/backend/internal/domain/shared"
)

// Aggregate type constant for Item
const AggregateTypeItem = "CatalogItem"

// Item domain event types
const (
	EventTypeItemCreated = "CatalogItemCreated"
)

// ItemCreatedEvent is published when a catalog item is created
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Category string `json:"category"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, item.ID),
		Name:            item.Name,
		Category:        item.Category,
	}
}
