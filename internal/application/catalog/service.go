package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/catalog"
)

// ItemService manages the catalog of printable items
type ItemService struct {
	itemRepo catalog.ItemRepository
	logger   *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo catalog.ItemRepository, logger *zap.Logger) *ItemService {
	return &ItemService{itemRepo: itemRepo, logger: logger}
}

// CreateItemRequest carries a new catalog item
type CreateItemRequest struct {
	Name            string
	Category        string
	FileRef         string
	AssignedAgentID *uuid.UUID
	SortOrder       int
}

// CreateItem adds a new printable item to the catalog
func (s *ItemService) CreateItem(ctx context.Context, req CreateItemRequest) (*catalog.Item, error) {
	item, err := catalog.NewItem(req.Name, req.Category, req.FileRef)
	if err != nil {
		return nil, err
	}
	item.SortOrder = req.SortOrder
	if req.AssignedAgentID != nil {
		if err := item.AssignAgent(*req.AssignedAgentID); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("Catalog item created",
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name),
	)

	return item, nil
}

// UpdateItemRequest carries a partial item change. Nil fields are left
// untouched.
type UpdateItemRequest struct {
	Name      *string
	Category  *string
	FileRef   *string
	SortOrder *int
}

// UpdateItem applies a partial change to an item
func (s *ItemService) UpdateItem(ctx context.Context, itemID uuid.UUID, req UpdateItemRequest) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	name, category := item.Name, item.Category
	if req.Name != nil {
		name = *req.Name
	}
	if req.Category != nil {
		category = *req.Category
	}
	if err := item.Update(name, category); err != nil {
		return nil, err
	}
	if req.FileRef != nil {
		item.SetFileRef(*req.FileRef)
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

// AssignAgent restricts an item to one agent; a nil agent clears the
// restriction
func (s *ItemService) AssignAgent(ctx context.Context, itemID uuid.UUID, agentID *uuid.UUID) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if agentID != nil {
		if err := item.AssignAgent(*agentID); err != nil {
			return nil, err
		}
	} else {
		item.UnassignAgent()
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

// SetActive activates or deactivates an item
func (s *ItemService) SetActive(ctx context.Context, itemID uuid.UUID, active bool) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if active {
		item.Activate()
	} else {
		item.Deactivate()
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

// GetItem returns one item by id
func (s *ItemService) GetItem(ctx context.Context, itemID uuid.UUID) (*catalog.Item, error) {
	return s.itemRepo.FindByID(ctx, itemID)
}

// ListItems returns the catalog, optionally restricted to active items
func (s *ItemService) ListItems(ctx context.Context, activeOnly bool) ([]*catalog.Item, error) {
	return s.itemRepo.FindAll(ctx, activeOnly)
}

// ListAvailable returns the active items an agent may print
func (s *ItemService) ListAvailable(ctx context.Context, agentID uuid.UUID) ([]*catalog.Item, error) {
	return s.itemRepo.FindAvailableToAgent(ctx, agentID)
}
