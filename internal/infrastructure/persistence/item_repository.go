package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Create creates a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing item with optimistic locking
func (r *GormItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Omit("id", "created_at").
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an item by ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all items, optionally restricted to active ones
func (r *GormItemRepository) FindAll(ctx context.Context, activeOnly bool) ([]*catalog.Item, error) {
	query := r.db.WithContext(ctx).Model(&models.ItemModel{})
	if activeOnly {
		query = query.Where("status = ?", catalog.ItemStatusActive)
	}

	var itemModels []models.ItemModel
	if err := query.Order("sort_order ASC, name ASC").Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return itemModelsToDomain(itemModels), nil
}

// FindAvailableToAgent returns active items the agent may print:
// unassigned items plus items assigned to that agent
func (r *GormItemRepository) FindAvailableToAgent(ctx context.Context, agentID uuid.UUID) ([]*catalog.Item, error) {
	var itemModels []models.ItemModel
	err := r.db.WithContext(ctx).
		Where("status = ?", catalog.ItemStatusActive).
		Where("assigned_agent_id IS NULL OR assigned_agent_id = ?", agentID).
		Order("sort_order ASC, name ASC").
		Find(&itemModels).Error
	if err != nil {
		return nil, err
	}
	return itemModelsToDomain(itemModels), nil
}

func itemModelsToDomain(itemModels []models.ItemModel) []*catalog.Item {
	items := make([]*catalog.Item, len(itemModels))
	for i := range itemModels {
		items[i] = itemModels[i].ToDomain()
	}
	return items
}

var _ catalog.ItemRepository = (*GormItemRepository)(nil)
