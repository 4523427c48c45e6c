package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
)

// GormSettingRepository implements billing.SettingRepository using GORM.
// The settings table is append-only: every change inserts a new row and
// the latest row per key wins.
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Append stores a new setting entry
func (r *GormSettingRepository) Append(ctx context.Context, setting *billing.Setting) error {
	model := models.SettingModelFromDomain(setting)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindLatest returns the most recent entry for a key, or
// shared.ErrNotFound if the key was never written
func (r *GormSettingRepository) FindLatest(ctx context.Context, key string) (*billing.Setting, error) {
	var model models.SettingModel
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindHistory returns all entries for a key, newest first
func (r *GormSettingRepository) FindHistory(ctx context.Context, key string) ([]*billing.Setting, error) {
	var settingModels []models.SettingModel
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		Order("created_at DESC").
		Find(&settingModels).Error
	if err != nil {
		return nil, err
	}

	settings := make([]*billing.Setting, len(settingModels))
	for i := range settingModels {
		settings[i] = settingModels[i].ToDomain()
	}
	return settings, nil
}

var _ billing.SettingRepository = (*GormSettingRepository)(nil)
