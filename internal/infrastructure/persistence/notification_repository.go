package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/notification"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
)

// GormNotificationRepository implements notification.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create stores a new notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing notification
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	return r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Omit("id", "created_at").
		Where("id = ?", n.ID).
		Updates(model).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAgent returns an agent's notifications, newest first
func (r *GormNotificationRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, unreadOnly bool) ([]*notification.Notification, error) {
	query := r.db.WithContext(ctx).Where("agent_id = ?", agentID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notificationModels []models.NotificationModel
	if err := query.Order("created_at DESC").Find(&notificationModels).Error; err != nil {
		return nil, err
	}

	notifications := make([]*notification.Notification, len(notificationModels))
	for i := range notificationModels {
		notifications[i] = notificationModels[i].ToDomain()
	}
	return notifications, nil
}

// CountUnread returns the agent's unread notification count
func (r *GormNotificationRepository) CountUnread(ctx context.Context, agentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("agent_id = ? AND read = ?", agentID, false).
		Count(&count).Error
	return count, err
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)
