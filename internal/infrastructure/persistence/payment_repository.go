package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create stores a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing payment with optimistic locking
func (r *GormPaymentRepository) Update(ctx context.Context, payment *billing.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Omit("id", "created_at").
		Where("id = ? AND version = ?", payment.ID, payment.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAgent returns an agent's payments, newest first
func (r *GormPaymentRepository) FindByAgent(ctx context.Context, agentID uuid.UUID) ([]*billing.Payment, error) {
	var paymentModels []models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}
	return paymentModelsToDomain(paymentModels), nil
}

// FindAll returns all payments, newest first, capped at limit
func (r *GormPaymentRepository) FindAll(ctx context.Context, limit int) ([]*billing.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var paymentModels []models.PaymentModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}
	return paymentModelsToDomain(paymentModels), nil
}

func paymentModelsToDomain(paymentModels []models.PaymentModel) []*billing.Payment {
	payments := make([]*billing.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = paymentModels[i].ToDomain()
	}
	return payments
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
