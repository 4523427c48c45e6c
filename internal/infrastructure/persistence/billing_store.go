package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/usage"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
)

// GormBillingStore bundles the multi-row billing writes that must
// commit or roll back together.
type GormBillingStore struct {
	db *gorm.DB
}

// NewGormBillingStore creates a new GormBillingStore
func NewGormBillingStore(db *gorm.DB) *GormBillingStore {
	return &GormBillingStore{db: db}
}

// SaveAssessment persists a print event together with the debt rows it
// created or reassessed, in one transaction
func (s *GormBillingStore) SaveAssessment(ctx context.Context, event *usage.PrintEvent, created []*billing.Debt, updated []*billing.Debt) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eventModel := models.PrintEventModelFromDomain(event)
		if err := tx.Create(eventModel).Error; err != nil {
			return err
		}

		for _, debt := range created {
			if err := tx.Create(models.DebtModelFromDomain(debt)).Error; err != nil {
				return err
			}
		}

		for _, debt := range updated {
			if err := updateDebtWithLock(tx, debt); err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveAllocation persists a completed payment together with every debt
// it touched, in one transaction
func (s *GormBillingStore) SaveAllocation(ctx context.Context, payment *billing.Payment, updated []*billing.Debt) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.PaymentModelFromDomain(payment)).Error; err != nil {
			return err
		}

		for _, debt := range updated {
			if err := updateDebtWithLock(tx, debt); err != nil {
				return err
			}
		}

		return nil
	})
}

func updateDebtWithLock(tx *gorm.DB, debt *billing.Debt) error {
	model := models.DebtModelFromDomain(debt)
	result := tx.Model(model).
		Select("*").
		Omit("id", "created_at").
		Where("id = ? AND version = ?", debt.ID, debt.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var (
	_ billing.AssessmentStore = (*GormBillingStore)(nil)
	_ billing.AllocationStore = (*GormBillingStore)(nil)
)
