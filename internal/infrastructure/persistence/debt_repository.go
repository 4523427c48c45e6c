package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/usage"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
)

// GormDebtRepository implements billing.DebtRepository using GORM
type GormDebtRepository struct {
	db *gorm.DB
}

// NewGormDebtRepository creates a new GormDebtRepository
func NewGormDebtRepository(db *gorm.DB) *GormDebtRepository {
	return &GormDebtRepository{db: db}
}

// Create stores a new debt
func (r *GormDebtRepository) Create(ctx context.Context, debt *billing.Debt) error {
	model := models.DebtModelFromDomain(debt)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing debt with optimistic locking. The version
// check protects the verification workflow from concurrent admin and
// payment writes.
func (r *GormDebtRepository) Update(ctx context.Context, debt *billing.Debt) error {
	model := models.DebtModelFromDomain(debt)
	result := r.db.WithContext(ctx).
		Model(model).
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

// FindByID finds a debt by ID
func (r *GormDebtRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Debt, error) {
	var model models.DebtModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingForPeriod finds the agent's single pending debt for a
// period instance. Daily debts match on the exact period date; weekly
// debts match any period date on or after the week start, so a debt
// created mid-week is still found later in the same week.
func (r *GormDebtRepository) FindPendingForPeriod(ctx context.Context, agentID uuid.UUID, periodType usage.PeriodType, periodStart time.Time) (*billing.Debt, error) {
	query := r.db.WithContext(ctx).
		Where("agent_id = ? AND period_type = ? AND status = ?",
			agentID, periodType, billing.DebtStatusPending)

	switch periodType {
	case usage.PeriodWeekly:
		query = query.Where("period_start >= ?", usage.WeekStart(periodStart))
	default:
		query = query.Where("period_start = ?", periodStart)
	}

	var model models.DebtModel
	if err := query.Order("period_start ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingByAgent returns the agent's pending debts ordered by
// period date ascending (allocation order)
func (r *GormDebtRepository) FindPendingByAgent(ctx context.Context, agentID uuid.UUID) ([]*billing.Debt, error) {
	var debtModels []models.DebtModel
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND status = ?", agentID, billing.DebtStatusPending).
		Order("period_start ASC, created_at ASC").
		Find(&debtModels).Error
	if err != nil {
		return nil, err
	}
	return debtModelsToDomain(debtModels), nil
}

// FindOutstandingByAgent returns the agent's non-terminal debts,
// period date ascending
func (r *GormDebtRepository) FindOutstandingByAgent(ctx context.Context, agentID uuid.UUID) ([]*billing.Debt, error) {
	var debtModels []models.DebtModel
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND status IN ?", agentID,
			[]billing.DebtStatus{billing.DebtStatusPending, billing.DebtStatusPendingVerification}).
		Order("period_start ASC, created_at ASC").
		Find(&debtModels).Error
	if err != nil {
		return nil, err
	}
	return debtModelsToDomain(debtModels), nil
}

// FindByAgent returns all debts for an agent, newest first
func (r *GormDebtRepository) FindByAgent(ctx context.Context, agentID uuid.UUID) ([]*billing.Debt, error) {
	var debtModels []models.DebtModel
	err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("period_start DESC, created_at DESC").
		Find(&debtModels).Error
	if err != nil {
		return nil, err
	}
	return debtModelsToDomain(debtModels), nil
}

// SummarizeOutstanding returns per-agent outstanding totals for the
// admin overview, largest total first
func (r *GormDebtRepository) SummarizeOutstanding(ctx context.Context) ([]billing.AgentDebtSummary, error) {
	type summaryRow struct {
		AgentID          uuid.UUID
		DebtCount        int
		TotalOutstanding decimal.Decimal
		OldestPeriod     time.Time
	}

	var rows []summaryRow
	err := r.db.WithContext(ctx).
		Model(&models.DebtModel{}).
		Select("agent_id, COUNT(*) AS debt_count, SUM(amount_owed) AS total_outstanding, MIN(period_start) AS oldest_period").
		Where("status IN ?",
			[]billing.DebtStatus{billing.DebtStatusPending, billing.DebtStatusPendingVerification}).
		Group("agent_id").
		Order("total_outstanding DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]billing.AgentDebtSummary, len(rows))
	for i, row := range rows {
		summaries[i] = billing.AgentDebtSummary{
			AgentID:          row.AgentID,
			DebtCount:        row.DebtCount,
			TotalOutstanding: row.TotalOutstanding,
			OldestPeriod:     row.OldestPeriod,
		}
	}
	return summaries, nil
}

func debtModelsToDomain(debtModels []models.DebtModel) []*billing.Debt {
	debts := make([]*billing.Debt, len(debtModels))
	for i := range debtModels {
		debts[i] = debtModels[i].ToDomain()
	}
	return debts
}

var _ billing.DebtRepository = (*GormDebtRepository)(nil)
