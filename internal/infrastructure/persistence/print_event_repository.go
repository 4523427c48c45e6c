package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/usage"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
)

// GormPrintEventRepository implements usage.PrintEventRepository using GORM
type GormPrintEventRepository struct {
	db *gorm.DB
}

// NewGormPrintEventRepository creates a new GormPrintEventRepository
func NewGormPrintEventRepository(db *gorm.DB) *GormPrintEventRepository {
	return &GormPrintEventRepository{db: db}
}

// Create stores a new print event
func (r *GormPrintEventRepository) Create(ctx context.Context, event *usage.PrintEvent) error {
	model := models.PrintEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a print event by ID
func (r *GormPrintEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*usage.PrintEvent, error) {
	var model models.PrintEventModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAgentInRange returns the agent's events with
// from <= occurred_at < to, ordered by occurrence
func (r *GormPrintEventRepository) FindByAgentInRange(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]*usage.PrintEvent, error) {
	var eventModels []models.PrintEventModel
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND occurred_at >= ? AND occurred_at < ?", agentID, from, to).
		Order("occurred_at ASC").
		Find(&eventModels).Error
	if err != nil {
		return nil, err
	}
	return printEventModelsToDomain(eventModels), nil
}

// SumPagesByAgentInRange returns the agent's total pages with
// from <= occurred_at < to
func (r *GormPrintEventRepository) SumPagesByAgentInRange(ctx context.Context, agentID uuid.UUID, from, to time.Time) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.PrintEventModel{}).
		Where("agent_id = ? AND occurred_at >= ? AND occurred_at < ?", agentID, from, to).
		Select("COALESCE(SUM(pages), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// SumPagesByItemInRange returns the agent's page totals grouped
// by catalog item with from <= occurred_at < to
func (r *GormPrintEventRepository) SumPagesByItemInRange(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]usage.ItemPageCount, error) {
	var rows []struct {
		ItemID *uuid.UUID
		Pages  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.PrintEventModel{}).
		Select("item_id, COALESCE(SUM(pages), 0) AS pages").
		Where("agent_id = ? AND occurred_at >= ? AND occurred_at < ?", agentID, from, to).
		Group("item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make([]usage.ItemPageCount, len(rows))
	for i, row := range rows {
		counts[i] = usage.ItemPageCount{ItemID: row.ItemID, Pages: int(row.Pages)}
	}
	return counts, nil
}

// FindRecent returns the most recent events across all agents,
// newest first, capped at limit
func (r *GormPrintEventRepository) FindRecent(ctx context.Context, limit int) ([]*usage.PrintEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var eventModels []models.PrintEventModel
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&eventModels).Error
	if err != nil {
		return nil, err
	}
	return printEventModelsToDomain(eventModels), nil
}

func printEventModelsToDomain(eventModels []models.PrintEventModel) []*usage.PrintEvent {
	events := make([]*usage.PrintEvent, len(eventModels))
	for i := range eventModels {
		events[i] = eventModels[i].ToDomain()
	}
	return events
}

var _ usage.PrintEventRepository = (*GormPrintEventRepository)(nil)
