package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/identity"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
)

// GormAgentRepository implements identity.AgentRepository using GORM
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository creates a new GormAgentRepository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

// Create creates a new agent
func (r *GormAgentRepository) Create(ctx context.Context, agent *identity.Agent) error {
	model := models.AgentModelFromDomain(agent)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing agent with optimistic locking
func (r *GormAgentRepository) Update(ctx context.Context, agent *identity.Agent) error {
	model := models.AgentModelFromDomain(agent)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Omit("id", "created_at").
		Where("id = ? AND version = ?", agent.ID, agent.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an agent by ID
func (r *GormAgentRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Agent, error) {
	var model models.AgentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an agent by email
func (r *GormAgentRepository) FindByEmail(ctx context.Context, email string) (*identity.Agent, error) {
	var model models.AgentModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds an agent by name
func (r *GormAgentRepository) FindByName(ctx context.Context, name string) (*identity.Agent, error) {
	var model models.AgentModel
	if err := r.db.WithContext(ctx).
		Where("name = ?", strings.TrimSpace(name)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all agents matching the filter with pagination
func (r *GormAgentRepository) FindAll(ctx context.Context, filter identity.AgentFilter) ([]*identity.Agent, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AgentModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Keyword != "" {
		keyword := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var agentModels []models.AgentModel
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&agentModels).Error; err != nil {
		return nil, 0, err
	}

	agents := make([]*identity.Agent, len(agentModels))
	for i := range agentModels {
		agents[i] = agentModels[i].ToDomain()
	}
	return agents, total, nil
}

// ExistsByEmail checks if an email is already registered
func (r *GormAgentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AgentModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// CountAdmins returns the number of admin accounts
func (r *GormAgentRepository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AgentModel{}).
		Where("role = ?", identity.RoleAdmin).
		Count(&count).Error
	return count, err
}

// isUniqueViolation reports whether the error is a unique constraint breach.
// Matched on message text so it works for both postgres and the sqlite
// driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

var _ identity.AgentRepository = (*GormAgentRepository)(nil)
