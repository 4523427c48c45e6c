package identity

import (
	"context"

	"github.com/google/uuid"
)

// AgentRepository defines the interface for agent persistence
type AgentRepository interface {
	// Create creates a new agent
	Create(ctx context.Context, agent *Agent) error

	// Update updates an existing agent
	Update(ctx context.Context, agent *Agent) error

	// FindByID finds an agent by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Agent, error)

	// FindByEmail finds an agent by email
	FindByEmail(ctx context.Context, email string) (*Agent, error)

	// FindByName finds an agent by name
	FindByName(ctx context.Context, name string) (*Agent, error)

	// FindAll returns all agents matching the filter with pagination
	FindAll(ctx context.Context, filter AgentFilter) ([]*Agent, int64, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountAdmins returns the number of admin accounts
	CountAdmins(ctx context.Context) (int64, error)
}

// AgentFilter contains filter options for querying agents
type AgentFilter struct {
	// Search keyword for name or email
	Keyword string

	// Filter by approval status
	Status *AgentStatus

	// Filter by role
	Role *AgentRole

	// Pagination
	Page     int
	PageSize int
}

// NewAgentFilter creates a new AgentFilter with default values
func NewAgentFilter() AgentFilter {
	return AgentFilter{
		Page:     1,
		PageSize: 20,
	}
}

// WithStatus sets the status filter
func (f AgentFilter) WithStatus(status AgentStatus) AgentFilter {
	f.Status = &status
	return f
}

// WithKeyword sets the search keyword
func (f AgentFilter) WithKeyword(keyword string) AgentFilter {
	f.Keyword = keyword
	return f
}

// WithPagination sets pagination parameters
func (f AgentFilter) WithPagination(page, pageSize int) AgentFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f AgentFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the limit for pagination
func (f AgentFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
