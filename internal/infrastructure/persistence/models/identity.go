package models

import (
	"time"

	"github.com/printshop/backend/internal/domain/identity"
)

// AgentModel is the persistence model for the Agent domain entity.
type AgentModel struct {
	AggregateModel
	Name         string               `gorm:"type:varchar(200);not null"`
	Email        string               `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string               `gorm:"type:varchar(255);not null"`
	Role         identity.AgentRole   `gorm:"type:varchar(20);not null;default:'agent'"`
	Status       identity.AgentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ApprovedBy   *string              `gorm:"type:varchar(200)"`
	ApprovedAt   *time.Time
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (AgentModel) TableName() string {
	return "agents"
}

// ToDomain converts the persistence model to a domain Agent
func (m *AgentModel) ToDomain() *identity.Agent {
	return &identity.Agent{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		Status:            m.Status,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		LastLoginAt:       m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain Agent
func (m *AgentModel) FromDomain(a *identity.Agent) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.Email = a.Email
	m.PasswordHash = a.PasswordHash
	m.Role = a.Role
	m.Status = a.Status
	m.ApprovedBy = a.ApprovedBy
	m.ApprovedAt = a.ApprovedAt
	m.LastLoginAt = a.LastLoginAt
}

// AgentModelFromDomain creates a new persistence model from a domain Agent
func AgentModelFromDomain(a *identity.Agent) *AgentModel {
	m := &AgentModel{}
	m.FromDomain(a)
	return m
}
