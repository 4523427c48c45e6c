package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printshop/backend/internal/domain/usage"
)

// PrintEventModel is the persistence model for PrintEvent
type PrintEventModel struct {
	BaseModel
	AgentID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_print_events_agent_time,priority:1"`
	ItemID       *uuid.UUID      `gorm:"type:uuid;index"`
	Pages        int             `gorm:"not null"`
	OccurredAt   time.Time       `gorm:"not null;index:idx_print_events_agent_time,priority:2"`
	OveragePages int             `gorm:"not null;default:0"`
	ExtraCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PrintEventModel) TableName() string {
	return "print_events"
}

// ToDomain converts the persistence model to a domain PrintEvent
func (m *PrintEventModel) ToDomain() *usage.PrintEvent {
	return &usage.PrintEvent{
		BaseEntity:   m.BaseModel.ToDomain(),
		AgentID:      m.AgentID,
		ItemID:       m.ItemID,
		Pages:        m.Pages,
		OccurredAt:   m.OccurredAt,
		OveragePages: m.OveragePages,
		ExtraCost:    m.ExtraCost,
	}
}

// FromDomain populates the persistence model from a domain PrintEvent
func (m *PrintEventModel) FromDomain(e *usage.PrintEvent) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.AgentID = e.AgentID
	m.ItemID = e.ItemID
	m.Pages = e.Pages
	m.OccurredAt = e.OccurredAt
	m.OveragePages = e.OveragePages
	m.ExtraCost = e.ExtraCost
}

// PrintEventModelFromDomain creates a new persistence model from a domain PrintEvent
func PrintEventModelFromDomain(e *usage.PrintEvent) *PrintEventModel {
	m := &PrintEventModel{}
	m.FromDomain(e)
	return m
}
