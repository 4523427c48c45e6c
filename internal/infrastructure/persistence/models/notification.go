package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/printshop/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for Notification
type NotificationModel struct {
	BaseModel
	AgentID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_agent_read,priority:1"`
	Message string    `gorm:"type:text;not null"`
	Read    bool      `gorm:"not null;default:false;index:idx_notifications_agent_read,priority:2"`
	ReadAt  *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		AgentID:    m.AgentID,
		Message:    m.Message,
		Read:       m.Read,
		ReadAt:     m.ReadAt,
	}
}

// FromDomain populates the persistence model from a domain Notification
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.AgentID = n.AgentID
	m.Message = n.Message
	m.Read = n.Read
	m.ReadAt = n.ReadAt
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}
