package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/printshop/backend/internal/domain/shared"
)

// Notification is a message shown to an agent, typically emitted by
// the debt verification workflow. Delivery is best-effort: a failed
// write is logged and never fails the operation that produced it.
type Notification struct {
	shared.BaseEntity
	AgentID uuid.UUID
	Message string
	Read    bool
	ReadAt  *time.Time
}

// NewNotification creates a new unread notification
func NewNotification(agentID uuid.UUID, message string) (*Notification, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent ID cannot be empty")
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot be empty")
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		AgentID:    agentID,
		Message:    message,
	}, nil
}

// MarkRead marks the notification as read. Idempotent.
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create stores a new notification
	Create(ctx context.Context, n *Notification) error

	// Update updates an existing notification
	Update(ctx context.Context, n *Notification) error

	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindByAgent returns an agent's notifications, newest first
	FindByAgent(ctx context.Context, agentID uuid.UUID, unreadOnly bool) ([]*Notification, error)

	// CountUnread returns the agent's unread notification count
	CountUnread(ctx context.Context, agentID uuid.UUID) (int64, error)
}
