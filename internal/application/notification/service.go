package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/notification"
	"github.com/printshop/backend/internal/domain/shared"
)

// NotificationService stores and serves in-app notifications
type NotificationService struct {
	notificationRepo notification.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo notification.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Notify stores a notification for an agent. Failures are logged, not
// propagated: notifications never break the operation that raised them.
func (s *NotificationService) Notify(ctx context.Context, agentID uuid.UUID, message string) {
	n, err := notification.NewNotification(agentID, message)
	if err != nil {
		s.logger.Warn("Failed to build notification",
			zap.String("agent_id", agentID.String()),
			zap.Error(err),
		)
		return
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Warn("Failed to store notification",
			zap.String("agent_id", agentID.String()),
			zap.Error(err),
		)
	}
}

// List returns an agent's notifications, newest first
func (s *NotificationService) List(ctx context.Context, agentID uuid.UUID, unreadOnly bool) ([]*notification.Notification, error) {
	return s.notificationRepo.FindByAgent(ctx, agentID, unreadOnly)
}

// CountUnread returns the agent's unread notification count
func (s *NotificationService) CountUnread(ctx context.Context, agentID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, agentID)
}

// MarkRead marks one notification read. Marking twice is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, agentID uuid.UUID) error {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.AgentID != agentID {
		return shared.ErrForbidden
	}
	if n.Read {
		return nil
	}

	n.MarkRead()
	if err := s.notificationRepo.Update(ctx, n); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
