package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
)

// DebtEventHandler turns debt verification outcomes into in-app
// notifications for the affected agent
type DebtEventHandler struct {
	notifications *NotificationService
	logger        *zap.Logger
}

// NewDebtEventHandler creates a new DebtEventHandler
func NewDebtEventHandler(notifications *NotificationService, logger *zap.Logger) *DebtEventHandler {
	return &DebtEventHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *DebtEventHandler) EventTypes() []string {
	return []string{
		billing.EventTypeDebtApproved,
		billing.EventTypeDebtRejected,
		billing.EventTypeDebtPaid,
	}
}

// Handle turns a debt event into a notification for its agent
func (h *DebtEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.DebtApprovedEvent:
		h.notifications.Notify(ctx, e.AgentID,
			fmt.Sprintf("Your payment of %s was verified and accepted", e.Amount.StringFixed(2)))

	case *billing.DebtRejectedEvent:
		h.notifications.Notify(ctx, e.AgentID,
			fmt.Sprintf("Your payment proof for %s was rejected, please contact an administrator", e.Amount.StringFixed(2)))

	case *billing.DebtPaidEvent:
		h.notifications.Notify(ctx, e.AgentID,
			"One of your debts was fully covered by a payment")

	default:
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	return nil
}
