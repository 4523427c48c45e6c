package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/notification"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/printshop/backend/internal/domain/usage"
)

// MockNotificationRepository is a mock implementation of notification.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, unreadOnly bool) ([]*notification.Notification, error) {
	args := m.Called(ctx, agentID, unreadOnly)
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, agentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, agentID)
	return args.Get(0).(int64), args.Error(1)
}

func newVerifiedDebt(t *testing.T, agentID uuid.UUID) *billing.Debt {
	t.Helper()
	debt, err := billing.NewDebt(agentID, usage.PeriodDaily,
		time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), 3,
		valueobject.NewMoneyUSDFromFloat(1.5))
	require.NoError(t, err)
	require.NoError(t, debt.SubmitProof("transfer", "TX-1", ""))
	debt.ClearDomainEvents()
	return debt
}

func TestDebtEventHandler_ApprovedNotifiesAgent(t *testing.T) {
	repo := new(MockNotificationRepository)
	handler := NewDebtEventHandler(NewNotificationService(repo, zap.NewNop()), zap.NewNop())

	agentID := uuid.New()
	debt := newVerifiedDebt(t, agentID)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	event := billing.NewDebtApprovedEvent(debt, "admin@example.com")
	require.NoError(t, handler.Handle(context.Background(), event))

	repo.AssertCalled(t, "Create", mock.Anything,
		mock.MatchedBy(func(n *notification.Notification) bool {
			return n.AgentID == agentID && !n.Read &&
				strings.Contains(n.Message, "1.50")
		}))
}

func TestDebtEventHandler_RejectedNotifiesAgent(t *testing.T) {
	repo := new(MockNotificationRepository)
	handler := NewDebtEventHandler(NewNotificationService(repo, zap.NewNop()), zap.NewNop())

	agentID := uuid.New()
	debt := newVerifiedDebt(t, agentID)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	event := billing.NewDebtRejectedEvent(debt, "admin@example.com")
	require.NoError(t, handler.Handle(context.Background(), event))

	repo.AssertCalled(t, "Create", mock.Anything,
		mock.MatchedBy(func(n *notification.Notification) bool {
			return n.AgentID == agentID
		}))
}

func TestDebtEventHandler_UnexpectedEventType(t *testing.T) {
	repo := new(MockNotificationRepository)
	handler := NewDebtEventHandler(NewNotificationService(repo, zap.NewNop()), zap.NewNop())

	debt := newVerifiedDebt(t, uuid.New())

	err := handler.Handle(context.Background(), billing.NewDebtProofSubmittedEvent(debt))
	require.Error(t, err)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDebtEventHandler_EventTypes(t *testing.T) {
	handler := NewDebtEventHandler(nil, zap.NewNop())

	assert.ElementsMatch(t, []string{
		billing.EventTypeDebtApproved,
		billing.EventTypeDebtRejected,
		billing.EventTypeDebtPaid,
	}, handler.EventTypes())
}

func TestNotificationService_MarkRead_OwnerOnly(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewNotificationService(repo, zap.NewNop())

	agentID := uuid.New()
	n, err := notification.NewNotification(agentID, "Your payment was verified")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)
	repo.On("Update", mock.Anything, n).Return(nil)

	err = svc.MarkRead(context.Background(), n.ID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	require.NoError(t, svc.MarkRead(context.Background(), n.ID, agentID))
	assert.True(t, n.Read)
	repo.AssertCalled(t, "Update", mock.Anything, n)

	// Marking an already-read notification is a no-op.
	require.NoError(t, svc.MarkRead(context.Background(), n.ID, agentID))
	repo.AssertNumberOfCalls(t, "Update", 1)
}
