package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/printshop/backend/internal/application/billing"
	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/printshop/backend/internal/domain/usage"
	"github.com/printshop/backend/internal/infrastructure/auth"
	"github.com/printshop/backend/internal/interfaces/http/dto"
	"github.com/printshop/backend/internal/interfaces/http/middleware"
)

// MockDebtRepository is a mock implementation of billing.DebtRepository
type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) Create(ctx context.Context, debt *billing.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) Update(ctx context.Context, debt *billing.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Debt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Debt), args.Error(1)
}

func (m *MockDebtRepository) FindPendingForPeriod(ctx context.Context, agentID uuid.UUID, periodType usage.PeriodType, periodStart time.Time) (*billing.Debt, error) {
	args := m.Called(ctx, agentID, periodType, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Debt), args.Error(1)
}

func (m *MockDebtRepository) FindPendingByAgent(ctx context.Context, agentID uuid.UUID) ([]*billing.Debt, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Debt), args.Error(1)
}

func (m *MockDebtRepository) FindOutstandingByAgent(ctx context.Context, agentID uuid.UUID) ([]*billing.Debt, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Debt), args.Error(1)
}

func (m *MockDebtRepository) FindByAgent(ctx context.Context, agentID uuid.UUID) ([]*billing.Debt, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Debt), args.Error(1)
}

func (m *MockDebtRepository) SummarizeOutstanding(ctx context.Context) ([]billing.AgentDebtSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.AgentDebtSummary), args.Error(1)
}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ ...shared.DomainEvent) error { return nil }

func newAuthedTestContext(t *testing.T, agentID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/debts", nil)
	c.Set(middleware.JWTClaimsKey, &auth.Claims{AgentID: agentID.String(), Role: "agent"})

	return c, w
}

func newOutstandingDebt(t *testing.T, agentID uuid.UUID, periodStart time.Time, amount float64) *billing.Debt {
	t.Helper()
	pages := int(amount / 0.5)
	debt, err := billing.NewDebt(agentID, usage.PeriodDaily, periodStart, pages, valueobject.NewMoneyUSDFromFloat(amount))
	require.NoError(t, err)
	debt.ClearDomainEvents()
	return debt
}

func TestDebtHandler_ListOutstanding_TotalsAmountOwed(t *testing.T) {
	agentID := uuid.New()
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	debts := []*billing.Debt{
		newOutstandingDebt(t, agentID, monday, 2.50),
		newOutstandingDebt(t, agentID, monday.AddDate(0, 0, 1), 4.00),
	}

	debtRepo := new(MockDebtRepository)
	debtRepo.On("FindOutstandingByAgent", mock.Anything, agentID).Return(debts, nil)

	h := NewDebtHandler(appbilling.NewDebtService(debtRepo, noopPublisher{}, zap.NewNop()))

	c, w := newAuthedTestContext(t, agentID)
	h.ListOutstanding(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var data OutstandingDebtsResponse
	require.NoError(t, json.Unmarshal(raw, &data))

	assert.Len(t, data.Debts, 2)
	assert.Equal(t, "6.50", data.TotalOutstanding)
	debtRepo.AssertExpectations(t)
}

func TestDebtHandler_ListOutstanding_EmptyList(t *testing.T) {
	agentID := uuid.New()

	debtRepo := new(MockDebtRepository)
	debtRepo.On("FindOutstandingByAgent", mock.Anything, agentID).Return([]*billing.Debt{}, nil)

	h := NewDebtHandler(appbilling.NewDebtService(debtRepo, noopPublisher{}, zap.NewNop()))

	c, w := newAuthedTestContext(t, agentID)
	h.ListOutstanding(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var data OutstandingDebtsResponse
	require.NoError(t, json.Unmarshal(raw, &data))

	assert.Empty(t, data.Debts)
	assert.Equal(t, "0.00", data.TotalOutstanding)
}
