package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/printshop/backend/internal/domain/usage"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
)

func setupBillingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.DebtModel{}, &models.PaymentModel{}, &models.SettingModel{})
	require.NoError(t, err)

	return db
}

func newTestDebt(t *testing.T, agentID uuid.UUID, periodType usage.PeriodType, periodStart time.Time, amount float64) *billing.Debt {
	t.Helper()
	debt, err := billing.NewDebt(agentID, periodType, periodStart,
		10, valueobject.NewMoneyUSDFromFloat(amount))
	require.NoError(t, err)
	return debt
}

func TestDebtRepository_CreateAndFind(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormDebtRepository(db)
	ctx := context.Background()

	agentID := uuid.New()
	day := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	debt := newTestDebt(t, agentID, usage.PeriodDaily, day, 5.50)
	require.NoError(t, repo.Create(ctx, debt))

	found, err := repo.FindByID(ctx, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, debt.ID, found.ID)
	assert.Equal(t, agentID, found.AgentID)
	assert.Equal(t, usage.PeriodDaily, found.PeriodType)
	assert.True(t, found.AmountOwed.Equal(debt.AmountOwed))
	assert.Equal(t, billing.DebtStatusPending, found.Status)
	assert.Nil(t, found.Proof)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDebtRepository_FindPendingForPeriod(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormDebtRepository(db)
	ctx := context.Background()

	agentID := uuid.New()
	wednesday := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	t.Run("daily matches exact date only", func(t *testing.T) {
		debt := newTestDebt(t, agentID, usage.PeriodDaily, wednesday, 3)
		require.NoError(t, repo.Create(ctx, debt))

		found, err := repo.FindPendingForPeriod(ctx, agentID, usage.PeriodDaily, wednesday)
		require.NoError(t, err)
		assert.Equal(t, debt.ID, found.ID)

		_, err = repo.FindPendingForPeriod(ctx, agentID, usage.PeriodDaily, wednesday.AddDate(0, 0, 1))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("weekly matches any date in the same week", func(t *testing.T) {
		weekAgent := uuid.New()
		debt := newTestDebt(t, weekAgent, usage.PeriodWeekly, wednesday, 8)
		require.NoError(t, repo.Create(ctx, debt))

		// Looking up from Friday of the same week still finds the
		// debt created on Wednesday.
		friday := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
		found, err := repo.FindPendingForPeriod(ctx, weekAgent, usage.PeriodWeekly, friday)
		require.NoError(t, err)
		assert.Equal(t, debt.ID, found.ID)

		// The previous week does not match.
		_, err = repo.FindPendingForPeriod(ctx, weekAgent, usage.PeriodWeekly, monday.AddDate(0, 0, -7))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("ignores debts in other states", func(t *testing.T) {
		otherAgent := uuid.New()
		debt := newTestDebt(t, otherAgent, usage.PeriodDaily, wednesday, 4)
		require.NoError(t, debt.SubmitProof("transfer", "REF-1", "proofs/a.jpg"))
		require.NoError(t, repo.Create(ctx, debt))

		_, err := repo.FindPendingForPeriod(ctx, otherAgent, usage.PeriodDaily, wednesday)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("scoped to the agent", func(t *testing.T) {
		_, err := repo.FindPendingForPeriod(ctx, uuid.New(), usage.PeriodDaily, wednesday)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDebtRepository_FindPendingByAgent_AllocationOrder(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormDebtRepository(db)
	ctx := context.Background()

	agentID := uuid.New()
	d1 := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	// Insert newest first to prove ordering comes from period_start.
	newest := newTestDebt(t, agentID, usage.PeriodDaily, d3, 1)
	require.NoError(t, repo.Create(ctx, newest))
	oldest := newTestDebt(t, agentID, usage.PeriodDaily, d1, 2)
	require.NoError(t, repo.Create(ctx, oldest))
	middle := newTestDebt(t, agentID, usage.PeriodDaily, d2, 3)
	require.NoError(t, repo.Create(ctx, middle))

	pending, err := repo.FindPendingByAgent(ctx, agentID)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, oldest.ID, pending[0].ID)
	assert.Equal(t, middle.ID, pending[1].ID)
	assert.Equal(t, newest.ID, pending[2].ID)
}

func TestDebtRepository_Update_ProofRoundTrip(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormDebtRepository(db)
	ctx := context.Background()

	day := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	debt := newTestDebt(t, uuid.New(), usage.PeriodDaily, day, 5)
	require.NoError(t, repo.Create(ctx, debt))

	require.NoError(t, debt.SubmitProof("mobile_payment", "0412-555", "proofs/b.png"))
	require.NoError(t, repo.Update(ctx, debt))

	found, err := repo.FindByID(ctx, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.DebtStatusPendingVerification, found.Status)
	require.NotNil(t, found.Proof)
	assert.Equal(t, "mobile_payment", found.Proof.Method)
	assert.Equal(t, "0412-555", found.Proof.Reference)
	assert.Equal(t, "proofs/b.png", found.Proof.ProofRef)

	require.NoError(t, found.Approve("admin@shop.test"))
	require.NoError(t, repo.Update(ctx, found))

	approved, err := repo.FindByID(ctx, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.DebtStatusPaid, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, "admin@shop.test", *approved.ReviewedBy)
	assert.NotNil(t, approved.PaidAt)
}

func TestDebtRepository_Update_VersionConflict(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormDebtRepository(db)
	ctx := context.Background()

	day := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	debt := newTestDebt(t, uuid.New(), usage.PeriodDaily, day, 5)
	require.NoError(t, repo.Create(ctx, debt))

	first, err := repo.FindByID(ctx, debt.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, debt.ID)
	require.NoError(t, err)

	require.NoError(t, first.SubmitProof("transfer", "A", "proofs/a.jpg"))
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.SubmitProof("transfer", "B", "proofs/b.jpg"))
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestDebtRepository_SummarizeOutstanding(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormDebtRepository(db)
	ctx := context.Background()

	heavy := uuid.New()
	light := uuid.New()
	settled := uuid.New()
	d1 := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newTestDebt(t, heavy, usage.PeriodDaily, d1, 10)))
	require.NoError(t, repo.Create(ctx, newTestDebt(t, heavy, usage.PeriodDaily, d2, 20)))
	require.NoError(t, repo.Create(ctx, newTestDebt(t, light, usage.PeriodDaily, d2, 5)))

	paid := newTestDebt(t, settled, usage.PeriodDaily, d1, 100)
	require.NoError(t, paid.SubmitProof("transfer", "X", "proofs/x.jpg"))
	require.NoError(t, paid.Approve("admin@shop.test"))
	require.NoError(t, repo.Create(ctx, paid))

	summaries, err := repo.SummarizeOutstanding(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, heavy, summaries[0].AgentID)
	assert.Equal(t, 2, summaries[0].DebtCount)
	assert.True(t, summaries[0].TotalOutstanding.Equal(decimal.NewFromInt(30)))
	assert.True(t, summaries[0].OldestPeriod.Equal(d1))

	assert.Equal(t, light, summaries[1].AgentID)
	assert.Equal(t, 1, summaries[1].DebtCount)
}
