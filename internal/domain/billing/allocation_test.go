package billing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/printshop/backend/internal/domain/usage"
)

func debtFor(t *testing.T, agentID uuid.UUID, day int, amount float64) *billing.Debt {
	t.Helper()
	debt, err := billing.NewDebt(
		agentID,
		usage.PeriodDaily,
		time.Date(2026, time.August, day, 0, 0, 0, 0, time.UTC),
		1,
		valueobject.NewMoneyUSDFromFloat(amount),
	)
	require.NoError(t, err)
	debt.ClearDomainEvents()
	return debt
}

func paymentOf(t *testing.T, agentID uuid.UUID, amount float64) *billing.Payment {
	t.Helper()
	p, err := billing.NewPayment(agentID, valueobject.NewMoneyUSDFromFloat(amount), "transfer", "REF")
	require.NoError(t, err)
	return p
}

func TestAllocate_FIFOPartialSplit(t *testing.T) {
	agentID := uuid.New()
	d1 := debtFor(t, agentID, 24, 10)
	d2 := debtFor(t, agentID, 25, 20)

	result, err := billing.Allocate(paymentOf(t, agentID, 15), []*billing.Debt{d1, d2})
	require.NoError(t, err)

	// Oldest debt settled in full, the next reduced and left pending
	assert.Equal(t, billing.DebtStatusPaid, d1.Status)
	assert.Equal(t, billing.DebtStatusPending, d2.Status)
	assert.Equal(t, "15.00", d2.AmountOwed.StringFixed(2))

	require.Len(t, result.Allocations, 2)
	assert.True(t, result.Allocations[0].Settled)
	assert.Equal(t, "10.00", result.Allocations[0].Applied.StringFixed(2))
	assert.False(t, result.Allocations[1].Settled)
	assert.Equal(t, "5.00", result.Allocations[1].Applied.StringFixed(2))

	assert.Equal(t, "15.00", result.Allocated.StringFixed(2))
	assert.True(t, result.Unallocated.IsZero())
}

func TestAllocate_OverpaymentRemainderSurfaced(t *testing.T) {
	agentID := uuid.New()
	d1 := debtFor(t, agentID, 24, 10)

	result, err := billing.Allocate(paymentOf(t, agentID, 25), []*billing.Debt{d1})
	require.NoError(t, err)

	assert.Equal(t, billing.DebtStatusPaid, d1.Status)
	assert.Equal(t, "10.00", result.Allocated.StringFixed(2))
	assert.Equal(t, "15.00", result.Unallocated.StringFixed(2))
}

func TestAllocate_SkipsNonPendingDebts(t *testing.T) {
	agentID := uuid.New()
	underReview := debtFor(t, agentID, 24, 10)
	require.NoError(t, underReview.SubmitProof("transfer", "REF", "proof"))
	pending := debtFor(t, agentID, 25, 10)

	result, err := billing.Allocate(paymentOf(t, agentID, 10), []*billing.Debt{underReview, pending})
	require.NoError(t, err)

	assert.Equal(t, billing.DebtStatusPendingVerification, underReview.Status)
	assert.Equal(t, billing.DebtStatusPaid, pending.Status)
	require.Len(t, result.Allocations, 1)
	assert.Equal(t, pending.ID, result.Allocations[0].DebtID)
}

func TestAllocate_NoDebts(t *testing.T) {
	result, err := billing.Allocate(paymentOf(t, uuid.New(), 10), nil)
	require.NoError(t, err)

	assert.Empty(t, result.Allocations)
	assert.True(t, result.Allocated.IsZero())
	assert.Equal(t, "10.00", result.Unallocated.StringFixed(2))
}

func TestAllocate_ExactCoverAcrossSeveralDebts(t *testing.T) {
	agentID := uuid.New()
	debts := []*billing.Debt{
		debtFor(t, agentID, 24, 5),
		debtFor(t, agentID, 25, 7.5),
		debtFor(t, agentID, 26, 2.5),
	}

	result, err := billing.Allocate(paymentOf(t, agentID, 15), debts)
	require.NoError(t, err)

	for _, d := range debts {
		assert.Equal(t, billing.DebtStatusPaid, d.Status)
	}
	assert.Equal(t, "15.00", result.Allocated.StringFixed(2))
	assert.True(t, result.Unallocated.IsZero())
}

func TestPayment_Complete(t *testing.T) {
	p := paymentOf(t, uuid.New(), 15)

	require.NoError(t, p.Complete(valueobject.NewMoneyUSDFromFloat(10), valueobject.NewMoneyUSDFromFloat(5)))
	assert.Equal(t, billing.PaymentStatusCompleted, p.Status)
	assert.Equal(t, "10.00", p.Allocated.StringFixed(2))
	assert.Equal(t, "5.00", p.Unallocated.StringFixed(2))
	assert.NotNil(t, p.CompletedAt)

	// Completing twice is invalid
	assert.Error(t, p.Complete(valueobject.ZeroUSD(), valueobject.ZeroUSD()))
}
