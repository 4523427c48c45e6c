package billing

import (
	"github.com/google/uuid"

	"github.com/printshop/backend/internal/domain/shared/valueobject"
)

// DebtAllocation describes how much of a payment went to one debt
type DebtAllocation struct {
	DebtID  uuid.UUID
	Applied valueobject.Money
	Settled bool // True when the debt was fully covered
}

// AllocationResult summarizes how a payment was spread over debts.
// Unallocated is the remainder left after every pending debt was
// covered; it is discarded, not credited.
type AllocationResult struct {
	Allocations []DebtAllocation
	Allocated   valueobject.Money
	Unallocated valueobject.Money
}

// AffectedDebtIDs returns the ids of all debts the payment touched
func (r AllocationResult) AffectedDebtIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Allocations))
	for _, a := range r.Allocations {
		ids = append(ids, a.DebtID)
	}
	return ids
}

// Allocate distributes a payment over the agent's pending debts, oldest
// period first. Each debt is covered in full before the next is
// touched; a partial cover reduces the debt and stops the run. Debts
// must already be ordered by period date ascending.
func Allocate(payment *Payment, debts []*Debt) (AllocationResult, error) {
	result := AllocationResult{
		Allocated:   valueobject.ZeroUSD(),
		Unallocated: valueobject.ZeroUSD(),
	}

	remaining := payment.AmountMoney()

	for _, debt := range debts {
		if remaining.IsZero() {
			break
		}
		if !debt.Status.CanApplyPayment() {
			continue
		}

		applied, err := debt.ApplyPayment(remaining, payment.ID)
		if err != nil {
			return AllocationResult{}, err
		}

		result.Allocations = append(result.Allocations, DebtAllocation{
			DebtID:  debt.ID,
			Applied: applied,
			Settled: debt.Status == DebtStatusPaid,
		})
		result.Allocated = result.Allocated.MustAdd(applied)
		remaining = remaining.MustSubtract(applied)
	}

	result.Unallocated = remaining
	return result, nil
}
