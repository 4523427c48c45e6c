package billing

import (
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/printshop/backend/internal/domain/usage"
)

// Assessment is the result of evaluating an agent's period totals
// against the effective limits.
type Assessment struct {
	Totals usage.Totals
	Limits Limits

	OverageDaily  int // Pages over the daily limit
	OverageWeekly int // Pages over the weekly limit

	// OverageBilled is the number of pages actually charged. The two
	// windows overlap (today's pages count toward the week too), so
	// billing the larger of the two avoids double charging.
	OverageBilled int

	ExtraCost valueobject.Money
}

// Assess evaluates period totals against limits and computes the
// billable overage and its cost.
func Assess(totals usage.Totals, limits Limits) Assessment {
	a := Assessment{Totals: totals, Limits: limits}

	a.OverageDaily = max(totals.Day-limits.DailyLimit, 0)
	a.OverageWeekly = max(totals.Week-limits.WeeklyLimit, 0)
	a.OverageBilled = max(a.OverageDaily, a.OverageWeekly)
	a.ExtraCost = limits.UnitCost.MultiplyByInt(int64(a.OverageBilled))

	return a
}

// HasOverage returns true if any pages are billable
func (a Assessment) HasOverage() bool {
	return a.OverageBilled > 0
}

// DailyCost is the cost attributable to the daily window alone
func (a Assessment) DailyCost() valueobject.Money {
	return a.Limits.UnitCost.MultiplyByInt(int64(a.OverageDaily))
}

// WeeklyCost is the cost attributable to the weekly window alone
func (a Assessment) WeeklyCost() valueobject.Money {
	return a.Limits.UnitCost.MultiplyByInt(int64(a.OverageWeekly))
}

// BilledPeriod returns the period the billed overage is attributed to:
// weekly when the weekly window drives the charge, daily otherwise.
func (a Assessment) BilledPeriod() usage.PeriodType {
	if a.OverageWeekly > a.OverageDaily {
		return usage.PeriodWeekly
	}
	return usage.PeriodDaily
}
