package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/printshop/backend/internal/domain/usage"
	"github.com/printshop/backend/internal/infrastructure/printing"
)

// LimitsProvider supplies the effective quota configuration
type LimitsProvider interface {
	Effective(ctx context.Context) (billing.Limits, error)
}

// UsageService is the accounting core: it records print events,
// measures them against the daily and weekly quotas, and keeps the
// per-period overage debts in step.
type UsageService struct {
	printEventRepo usage.PrintEventRepository
	itemRepo       catalog.ItemRepository
	debtRepo       billing.DebtRepository
	store          billing.AssessmentStore
	limits         LimitsProvider
	dispatcher     printing.Dispatcher
	eventBus       shared.EventPublisher
	locks          *shared.KeyedMutex
	logger         *zap.Logger
}

// NewUsageService creates a new UsageService
func NewUsageService(
	printEventRepo usage.PrintEventRepository,
	itemRepo catalog.ItemRepository,
	debtRepo billing.DebtRepository,
	store billing.AssessmentStore,
	limits LimitsProvider,
	dispatcher printing.Dispatcher,
	eventBus shared.EventPublisher,
	locks *shared.KeyedMutex,
	logger *zap.Logger,
) *UsageService {
	return &UsageService{
		printEventRepo: printEventRepo,
		itemRepo:       itemRepo,
		debtRepo:       debtRepo,
		store:          store,
		limits:         limits,
		dispatcher:     dispatcher,
		eventBus:       eventBus,
		locks:          locks,
		logger:         logger,
	}
}

// RecordPrintRequest describes one print to account for
type RecordPrintRequest struct {
	AgentID    uuid.UUID
	ItemID     *uuid.UUID
	Pages      int
	OccurredAt time.Time // Zero means now
}

// RecordPrintResult reports the accounting outcome of one print
type RecordPrintResult struct {
	EventID       uuid.UUID       `json:"event_id"`
	Pages         int             `json:"pages"`
	TotalDay      int             `json:"total_day"`
	TotalWeek     int             `json:"total_week"`
	OverageDaily  int             `json:"overage_daily"`
	OverageWeekly int             `json:"overage_weekly"`
	OverageBilled int             `json:"overage_billed"`
	ExtraCost     decimal.Decimal `json:"extra_cost"`
	DebtIDs       []uuid.UUID     `json:"debt_ids"`
}

// RecordPrint accounts for one print: it folds the pages into the
// agent's daily and weekly totals, assesses overage against the
// effective limits, upserts the per-period debts, and hands the job to
// the print pipeline. The whole operation is serialized per agent.
func (s *UsageService) RecordPrint(ctx context.Context, req RecordPrintRequest) (*RecordPrintResult, error) {
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	if req.ItemID != nil {
		item, err := s.itemRepo.FindByID(ctx, *req.ItemID)
		if err != nil {
			return nil, err
		}
		if !item.AvailableTo(req.AgentID) {
			return nil, shared.NewDomainError("ITEM_NOT_AVAILABLE", "Item is not available to this agent")
		}
	}

	key := req.AgentID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	limits, err := s.limits.Effective(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve limits: %w", err)
	}

	totals, err := s.totalsAt(ctx, req.AgentID, occurredAt)
	if err != nil {
		return nil, err
	}
	totals.Day += req.Pages
	totals.Week += req.Pages

	assessment := billing.Assess(totals, limits)

	event, err := usage.NewPrintEvent(req.AgentID, req.Pages, occurredAt)
	if err != nil {
		return nil, err
	}
	if req.ItemID != nil {
		event.WithItem(*req.ItemID)
	}
	event.RecordAssessment(assessment.OverageBilled, assessment.ExtraCost.Amount())

	var created, updated []*billing.Debt
	collect := func(d *billing.Debt, reassessed bool) {
		switch {
		case d == nil:
		case reassessed:
			updated = append(updated, d)
		default:
			created = append(created, d)
		}
	}

	daily, dailyReassessed, err := s.upsertDebt(ctx, req, event.ID, usage.PeriodDaily,
		totals.DayStart, assessment.OverageDaily, assessment.DailyCost())
	if err != nil {
		return nil, err
	}
	collect(daily, dailyReassessed)

	weekly, weeklyReassessed, err := s.upsertDebt(ctx, req, event.ID, usage.PeriodWeekly,
		totals.WeekStart, assessment.OverageWeekly, assessment.WeeklyCost())
	if err != nil {
		return nil, err
	}
	collect(weekly, weeklyReassessed)

	if err := s.store.SaveAssessment(ctx, event, created, updated); err != nil {
		return nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	debtIDs := make([]uuid.UUID, 0, 2)
	for _, d := range append(created, updated...) {
		debtIDs = append(debtIDs, d.ID)
		s.publishEvents(ctx, d)
	}

	s.dispatcher.Dispatch(printing.Job{
		EventID: event.ID,
		AgentID: req.AgentID,
		ItemID:  req.ItemID,
		Pages:   req.Pages,
	})

	s.logger.Info("Print recorded",
		zap.String("agent_id", req.AgentID.String()),
		zap.String("event_id", event.ID.String()),
		zap.Int("pages", req.Pages),
		zap.Int("overage_billed", assessment.OverageBilled),
	)

	return &RecordPrintResult{
		EventID:       event.ID,
		Pages:         req.Pages,
		TotalDay:      totals.Day,
		TotalWeek:     totals.Week,
		OverageDaily:  assessment.OverageDaily,
		OverageWeekly: assessment.OverageWeekly,
		OverageBilled: assessment.OverageBilled,
		ExtraCost:     assessment.ExtraCost.Amount(),
		DebtIDs:       debtIDs,
	}, nil
}

// ItemUsageCount is a page total attributed to one catalog item.
// Events recorded without an item show up with a nil item ID.
type ItemUsageCount struct {
	ItemID *uuid.UUID `json:"item_id"`
	Pages  int        `json:"pages"`
}

// UsageCounts reports an agent's position against the quotas at a
// point in time, including per-item breakdowns of the day and week
type UsageCounts struct {
	AgentID         uuid.UUID        `json:"agent_id"`
	Day             int              `json:"day"`
	Week            int              `json:"week"`
	DailyLimit      int              `json:"daily_limit"`
	WeeklyLimit     int              `json:"weekly_limit"`
	RemainingDaily  int              `json:"remaining_daily"`
	RemainingWeekly int              `json:"remaining_weekly"`
	ItemsDay        []ItemUsageCount `json:"items_day"`
	ItemsWeek       []ItemUsageCount `json:"items_week"`
}

// GetCounts returns the agent's current totals and remaining quota
func (s *UsageService) GetCounts(ctx context.Context, agentID uuid.UUID, at time.Time) (*UsageCounts, error) {
	if at.IsZero() {
		at = time.Now()
	}

	limits, err := s.limits.Effective(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve limits: %w", err)
	}

	totals, err := s.totalsAt(ctx, agentID, at)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := usage.DayBounds(at)
	weekStart, weekEnd := usage.WeekBounds(at)

	itemsDay, err := s.printEventRepo.SumPagesByItemInRange(ctx, agentID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum daily pages by item: %w", err)
	}
	itemsWeek, err := s.printEventRepo.SumPagesByItemInRange(ctx, agentID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum weekly pages by item: %w", err)
	}

	return &UsageCounts{
		AgentID:         agentID,
		Day:             totals.Day,
		Week:            totals.Week,
		DailyLimit:      limits.DailyLimit,
		WeeklyLimit:     limits.WeeklyLimit,
		RemainingDaily:  max(limits.DailyLimit-totals.Day, 0),
		RemainingWeekly: max(limits.WeeklyLimit-totals.Week, 0),
		ItemsDay:        toItemUsageCounts(itemsDay),
		ItemsWeek:       toItemUsageCounts(itemsWeek),
	}, nil
}

func toItemUsageCounts(counts []usage.ItemPageCount) []ItemUsageCount {
	out := make([]ItemUsageCount, len(counts))
	for i, c := range counts {
		out[i] = ItemUsageCount{ItemID: c.ItemID, Pages: c.Pages}
	}
	return out
}

// ListEvents returns the agent's events within a window
func (s *UsageService) ListEvents(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]*usage.PrintEvent, error) {
	return s.printEventRepo.FindByAgentInRange(ctx, agentID, from, to)
}

// ListRecent returns the latest events across all agents for the admin
// activity view
func (s *UsageService) ListRecent(ctx context.Context, limit int) ([]*usage.PrintEvent, error) {
	return s.printEventRepo.FindRecent(ctx, limit)
}

// totalsAt loads the agent's stored page totals for the day and week
// containing at
func (s *UsageService) totalsAt(ctx context.Context, agentID uuid.UUID, at time.Time) (usage.Totals, error) {
	dayStart, dayEnd := usage.DayBounds(at)
	weekStart, weekEnd := usage.WeekBounds(at)

	day, err := s.printEventRepo.SumPagesByAgentInRange(ctx, agentID, dayStart, dayEnd)
	if err != nil {
		return usage.Totals{}, fmt.Errorf("failed to sum daily pages: %w", err)
	}
	week, err := s.printEventRepo.SumPagesByAgentInRange(ctx, agentID, weekStart, weekEnd)
	if err != nil {
		return usage.Totals{}, fmt.Errorf("failed to sum weekly pages: %w", err)
	}

	return usage.Totals{
		Day:       day,
		Week:      week,
		DayStart:  dayStart,
		WeekStart: weekStart,
	}, nil
}

// upsertDebt keeps at most one pending debt per period instance: an
// existing pending debt is reassessed in place, otherwise a new one is
// opened. A non-positive cost leaves everything untouched; rejected and
// paid debts are never revived.
func (s *UsageService) upsertDebt(
	ctx context.Context,
	req RecordPrintRequest,
	eventID uuid.UUID,
	periodType usage.PeriodType,
	periodStart time.Time,
	overagePages int,
	cost valueobject.Money,
) (debt *billing.Debt, updated bool, err error) {
	if !cost.IsPositive() {
		return nil, false, nil
	}

	existing, err := s.debtRepo.FindPendingForPeriod(ctx, req.AgentID, periodType, periodStart)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up pending debt: %w", err)
	}

	if existing != nil {
		if err := existing.ReplaceAssessment(overagePages, cost, eventID); err != nil {
			return nil, false, err
		}
		return existing, true, nil
	}

	debt, err = billing.NewDebt(req.AgentID, periodType, periodStart, overagePages, cost)
	if err != nil {
		return nil, false, err
	}
	debt.ItemID = req.ItemID
	debt.PrintEventID = &eventID
	return debt, false, nil
}

func (s *UsageService) publishEvents(ctx context.Context, debt *billing.Debt) {
	events := debt.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish debt events",
			zap.String("debt_id", debt.ID.String()),
			zap.Error(err),
		)
	}
	debt.ClearDomainEvents()
}
