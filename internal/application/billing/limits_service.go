package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/cache"
)

// LimitsService resolves and updates the printing quota configuration.
// The settings table is an append-only log; the latest entry per key
// wins and missing keys fall back to the built-in defaults.
type LimitsService struct {
	settingRepo billing.SettingRepository
	cache       cache.LimitsCache
	logger      *zap.Logger
}

// NewLimitsService creates a new LimitsService
func NewLimitsService(settingRepo billing.SettingRepository, limitsCache cache.LimitsCache, logger *zap.Logger) *LimitsService {
	return &LimitsService{
		settingRepo: settingRepo,
		cache:       limitsCache,
		logger:      logger,
	}
}

// UpdateLimitsRequest carries a partial limits change. Nil fields are
// left untouched.
type UpdateLimitsRequest struct {
	DailyLimit  *int
	WeeklyLimit *int
	UnitCost    *string // Decimal string, e.g. "0.50"
	ApplyToAll  *bool
	ChangedBy   string
}

// Effective returns the current quota configuration, consulting the
// cache first
func (s *LimitsService) Effective(ctx context.Context) (billing.Limits, error) {
	if limits, ok := s.cache.Get(ctx); ok {
		return limits, nil
	}

	limits, err := s.loadFromSettings(ctx)
	if err != nil {
		return billing.Limits{}, err
	}

	s.cache.Set(ctx, limits)
	return limits, nil
}

// Update appends the changed settings and invalidates the cache. It
// returns the new effective configuration.
func (s *LimitsService) Update(ctx context.Context, req UpdateLimitsRequest) (billing.Limits, error) {
	current, err := s.Effective(ctx)
	if err != nil {
		return billing.Limits{}, err
	}

	next := current
	if req.DailyLimit != nil {
		next.DailyLimit = *req.DailyLimit
	}
	if req.WeeklyLimit != nil {
		next.WeeklyLimit = *req.WeeklyLimit
	}
	if req.UnitCost != nil {
		cost, err := billing.ParseCostValue(*req.UnitCost)
		if err != nil {
			return billing.Limits{}, err
		}
		next.UnitCost = cost
	}
	if req.ApplyToAll != nil {
		next.ApplyToAll = *req.ApplyToAll
	}

	if err := next.Validate(); err != nil {
		return billing.Limits{}, err
	}

	if req.DailyLimit != nil {
		if err := s.append(ctx, billing.SettingKeyDailyLimit, strconv.Itoa(*req.DailyLimit), billing.SettingKindInt, req.ChangedBy); err != nil {
			return billing.Limits{}, err
		}
	}
	if req.WeeklyLimit != nil {
		if err := s.append(ctx, billing.SettingKeyWeeklyLimit, strconv.Itoa(*req.WeeklyLimit), billing.SettingKindInt, req.ChangedBy); err != nil {
			return billing.Limits{}, err
		}
	}
	if req.UnitCost != nil {
		if err := s.append(ctx, billing.SettingKeyUnitCost, *req.UnitCost, billing.SettingKindDecimal, req.ChangedBy); err != nil {
			return billing.Limits{}, err
		}
	}
	if req.ApplyToAll != nil {
		if err := s.append(ctx, billing.SettingKeyApplyToAll, strconv.FormatBool(*req.ApplyToAll), billing.SettingKindBool, req.ChangedBy); err != nil {
			return billing.Limits{}, err
		}
	}

	s.cache.Invalidate(ctx)

	s.logger.Info("Printing limits updated",
		zap.Int("daily_limit", next.DailyLimit),
		zap.Int("weekly_limit", next.WeeklyLimit),
		zap.String("unit_cost", next.UnitCost.String()),
		zap.String("changed_by", req.ChangedBy),
	)

	return next, nil
}

// History returns the change log for one setting key, newest first
func (s *LimitsService) History(ctx context.Context, key string) ([]*billing.Setting, error) {
	switch key {
	case billing.SettingKeyDailyLimit, billing.SettingKeyWeeklyLimit,
		billing.SettingKeyUnitCost, billing.SettingKeyApplyToAll:
	default:
		return nil, shared.NewDomainError("INVALID_SETTING", "Unknown setting key")
	}
	return s.settingRepo.FindHistory(ctx, key)
}

func (s *LimitsService) append(ctx context.Context, key, value, kind, changedBy string) error {
	setting, err := billing.NewSetting(key, value, kind, changedBy)
	if err != nil {
		return err
	}
	if err := s.settingRepo.Append(ctx, setting); err != nil {
		return fmt.Errorf("failed to append setting %s: %w", key, err)
	}
	return nil
}

func (s *LimitsService) loadFromSettings(ctx context.Context) (billing.Limits, error) {
	limits := billing.DefaultLimits()

	if setting, err := s.latest(ctx, billing.SettingKeyDailyLimit); err != nil {
		return billing.Limits{}, err
	} else if setting != nil {
		limits.DailyLimit, err = billing.ParseLimitValue(setting.Value)
		if err != nil {
			return billing.Limits{}, err
		}
		limits.UpdatedAt = setting.CreatedAt
	}

	if setting, err := s.latest(ctx, billing.SettingKeyWeeklyLimit); err != nil {
		return billing.Limits{}, err
	} else if setting != nil {
		limits.WeeklyLimit, err = billing.ParseLimitValue(setting.Value)
		if err != nil {
			return billing.Limits{}, err
		}
		if setting.CreatedAt.After(limits.UpdatedAt) {
			limits.UpdatedAt = setting.CreatedAt
		}
	}

	if setting, err := s.latest(ctx, billing.SettingKeyUnitCost); err != nil {
		return billing.Limits{}, err
	} else if setting != nil {
		limits.UnitCost, err = billing.ParseCostValue(setting.Value)
		if err != nil {
			return billing.Limits{}, err
		}
		if setting.CreatedAt.After(limits.UpdatedAt) {
			limits.UpdatedAt = setting.CreatedAt
		}
	}

	if setting, err := s.latest(ctx, billing.SettingKeyApplyToAll); err != nil {
		return billing.Limits{}, err
	} else if setting != nil {
		limits.ApplyToAll = setting.Value == "true"
	}

	return limits, nil
}

// latest returns the newest entry for a key, or nil when the key was
// never written
func (s *LimitsService) latest(ctx context.Context, key string) (*billing.Setting, error) {
	setting, err := s.settingRepo.FindLatest(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load setting %s: %w", key, err)
	}
	return setting, nil
}
