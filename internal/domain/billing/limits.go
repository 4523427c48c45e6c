package billing

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
)

// Setting keys recognized by the limits configuration
const (
	SettingKeyDailyLimit  = "daily_limit"
	SettingKeyWeeklyLimit = "weekly_limit"
	SettingKeyUnitCost    = "unit_cost"
	SettingKeyApplyToAll  = "apply_to_all"
)

// Setting value kinds
const (
	SettingKindInt     = "int"
	SettingKindDecimal = "decimal"
	SettingKindBool    = "bool"
)

// Default limit values used when no setting row exists
const (
	DefaultDailyLimit  = 30
	DefaultWeeklyLimit = 150
)

// DefaultUnitCost is the default cost per overage page
var DefaultUnitCost = decimal.NewFromFloat(0.5)

// Setting is an append-only configuration entry. Settings are never
// updated in place: a new row is written and the latest row per key
// wins. That keeps the full change history queryable.
type Setting struct {
	shared.BaseEntity
	Key       string
	Value     string
	Kind      string
	ChangedBy string
}

// NewSetting creates a new setting entry
func NewSetting(key, value, kind, changedBy string) (*Setting, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_SETTING", "Setting key cannot be empty")
	}
	return &Setting{
		BaseEntity: shared.NewBaseEntity(),
		Key:        key,
		Value:      value,
		Kind:       kind,
		ChangedBy:  changedBy,
	}, nil
}

// SettingRepository defines the interface for setting persistence
type SettingRepository interface {
	// Append stores a new setting entry
	Append(ctx context.Context, setting *Setting) error

	// FindLatest returns the most recent entry for a key, or
	// shared.ErrNotFound if the key was never written
	FindLatest(ctx context.Context, key string) (*Setting, error)

	// FindHistory returns all entries for a key, newest first
	FindHistory(ctx context.Context, key string) ([]*Setting, error)
}

// Limits holds the effective printing quota configuration.
// ApplyToAll is stored and reported for the admin UI but does not
// influence the overage calculation.
type Limits struct {
	DailyLimit  int
	WeeklyLimit int
	UnitCost    valueobject.Money
	ApplyToAll  bool
	UpdatedAt   time.Time
}

// DefaultLimits returns the built-in quota configuration
func DefaultLimits() Limits {
	return Limits{
		DailyLimit:  DefaultDailyLimit,
		WeeklyLimit: DefaultWeeklyLimit,
		UnitCost:    valueobject.NewMoneyUSD(DefaultUnitCost),
		ApplyToAll:  true,
	}
}

// Validate checks that the limits are coherent
func (l Limits) Validate() error {
	if l.DailyLimit < 0 {
		return shared.NewDomainError("INVALID_LIMIT", "Daily limit cannot be negative")
	}
	if l.WeeklyLimit < 0 {
		return shared.NewDomainError("INVALID_LIMIT", "Weekly limit cannot be negative")
	}
	if l.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_LIMIT", "Unit cost cannot be negative")
	}
	return nil
}

// ParseLimitValue parses an integer limit from its stored string form
func ParseLimitValue(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, shared.NewDomainError("INVALID_SETTING", "Limit value must be an integer")
	}
	return n, nil
}

// ParseCostValue parses a unit cost from its stored string form
func ParseCostValue(value string) (valueobject.Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return valueobject.Money{}, shared.NewDomainError("INVALID_SETTING", "Cost value must be a decimal number")
	}
	return valueobject.NewMoneyUSD(d), nil
}
