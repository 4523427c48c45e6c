package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printshop/backend/internal/domain/billing"
)

func TestNewSetting(t *testing.T) {
	s, err := billing.NewSetting(billing.SettingKeyDailyLimit, "40", billing.SettingKindInt, "admin")
	require.NoError(t, err)
	assert.Equal(t, "daily_limit", s.Key)
	assert.Equal(t, "40", s.Value)
	assert.Equal(t, "admin", s.ChangedBy)

	_, err = billing.NewSetting("", "40", billing.SettingKindInt, "admin")
	assert.Error(t, err)
}

func TestParseLimitValue(t *testing.T) {
	n, err := billing.ParseLimitValue("45")
	require.NoError(t, err)
	assert.Equal(t, 45, n)

	_, err = billing.ParseLimitValue("not-a-number")
	assert.Error(t, err)
}

func TestParseCostValue(t *testing.T) {
	cost, err := billing.ParseCostValue("0.75")
	require.NoError(t, err)
	assert.Equal(t, "0.75", cost.StringFixed(2))

	_, err = billing.ParseCostValue("cheap")
	assert.Error(t, err)
}

func TestLimits_Validate(t *testing.T) {
	l := billing.DefaultLimits()
	assert.NoError(t, l.Validate())

	l.DailyLimit = -1
	assert.Error(t, l.Validate())

	l = billing.DefaultLimits()
	l.WeeklyLimit = -1
	assert.Error(t, l.Validate())
}
