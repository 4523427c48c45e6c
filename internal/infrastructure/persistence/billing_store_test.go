package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/printshop/backend/internal/domain/usage"
)

// newMockBillingStore creates a GormBillingStore with a mocked SQL connection
func newMockBillingStore(t *testing.T) (*GormBillingStore, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBillingStore(gormDB), mock, mockDB
}

func newAssessmentFixtures(t *testing.T) (*usage.PrintEvent, *billing.Debt) {
	agentID := uuid.New()

	event, err := usage.NewPrintEvent(agentID, 35, time.Now())
	require.NoError(t, err)

	dayStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	debt, err := billing.NewDebt(agentID, usage.PeriodDaily, dayStart, 5, valueobject.NewMoneyUSDFromFloat(2.50))
	require.NoError(t, err)
	debt.ClearDomainEvents()

	return event, debt
}

func TestGormBillingStore_SaveAssessment(t *testing.T) {
	t.Run("writes event and new debt in one transaction", func(t *testing.T) {
		store, mock, mockDB := newMockBillingStore(t)
		defer mockDB.Close()

		event, debt := newAssessmentFixtures(t)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "print_events"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "debts"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.SaveAssessment(context.Background(), event, []*billing.Debt{debt}, nil)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on stale debt version", func(t *testing.T) {
		store, mock, mockDB := newMockBillingStore(t)
		defer mockDB.Close()

		event, debt := newAssessmentFixtures(t)

		// Reassessment bumps the version; the row no longer matches
		err := debt.ReplaceAssessment(9, valueobject.NewMoneyUSDFromFloat(4.50), event.ID)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "print_events"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "debts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = store.SaveAssessment(context.Background(), event, nil, []*billing.Debt{debt})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when event insert fails", func(t *testing.T) {
		store, mock, mockDB := newMockBillingStore(t)
		defer mockDB.Close()

		event, debt := newAssessmentFixtures(t)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "print_events"`).
			WillReturnError(gorm.ErrInvalidData)
		mock.ExpectRollback()

		err := store.SaveAssessment(context.Background(), event, []*billing.Debt{debt}, nil)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBillingStore_SaveAllocation(t *testing.T) {
	t.Run("writes payment and settled debts in one transaction", func(t *testing.T) {
		store, mock, mockDB := newMockBillingStore(t)
		defer mockDB.Close()

		_, debt := newAssessmentFixtures(t)

		payment, err := billing.NewPayment(debt.AgentID, valueobject.NewMoneyUSDFromFloat(2.50), "transfer", "TX-1001")
		require.NoError(t, err)

		consumed, err := debt.ApplyPayment(valueobject.NewMoneyUSDFromFloat(2.50), payment.ID)
		require.NoError(t, err)
		require.NoError(t, payment.Complete(consumed, valueobject.ZeroUSD()))

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "payments"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "debts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = store.SaveAllocation(context.Background(), payment, []*billing.Debt{debt})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on stale debt version", func(t *testing.T) {
		store, mock, mockDB := newMockBillingStore(t)
		defer mockDB.Close()

		_, debt := newAssessmentFixtures(t)

		payment, err := billing.NewPayment(debt.AgentID, valueobject.NewMoneyUSDFromFloat(2.50), "transfer", "TX-1002")
		require.NoError(t, err)

		consumed, err := debt.ApplyPayment(valueobject.NewMoneyUSDFromFloat(2.50), payment.ID)
		require.NoError(t, err)
		require.NoError(t, payment.Complete(consumed, valueobject.ZeroUSD()))

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "payments"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "debts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = store.SaveAllocation(context.Background(), payment, []*billing.Debt{debt})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
