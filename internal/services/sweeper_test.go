package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tadreeshq/tadrees-backend/internal/exempt"
)

func TestSweepExpiresStaleSubscription(t *testing.T) {
	db, mock := newMockDB(t)
	sweeper := NewSweeper(db, exempt.NewAllowlist(nil, uuid.Nil))

	subID := uuid.New()
	teacherID := uuid.New()
	planID := uuid.New()
	past := time.Now().Add(-48 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE status IN \(\$1,\$2\) AND end_date < \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "plan_id", "status", "end_date"}).
			AddRow(subID, teacherID, planID, "active", past))
	mock.ExpectQuery(`SELECT \* FROM "plans" WHERE "plans"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "duration", "duration_unit"}).
			AddRow(planID, 25.0, 30, "days"))

	// Status moves through a compare-and-swap so repeated sweeps no-op.
	mock.ExpectExec(`UPDATE "subscriptions" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3 AND status IN \(\$4,\$5\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "teachers" SET .+ WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "student_subscriptions" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 0, result.Restricted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepRestrictsLapsedFreePlan(t *testing.T) {
	db, mock := newMockDB(t)
	sweeper := NewSweeper(db, exempt.NewAllowlist(nil, uuid.Nil))

	subID := uuid.New()
	teacherID := uuid.New()
	planID := uuid.New()
	past := time.Now().Add(-time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE status IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "plan_id", "status", "end_date"}).
			AddRow(subID, teacherID, planID, "active", past))
	mock.ExpectQuery(`SELECT \* FROM "plans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price"}).
			AddRow(planID, 0.0))

	mock.ExpectExec(`UPDATE "subscriptions" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "teachers" SET .+ WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "student_subscriptions" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 1, result.Restricted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepSkipsRowLostToConcurrentSweep(t *testing.T) {
	db, mock := newMockDB(t)
	sweeper := NewSweeper(db, exempt.NewAllowlist(nil, uuid.Nil))

	subID := uuid.New()
	teacherID := uuid.New()
	planID := uuid.New()
	past := time.Now().Add(-time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE status IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "plan_id", "status", "end_date"}).
			AddRow(subID, teacherID, planID, "active", past))
	mock.ExpectQuery(`SELECT \* FROM "plans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price"}).
			AddRow(planID, 25.0))

	// Another sweep already expired the row: zero rows affected, no limit
	// reset follows.
	mock.ExpectExec(`UPDATE "subscriptions" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "student_subscriptions" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepKeepsExemptAccountLimits(t *testing.T) {
	db, mock := newMockDB(t)

	subID := uuid.New()
	teacherID := uuid.New()
	planID := uuid.New()
	sweeper := NewSweeper(db, exempt.NewAllowlist([]uuid.UUID{teacherID}, uuid.Nil))
	past := time.Now().Add(-time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE status IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "plan_id", "status", "end_date"}).
			AddRow(subID, teacherID, planID, "active", past))
	mock.ExpectQuery(`SELECT \* FROM "plans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price"}).
			AddRow(planID, 25.0))

	// The row still expires for bookkeeping, but no teacher UPDATE runs.
	mock.ExpectExec(`UPDATE "subscriptions" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "student_subscriptions" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepEmptyRun(t *testing.T) {
	db, mock := newMockDB(t)
	sweeper := NewSweeper(db, exempt.NewAllowlist(nil, uuid.Nil))

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE status IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`UPDATE "student_subscriptions" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	result, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}
