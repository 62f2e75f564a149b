package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/exempt"
	"github.com/tadreeshq/tadrees-backend/internal/models"
)

func TestCommitIncrementGuardsCeiling(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEntitlementService(db, exempt.NewAllowlist(nil, uuid.Nil))
	teacherID := uuid.New()

	// The guard lives in the WHERE clause: the row only matches while the
	// counter is still below the snapshot.
	mock.ExpectExec(`UPDATE "teachers" SET "students_count"=students_count \+ 1 WHERE id = \$1 AND students_count < max_students`).
		WithArgs(teacherID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.CommitIncrement(teacherID, models.ResourceStudent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitIncrementAtCeiling(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEntitlementService(db, exempt.NewAllowlist(nil, uuid.Nil))
	teacherID := uuid.New()

	mock.ExpectExec(`UPDATE "teachers" SET "exams_count"=exams_count \+ 1 WHERE id = \$1 AND exams_count < max_exams`).
		WithArgs(teacherID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Zero rows affected: reload to distinguish a missing account from a
	// full one.
	mock.ExpectQuery(`SELECT \* FROM "teachers" WHERE id = \$1`).
		WithArgs(teacherID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "max_exams", "exams_count"}).
			AddRow(teacherID, 10, 10))

	err := svc.CommitIncrement(teacherID, models.ResourceExam)
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindLimit, e.Kind)
	assert.Equal(t, 10, e.Limit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitIncrementMissingTeacher(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEntitlementService(db, exempt.NewAllowlist(nil, uuid.Nil))
	teacherID := uuid.New()

	mock.ExpectExec(`UPDATE "teachers" SET "students_count"=students_count \+ 1`).
		WithArgs(teacherID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "teachers" WHERE id = \$1`).
		WithArgs(teacherID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.CommitIncrement(teacherID, models.ResourceStudent)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitIncrementExemptBypass(t *testing.T) {
	db, mock := newMockDB(t)
	teacherID := uuid.New()
	svc := NewEntitlementService(db, exempt.NewAllowlist([]uuid.UUID{teacherID}, uuid.Nil))

	// No SQL at all: exempt accounts are never counted.
	require.NoError(t, svc.CommitIncrement(teacherID, models.ResourceQuestion))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitIncrementUnknownKind(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewEntitlementService(db, exempt.NewAllowlist(nil, uuid.Nil))

	err := svc.CommitIncrement(uuid.New(), "videos")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCommitDecrementFloorsAtZero(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEntitlementService(db, exempt.NewAllowlist(nil, uuid.Nil))
	teacherID := uuid.New()

	mock.ExpectExec(`UPDATE "teachers" SET "questions_count"=GREATEST\(questions_count - 1, 0\) WHERE id = \$1`).
		WithArgs(teacherID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.CommitDecrement(teacherID, models.ResourceQuestion))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBannedAccount(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEntitlementService(db, exempt.NewAllowlist(nil, uuid.Nil))
	teacherID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "teachers" WHERE id = \$1`).
		WithArgs(teacherID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_banned"}).
			AddRow(teacherID, true))

	err := svc.Check(teacherID, models.ResourceStudent)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestCheckExemptBypassesEverything(t *testing.T) {
	db, mock := newMockDB(t)
	teacherID := uuid.New()
	svc := NewEntitlementService(db, exempt.NewAllowlist([]uuid.UUID{teacherID}, uuid.Nil))

	// Banned, restricted, no subscription: exempt still passes.
	mock.ExpectQuery(`SELECT \* FROM "teachers" WHERE id = \$1`).
		WithArgs(teacherID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_banned", "is_restricted"}).
			AddRow(teacherID, true, true))

	assert.NoError(t, svc.Check(teacherID, models.ResourceStudent))
}

func TestCheckWithoutSubscription(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEntitlementService(db, exempt.NewAllowlist(nil, uuid.Nil))
	teacherID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "teachers" WHERE id = \$1`).
		WithArgs(teacherID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_banned", "is_restricted"}).
			AddRow(teacherID, false, false))

	err := svc.Check(teacherID, models.ResourceStudent)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}
