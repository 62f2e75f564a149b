package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/models"
)

func TestResolveDatesExplicit(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	plan := models.Plan{Duration: 30, DurationUnit: models.DurationDays}

	gotStart, gotEnd, err := resolveDates(&start, &end, &plan)
	require.NoError(t, err)
	assert.Equal(t, start, gotStart)
	assert.Equal(t, end, gotEnd)
}

func TestResolveDatesRejectsInvertedRange(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	plan := models.Plan{Duration: 30, DurationUnit: models.DurationDays}

	_, _, err := resolveDates(&start, &end, &plan)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestResolveDatesPlanWindow(t *testing.T) {
	plan := models.Plan{
		Duration:     30,
		DurationUnit: models.DurationDays,
		StartDate:    time.Now().AddDate(0, 0, 1),
		EndDate:      time.Now().AddDate(0, 1, 0),
	}

	gotStart, gotEnd, err := resolveDates(nil, nil, &plan)
	require.NoError(t, err)
	assert.Equal(t, plan.StartDate, gotStart)
	assert.Equal(t, plan.EndDate, gotEnd)
}

func TestResolveDatesDurationFallback(t *testing.T) {
	// A stale sale window falls back to one duration from now.
	plan := models.Plan{
		Duration:     3,
		DurationUnit: models.DurationMonths,
		StartDate:    time.Now().AddDate(-1, 0, 0),
		EndDate:      time.Now().AddDate(0, -6, 0),
	}

	gotStart, gotEnd, err := resolveDates(nil, nil, &plan)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), gotStart, time.Minute)
	assert.WithinDuration(t, gotStart.AddDate(0, 3, 0), gotEnd, time.Minute)
}

func TestValidPaymentStatus(t *testing.T) {
	for _, s := range []string{
		models.PaymentPending, models.PaymentPaid, models.PaymentUnpaid,
		models.PaymentFailed, models.PaymentRefunded,
	} {
		assert.True(t, validPaymentStatus(s), s)
	}
	assert.False(t, validPaymentStatus("chargeback"))
	assert.False(t, validPaymentStatus(""))
}

func TestCreateRejectsUnknownIssuer(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewSubscriptionService(db)

	_, err := svc.Create(uuid.New(), uuid.New(), "support-agent", &dto.CreateSubscriptionRequest{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestActivateTerminalSubscription(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)
	subID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE id = \$1`).
		WithArgs(subID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(subID, models.SubscriptionExpired))

	_, err := svc.Activate(subID, &dto.ActivateSubscriptionRequest{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCancelAlreadyCancelled(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)
	subID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE id = \$1`).
		WithArgs(subID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(subID, models.SubscriptionCancelled))

	_, err := svc.Cancel(subID, &dto.CancelSubscriptionRequest{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestGetByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)
	subID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE id = \$1`).
		WithArgs(subID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetByID(subID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdatePaymentStatusPromotesPending(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)
	subID := uuid.New()
	teacherID := uuid.New()
	planID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE id = \$1`).
		WithArgs(subID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "plan_id", "status", "payment_status"}).
			AddRow(subID, teacherID, planID, models.SubscriptionPending, models.PaymentPending))
	mock.ExpectQuery(`SELECT \* FROM "plans" WHERE id = \$1`).
		WithArgs(planID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "max_students", "max_exams", "max_questions"}).
			AddRow(planID, 50, 10, 200))
	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "teachers" SET .+ WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sub, err := svc.UpdatePaymentStatus(subID, &dto.UpdatePaymentStatusRequest{
		PaymentStatus: models.PaymentPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, models.PaymentPaid, sub.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentStatusPromotionPlanLoadFailure(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)
	subID := uuid.New()
	planID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE id = \$1`).
		WithArgs(subID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plan_id", "status", "payment_status"}).
			AddRow(subID, planID, models.SubscriptionPending, models.PaymentPending))
	mock.ExpectQuery(`SELECT \* FROM "plans" WHERE id = \$1`).
		WillReturnError(assert.AnError)

	// The promotion must not persist when the snapshot source cannot be
	// loaded: no subscription UPDATE may run.
	_, err := svc.UpdatePaymentStatus(subID, &dto.UpdatePaymentStatusRequest{
		PaymentStatus: models.PaymentPaid,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load plan")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewLapsedSubscription(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)
	subID := uuid.New()
	teacherID := uuid.New()
	planID := uuid.New()
	past := time.Now().AddDate(0, 0, -10)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE id = \$1`).
		WithArgs(subID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "plan_id", "status", "payment_status", "end_date"}).
			AddRow(subID, teacherID, planID, models.SubscriptionExpired, models.PaymentPaid, past))
	mock.ExpectQuery(`SELECT \* FROM "plans" WHERE id = \$1`).
		WithArgs(planID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "duration", "duration_unit", "max_students", "max_exams", "max_questions"}).
			AddRow(planID, 30, models.DurationDays, 50, 10, 200))
	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "teachers" SET .+ WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// An expired subscription is renewable: the new period runs from now,
	// not from the lapsed end date.
	sub, err := svc.Renew(subID, &dto.RenewSubscriptionRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, models.PaymentPaid, sub.PaymentStatus)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), sub.EndDate, time.Minute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewCancelledSubscription(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)
	subID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE id = \$1`).
		WithArgs(subID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(subID, models.SubscriptionCancelled))

	_, err := svc.Renew(subID, &dto.RenewSubscriptionRequest{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDefaultHelpers(t *testing.T) {
	assert.Equal(t, "JOD", defaultString("", "JOD"))
	assert.Equal(t, "USD", defaultString("USD", "JOD"))
	assert.Equal(t, 30, defaultInt(0, 30))
	assert.Equal(t, 90, defaultInt(90, 30))
}
