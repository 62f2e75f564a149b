package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionIsTerminal(t *testing.T) {
	for _, status := range []string{SubscriptionPending, SubscriptionActive, SubscriptionInactive} {
		assert.False(t, (&Subscription{Status: status}).IsTerminal(), status)
	}
	for _, status := range []string{SubscriptionExpired, SubscriptionCancelled} {
		assert.True(t, (&Subscription{Status: status}).IsTerminal(), status)
	}
}

func TestSubscriptionIsValid(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	assert.True(t, (&Subscription{Status: SubscriptionActive, EndDate: future}).IsValid(now))
	assert.False(t, (&Subscription{Status: SubscriptionActive, EndDate: past}).IsValid(now))
	assert.False(t, (&Subscription{Status: SubscriptionPending, EndDate: future}).IsValid(now))
}

func TestStudentSubscriptionIsValid(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)

	sub := StudentSubscription{
		Status:        SubscriptionActive,
		PaymentStatus: PaymentPaid,
		EndDate:       future,
	}
	assert.True(t, sub.IsValid(now))

	// Active but unpaid grants nothing.
	sub.PaymentStatus = PaymentPending
	assert.False(t, sub.IsValid(now))

	sub.PaymentStatus = PaymentPaid
	sub.EndDate = now.Add(-time.Minute)
	assert.False(t, sub.IsValid(now))
}

func TestStudentPlanSnapshot(t *testing.T) {
	plan := StudentPlan{
		Name:              "standard",
		Price:             15,
		Currency:          "JOD",
		MaxTeachers:       3,
		TeacherType:       TeacherTypeBoth,
		Duration:          30,
		DurationUnit:      DurationDays,
		FreeExtraTeachers: 1,
	}

	snap := plan.Snapshot()
	assert.Equal(t, 4, snap.AllowedTeachers())

	// The snapshot is a copy: later plan edits must not leak through.
	plan.MaxTeachers = 10
	assert.Equal(t, 3, snap.MaxTeachers)
	assert.Equal(t, 4, snap.AllowedTeachers())
}
