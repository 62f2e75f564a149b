package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddDuration(t *testing.T) {
	base := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC), AddDuration(base, 30, DurationDays))
	assert.Equal(t, time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC), AddDuration(base, 3, DurationMonths))
	assert.Equal(t, time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC), AddDuration(base, 1, DurationYears))

	// Unknown units fall back to days.
	assert.Equal(t, time.Date(2025, 1, 22, 12, 0, 0, 0, time.UTC), AddDuration(base, 7, "fortnights"))
}

func TestPlanPeriodEnd(t *testing.T) {
	plan := Plan{Duration: 6, DurationUnit: DurationMonths}
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), plan.PeriodEnd(from))
}

func TestPlanIsFree(t *testing.T) {
	assert.True(t, (&Plan{Price: 0}).IsFree())
	assert.False(t, (&Plan{Price: 9.99}).IsFree())
}
