package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageLimitsCeiling(t *testing.T) {
	limits := UsageLimits{MaxStudents: 50, MaxExams: 10, MaxQuestions: 200}

	assert.Equal(t, 50, limits.Ceiling(ResourceStudent))
	assert.Equal(t, 10, limits.Ceiling(ResourceExam))
	assert.Equal(t, 200, limits.Ceiling(ResourceQuestion))
	assert.Equal(t, -1, limits.Ceiling("videos"))
}

func TestUsageCountersCount(t *testing.T) {
	usage := UsageCounters{StudentsCount: 3, ExamsCount: 1, QuestionsCount: 42}

	assert.Equal(t, 3, usage.Count(ResourceStudent))
	assert.Equal(t, 1, usage.Count(ResourceExam))
	assert.Equal(t, 42, usage.Count(ResourceQuestion))
	assert.Equal(t, -1, usage.Count("videos"))
}

func TestTeacherHasCapacity(t *testing.T) {
	teacher := Teacher{
		Limits: UsageLimits{MaxStudents: 2, MaxExams: 1},
		Usage:  UsageCounters{StudentsCount: 1, ExamsCount: 1},
	}

	assert.True(t, teacher.HasCapacity(ResourceStudent))
	assert.False(t, teacher.HasCapacity(ResourceExam))

	// Zero ceiling means no capacity at all, the state of a fresh or
	// lapsed account.
	assert.False(t, teacher.HasCapacity(ResourceQuestion))
	assert.False(t, teacher.HasCapacity("videos"))
}

func TestTeacherSnapshotAndClearLimits(t *testing.T) {
	teacher := Teacher{Usage: UsageCounters{StudentsCount: 7}}
	plan := Plan{MaxStudents: 100, MaxExams: 20, MaxQuestions: 500}

	teacher.SnapshotLimits(&plan)
	assert.Equal(t, UsageLimits{MaxStudents: 100, MaxExams: 20, MaxQuestions: 500}, teacher.Limits)

	teacher.ClearLimits()
	assert.Equal(t, UsageLimits{}, teacher.Limits)
	// Counters survive both operations.
	assert.Equal(t, 7, teacher.Usage.StudentsCount)
}
