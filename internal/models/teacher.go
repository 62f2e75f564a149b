package models

import (
	"time"

	"github.com/google/uuid"
)

// Resource kinds gated by the entitlement check.
const (
	ResourceStudent  = "student"
	ResourceExam     = "exam"
	ResourceQuestion = "question"
)

// UsageLimits is the ceiling snapshot copied from a plan at activation or
// plan-change time. Zero everywhere until a subscription is activated.
type UsageLimits struct {
	MaxStudents  int `gorm:"not null;default:0" json:"max_students"`
	MaxExams     int `gorm:"not null;default:0" json:"max_exams"`
	MaxQuestions int `gorm:"not null;default:0" json:"max_questions"`
}

// UsageCounters tracks currently existing resources per account. Counters
// are moved only through the conditional increment in the entitlement
// service, never by plain read-modify-write.
type UsageCounters struct {
	StudentsCount  int `gorm:"not null;default:0" json:"students_count"`
	ExamsCount     int `gorm:"not null;default:0" json:"exams_count"`
	QuestionsCount int `gorm:"not null;default:0" json:"questions_count"`
}

// Teacher is a tenant account subject to quota enforcement. The usage
// ledger (limits snapshot + counters) is embedded in the account row so a
// single conditional UPDATE can guard an increment.
type Teacher struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string        `gorm:"size:120;not null" json:"name"`
	Email          string        `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone          *string       `gorm:"size:32" json:"phone,omitempty"`
	Password       string        `gorm:"not null" json:"-"`
	Subjects       *string       `gorm:"size:255" json:"subjects,omitempty"`
	IsBanned       bool          `gorm:"not null;default:false" json:"is_banned"`
	IsRestricted   bool          `gorm:"not null;default:false" json:"is_restricted"`
	Limits         UsageLimits   `gorm:"embedded" json:"current_limits"`
	Usage          UsageCounters `gorm:"embedded" json:"current_usage"`
	SubscriptionID *uuid.UUID    `gorm:"type:uuid;index" json:"subscription_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Ceiling returns the limit for a resource kind, -1 for unknown kinds.
func (l UsageLimits) Ceiling(kind string) int {
	switch kind {
	case ResourceStudent:
		return l.MaxStudents
	case ResourceExam:
		return l.MaxExams
	case ResourceQuestion:
		return l.MaxQuestions
	default:
		return -1
	}
}

// Count returns the live counter for a resource kind, -1 for unknown kinds.
func (c UsageCounters) Count(kind string) int {
	switch kind {
	case ResourceStudent:
		return c.StudentsCount
	case ResourceExam:
		return c.ExamsCount
	case ResourceQuestion:
		return c.QuestionsCount
	default:
		return -1
	}
}

// HasCapacity is the advisory read-side check; the conditional UPDATE in
// the entitlement service remains the source of correctness.
func (t *Teacher) HasCapacity(kind string) bool {
	ceiling := t.Limits.Ceiling(kind)
	count := t.Usage.Count(kind)
	if ceiling < 0 || count < 0 {
		return false
	}
	return count < ceiling
}

// SnapshotLimits copies the plan ceilings into the account.
func (t *Teacher) SnapshotLimits(plan *Plan) {
	t.Limits.MaxStudents = plan.MaxStudents
	t.Limits.MaxExams = plan.MaxExams
	t.Limits.MaxQuestions = plan.MaxQuestions
}

// ClearLimits withdraws all capacity while leaving counters intact.
func (t *Teacher) ClearLimits() {
	t.Limits = UsageLimits{}
}
