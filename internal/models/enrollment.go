package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EnrollmentFree    = "free"
	EnrollmentBasic   = "basic"
	EnrollmentPremium = "premium"
)

// Enrollment is a teacher-student relationship. The unique index makes
// creation idempotent: one row per pair.
type Enrollment struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TeacherID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_pair" json:"teacher_id"`
	StudentID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_pair" json:"student_id"`
	Type          string     `gorm:"size:20;not null;default:'free'" json:"type"`
	Status        string     `gorm:"size:20;not null;default:'active';index" json:"status"`
	PaymentStatus string     `gorm:"size:20;not null;default:'unpaid'" json:"payment_status"`
	StartDate     time.Time  `gorm:"not null" json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
