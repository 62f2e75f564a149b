package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StudentSubscription governs how many distinct teachers a student may
// enroll with. The plan snapshot is taken at purchase time so later plan
// edits never change a running subscription.
type StudentSubscription struct {
	ID            uuid.UUID                                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudentID     uuid.UUID                                 `gorm:"type:uuid;not null;index" json:"student_id"`
	StudentPlanID uuid.UUID                                 `gorm:"type:uuid;not null;index" json:"student_plan_id"`
	PlanSnapshot  datatypes.JSONType[StudentPlanSnapshot]   `gorm:"type:jsonb" json:"plan_snapshot"`
	Status        string                                    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentStatus string                                    `gorm:"size:20;not null;default:'pending'" json:"payment_status"`
	StartDate     time.Time                                 `gorm:"not null" json:"start_date"`
	EndDate       time.Time                                 `gorm:"not null;index" json:"end_date"`
	Notes         string                                    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time                                 `json:"created_at"`
	UpdatedAt     time.Time                                 `json:"updated_at"`

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (s *StudentSubscription) IsTerminal() bool {
	return s.Status == SubscriptionExpired || s.Status == SubscriptionCancelled
}

// IsValid reports whether the student may currently enroll: active, paid,
// and unexpired.
func (s *StudentSubscription) IsValid(now time.Time) bool {
	return s.Status == SubscriptionActive &&
		s.PaymentStatus == PaymentPaid &&
		s.EndDate.After(now)
}
