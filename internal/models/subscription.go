package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription status values. Expired and cancelled are terminal.
const (
	SubscriptionPending   = "pending"
	SubscriptionActive    = "active"
	SubscriptionInactive  = "inactive"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentUnpaid   = "unpaid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Subscription pairs a teacher account with a plan. An account holds at
// most one subscription in a non-terminal state at any time.
type Subscription struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TeacherID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	PlanID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"plan_id"`
	Status             string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	StartDate          time.Time  `gorm:"not null" json:"start_date"`
	EndDate            time.Time  `gorm:"not null;index" json:"end_date"`
	PaymentMethod      string     `gorm:"size:20;not null;default:'bank_transfer'" json:"payment_method"`
	PaymentStatus      string     `gorm:"size:20;not null;default:'pending'" json:"payment_status"`
	PaymentDate        *time.Time `json:"payment_date,omitempty"`
	Amount             float64    `gorm:"not null" json:"amount"`
	Currency           string     `gorm:"size:3;not null;default:'JOD'" json:"currency"`
	Notes              string     `gorm:"type:text" json:"notes,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *uuid.UUID `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	CancellationReason string     `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Teacher *Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Plan    *Plan    `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

// NonTerminalStatuses are the states that block a fresh subscription for
// the same account.
var NonTerminalStatuses = []string{SubscriptionActive, SubscriptionPending, SubscriptionInactive}

func (s *Subscription) IsTerminal() bool {
	return s.Status == SubscriptionExpired || s.Status == SubscriptionCancelled
}

func (s *Subscription) IsExpired(now time.Time) bool {
	return s.EndDate.Before(now)
}

// IsValid reports whether the subscription currently grants capacity.
func (s *Subscription) IsValid(now time.Time) bool {
	return s.Status == SubscriptionActive && !s.IsExpired(now)
}
