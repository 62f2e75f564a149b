package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudentSubscriptionService struct {
	db *gorm.DB
}

func NewStudentSubscriptionService(db *gorm.DB) *StudentSubscriptionService {
	return &StudentSubscriptionService{db: db}
}

// Create opens a student subscription in pending state with a snapshot of
// the plan's enrollment terms. Payment confirmation activates it.
func (s *StudentSubscriptionService) Create(studentID, planID uuid.UUID, notes string) (*models.StudentSubscription, error) {
	var student models.Student
	if err := s.db.First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("student")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	var plan models.StudentPlan
	if err := s.db.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("student plan")
		}
		return nil, fmt.Errorf("failed to load student plan: %w", err)
	}
	if !plan.IsActive {
		return nil, apperr.Validation("student plan is not available for sale")
	}

	var existing models.StudentSubscription
	err := s.db.Where("student_id = ? AND status IN ?", studentID, models.NonTerminalStatuses).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("student already has a pending or active subscription")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing student subscription: %w", err)
	}

	now := time.Now()
	sub := models.StudentSubscription{
		ID:            uuid.New(),
		StudentID:     studentID,
		StudentPlanID: planID,
		PlanSnapshot:  datatypes.NewJSONType(plan.Snapshot()),
		Status:        models.SubscriptionPending,
		PaymentStatus: models.PaymentPending,
		StartDate:     now,
		EndDate:       models.AddDuration(now, plan.Duration, plan.DurationUnit),
		Notes:         notes,
	}

	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create student subscription: %w", err)
	}
	return &sub, nil
}

// MarkPayment applies a payment outcome from the payment collaborator.
// paid activates; failed and refunded withdraw the subscription.
func (s *StudentSubscriptionService) MarkPayment(subscriptionID uuid.UUID, paymentStatus string) (*models.StudentSubscription, error) {
	if !validPaymentStatus(paymentStatus) {
		return nil, apperr.Validation("invalid payment status")
	}

	var sub models.StudentSubscription
	if err := s.db.First(&sub, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("student subscription")
		}
		return nil, fmt.Errorf("failed to load student subscription: %w", err)
	}
	if sub.IsTerminal() && paymentStatus == models.PaymentPaid {
		return nil, apperr.Validation("student subscription is " + sub.Status + " and cannot be activated")
	}

	sub.PaymentStatus = paymentStatus
	switch paymentStatus {
	case models.PaymentPaid:
		sub.Status = models.SubscriptionActive
	case models.PaymentFailed, models.PaymentRefunded:
		if !sub.IsTerminal() {
			sub.Status = models.SubscriptionCancelled
		}
	}

	if err := s.db.Save(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to update student subscription: %w", err)
	}
	return &sub, nil
}

// ActiveForStudent returns the student's valid subscription, or nil.
func (s *StudentSubscriptionService) ActiveForStudent(studentID uuid.UUID) (*models.StudentSubscription, error) {
	var sub models.StudentSubscription
	err := s.db.Where("student_id = ? AND status = ? AND payment_status = ? AND end_date > ?",
		studentID, models.SubscriptionActive, models.PaymentPaid, time.Now()).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load student subscription: %w", err)
	}
	return &sub, nil
}
