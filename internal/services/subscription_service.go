package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/models"
	"gorm.io/gorm"
)

// SubscriptionService owns the per-account subscription state machine.
// Terminal states are expired and cancelled; nothing transitions out of
// them.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Create opens a subscription for a teacher account. issuedBy decides the
// entry state: administrator-issued requests start pending, self-service
// ones start inactive so no capacity is granted before payment confirms.
func (s *SubscriptionService) Create(teacherID, planID uuid.UUID, issuedBy string, req *dto.CreateSubscriptionRequest) (*models.Subscription, error) {
	if issuedBy != dto.IssuedBySelf && issuedBy != dto.IssuedByAdministrator {
		return nil, apperr.Validation("issuedBy must be self or administrator")
	}

	var teacher models.Teacher
	if err := s.db.First(&teacher, "id = ?", teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("teacher")
		}
		return nil, fmt.Errorf("failed to load teacher: %w", err)
	}

	var plan models.Plan
	if err := s.db.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan")
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if !plan.IsActive {
		return nil, apperr.Validation("plan is not available for sale")
	}

	var existing models.Subscription
	err := s.db.Where("teacher_id = ? AND status IN ?", teacherID, models.NonTerminalStatuses).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("teacher already has a pending or active subscription")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing subscription: %w", err)
	}

	startDate, endDate, err := resolveDates(req.StartDate, req.EndDate, &plan)
	if err != nil {
		return nil, err
	}

	status := models.SubscriptionInactive
	if issuedBy == dto.IssuedByAdministrator {
		status = models.SubscriptionPending
	}

	amount := plan.Price
	if req.Amount != nil {
		amount = *req.Amount
	}

	sub := models.Subscription{
		ID:            uuid.New(),
		TeacherID:     teacherID,
		PlanID:        planID,
		Status:        status,
		StartDate:     startDate,
		EndDate:       endDate,
		PaymentMethod: defaultString(req.PaymentMethod, "bank_transfer"),
		PaymentStatus: models.PaymentPending,
		Amount:        amount,
		Currency:      defaultString(req.Currency, plan.Currency),
		Notes:         req.Notes,
	}

	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	// Link the account. Capacity stays zero until activation.
	teacher.SubscriptionID = &sub.ID
	teacher.ClearLimits()
	if err := s.db.Save(&teacher).Error; err != nil {
		// Compensating cleanup: never leave an orphaned non-terminal row.
		if delErr := s.db.Delete(&sub).Error; delErr != nil {
			slog.Error("subscription cleanup failed after account update error",
				"subscription_id", sub.ID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to attach subscription to teacher: %w", err)
	}

	return &sub, nil
}

// Activate confirms payment: status=active, paymentStatus=paid, ceilings
// snapshotted from the plan. Usage counters are never reset here.
func (s *SubscriptionService) Activate(subscriptionID uuid.UUID, req *dto.ActivateSubscriptionRequest) (*models.Subscription, error) {
	sub, err := s.GetByID(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.IsTerminal() {
		return nil, apperr.Validation("subscription is " + sub.Status + " and cannot be activated")
	}

	var plan models.Plan
	if err := s.db.First(&plan, "id = ?", sub.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan")
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	now := time.Now()
	if req.NewEndDate != nil {
		sub.EndDate = *req.NewEndDate
	} else if sub.EndDate.IsZero() {
		sub.EndDate = plan.PeriodEnd(now)
	}

	sub.Status = models.SubscriptionActive
	sub.PaymentStatus = models.PaymentPaid
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}
	sub.PaymentDate = &paymentDate
	if req.PaymentMethod != "" {
		sub.PaymentMethod = req.PaymentMethod
	}
	if req.Notes != nil {
		sub.Notes = *req.Notes
	}
	if req.Amount != nil {
		sub.Amount = *req.Amount
	} else if sub.Amount == 0 {
		sub.Amount = plan.Price
	}

	if err := s.db.Save(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	if err := s.snapshotTeacherLimits(sub.TeacherID, &plan); err != nil {
		return nil, err
	}
	return sub, nil
}

// Deactivate withdraws capacity immediately while keeping the record for
// audit.
func (s *SubscriptionService) Deactivate(subscriptionID uuid.UUID, req *dto.DeactivateSubscriptionRequest) (*models.Subscription, error) {
	sub, err := s.GetByID(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.IsTerminal() {
		return nil, apperr.Validation("subscription is " + sub.Status + " and cannot be deactivated")
	}

	sub.Status = models.SubscriptionInactive
	sub.PaymentStatus = models.PaymentPending
	sub.PaymentDate = nil
	if req.Reason != "" {
		sub.CancellationReason = req.Reason
	}
	if req.Notes != nil {
		sub.Notes = *req.Notes
	}

	if err := s.db.Save(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate subscription: %w", err)
	}

	if err := s.clearTeacherLimits(sub.TeacherID); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel is terminal and idempotent-guarded: cancelling twice fails.
func (s *SubscriptionService) Cancel(subscriptionID uuid.UUID, req *dto.CancelSubscriptionRequest) (*models.Subscription, error) {
	sub, err := s.GetByID(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubscriptionCancelled {
		return nil, apperr.Validation("subscription is already cancelled")
	}

	now := time.Now()
	sub.Status = models.SubscriptionCancelled
	sub.CancelledAt = &now
	if req.Reason != "" {
		sub.CancellationReason = req.Reason
	}
	if req.CancelledBy != "" {
		if by, parseErr := uuid.Parse(req.CancelledBy); parseErr == nil {
			sub.CancelledBy = &by
		}
	}

	if err := s.db.Save(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	if err := s.clearTeacherLimits(sub.TeacherID); err != nil {
		return nil, err
	}
	return sub, nil
}

// Renew extends from the later of the current end date and now, so lapsed
// accounts do not lose the gap and running accounts keep their remainder.
func (s *SubscriptionService) Renew(subscriptionID uuid.UUID, req *dto.RenewSubscriptionRequest) (*models.Subscription, error) {
	sub, err := s.GetByID(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubscriptionCancelled {
		return nil, apperr.Validation("a cancelled subscription cannot be renewed")
	}

	var plan models.Plan
	if err := s.db.First(&plan, "id = ?", sub.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan")
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	now := time.Now()
	base := sub.EndDate
	if base.Before(now) {
		base = now
	}
	sub.EndDate = plan.PeriodEnd(base)
	sub.Status = models.SubscriptionActive
	sub.PaymentStatus = models.PaymentPaid
	sub.PaymentDate = &now
	if req.Amount != nil {
		sub.Amount = *req.Amount
	}
	if req.PaymentMethod != "" {
		sub.PaymentMethod = req.PaymentMethod
	}

	if err := s.db.Save(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to renew subscription: %w", err)
	}

	if err := s.snapshotTeacherLimits(sub.TeacherID, &plan); err != nil {
		return nil, err
	}
	return sub, nil
}

// ChangePlan re-snapshots ceilings from the new plan and recomputes the
// end date from now. Not retroactive: prior usage stands.
func (s *SubscriptionService) ChangePlan(subscriptionID uuid.UUID, req *dto.ChangePlanRequest) (*models.Subscription, error) {
	sub, err := s.GetByID(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.IsTerminal() {
		return nil, apperr.Validation("subscription is " + sub.Status + " and cannot change plan")
	}

	newPlanID, err := uuid.Parse(req.NewPlanID)
	if err != nil {
		return nil, apperr.Validation("invalid new plan id")
	}

	var newPlan models.Plan
	if err := s.db.First(&newPlan, "id = ?", newPlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan")
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	sub.PlanID = newPlanID
	if req.CustomEndDate != nil {
		sub.EndDate = *req.CustomEndDate
	} else {
		sub.EndDate = newPlan.PeriodEnd(time.Now())
	}
	if req.Amount != nil {
		sub.Amount = *req.Amount
	}

	if err := s.db.Save(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to change plan: %w", err)
	}

	if sub.Status == models.SubscriptionActive {
		if err := s.snapshotTeacherLimits(sub.TeacherID, &newPlan); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// UpdatePaymentStatus is the patch endpoint behind the payment
// collaborator: paid while pending or inactive promotes to active.
func (s *SubscriptionService) UpdatePaymentStatus(subscriptionID uuid.UUID, req *dto.UpdatePaymentStatusRequest) (*models.Subscription, error) {
	if req.PaymentStatus != "" && !validPaymentStatus(req.PaymentStatus) {
		return nil, apperr.Validation("invalid payment status")
	}

	sub, err := s.GetByID(subscriptionID)
	if err != nil {
		return nil, err
	}

	if req.PaymentStatus != "" {
		sub.PaymentStatus = req.PaymentStatus
	}
	if req.PaymentDate != nil {
		sub.PaymentDate = req.PaymentDate
	}
	if req.PaymentMethod != "" {
		sub.PaymentMethod = req.PaymentMethod
	}
	if req.Notes != nil {
		sub.Notes = *req.Notes
	}
	if req.Amount != nil {
		sub.Amount = *req.Amount
	}
	if req.NewEndDate != nil {
		sub.EndDate = *req.NewEndDate
	}

	promoted := false
	if req.PaymentStatus == models.PaymentPaid &&
		(sub.Status == models.SubscriptionPending || sub.Status == models.SubscriptionInactive) {
		sub.Status = models.SubscriptionActive
		promoted = true
	}

	// Resolve the plan before saving: a promotion must never persist an
	// active subscription whose account limits cannot be snapshotted.
	var plan models.Plan
	if promoted {
		if err := s.db.First(&plan, "id = ?", sub.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("plan")
			}
			return nil, fmt.Errorf("failed to load plan: %w", err)
		}
	}

	if err := s.db.Save(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	if promoted {
		if err := s.snapshotTeacherLimits(sub.TeacherID, &plan); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

func (s *SubscriptionService) GetByID(id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("subscription")
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

// List returns subscriptions newest first with optional filters, preloaded
// for the admin panel.
func (s *SubscriptionService) List(status string, teacherID, planID *uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription
	q := s.db.Preload("Teacher").Preload("Plan").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if teacherID != nil {
		q = q.Where("teacher_id = ?", *teacherID)
	}
	if planID != nil {
		q = q.Where("plan_id = ?", *planID)
	}
	if err := q.Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

// ActiveForTeacher returns the teacher's active subscription, or nil.
func (s *SubscriptionService) ActiveForTeacher(teacherID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Preload("Plan").
		Where("teacher_id = ? AND status = ?", teacherID, models.SubscriptionActive).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active subscription: %w", err)
	}
	return &sub, nil
}

func (s *SubscriptionService) snapshotTeacherLimits(teacherID uuid.UUID, plan *models.Plan) error {
	result := s.db.Model(&models.Teacher{}).Where("id = ?", teacherID).Updates(map[string]interface{}{
		"max_students":  plan.MaxStudents,
		"max_exams":     plan.MaxExams,
		"max_questions": plan.MaxQuestions,
		"is_restricted": false,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to snapshot teacher limits: %w", result.Error)
	}
	return nil
}

func (s *SubscriptionService) clearTeacherLimits(teacherID uuid.UUID) error {
	result := s.db.Model(&models.Teacher{}).Where("id = ?", teacherID).Updates(map[string]interface{}{
		"max_students":  0,
		"max_exams":     0,
		"max_questions": 0,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to clear teacher limits: %w", result.Error)
	}
	return nil
}

func resolveDates(start, end *time.Time, plan *models.Plan) (time.Time, time.Time, error) {
	now := time.Now()

	if start != nil && end != nil {
		if !end.After(*start) {
			return time.Time{}, time.Time{}, apperr.Validation("end date must be after start date")
		}
		return *start, *end, nil
	}

	// Fall back to the plan's fixed sale window when it defines one in
	// the future, else run one duration from now.
	if !plan.StartDate.IsZero() && !plan.EndDate.IsZero() && plan.EndDate.After(now) {
		return plan.StartDate, plan.EndDate, nil
	}

	return now, plan.PeriodEnd(now), nil
}

func validPaymentStatus(s string) bool {
	switch s {
	case models.PaymentPending, models.PaymentPaid, models.PaymentUnpaid, models.PaymentFailed, models.PaymentRefunded:
		return true
	}
	return false
}
