package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/exempt"
	"github.com/tadreeshq/tadrees-backend/internal/models"
	"gorm.io/gorm"
)

// EntitlementService gates every quota-consuming operation. Check is an
// advisory read for fast user-facing rejection; Commit is the conditional
// increment that actually enforces the ceiling under concurrency.
type EntitlementService struct {
	db     *gorm.DB
	policy exempt.Policy
}

func NewEntitlementService(db *gorm.DB, policy exempt.Policy) *EntitlementService {
	return &EntitlementService{db: db, policy: policy}
}

func usageColumns(kind string) (countCol, limitCol string, err error) {
	switch kind {
	case models.ResourceStudent:
		return "students_count", "max_students", nil
	case models.ResourceExam:
		return "exams_count", "max_exams", nil
	case models.ResourceQuestion:
		return "questions_count", "max_questions", nil
	default:
		return "", "", apperr.Validation("unknown resource kind: " + kind)
	}
}

// Check validates the account, its subscription, and remaining capacity
// for one resource kind. It performs no mutation.
func (s *EntitlementService) Check(teacherID uuid.UUID, kind string) error {
	if _, _, err := usageColumns(kind); err != nil {
		return err
	}

	var teacher models.Teacher
	if err := s.db.First(&teacher, "id = ?", teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("teacher")
		}
		return fmt.Errorf("failed to load teacher: %w", err)
	}

	// Exempt accounts bypass subscription and quota checks entirely.
	if s.policy.IsExempt(teacherID) {
		return nil
	}

	if teacher.IsBanned {
		return apperr.Authorization("account is banned, contact support")
	}
	if teacher.IsRestricted {
		return apperr.Authorization("account is restricted after the free plan lapsed")
	}

	if err := s.checkSubscription(&teacher); err != nil {
		return err
	}

	if !teacher.HasCapacity(kind) {
		ceiling := teacher.Limits.Ceiling(kind)
		return apperr.LimitReached(
			fmt.Sprintf("subscription limit reached for %ss (maximum %d)", kind, ceiling),
			ceiling,
		)
	}
	return nil
}

func (s *EntitlementService) checkSubscription(teacher *models.Teacher) error {
	if teacher.SubscriptionID == nil {
		return apperr.Authorization("no active subscription, subscribe to a plan to continue")
	}

	var sub models.Subscription
	if err := s.db.Preload("Plan").First(&sub, "id = ?", *teacher.SubscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Authorization("subscription record is missing")
		}
		return fmt.Errorf("failed to load subscription: %w", err)
	}

	now := time.Now()
	if sub.Status != models.SubscriptionActive {
		return apperr.Authorization("subscription is not active (status: " + sub.Status + ")")
	}
	if sub.IsExpired(now) {
		return apperr.Authorization("subscription has expired")
	}
	if sub.Plan != nil && !sub.Plan.IsActive {
		return apperr.Authorization("the subscribed plan is no longer active")
	}
	return nil
}

// CommitIncrement counts one created resource. The UPDATE carries the
// ceiling guard so two racing requests can never both take the last slot:
// the row only matches while the post-increment value stays within the
// snapshot. Exempt accounts are never counted.
func (s *EntitlementService) CommitIncrement(teacherID uuid.UUID, kind string) error {
	countCol, limitCol, err := usageColumns(kind)
	if err != nil {
		return err
	}

	if s.policy.IsExempt(teacherID) {
		return nil
	}

	result := s.db.Model(&models.Teacher{}).
		Where(fmt.Sprintf("id = ? AND %s < %s", countCol, limitCol), teacherID).
		UpdateColumn(countCol, gorm.Expr(countCol+" + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to commit usage increment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the teacher vanished or the ceiling was hit between
		// Check and Commit.
		var teacher models.Teacher
		if err := s.db.First(&teacher, "id = ?", teacherID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("teacher")
			}
			return fmt.Errorf("failed to load teacher: %w", err)
		}
		ceiling := teacher.Limits.Ceiling(kind)
		return apperr.LimitReached(
			fmt.Sprintf("subscription limit reached for %ss (maximum %d)", kind, ceiling),
			ceiling,
		)
	}
	return nil
}

// CommitDecrement counts one explicitly deleted resource, floored at zero.
func (s *EntitlementService) CommitDecrement(teacherID uuid.UUID, kind string) error {
	countCol, _, err := usageColumns(kind)
	if err != nil {
		return err
	}

	if s.policy.IsExempt(teacherID) {
		return nil
	}

	result := s.db.Model(&models.Teacher{}).
		Where("id = ?", teacherID).
		UpdateColumn(countCol, gorm.Expr(fmt.Sprintf("GREATEST(%s - 1, 0)", countCol)))
	if result.Error != nil {
		return fmt.Errorf("failed to commit usage decrement: %w", result.Error)
	}
	return nil
}

// Usage returns the account's ledger readout.
func (s *EntitlementService) Usage(teacherID uuid.UUID) (*models.Teacher, bool, error) {
	var teacher models.Teacher
	if err := s.db.First(&teacher, "id = ?", teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperr.NotFound("teacher")
		}
		return nil, false, fmt.Errorf("failed to load teacher: %w", err)
	}
	return &teacher, s.policy.IsExempt(teacherID), nil
}
