package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/exempt"
	"github.com/tadreeshq/tadrees-backend/internal/models"
	"gorm.io/gorm"
)

// EnrollmentService applies the entitlement-gate pattern to the student
// side: the counted resource is distinct teacher relationships instead of
// a plain counter.
type EnrollmentService struct {
	db          *gorm.DB
	policy      exempt.Policy
	studentSubs *StudentSubscriptionService
	entitlement *EntitlementService
}

func NewEnrollmentService(db *gorm.DB, policy exempt.Policy, studentSubs *StudentSubscriptionService, entitlement *EntitlementService) *EnrollmentService {
	return &EnrollmentService{
		db:          db,
		policy:      policy,
		studentSubs: studentSubs,
		entitlement: entitlement,
	}
}

// Enroll creates a teacher-student relationship after the full
// eligibility check: valid student subscription, permitted teacher
// category, teacher allowance not exhausted, pair not already enrolled,
// and teacher-side student capacity available.
func (s *EnrollmentService) Enroll(studentID, teacherID uuid.UUID, enrollType, notes string) (*models.Enrollment, error) {
	var teacher models.Teacher
	if err := s.db.First(&teacher, "id = ?", teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("teacher")
		}
		return nil, fmt.Errorf("failed to load teacher: %w", err)
	}

	sub, err := s.studentSubs.ActiveForStudent(studentID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperr.Authorization("an active, paid student subscription is required before enrolling with a teacher")
	}

	snapshot := sub.PlanSnapshot.Data()
	teacherIsExempt := s.policy.IsExempt(teacherID)

	switch snapshot.TeacherType {
	case models.TeacherTypeExempt:
		if !teacherIsExempt {
			return nil, apperr.Authorization("your plan only allows platform-curated teachers")
		}
	case models.TeacherTypePlatform:
		if teacherIsExempt {
			return nil, apperr.Authorization("your plan only allows independent platform teachers")
		}
	}

	count, err := s.distinctTeacherCount(studentID)
	if err != nil {
		return nil, err
	}
	if allowed := snapshot.AllowedTeachers(); allowed > 0 && count >= int64(allowed) {
		return nil, apperr.LimitReached(
			fmt.Sprintf("you reached your plan's teacher allowance (%d)", allowed),
			allowed,
		)
	}

	var existing models.Enrollment
	err = s.db.Where("teacher_id = ? AND student_id = ?", teacherID, studentID).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("already enrolled with this teacher")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing enrollment: %w", err)
	}

	// The teacher's own student quota gates the other side of the pair.
	if err := s.entitlement.Check(teacherID, models.ResourceStudent); err != nil {
		return nil, err
	}

	enrollment := models.Enrollment{
		ID:            uuid.New(),
		TeacherID:     teacherID,
		StudentID:     studentID,
		Type:          defaultString(enrollType, models.EnrollmentFree),
		Status:        models.SubscriptionActive,
		PaymentStatus: models.PaymentUnpaid,
		StartDate:     time.Now(),
		Notes:         notes,
	}
	if err := s.db.Create(&enrollment).Error; err != nil {
		// The unique pair index may race a concurrent enroll.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("already enrolled with this teacher")
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	if err := s.entitlement.CommitIncrement(teacherID, models.ResourceStudent); err != nil {
		// Roll the relationship back rather than leave the teacher over
		// the ceiling. Best-effort: a cleanup failure is logged, not
		// re-thrown.
		if delErr := s.db.Delete(&enrollment).Error; delErr != nil {
			slog.Error("enrollment cleanup failed after usage commit error",
				"enrollment_id", enrollment.ID, "error", delErr)
		}
		return nil, err
	}

	return &enrollment, nil
}

// distinctTeacherCount counts the student's current teachers, excluding
// cancelled or inactive relationships and the designated always-free
// exempt teacher.
func (s *EnrollmentService) distinctTeacherCount(studentID uuid.UUID) (int64, error) {
	q := s.db.Model(&models.Enrollment{}).
		Where("student_id = ? AND status NOT IN ?", studentID, []string{models.SubscriptionCancelled, models.SubscriptionInactive})

	if free := s.policy.FreeTeacherID(); free != uuid.Nil {
		q = q.Where("teacher_id <> ?", free)
	}

	var count int64
	if err := q.Distinct("teacher_id").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}

// ListForStudent returns the student's enrollments newest first.
func (s *EnrollmentService) ListForStudent(studentID uuid.UUID) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

// Cancel withdraws the relationship and releases the teacher-side slot.
func (s *EnrollmentService) Cancel(studentID, enrollmentID uuid.UUID) error {
	var enrollment models.Enrollment
	if err := s.db.First(&enrollment, "id = ? AND student_id = ?", enrollmentID, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("enrollment")
		}
		return fmt.Errorf("failed to load enrollment: %w", err)
	}
	if enrollment.Status == models.SubscriptionCancelled {
		return apperr.Validation("enrollment is already cancelled")
	}

	now := time.Now()
	enrollment.Status = models.SubscriptionCancelled
	enrollment.EndDate = &now
	if err := s.db.Save(&enrollment).Error; err != nil {
		return fmt.Errorf("failed to cancel enrollment: %w", err)
	}

	return s.entitlement.CommitDecrement(enrollment.TeacherID, models.ResourceStudent)
}
