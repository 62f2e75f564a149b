package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/models"
	"gorm.io/gorm"
)

// ContentService owns the quota-consuming resources themselves. Every
// create runs check, write, commit in that order; the commit only happens
// once the guarded write succeeded.
type ContentService struct {
	db          *gorm.DB
	entitlement *EntitlementService
}

func NewContentService(db *gorm.DB, entitlement *EntitlementService) *ContentService {
	return &ContentService{db: db, entitlement: entitlement}
}

// AddRosterStudent puts an existing student on the teacher's roster.
func (s *ContentService) AddRosterStudent(teacherID, studentID uuid.UUID) (*models.RosterEntry, error) {
	if err := s.entitlement.Check(teacherID, models.ResourceStudent); err != nil {
		return nil, err
	}

	var student models.Student
	if err := s.db.First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("student")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	var existing models.RosterEntry
	err := s.db.Where("teacher_id = ? AND student_id = ?", teacherID, studentID).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("student is already on the roster")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check roster: %w", err)
	}

	entry := models.RosterEntry{
		ID:        uuid.New(),
		TeacherID: teacherID,
		StudentID: studentID,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("student is already on the roster")
		}
		return nil, fmt.Errorf("failed to add roster entry: %w", err)
	}

	if err := s.entitlement.CommitIncrement(teacherID, models.ResourceStudent); err != nil {
		if delErr := s.db.Delete(&entry).Error; delErr != nil {
			slog.Error("roster cleanup failed after usage commit error",
				"entry_id", entry.ID, "error", delErr)
		}
		return nil, err
	}
	return &entry, nil
}

func (s *ContentService) RemoveRosterStudent(teacherID, studentID uuid.UUID) error {
	result := s.db.Where("teacher_id = ? AND student_id = ?", teacherID, studentID).Delete(&models.RosterEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove roster entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("roster entry")
	}
	return s.entitlement.CommitDecrement(teacherID, models.ResourceStudent)
}

func (s *ContentService) CreateExam(teacherID uuid.UUID, req *dto.CreateExamRequest) (*models.Exam, error) {
	if req.Title == "" {
		return nil, apperr.Validation("exam title is required")
	}
	if err := s.entitlement.Check(teacherID, models.ResourceExam); err != nil {
		return nil, err
	}

	exam := models.Exam{
		ID:            uuid.New(),
		TeacherID:     teacherID,
		Title:         req.Title,
		Subject:       req.Subject,
		QuestionCount: req.QuestionCount,
	}
	if err := s.db.Create(&exam).Error; err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	if err := s.entitlement.CommitIncrement(teacherID, models.ResourceExam); err != nil {
		if delErr := s.db.Delete(&exam).Error; delErr != nil {
			slog.Error("exam cleanup failed after usage commit error",
				"exam_id", exam.ID, "error", delErr)
		}
		return nil, err
	}
	return &exam, nil
}

func (s *ContentService) DeleteExam(teacherID, examID uuid.UUID) error {
	result := s.db.Where("id = ? AND teacher_id = ?", examID, teacherID).Delete(&models.Exam{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete exam: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("exam")
	}
	return s.entitlement.CommitDecrement(teacherID, models.ResourceExam)
}

func (s *ContentService) CreateQuestion(teacherID uuid.UUID, req *dto.CreateQuestionRequest) (*models.Question, error) {
	if req.Text == "" {
		return nil, apperr.Validation("question text is required")
	}
	if err := s.entitlement.Check(teacherID, models.ResourceQuestion); err != nil {
		return nil, err
	}

	question := models.Question{
		ID:        uuid.New(),
		TeacherID: teacherID,
		Subject:   req.Subject,
		Text:      req.Text,
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	if err := s.entitlement.CommitIncrement(teacherID, models.ResourceQuestion); err != nil {
		if delErr := s.db.Delete(&question).Error; delErr != nil {
			slog.Error("question cleanup failed after usage commit error",
				"question_id", question.ID, "error", delErr)
		}
		return nil, err
	}
	return &question, nil
}

func (s *ContentService) DeleteQuestion(teacherID, questionID uuid.UUID) error {
	result := s.db.Where("id = ? AND teacher_id = ?", questionID, teacherID).Delete(&models.Question{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("question")
	}
	return s.entitlement.CommitDecrement(teacherID, models.ResourceQuestion)
}
