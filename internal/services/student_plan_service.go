package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudentPlanService struct {
	db *gorm.DB
}

func NewStudentPlanService(db *gorm.DB) *StudentPlanService {
	return &StudentPlanService{db: db}
}

func (s *StudentPlanService) Create(req *dto.CreateStudentPlanRequest) (*models.StudentPlan, error) {
	if req.Name == "" || req.Price == nil {
		return nil, apperr.Validation("name and price are required")
	}
	if *req.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}
	if req.MaxTeachers < 0 || req.FreeExtraTeachers < 0 || req.FreeExtraStudents < 0 {
		return nil, apperr.Validation("teacher allowances must not be negative")
	}
	if req.TeacherType != "" && !validTeacherType(req.TeacherType) {
		return nil, apperr.Validation("teacher type must be platform, exempt or both")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || !req.StartDate.Before(req.EndDate) {
		return nil, apperr.Validation("start date must be before end date")
	}

	var existing models.StudentPlan
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("a student plan with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check student plan name: %w", err)
	}

	plan := models.StudentPlan{
		ID:                uuid.New(),
		Name:              req.Name,
		Description:       req.Description,
		Price:             *req.Price,
		Currency:          defaultString(req.Currency, "JOD"),
		MaxTeachers:       req.MaxTeachers,
		TeacherType:       defaultString(req.TeacherType, models.TeacherTypeBoth),
		FreeExtraTeachers: req.FreeExtraTeachers,
		FreeExtraStudents: req.FreeExtraStudents,
		Duration:          defaultInt(req.Duration, 30),
		DurationUnit:      defaultString(req.DurationUnit, models.DurationDays),
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		IsActive:          true,
		Features:          datatypes.NewJSONSlice(req.Features),
	}

	if err := s.db.Create(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create student plan: %w", err)
	}
	return &plan, nil
}

func (s *StudentPlanService) List(active *bool) ([]models.StudentPlan, error) {
	var plans []models.StudentPlan
	q := s.db.Order("created_at DESC")
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	if err := q.Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list student plans: %w", err)
	}
	return plans, nil
}

func (s *StudentPlanService) GetByID(id uuid.UUID) (*models.StudentPlan, error) {
	var plan models.StudentPlan
	if err := s.db.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("student plan")
		}
		return nil, fmt.Errorf("failed to load student plan: %w", err)
	}
	return &plan, nil
}

func (s *StudentPlanService) ToggleActive(id uuid.UUID) (*models.StudentPlan, error) {
	plan, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	plan.IsActive = !plan.IsActive
	if err := s.db.Model(plan).Update("is_active", plan.IsActive).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle student plan: %w", err)
	}
	return plan, nil
}

func validTeacherType(t string) bool {
	return t == models.TeacherTypePlatform || t == models.TeacherTypeExempt || t == models.TeacherTypeBoth
}
