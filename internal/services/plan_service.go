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

type PlanService struct {
	db *gorm.DB
}

func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{db: db}
}

func (s *PlanService) Create(req *dto.CreatePlanRequest) (*models.Plan, error) {
	if req.Name == "" || req.Price == nil {
		return nil, apperr.Validation("name and price are required")
	}
	if *req.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}
	if req.MaxStudents < 1 || req.MaxExams < 1 || req.MaxQuestions < 1 {
		return nil, apperr.Validation("quota ceilings must be at least 1")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || !req.StartDate.Before(req.EndDate) {
		return nil, apperr.Validation("start date must be before end date")
	}
	if req.DurationUnit != "" && !validDurationUnit(req.DurationUnit) {
		return nil, apperr.Validation("duration unit must be days, months or years")
	}

	var existing models.Plan
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("a plan with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check plan name: %w", err)
	}

	plan := models.Plan{
		ID:           uuid.New(),
		Name:         req.Name,
		Description:  req.Description,
		Price:        *req.Price,
		Currency:     defaultString(req.Currency, "JOD"),
		MaxStudents:  req.MaxStudents,
		MaxExams:     req.MaxExams,
		MaxQuestions: req.MaxQuestions,
		Duration:     defaultInt(req.Duration, 30),
		DurationUnit: defaultString(req.DurationUnit, models.DurationDays),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     true,
		Features:     datatypes.NewJSONSlice(req.Features),
	}

	if err := s.db.Create(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return &plan, nil
}

// List returns plans newest first, optionally filtered by active state.
func (s *PlanService) List(active *bool) ([]models.Plan, error) {
	var plans []models.Plan
	q := s.db.Order("created_at DESC")
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	if err := q.Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *PlanService) GetByID(id uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan")
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return &plan, nil
}

// Update applies an administrative edit. Already-issued limit snapshots
// are untouched: no cascade to existing subscriptions.
func (s *PlanService) Update(id uuid.UUID, req *dto.UpdatePlanRequest) (*models.Plan, error) {
	plan, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperr.Validation("price must not be negative")
		}
		plan.Price = *req.Price
	}
	if req.MaxStudents != nil {
		if *req.MaxStudents < 1 {
			return nil, apperr.Validation("max students must be at least 1")
		}
		plan.MaxStudents = *req.MaxStudents
	}
	if req.MaxExams != nil {
		if *req.MaxExams < 1 {
			return nil, apperr.Validation("max exams must be at least 1")
		}
		plan.MaxExams = *req.MaxExams
	}
	if req.MaxQuestions != nil {
		if *req.MaxQuestions < 1 {
			return nil, apperr.Validation("max questions must be at least 1")
		}
		plan.MaxQuestions = *req.MaxQuestions
	}
	if req.Duration != nil {
		if *req.Duration < 1 {
			return nil, apperr.Validation("duration must be at least 1")
		}
		plan.Duration = *req.Duration
	}
	if req.DurationUnit != nil {
		if !validDurationUnit(*req.DurationUnit) {
			return nil, apperr.Validation("duration unit must be days, months or years")
		}
		plan.DurationUnit = *req.DurationUnit
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Currency != nil {
		plan.Currency = *req.Currency
	}
	if req.Features != nil {
		plan.Features = datatypes.NewJSONSlice(*req.Features)
	}

	if err := s.db.Save(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return plan, nil
}

// ToggleActive flips the sale window. Deactivating a plan never shrinks a
// live account's snapshot.
func (s *PlanService) ToggleActive(id uuid.UUID) (*models.Plan, error) {
	plan, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	plan.IsActive = !plan.IsActive
	if err := s.db.Model(plan).Update("is_active", plan.IsActive).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle plan: %w", err)
	}
	return plan, nil
}

func validDurationUnit(u string) bool {
	return u == models.DurationDays || u == models.DurationMonths || u == models.DurationYears
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
