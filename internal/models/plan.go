package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DurationDays   = "days"
	DurationMonths = "months"
	DurationYears  = "years"
)

// Plan is a teacher-side subscription package. Ceilings issued to accounts
// are snapshots; editing a plan never touches already-granted limits.
type Plan struct {
	ID           uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string                      `gorm:"size:120;not null;uniqueIndex" json:"name"`
	Description  string                      `gorm:"type:text" json:"description"`
	Price        float64                     `gorm:"not null" json:"price"`
	Currency     string                      `gorm:"size:3;not null;default:'JOD'" json:"currency"`
	MaxStudents  int                         `gorm:"not null" json:"max_students"`
	MaxExams     int                         `gorm:"not null" json:"max_exams"`
	MaxQuestions int                         `gorm:"not null" json:"max_questions"`
	Duration     int                         `gorm:"not null;default:30" json:"duration"`
	DurationUnit string                      `gorm:"size:10;not null;default:'days'" json:"duration_unit"`
	StartDate    time.Time                   `gorm:"not null" json:"start_date"`
	EndDate      time.Time                   `gorm:"not null" json:"end_date"`
	IsActive     bool                        `gorm:"not null;default:true;index" json:"is_active"`
	Features     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"features"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (p *Plan) IsFree() bool { return p.Price == 0 }

// PeriodEnd returns from advanced by one plan duration.
func (p *Plan) PeriodEnd(from time.Time) time.Time {
	return AddDuration(from, p.Duration, p.DurationUnit)
}

// AddDuration advances t by n units, defaulting unknown units to days.
func AddDuration(t time.Time, n int, unit string) time.Time {
	switch unit {
	case DurationMonths:
		return t.AddDate(0, n, 0)
	case DurationYears:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}
