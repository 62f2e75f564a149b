package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Teacher categories a student plan may grant access to. "exempt" covers
// the platform's own allowlisted teachers, "platform" the regular paid
// accounts.
const (
	TeacherTypePlatform = "platform"
	TeacherTypeExempt   = "exempt"
	TeacherTypeBoth     = "both"
)

// StudentPlan is the student-side catalog: it caps distinct teacher
// relationships instead of created resources.
type StudentPlan struct {
	ID                uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string                      `gorm:"size:120;not null;uniqueIndex" json:"name"`
	Description       string                      `gorm:"type:text" json:"description"`
	Price             float64                     `gorm:"not null" json:"price"`
	Currency          string                      `gorm:"size:3;not null;default:'JOD'" json:"currency"`
	MaxTeachers       int                         `gorm:"not null" json:"max_teachers"`
	TeacherType       string                      `gorm:"size:10;not null;default:'both';index" json:"teacher_type"`
	FreeExtraTeachers int                         `gorm:"not null;default:0" json:"free_extra_teachers"`
	FreeExtraStudents int                         `gorm:"not null;default:0" json:"free_extra_students"`
	Duration          int                         `gorm:"not null;default:30" json:"duration"`
	DurationUnit      string                      `gorm:"size:10;not null;default:'days'" json:"duration_unit"`
	StartDate         time.Time                   `gorm:"not null" json:"start_date"`
	EndDate           time.Time                   `gorm:"not null" json:"end_date"`
	IsActive          bool                        `gorm:"not null;default:true;index" json:"is_active"`
	Features          datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"features"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// Snapshot captures the fields the enrollment check reads, decoupled from
// later plan edits.
func (p *StudentPlan) Snapshot() StudentPlanSnapshot {
	return StudentPlanSnapshot{
		Name:              p.Name,
		Price:             p.Price,
		Currency:          p.Currency,
		MaxTeachers:       p.MaxTeachers,
		TeacherType:       p.TeacherType,
		Duration:          p.Duration,
		DurationUnit:      p.DurationUnit,
		FreeExtraTeachers: p.FreeExtraTeachers,
	}
}

// StudentPlanSnapshot is stored as JSONB on the student subscription.
type StudentPlanSnapshot struct {
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency"`
	MaxTeachers       int     `json:"max_teachers"`
	TeacherType       string  `json:"teacher_type"`
	Duration          int     `json:"duration"`
	DurationUnit      string  `json:"duration_unit"`
	FreeExtraTeachers int     `json:"free_extra_teachers"`
}

// AllowedTeachers is the enrollment ceiling: plan cap plus promotional
// extras. Zero means the plan carries no teacher allowance at all.
func (s StudentPlanSnapshot) AllowedTeachers() int {
	return s.MaxTeachers + s.FreeExtraTeachers
}
