package models

import (
	"time"

	"github.com/google/uuid"
)

// Exam and Question are deliberately thin: content authoring and grading
// live elsewhere. They exist here as the quota-consuming resources the
// entitlement gate guards.

type Exam struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TeacherID     uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Subject       string    `gorm:"size:120" json:"subject,omitempty"`
	QuestionCount int       `gorm:"not null;default:0" json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Subject   string    `gorm:"size:120" json:"subject,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RosterEntry is a student on a teacher's roster, the unit counted by the
// student quota.
type RosterEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_roster_pair" json:"teacher_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_roster_pair" json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}
