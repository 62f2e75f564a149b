package models

import (
	"time"

	"github.com/google/uuid"
)

// Student is the learner-side identity. Quotas on the student side cap
// distinct teacher relationships, not created resources.
type Student struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone     *string   `gorm:"size:32" json:"phone,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Grade     string    `gorm:"size:40" json:"grade,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
