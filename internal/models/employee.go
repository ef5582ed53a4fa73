package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee belongs to exactly one company and logs in with a generated
// username + temporary password. At most one LearningPath exists per
// employee (unique index on learning_paths.employee_id).
type Employee struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID         uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Email             *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Username          string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	PasswordHash      string    `gorm:"not null" json:"-"`
	CurrentRole       string    `gorm:"size:255" json:"current_role"`
	CurrentSkills     string    `gorm:"type:text" json:"current_skills"`
	DesiredSkillsGoal string    `gorm:"type:text" json:"desired_skills_goal"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Company      *Company      `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	LearningPath *LearningPath `gorm:"foreignKey:EmployeeID" json:"learning_path,omitempty"`
}
