package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Learning path statuses. draft and assigned are manager-set; the other
// two are derived from step completion.
const (
	PathStatusDraft      = "draft"
	PathStatusAssigned   = "assigned"
	PathStatusInProgress = "in_progress"
	PathStatusCompleted  = "completed"
)

// Step types the generation upstream may emit.
const (
	StepTypeLesson           = "lesson"
	StepTypeQuiz             = "quiz"
	StepTypeChallenge        = "challenge"
	StepTypeExternalResource = "external_resource"
	StepTypeVideo            = "video"
)

// ValidStepType reports whether t is one of the fixed step type values.
func ValidStepType(t string) bool {
	switch t {
	case StepTypeLesson, StepTypeQuiz, StepTypeChallenge, StepTypeExternalResource, StepTypeVideo:
		return true
	}
	return false
}

// PathStep is one unit of a learning path. Details carries the
// step_type-specific payload (markdown content, quiz questions, URLs).
type PathStep struct {
	ID                       string                 `json:"id"`
	Title                    string                 `json:"title"`
	StepType                 string                 `json:"step_type"`
	EstimatedDurationMinutes *int                   `json:"estimated_duration_minutes,omitempty"`
	Details                  map[string]interface{} `json:"details"`
	Completed                bool                   `json:"completed"`
}

// LearningPath stores the ordered step list for one employee. Version
// backs optimistic concurrency: every mutation is a compare-and-swap on
// it, so a curate racing a step completion loses loudly instead of
// silently overwriting.
type LearningPath struct {
	ID                uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID        uuid.UUID                      `gorm:"type:uuid;not null;uniqueIndex" json:"employee_id"`
	GeneratedByUserID *uuid.UUID                     `gorm:"type:uuid" json:"generated_by_user_id"`
	PathData          datatypes.JSONSlice[PathStep]  `gorm:"type:jsonb;not null" json:"path_data"`
	Status            string                         `gorm:"size:20;not null;default:'draft'" json:"status"`
	Version           int64                          `gorm:"not null;default:0" json:"version"`
	CreatedAt         time.Time                      `json:"created_at"`
	UpdatedAt         time.Time                      `json:"updated_at"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}
