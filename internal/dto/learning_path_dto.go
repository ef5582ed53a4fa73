package dto

import "github.com/markusj17/Dynamic-Curriculum-AI/internal/models"

// CurateLearningPathRequest overwrites path_data and/or status
// wholesale; there are no merge semantics.
type CurateLearningPathRequest struct {
	PathData []models.PathStep `json:"path_data,omitempty"`
	Status   *string           `json:"status,omitempty"`
}

type UpdateStepStatusRequest struct {
	Completed bool `json:"completed"`
}
