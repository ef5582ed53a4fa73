package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/genai"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPathNotFound     = errors.New("learning path not found")
	ErrStepNotFound     = errors.New("step not found at the given index")
	ErrSkillsNotSet     = errors.New("employee current skills and desired goal must be set first")
	ErrPathForbidden    = errors.New("not authorized to access this learning path")
	ErrInvalidStatus    = errors.New("invalid learning path status")
	// ErrPathConflict is a lost optimistic-concurrency race: someone
	// else mutated the path between read and write. Clients retry.
	ErrPathConflict = errors.New("learning path was modified concurrently, retry")
)

// Generator abstracts the AI path generation adapter.
type Generator interface {
	GenerateLearningPath(ctx context.Context, currentSkills, desiredGoal string) ([]models.PathStep, error)
}

type PathService struct {
	db        *gorm.DB
	generator Generator
}

func NewPathService(db *gorm.DB, generator Generator) *PathService {
	return &PathService{db: db, generator: generator}
}

// GenerateForEmployee calls the generation adapter and lazily creates
// or wholesale-overwrites the employee's learning path. Regeneration
// keeps no history and resets status to draft.
func (s *PathService) GenerateForEmployee(ctx context.Context, mgr principal.Manager, employeeID uuid.UUID) (*models.LearningPath, error) {
	var employee models.Employee
	if err := s.db.Scopes(principal.ForCompany(mgr.CompanyID)).First(&employee, "id = ?", employeeID).Error; err != nil {
		return nil, ErrEmployeeNotFound
	}
	if employee.CurrentSkills == "" || employee.DesiredSkillsGoal == "" {
		return nil, ErrSkillsNotSet
	}

	steps, err := s.generator.GenerateLearningPath(ctx, employee.CurrentSkills, employee.DesiredSkillsGoal)
	if err != nil {
		return nil, err
	}

	managerID := mgr.ID
	var path models.LearningPath
	err = s.db.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("employee_id = ?", employeeID).First(&path).Error
		switch {
		case findErr == nil:
			result := tx.Model(&models.LearningPath{}).
				Where("id = ? AND version = ?", path.ID, path.Version).
				Updates(map[string]interface{}{
					"path_data":            datatypes.NewJSONSlice(steps),
					"generated_by_user_id": managerID,
					"status":               models.PathStatusDraft,
					"version":              path.Version + 1,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrPathConflict
			}
			path.PathData = steps
			path.GeneratedByUserID = &managerID
			path.Status = models.PathStatusDraft
			path.Version++
			return nil
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			path = models.LearningPath{
				ID:                uuid.New(),
				EmployeeID:        employeeID,
				GeneratedByUserID: &managerID,
				PathData:          steps,
				Status:            models.PathStatusDraft,
			}
			return tx.Create(&path).Error
		default:
			return findErr
		}
	})
	if err != nil {
		return nil, err
	}

	path.Employee = &employee
	return &path, nil
}

// GetForEmployee returns the path for an employee, visible to the
// company's manager and to the assigned employee themselves.
func (s *PathService) GetForEmployee(p principal.Principal, employeeID uuid.UUID) (*models.LearningPath, error) {
	switch pr := p.(type) {
	case principal.Manager:
		var employee models.Employee
		if err := s.db.Scopes(principal.ForCompany(pr.CompanyID)).First(&employee, "id = ?", employeeID).Error; err != nil {
			return nil, ErrEmployeeNotFound
		}
	case principal.Employee:
		if pr.ID != employeeID {
			return nil, ErrPathForbidden
		}
	default:
		return nil, ErrPathForbidden
	}

	var path models.LearningPath
	if err := s.db.Preload("Employee").Where("employee_id = ?", employeeID).First(&path).Error; err != nil {
		return nil, ErrPathNotFound
	}

	// Rows written by earlier revisions may predate id/details
	// normalization.
	path.PathData = genai.NormalizeSteps(path.PathData)
	return &path, nil
}

// Curate overwrites path_data and/or status wholesale. Manager only,
// company scoped, no merge semantics.
func (s *PathService) Curate(mgr principal.Manager, pathID uuid.UUID, req *dto.CurateLearningPathRequest) (*models.LearningPath, error) {
	path, err := s.loadForManager(mgr, pathID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && !validPathStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}

	if req.PathData != nil {
		path.PathData = normalizeCuratedSteps(req.PathData)
	}
	if req.Status != nil {
		path.Status = *req.Status
	}

	if err := s.casSave(path); err != nil {
		return nil, err
	}
	return path, nil
}

// SetStepCompletion toggles one step and recomputes the path status.
// Allowed for the company's manager and for the assigned employee.
func (s *PathService) SetStepCompletion(p principal.Principal, pathID uuid.UUID, stepIndex int, completed bool) (*models.LearningPath, error) {
	var path models.LearningPath
	if err := s.db.Preload("Employee").First(&path, "id = ?", pathID).Error; err != nil {
		return nil, ErrPathNotFound
	}
	if !canUpdateStep(p, &path) {
		return nil, ErrPathForbidden
	}

	if stepIndex < 0 || stepIndex >= len(path.PathData) {
		return nil, ErrStepNotFound
	}

	path.PathData[stepIndex].Completed = completed
	path.Status = derivePathStatus(path.PathData, path.Status)

	if err := s.casSave(&path); err != nil {
		return nil, err
	}
	return &path, nil
}

// canUpdateStep is the single capability check for step completion.
func canUpdateStep(p principal.Principal, path *models.LearningPath) bool {
	if path.Employee == nil {
		return false
	}
	switch pr := p.(type) {
	case principal.Manager:
		return pr.CompanyID == path.Employee.CompanyID
	case principal.Employee:
		return pr.ID == path.EmployeeID
	}
	return false
}

// derivePathStatus recomputes status after a completion write: all
// steps done forces completed, partial progress forces in_progress, and
// un-marking the last completed step demotes completed back to
// in_progress. Manager-set draft/assigned survive while nothing is
// completed.
func derivePathStatus(steps []models.PathStep, current string) string {
	if len(steps) == 0 {
		return current
	}
	done := 0
	for _, step := range steps {
		if step.Completed {
			done++
		}
	}
	switch {
	case done == len(steps):
		return models.PathStatusCompleted
	case done > 0:
		return models.PathStatusInProgress
	case current == models.PathStatusCompleted:
		return models.PathStatusInProgress
	default:
		return current
	}
}

func (s *PathService) loadForManager(mgr principal.Manager, pathID uuid.UUID) (*models.LearningPath, error) {
	var path models.LearningPath
	if err := s.db.Preload("Employee").First(&path, "id = ?", pathID).Error; err != nil {
		return nil, ErrPathNotFound
	}
	if path.Employee == nil || path.Employee.CompanyID != mgr.CompanyID {
		return nil, ErrPathForbidden
	}
	return &path, nil
}

// casSave persists path_data and status with a compare-and-swap on the
// version column.
func (s *PathService) casSave(path *models.LearningPath) error {
	result := s.db.Model(&models.LearningPath{}).
		Where("id = ? AND version = ?", path.ID, path.Version).
		Updates(map[string]interface{}{
			"path_data": datatypes.NewJSONSlice([]models.PathStep(path.PathData)),
			"status":    path.Status,
			"version":   path.Version + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save learning path: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPathConflict
	}
	path.Version++
	return nil
}

// normalizeCuratedSteps applies the generation-adapter normalization to
// manager-supplied steps: synthetic ids, defaulted type/details, and
// completed false where unset (zero value).
func normalizeCuratedSteps(steps []models.PathStep) []models.PathStep {
	now := time.Now().UnixMilli()
	out := make([]models.PathStep, len(steps))
	copy(out, steps)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = fmt.Sprintf("curated_step_%d_%d", now, i)
		}
		if out[i].Title == "" {
			out[i].Title = fmt.Sprintf("Untitled Step %d", i+1)
		}
		if !models.ValidStepType(out[i].StepType) {
			out[i].StepType = models.StepTypeLesson
		}
		if out[i].Details == nil {
			out[i].Details = map[string]interface{}{}
		}
	}
	return out
}

func validPathStatus(status string) bool {
	switch status {
	case models.PathStatusDraft, models.PathStatusAssigned, models.PathStatusInProgress, models.PathStatusCompleted:
		return true
	}
	return false
}
