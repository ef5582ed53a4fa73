package services

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found or not in your company")
	ErrEmployeeEmail    = errors.New("employee with this email already exists")
	// ErrUsernameExhausted means username generation kept colliding
	// past the retry bound. Practically unreachable; never loop forever.
	ErrUsernameExhausted = errors.New("could not generate a unique username")
)

const usernameRetries = 5

type EmployeeService struct {
	db *gorm.DB
}

func NewEmployeeService(db *gorm.DB) *EmployeeService {
	return &EmployeeService{db: db}
}

// Create inserts an employee into the manager's company with generated
// login credentials. The plaintext temporary password is returned once.
func (s *EmployeeService) Create(mgr principal.Manager, req *dto.CreateEmployeeRequest) (*models.Employee, *dto.EmployeeCredentials, error) {
	if req.Name == "" {
		return nil, nil, Validation("employee name is required")
	}

	password, err := generateTempPassword()
	if err != nil {
		return nil, nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee := models.Employee{
		ID:                uuid.New(),
		CompanyID:         mgr.CompanyID,
		Name:              req.Name,
		CurrentRole:       req.CurrentRole,
		CurrentSkills:     req.CurrentSkills,
		DesiredSkillsGoal: req.DesiredSkillsGoal,
		PasswordHash:      string(hash),
	}
	if req.Email != nil && *req.Email != "" {
		employee.Email = req.Email
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		username, err := s.generateUsername(tx, req.Name)
		if err != nil {
			return err
		}
		employee.Username = username
		if err := tx.Create(&employee).Error; err != nil {
			// The unique indexes on email and username are the
			// authority; a racing insert lands here.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if employee.Email != nil {
					return ErrEmployeeEmail
				}
				return ErrUsernameExhausted
			}
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &employee, &dto.EmployeeCredentials{Username: employee.Username, Password: password}, nil
}

// List returns all employees of the company with a path summary.
func (s *EmployeeService) List(companyID uuid.UUID) ([]models.Employee, error) {
	var employees []models.Employee
	err := s.db.Scopes(principal.ForCompany(companyID)).
		Preload("LearningPath", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "employee_id", "status")
		}).
		Order("created_at ASC").
		Find(&employees).Error
	return employees, err
}

// Get returns one employee with its full learning path. Cross-tenant
// lookups report not-found rather than forbidden so employee ids of
// other companies leak nothing.
func (s *EmployeeService) Get(companyID, employeeID uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := s.db.Scopes(principal.ForCompany(companyID)).
		Preload("LearningPath").
		First(&employee, "id = ?", employeeID).Error
	if err != nil {
		return nil, ErrEmployeeNotFound
	}
	return &employee, nil
}

func (s *EmployeeService) Update(companyID, employeeID uuid.UUID, req *dto.UpdateEmployeeRequest) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.Scopes(principal.ForCompany(companyID)).First(&employee, "id = ?", employeeID).Error; err != nil {
		return nil, ErrEmployeeNotFound
	}

	if req.Email != nil && *req.Email != "" {
		employee.Email = req.Email
	}
	if req.Name != nil && *req.Name != "" {
		employee.Name = *req.Name
	}
	if req.CurrentRole != nil {
		employee.CurrentRole = *req.CurrentRole
	}
	if req.CurrentSkills != nil {
		employee.CurrentSkills = *req.CurrentSkills
	}
	if req.DesiredSkillsGoal != nil {
		employee.DesiredSkillsGoal = *req.DesiredSkillsGoal
	}

	if err := s.db.Save(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmployeeEmail
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return &employee, nil
}

// Delete removes the employee and its learning path in one transaction.
func (s *EmployeeService) Delete(companyID, employeeID uuid.UUID) error {
	var employee models.Employee
	if err := s.db.Scopes(principal.ForCompany(companyID)).First(&employee, "id = ?", employeeID).Error; err != nil {
		return ErrEmployeeNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employee.ID).Delete(&models.LearningPath{}).Error; err != nil {
			return err
		}
		return tx.Delete(&employee).Error
	})
}

// RegenerateCredentials issues a fresh temporary password. The username
// is stable across resets.
func (s *EmployeeService) RegenerateCredentials(companyID, employeeID uuid.UUID) (*dto.EmployeeCredentials, error) {
	var employee models.Employee
	if err := s.db.Scopes(principal.ForCompany(companyID)).First(&employee, "id = ?", employeeID).Error; err != nil {
		return nil, ErrEmployeeNotFound
	}

	password, err := generateTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.Model(&employee).Update("password_hash", string(hash)).Error; err != nil {
		return nil, err
	}

	return &dto.EmployeeCredentials{Username: employee.Username, Password: password}, nil
}

// generateUsername derives a slug from the employee name plus a random
// numeric suffix and retries a bounded number of times on collision.
func (s *EmployeeService) generateUsername(tx *gorm.DB, name string) (string, error) {
	base := usernameSlug(name)
	for i := 0; i < usernameRetries; i++ {
		var buf [2]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("failed to generate username suffix: %w", err)
		}
		candidate := fmt.Sprintf("%s%04d", base, binary.BigEndian.Uint16(buf[:])%10000)

		var count int64
		if err := tx.Model(&models.Employee{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", ErrUsernameExhausted
}

func usernameSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= 12 {
			break
		}
	}
	if b.Len() == 0 {
		return "employee"
	}
	return b.String()
}

func generateTempPassword() (string, error) {
	raw := make([]byte, 9)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
