package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/config"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalNotFound  = errors.New("account no longer exists")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a manager and its company atomically: the user row,
// the company row and the user's company back-link commit together or
// not at all.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Email == "" || req.CompanyName == "" {
		return nil, Validation("email, password and company name are required")
	}
	if len(req.Password) < 8 {
		return nil, Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:                 uuid.New(),
		Email:              req.Email,
		PasswordHash:       string(hash),
		Role:               models.RoleLDManager,
		SubscriptionStatus: models.SubscriptionInactive,
	}
	company := models.Company{
		ID:      uuid.New(),
		Name:    req.CompanyName,
		OwnerID: user.ID,
	}

	// Uniqueness is enforced by the index on users.email; a duplicate
	// surfaces here as gorm.ErrDuplicatedKey even under concurrent
	// registration attempts.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := tx.Create(&company).Error; err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}
		if err := tx.Model(&user).Update("company_id", company.ID).Error; err != nil {
			return fmt.Errorf("failed to link company: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.CompanyID = &company.ID

	token, err := s.generateToken(user.ID, models.RoleLDManager, nil, &company.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Role:               user.Role,
		CompanyID:          user.CompanyID,
		CompanyName:        company.Name,
		SubscriptionStatus: user.SubscriptionStatus,
		Token:              token,
	}, nil
}

// Login authenticates an L&D manager by email and password.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Preload("Company").Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Role != models.RoleLDManager {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID, models.RoleLDManager, nil, user.CompanyID)
	if err != nil {
		return nil, err
	}

	resp := &dto.AuthResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Role:               user.Role,
		CompanyID:          user.CompanyID,
		SubscriptionStatus: user.SubscriptionStatus,
		Token:              token,
	}
	if user.Company != nil {
		resp.CompanyName = user.Company.Name
	}
	return resp, nil
}

// EmployeeLogin authenticates an employee by generated username and
// temporary password.
func (s *AuthService) EmployeeLogin(req *dto.EmployeeLoginRequest) (*dto.AuthResponse, error) {
	var employee models.Employee
	if err := s.db.Preload("Company").Where("username = ?", req.Username).First(&employee).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(employee.ID, models.RoleEmployee, &employee.ID, &employee.CompanyID)
	if err != nil {
		return nil, err
	}

	resp := &dto.AuthResponse{
		ID:        employee.ID,
		Username:  employee.Username,
		Name:      employee.Name,
		Role:      models.RoleEmployee,
		CompanyID: &employee.CompanyID,
		Token:     token,
	}
	if employee.Email != nil {
		resp.Email = *employee.Email
	}
	if employee.Company != nil {
		resp.CompanyName = employee.Company.Name
	}
	return resp, nil
}

// Profile returns the caller's profile for GET /auth/me.
func (s *AuthService) Profile(p principal.Principal) (*dto.ProfileResponse, error) {
	switch pr := p.(type) {
	case principal.Manager:
		var user models.User
		if err := s.db.Preload("Company").First(&user, "id = ?", pr.ID).Error; err != nil {
			return nil, ErrPrincipalNotFound
		}
		resp := &dto.ProfileResponse{
			ID:                 user.ID,
			Type:               "user",
			Email:              user.Email,
			Role:               user.Role,
			CompanyID:          user.CompanyID,
			SubscriptionStatus: user.SubscriptionStatus,
			HasStripeCustomer:  user.StripeCustomerID != nil,
		}
		if user.Company != nil {
			resp.Company = &dto.CompanySummary{ID: user.Company.ID, Name: user.Company.Name}
		}
		return resp, nil
	case principal.Employee:
		var employee models.Employee
		if err := s.db.Preload("Company").First(&employee, "id = ?", pr.ID).Error; err != nil {
			return nil, ErrPrincipalNotFound
		}
		resp := &dto.ProfileResponse{
			ID:        employee.ID,
			Type:      "employee",
			Username:  employee.Username,
			Name:      employee.Name,
			Role:      models.RoleEmployee,
			CompanyID: &employee.CompanyID,
		}
		if employee.Email != nil {
			resp.Email = *employee.Email
		}
		if employee.Company != nil {
			resp.Company = &dto.CompanySummary{ID: employee.Company.ID, Name: employee.Company.Name}
		}
		return resp, nil
	default:
		return nil, ErrPrincipalNotFound
	}
}

// UpdateProfile lets a manager change their own email and password.
// Empty fields keep their current value.
func (s *AuthService) UpdateProfile(mgr principal.Manager, req *dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", mgr.ID).Error; err != nil {
		return nil, ErrPrincipalNotFound
	}

	updates := map[string]interface{}{}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return nil, Validation("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password_hash"] = string(hash)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrEmailTaken
			}
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		if req.Email != "" {
			user.Email = req.Email
		}
	}

	return &dto.UpdateProfileResponse{ID: user.ID, Email: user.Email}, nil
}

// GetUser returns a manager account by id, scoped to the caller's
// company. Accounts outside the company read as not found.
func (s *AuthService) GetUser(mgr principal.Manager, userID uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	err := s.db.Where("id = ? AND company_id = ?", userID, mgr.CompanyID).First(&user).Error
	if err != nil {
		return nil, ErrUserNotFound
	}
	return &dto.UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Role:               user.Role,
		CompanyID:          user.CompanyID,
		SubscriptionStatus: user.SubscriptionStatus,
	}, nil
}

func (s *AuthService) generateToken(id uuid.UUID, role string, employeeID, companyID *uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  id.String(),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTExpiry).Unix(),
	}
	if employeeID != nil {
		claims["employee_id"] = employeeID.String()
	}
	if companyID != nil {
		claims["company_id"] = companyID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
