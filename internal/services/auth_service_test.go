package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUserAndCompany(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:       "manager@acme.test",
		Password:    "supersecret",
		CompanyName: "Acme Inc",
	})
	require.NoError(t, err)

	assert.Equal(t, "manager@acme.test", resp.Email)
	assert.Equal(t, models.RoleLDManager, resp.Role)
	assert.Equal(t, "Acme Inc", resp.CompanyName)
	assert.Equal(t, models.SubscriptionInactive, resp.SubscriptionStatus)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.CompanyID)

	// The user/company back-link must be committed.
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", resp.ID).Error)
	require.NotNil(t, user.CompanyID)

	var company models.Company
	require.NoError(t, db.First(&company, "id = ?", *user.CompanyID).Error)
	assert.Equal(t, user.ID, company.OwnerID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	req := &dto.RegisterRequest{Email: "dup@acme.test", Password: "supersecret", CompanyName: "Acme"}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// No second company row got created.
	var count int64
	require.NoError(t, db.Model(&models.Company{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	var validation *ValidationError

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@b.test", Password: "supersecret"})
	require.ErrorAs(t, err, &validation)

	_, err = svc.Register(&dto.RegisterRequest{Email: "a@b.test", Password: "short", CompanyName: "Acme"})
	require.ErrorAs(t, err, &validation)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{
		Email: "manager@acme.test", Password: "supersecret", CompanyName: "Acme Inc",
	})
	require.NoError(t, err)

	resp, err := svc.Login(&dto.LoginRequest{Email: "manager@acme.test", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Acme Inc", resp.CompanyName)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{
		Email: "manager@acme.test", Password: "supersecret", CompanyName: "Acme Inc",
	})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "manager@acme.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@acme.test", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEmployeeLogin(t *testing.T) {
	db := setupTestDB(t)
	authSvc := NewAuthService(db, testConfig())
	empSvc := NewEmployeeService(db)

	mgr := seedManager(t, db, "manager@acme.test")
	_, creds, err := empSvc.Create(mgr, &dto.CreateEmployeeRequest{Name: "Jamie Doe"})
	require.NoError(t, err)

	resp, err := authSvc.EmployeeLogin(&dto.EmployeeLoginRequest{
		Username: creds.Username,
		Password: creds.Password,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, resp.Role)
	assert.Equal(t, creds.Username, resp.Username)
	assert.NotEmpty(t, resp.Token)

	_, err = authSvc.EmployeeLogin(&dto.EmployeeLoginRequest{
		Username: creds.Username,
		Password: "not-the-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestManagerCannotEmployeeLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.EmployeeLogin(&dto.EmployeeLoginRequest{Username: "manager@acme.test", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	mgr := seedManager(t, db, "manager@acme.test")
	resp, err := svc.Profile(mgr)
	require.NoError(t, err)
	assert.Equal(t, "user", resp.Type)
	assert.Equal(t, mgr.ID, resp.ID)
	require.NotNil(t, resp.Company)
	assert.Equal(t, mgr.CompanyID, resp.Company.ID)

	employee := seedEmployee(t, db, mgr.CompanyID, "Jamie Doe")
	eResp, err := svc.Profile(principal.Employee{ID: employee.ID, CompanyID: employee.CompanyID, Username: employee.Username})
	require.NoError(t, err)
	assert.Equal(t, "employee", eResp.Type)
	assert.Equal(t, employee.Username, eResp.Username)
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	mgr := seedManager(t, db, "manager@acme.test")

	resp, err := svc.UpdateProfile(mgr, &dto.UpdateProfileRequest{
		Email:    "renamed@acme.test",
		Password: "brand-new-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, mgr.ID, resp.ID)
	assert.Equal(t, "renamed@acme.test", resp.Email)

	// The new credentials must work for login.
	login, err := svc.Login(&dto.LoginRequest{Email: "renamed@acme.test", Password: "brand-new-pass"})
	require.NoError(t, err)
	assert.Equal(t, mgr.ID, login.ID)

	_, err = svc.Login(&dto.LoginRequest{Email: "manager@acme.test", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileKeepsUnsetFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	mgr := seedManager(t, db, "manager@acme.test")

	resp, err := svc.UpdateProfile(mgr, &dto.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "manager@acme.test", resp.Email)

	// Seeded password still valid.
	_, err = svc.Login(&dto.LoginRequest{Email: "manager@acme.test", Password: "password123"})
	require.NoError(t, err)
}

func TestUpdateProfileRejectsShortPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	mgr := seedManager(t, db, "manager@acme.test")

	_, err := svc.UpdateProfile(mgr, &dto.UpdateProfileRequest{Password: "short"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	mgr := seedManager(t, db, "manager@acme.test")
	seedManager(t, db, "other@acme.test")

	_, err := svc.UpdateProfile(mgr, &dto.UpdateProfileRequest{Email: "other@acme.test"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	mgr := seedManager(t, db, "manager@acme.test")
	other := seedManager(t, db, "outsider@other.test")

	resp, err := svc.GetUser(mgr, mgr.ID)
	require.NoError(t, err)
	assert.Equal(t, mgr.ID, resp.ID)
	assert.Equal(t, "manager@acme.test", resp.Email)
	require.NotNil(t, resp.CompanyID)
	assert.Equal(t, mgr.CompanyID, *resp.CompanyID)

	// Accounts in other companies read as not found.
	_, err = svc.GetUser(mgr, other.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetUser(mgr, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
