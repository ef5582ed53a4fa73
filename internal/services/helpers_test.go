package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/config"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB initializes an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Employee{},
		&models.LearningPath{},
		&models.SystemLog{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	}
}

// seedManager creates a user + company pair and returns the manager
// principal for it.
func seedManager(t *testing.T, db *gorm.DB, email string) principal.Manager {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:                 uuid.New(),
		Email:              email,
		PasswordHash:       string(hash),
		Role:               models.RoleLDManager,
		SubscriptionStatus: models.SubscriptionActive,
	}
	require.NoError(t, db.Create(&user).Error)

	company := models.Company{ID: uuid.New(), Name: "Test Co " + email, OwnerID: user.ID}
	require.NoError(t, db.Create(&company).Error)
	require.NoError(t, db.Model(&user).Update("company_id", company.ID).Error)

	return principal.Manager{
		ID:                 user.ID,
		CompanyID:          company.ID,
		Email:              user.Email,
		SubscriptionStatus: user.SubscriptionStatus,
	}
}

// seedEmployee creates an employee row in the given company with known
// skills so path generation can run against it.
func seedEmployee(t *testing.T, db *gorm.DB, companyID uuid.UUID, name string) *models.Employee {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("temp-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	employee := models.Employee{
		ID:                uuid.New(),
		CompanyID:         companyID,
		Name:              name,
		Username:          usernameSlug(name) + uuid.NewString()[:4],
		PasswordHash:      string(hash),
		CurrentRole:       "Junior Developer",
		CurrentSkills:     "basic Python",
		DesiredSkillsGoal: "backend Go developer",
	}
	require.NoError(t, db.Create(&employee).Error)
	return &employee
}
