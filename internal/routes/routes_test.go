package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/billing"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/config"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/handlers"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type noopGenerator struct{}

func (noopGenerator) GenerateLearningPath(ctx context.Context, currentSkills, desiredGoal string) ([]models.PathStep, error) {
	return []models.PathStep{{ID: "step_1", Title: "Intro", StepType: models.StepTypeLesson, Details: map[string]interface{}{}}}, nil
}

type noopProvider struct{}

func (noopProvider) CreateCheckoutSession(userID, userEmail, priceID, companyID string) (*billing.CheckoutSession, error) {
	return &billing.CheckoutSession{}, nil
}
func (noopProvider) CreatePortalSession(customerID string) (*billing.PortalSession, error) {
	return &billing.PortalSession{}, nil
}
func (noopProvider) GetSubscription(subscriptionID string) (*billing.Subscription, error) {
	return &billing.Subscription{}, nil
}
func (noopProvider) ConstructEvent(payload []byte, sigHeader string) (billing.Event, error) {
	return billing.Event{}, billing.ErrSignatureVerification
}

func setupRouterTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Company{}, &models.Employee{}, &models.LearningPath{}))

	cfg := &config.Config{JWTSecret: testSecret, JWTExpiry: time.Hour}

	authService := services.NewAuthService(db, cfg)
	companyService := services.NewCompanyService(db)
	employeeService := services.NewEmployeeService(db)
	pathService := services.NewPathService(db, noopGenerator{})
	billingService := services.NewBillingService(db, noopProvider{})

	app := fiber.New()
	Setup(app, cfg, db,
		handlers.NewAuthHandler(authService),
		handlers.NewCompanyHandler(companyService),
		handlers.NewEmployeeHandler(employeeService),
		handlers.NewLearningPathHandler(pathService),
		handlers.NewBillingHandler(billingService),
		handlers.NewHealthHandler(db),
	)
	return app, db
}

func seedLapsedManager(t *testing.T, db *gorm.DB) (*models.User, *models.Employee, *models.LearningPath) {
	t.Helper()

	user := models.User{
		ID:                 uuid.New(),
		Email:              "lapsed@acme.test",
		PasswordHash:       "x",
		Role:               models.RoleLDManager,
		SubscriptionStatus: models.SubscriptionCanceled,
	}
	require.NoError(t, db.Create(&user).Error)
	company := models.Company{ID: uuid.New(), Name: "Acme", OwnerID: user.ID}
	require.NoError(t, db.Create(&company).Error)
	require.NoError(t, db.Model(&user).Update("company_id", company.ID).Error)
	user.CompanyID = &company.ID

	employee := models.Employee{
		ID:           uuid.New(),
		CompanyID:    company.ID,
		Name:         "Jamie",
		Username:     "jamie" + uuid.NewString()[:4],
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&employee).Error)

	path := models.LearningPath{
		ID:         uuid.New(),
		EmployeeID: employee.ID,
		PathData: datatypes.NewJSONSlice([]models.PathStep{
			{ID: "step_1", Title: "Intro", StepType: models.StepTypeLesson, Details: map[string]interface{}{}},
		}),
		Status: models.PathStatusAssigned,
	}
	require.NoError(t, db.Create(&path).Error)

	return &user, &employee, &path
}

func managerToken(t *testing.T, user *models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": models.RoleLDManager,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// A manager whose subscription lapsed keeps read access to existing
// paths and progress updates; only generation and curation are gated.
func TestLapsedManagerPathAccess(t *testing.T) {
	app, db := setupRouterTest(t)
	user, employee, path := seedLapsedManager(t, db)
	token := managerToken(t, user)

	resp := doJSON(t, app, http.MethodGet, "/api/learning-paths/employee/"+employee.ID.String(), token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPatch, "/api/learning-paths/"+path.ID.String()+"/step/0", token, `{"completed": true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/learning-paths/employee/"+employee.ID.String()+"/generate", token, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/learning-paths/"+path.ID.String(), token,
		`{"status": "assigned", "path_data": []}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Employee management stays behind the gate entirely.
	resp = doJSON(t, app, http.MethodGet, "/api/employees/", token, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUserProfileRoutes(t *testing.T) {
	app, db := setupRouterTest(t)
	user, _, _ := seedLapsedManager(t, db)
	token := managerToken(t, user)

	resp := doJSON(t, app, http.MethodPut, "/api/users/profile", token, `{"email": "renamed@acme.test"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/users/"+user.ID.String(), token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/users/"+uuid.NewString(), token, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
