package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/config"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupAuthTest(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Company{}, &models.Employee{}))

	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New()
	protected := app.Group("", Protected(cfg), ResolvePrincipal(db))
	protected.Get("/open", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	protected.Get("/manager-only", RequireRole(models.RoleLDManager), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	protected.Get("/gated", RequireRole(models.RoleLDManager), RequireSubscription(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	protected.Get("/gated-any", RequireSubscription(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, db
}

func signToken(t *testing.T, id uuid.UUID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  id.String(),
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func seedUser(t *testing.T, db *gorm.DB, status string) *models.User {
	t.Helper()
	companyID := uuid.New()
	user := models.User{
		ID:                 uuid.New(),
		Email:              uuid.NewString() + "@test",
		PasswordHash:       "x",
		Role:               models.RoleLDManager,
		CompanyID:          &companyID,
		SubscriptionStatus: status,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Company{ID: companyID, Name: "Co", OwnerID: user.ID}).Error)
	return &user
}

func request(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestProtectedRejectsMissingOrBadToken(t *testing.T) {
	app, _ := setupAuthTest(t)

	resp := request(t, app, "/open", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = request(t, app, "/open", "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestResolvePrincipalRejectsDeletedAccount(t *testing.T) {
	app, _ := setupAuthTest(t)

	// Valid signature, but no matching row.
	token := signToken(t, uuid.New(), models.RoleLDManager)
	resp := request(t, app, "/open", token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleBlocksEmployees(t *testing.T) {
	app, db := setupAuthTest(t)

	employee := models.Employee{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		Name:         "Jamie",
		Username:     "jamie0001",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&employee).Error)

	token := signToken(t, employee.ID, models.RoleEmployee)
	resp := request(t, app, "/manager-only", token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = request(t, app, "/open", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireSubscriptionGatesManagers(t *testing.T) {
	app, db := setupAuthTest(t)

	cases := []struct {
		status string
		want   int
	}{
		{models.SubscriptionActive, fiber.StatusOK},
		{models.SubscriptionTrialing, fiber.StatusOK},
		{models.SubscriptionInactive, fiber.StatusForbidden},
		{models.SubscriptionCanceled, fiber.StatusForbidden},
		{models.SubscriptionPastDue, fiber.StatusForbidden},
	}

	for _, tc := range cases {
		user := seedUser(t, db, tc.status)
		token := signToken(t, user.ID, models.RoleLDManager)
		resp := request(t, app, "/gated", token)
		assert.Equal(t, tc.want, resp.StatusCode, "status %s", tc.status)
	}
}

func TestRequireSubscriptionPassesEmployees(t *testing.T) {
	app, db := setupAuthTest(t)

	employee := models.Employee{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		Name:         "Jamie",
		Username:     "jamie0002",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&employee).Error)

	token := signToken(t, employee.ID, models.RoleEmployee)
	resp := request(t, app, "/gated-any", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
