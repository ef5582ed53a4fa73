package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/config"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/handlers"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/middleware"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	companyHandler *handlers.CompanyHandler,
	employeeHandler *handlers.EmployeeHandler,
	pathHandler *handlers.LearningPathHandler,
	billingHandler *handlers.BillingHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Stripe posts here with its own signature scheme, so the webhook
	// stays outside the JWT chain.
	api.Post("/stripe/webhook", billingHandler.Webhook)

	// Auth endpoints are public but carry a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/employee/login", authHandler.EmployeeLogin)

	// Everything below requires a valid JWT and a resolved principal.
	protected := api.Group("", middleware.Protected(cfg), middleware.ResolvePrincipal(db))

	protected.Get("/auth/me", authHandler.Profile)

	// Manager-only surface. Billing management is deliberately outside
	// the subscription gate: a manager must be able to subscribe, fix a
	// failed payment and read their status while unentitled.
	manager := protected.Group("", middleware.RequireRole(models.RoleLDManager))
	manager.Get("/companies/my-company", companyHandler.GetMyCompany)
	manager.Put("/companies/my-company", companyHandler.UpdateMyCompany)
	manager.Put("/users/profile", authHandler.UpdateProfile)
	manager.Get("/users/:id", authHandler.GetUser)
	manager.Post("/stripe/create-checkout-session", billingHandler.CreateCheckoutSession)
	manager.Post("/stripe/create-portal-session", billingHandler.CreatePortalSession)
	manager.Get("/stripe/subscription-status", billingHandler.SubscriptionStatus)

	// Feature surface: managers additionally need an active (or
	// trialing) subscription, employees pass through the gate.
	employees := protected.Group("/employees", middleware.RequireRole(models.RoleLDManager), middleware.RequireSubscription())
	employees.Post("/", employeeHandler.Create)
	employees.Get("/", employeeHandler.List)
	employees.Get("/:id", employeeHandler.Get)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Delete)
	employees.Post("/:id/regenerate-credentials", employeeHandler.RegenerateCredentials)

	// Reads and step progress stay open to any lapsed account; only
	// generation and curation sit behind the subscription gate.
	paths := protected.Group("/learning-paths")
	paths.Post("/employee/:employeeId/generate", middleware.RequireRole(models.RoleLDManager), middleware.RequireSubscription(), pathHandler.Generate)
	paths.Get("/employee/:employeeId", pathHandler.GetForEmployee)
	paths.Put("/:id", middleware.RequireRole(models.RoleLDManager), middleware.RequireSubscription(), pathHandler.Curate)
	paths.Patch("/:id/step/:stepIndex", pathHandler.UpdateStepStatus)
}
