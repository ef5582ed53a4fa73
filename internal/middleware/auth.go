package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/config"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/models"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"gorm.io/gorm"
)

// Protected verifies the bearer token signature and expiry.
func Protected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// ResolvePrincipal turns verified claims into exactly one principal
// variant, confirming the row still exists. A token for a deleted
// account is as good as no token.
func ResolvePrincipal(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return unauthorized(c, "Unauthorized")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "Invalid claims")
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		id, err := uuid.Parse(sub)
		if err != nil || role == "" {
			return unauthorized(c, "Token incomplete")
		}

		switch role {
		case models.RoleLDManager:
			var user models.User
			if err := db.First(&user, "id = ?", id).Error; err != nil {
				return unauthorized(c, "Account no longer exists")
			}
			if user.CompanyID == nil {
				return unauthorized(c, "Account has no company")
			}
			principal.Set(c, principal.Manager{
				ID:                 user.ID,
				CompanyID:          *user.CompanyID,
				Email:              user.Email,
				SubscriptionStatus: user.SubscriptionStatus,
			})
		case models.RoleEmployee:
			var employee models.Employee
			if err := db.First(&employee, "id = ?", id).Error; err != nil {
				return unauthorized(c, "Account no longer exists")
			}
			principal.Set(c, principal.Employee{
				ID:        employee.ID,
				CompanyID: employee.CompanyID,
				Username:  employee.Username,
			})
		default:
			return unauthorized(c, "Unknown role")
		}

		return c.Next()
	}
}

// RequireRole rejects principals whose role is not in the allowed set.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal.FromContext(c)
		if !ok {
			return unauthorized(c, "Unauthorized")
		}
		for _, role := range roles {
			if p.Role() == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access denied: your role is not authorized for this resource",
		})
	}
}

// RequireSubscription gates manager feature routes behind an active or
// trialing subscription. Employee principals are never gated.
func RequireSubscription() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal.FromContext(c)
		if !ok {
			return unauthorized(c, "Unauthorized")
		}
		mgr, isManager := p.(principal.Manager)
		if !isManager {
			return c.Next()
		}
		if mgr.SubscriptionStatus != models.SubscriptionActive && mgr.SubscriptionStatus != models.SubscriptionTrialing {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "An active subscription is required for this feature",
			})
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
