package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a manager account together with its company.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) EmployeeLogin(c *fiber.Ctx) error {
	var req dto.EmployeeLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.EmployeeLogin(&req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resp)
}

// UpdateProfile changes the authenticated manager's email or password.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.UpdateProfile(mgr, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resp)
}

// GetUser returns a manager account in the caller's company by id.
func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	resp, err := h.authService.GetUser(mgr, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resp)
}

// Profile returns the authenticated principal, manager or employee.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	p, ok := principal.FromContext(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	resp, err := h.authService.Profile(p)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resp)
}
