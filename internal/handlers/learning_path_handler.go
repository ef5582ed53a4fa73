package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/services"
)

type LearningPathHandler struct {
	pathService *services.PathService
}

func NewLearningPathHandler(pathService *services.PathService) *LearningPathHandler {
	return &LearningPathHandler{pathService: pathService}
}

// Generate invokes the AI adapter and overwrites the employee's path.
func (h *LearningPathHandler) Generate(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	employeeID, err := uuid.Parse(c.Params("employeeId"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	path, err := h.pathService.GenerateForEmployee(c.Context(), mgr, employeeID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(path)
}

// GetForEmployee serves both managers (any employee in their company)
// and employees (their own path only).
func (h *LearningPathHandler) GetForEmployee(c *fiber.Ctx) error {
	p, ok := principal.FromContext(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	employeeID, err := uuid.Parse(c.Params("employeeId"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	path, err := h.pathService.GetForEmployee(p, employeeID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(path)
}

func (h *LearningPathHandler) Curate(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid learning path ID")
	}

	var req dto.CurateLearningPathRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	path, err := h.pathService.Curate(mgr, pathID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(path)
}

func (h *LearningPathHandler) UpdateStepStatus(c *fiber.Ctx) error {
	p, ok := principal.FromContext(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid learning path ID")
	}

	stepIndex, err := c.ParamsInt("stepIndex")
	if err != nil || stepIndex < 0 {
		return badRequest(c, "Invalid step index")
	}

	var req dto.UpdateStepStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	path, err := h.pathService.SetStepCompletion(p, pathID, stepIndex, req.Completed)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(path)
}
