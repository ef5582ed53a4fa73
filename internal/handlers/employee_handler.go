package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/services"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create adds an employee to the manager's company and returns the
// one-time login credentials alongside the record.
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	employee, creds, err := h.employeeService.Create(mgr, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateEmployeeResponse{
		Employee:    employee,
		Credentials: *creds,
	})
}

func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	employees, err := h.employeeService.List(mgr.CompanyID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(employees)
}

func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	employee, err := h.employeeService.Get(mgr.CompanyID, employeeID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(employee)
}

func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	employee, err := h.employeeService.Update(mgr.CompanyID, employeeID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(employee)
}

func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	if err := h.employeeService.Delete(mgr.CompanyID, employeeID); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RegenerateCredentials issues a fresh temporary password for an
// employee whose credentials were lost.
func (h *EmployeeHandler) RegenerateCredentials(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid employee ID")
	}

	creds, err := h.employeeService.RegenerateCredentials(mgr.CompanyID, employeeID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(creds)
}
