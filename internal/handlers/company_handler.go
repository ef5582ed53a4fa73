package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/services"
)

type CompanyHandler struct {
	companyService *services.CompanyService
}

func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

func (h *CompanyHandler) GetMyCompany(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	company, err := h.companyService.GetMyCompany(mgr)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(company)
}

func (h *CompanyHandler) UpdateMyCompany(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	var req dto.UpdateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	company, err := h.companyService.UpdateMyCompany(mgr, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(company)
}
