package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/billing"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/genai"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/services"
)

// serviceError translates service sentinels into HTTP responses so
// individual handlers don't repeat the same errors.Is ladders.
func serviceError(c *fiber.Ctx, err error) error {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation),
		errors.Is(err, services.ErrSkillsNotSet),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrPriceRequired),
		errors.Is(err, services.ErrNoBillingAccount),
		errors.Is(err, billing.ErrSignatureVerification):
		return respondError(c, fiber.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrPrincipalNotFound):
		return respondError(c, fiber.StatusUnauthorized, err.Error())

	case errors.Is(err, services.ErrPathForbidden):
		return respondError(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, services.ErrPathNotFound),
		errors.Is(err, services.ErrStepNotFound),
		errors.Is(err, services.ErrCompanyNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return respondError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrEmployeeEmail),
		errors.Is(err, services.ErrUsernameExhausted),
		errors.Is(err, services.ErrPathConflict):
		return respondError(c, fiber.StatusConflict, err.Error())

	case errors.Is(err, genai.ErrUpstream),
		errors.Is(err, genai.ErrGenerationTruncated),
		errors.Is(err, genai.ErrMalformedResponse),
		errors.Is(err, genai.ErrInvalidStepSchema):
		return respondError(c, fiber.StatusBadGateway, "learning path generation failed, try again")

	case errors.Is(err, genai.ErrGenerationBlocked):
		return respondError(c, fiber.StatusUnprocessableEntity, "the provided skills or goal could not be processed")
	}

	return respondError(c, fiber.StatusInternalServerError, "Internal server error")
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusBadRequest, message)
}
