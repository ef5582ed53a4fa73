package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/dto"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/principal"
	"github.com/markusj17/Dynamic-Curriculum-AI/internal/services"
)

type BillingHandler struct {
	billingService *services.BillingService
}

func NewBillingHandler(billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

func (h *BillingHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	var req dto.CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.billingService.CreateCheckoutSession(mgr.ID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resp)
}

func (h *BillingHandler) CreatePortalSession(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	resp, err := h.billingService.CreatePortalSession(mgr.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resp)
}

func (h *BillingHandler) SubscriptionStatus(c *fiber.Ctx) error {
	mgr, ok := principal.ManagerFromContext(c)
	if !ok {
		return respondError(c, fiber.StatusForbidden, "Manager access required")
	}

	resp, err := h.billingService.SubscriptionStatus(mgr.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resp)
}

// Webhook receives Stripe events. The raw body must reach signature
// verification untouched, so no BodyParser here. Event application is
// idempotent, so letting Stripe retry on an error response is safe.
func (h *BillingHandler) Webhook(c *fiber.Ctx) error {
	payload := c.Body()
	sigHeader := c.Get("Stripe-Signature")

	if err := h.billingService.HandleWebhook(payload, sigHeader); err != nil {
		slog.Error("webhook processing failed", "error", err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"received": true})
}
