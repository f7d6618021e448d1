package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type PaymentHandler struct {
	Payment *services.PaymentService
	Order   *services.OrderService
}

type createIntentRequest struct {
	OrderID string `json:"orderId"`
}

func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req createIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	oid, okID := validate.ID(req.OrderID)
	if !okID {
		return badRequest(c, "orderId")
	}
	// Only the order owner (or an admin) may start a charge.
	if _, err := h.Order.GetForUser(oid, currentUser(c)); err != nil {
		return failErr(c, err)
	}

	intent, err := h.Payment.CreateIntent(oid)
	if err != nil {
		return failErr(c, err)
	}
	applog.Info(c, "payment.intent.create", map[string]any{
		"order_id": oid, "amount_cents": intent.AmountCents,
	})
	return ok(c, fiber.StatusOK, fiber.Map{"clientSecret": intent.ClientSecret, "amount": intent.AmountCents})
}

type webhookRequest struct {
	Type string `json:"type"`
	Data struct {
		OrderID string `json:"orderId"`
		ID      string `json:"id"`
		Status  string `json:"status"`
		Email   string `json:"email"`
	} `json:"data"`
}

// Webhook receives asynchronous payment confirmations from the gateway.
// Deliveries may repeat; marking paid is exactly-once regardless.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	var ev webhookRequest
	if err := c.BodyParser(&ev); err != nil {
		return badRequest(c, "body")
	}
	if ev.Type != "payment_intent.succeeded" {
		return ok(c, fiber.StatusOK, fiber.Map{"received": true})
	}
	oid, okID := validate.ID(ev.Data.OrderID)
	if !okID {
		return badRequest(c, "orderId")
	}

	_, applied, err := h.Payment.ConfirmPaid(oid, domain.PaymentResult{
		ID: ev.Data.ID, Status: ev.Data.Status, Email: ev.Data.Email,
	})
	if err != nil {
		return failErr(c, err)
	}
	if applied {
		applog.Audit(c, "payment.webhook.paid", map[string]any{"order_id": oid})
	} else {
		applog.Info(c, "payment.webhook.replay", map[string]any{"order_id": oid})
	}
	return ok(c, fiber.StatusOK, fiber.Map{"received": true})
}
