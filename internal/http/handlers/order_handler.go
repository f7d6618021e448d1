package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Order   *services.OrderService
	Payment *services.PaymentService
}

type placeOrderRequest struct {
	ShippingAddress domain.Address `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	TaxPrice        float64        `json:"taxPrice"`
	ShippingPrice   float64        `json:"shippingPrice"`
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	if !req.ShippingAddress.Complete() {
		return badRequest(c, "shippingAddress")
	}
	method, okM := validate.PaymentMethod(req.PaymentMethod)
	if !okM {
		return badRequest(c, "paymentMethod")
	}
	if !validate.Money(req.TaxPrice) {
		return badRequest(c, "taxPrice")
	}
	if !validate.Money(req.ShippingPrice) {
		return badRequest(c, "shippingPrice")
	}

	u := currentUser(c)
	order, err := h.Order.Place(u.ID, services.PlaceOrderInput{
		Shipping:      req.ShippingAddress,
		PaymentMethod: method,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
	})
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": order.ID,
		"user_id":  u.ID,
		"total":    order.TotalPrice,
	})
	return ok(c, fiber.StatusCreated, order)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	oid, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "id")
	}
	o, err := h.Order.GetForUser(oid, currentUser(c))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, o)
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Order.History(currentUser(c).ID)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, orders)
}

type payOrderRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Email  string `json:"email"`
}

// Pay lets the order owner (or an admin) record a payment confirmation
// manually. The transition is idempotent: repeating it changes nothing.
func (h *OrderHandler) Pay(c *fiber.Ctx) error {
	oid, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "id")
	}
	u := currentUser(c)
	if _, err := h.Order.GetForUser(oid, u); err != nil {
		return failErr(c, err)
	}
	var req payOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}

	order, applied, err := h.Payment.ConfirmPaid(oid, domain.PaymentResult{
		ID: req.ID, Status: req.Status, Email: req.Email,
	})
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "order.pay", map[string]any{"order_id": oid, "applied": applied})
	return ok(c, fiber.StatusOK, order)
}

// Deliver marks a paid order delivered. Admin only; mounted behind
// RequireAdmin.
func (h *OrderHandler) Deliver(c *fiber.Ctx) error {
	oid, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "id")
	}
	order, err := h.Order.MarkDelivered(oid)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "order.deliver", map[string]any{"order_id": oid})
	return ok(c, fiber.StatusOK, order)
}
