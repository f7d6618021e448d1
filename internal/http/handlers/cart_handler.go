package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	cart, err := h.Cart.Get(currentUser(c).ID)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, cart)
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	productID, okID := validate.ID(req.ProductID)
	if !okID {
		return badRequest(c, "productId")
	}
	qty, okQty := validate.Qty(req.Quantity)
	if !okQty {
		return badRequest(c, "quantity")
	}

	cart, err := h.Cart.Add(currentUser(c).ID, productID, qty)
	if err != nil {
		return failErr(c, err)
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": productID, "qty": qty})
	return ok(c, fiber.StatusOK, cart)
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, okID := validate.ID(c.Params("itemId"))
	if !okID {
		return badRequest(c, "itemId")
	}
	var req updateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	qty, okQty := validate.Qty(req.Quantity)
	if !okQty {
		return badRequest(c, "quantity")
	}

	cart, err := h.Cart.UpdateItem(currentUser(c).ID, itemID, qty)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	itemID, okID := validate.ID(c.Params("itemId"))
	if !okID {
		return badRequest(c, "itemId")
	}
	cart, err := h.Cart.RemoveItem(currentUser(c).ID, itemID)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, cart)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(currentUser(c).ID); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{})
}
