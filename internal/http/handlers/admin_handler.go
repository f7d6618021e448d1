package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AdminHandler struct {
	Users  *repos.UserRepo
	Orders *repos.OrderRepo
	Inv    *services.InventoryService
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, users)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "id")
	}
	if err := h.Users.DeleteCascade(id); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "admin.user.delete", map[string]any{"user_id": id})
	return ok(c, fiber.StatusOK, fiber.Map{})
}

func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.Orders.ListLatest(c.QueryInt("limit", 100))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, orders)
}

func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.Orders.DashboardStats()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"users":      stats.Users,
		"products":   stats.Products,
		"orders":     stats.Orders,
		"totalSales": stats.TotalSales,
	})
}

type updateStockRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateStock overwrites available quantity for a product (stock correction).
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	var req updateStockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	productID, okID := validate.ID(req.ProductID)
	if !okID {
		return badRequest(c, "productId")
	}
	if req.Quantity < 0 {
		return badRequest(c, "quantity")
	}
	if err := h.Inv.SetStock(productID, req.Quantity); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "admin.stock.update", map[string]any{
		"product_id": productID, "qty": req.Quantity,
	})
	return ok(c, fiber.StatusOK, fiber.Map{})
}
