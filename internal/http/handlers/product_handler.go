package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, okC := validate.Category(category); !okC {
			return badRequest(c, "category")
		}
	}
	out, err := h.Catalog.List(category, c.Query("q"), c.QueryInt("limit", 24), c.QueryInt("offset", 0))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Detail resolves a product by id, falling back to slug lookup.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "id")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		if p, err = h.Catalog.GetBySlug(id); err != nil {
			return failErr(c, err)
		}
	}
	return ok(c, fiber.StatusOK, p)
}

// Availability reports IN_STOCK / LOW_STOCK / OUT_OF_STOCK for one product.
func (h *ProductHandler) Availability(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "id")
	}
	avail, err := h.Inv.CheckAvailability(id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, avail)
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity"`
	Images      string  `json:"images"`
	Active      *bool   `json:"active"`
}

func (h *ProductHandler) parse(c *fiber.Ctx) (services.ProductInput, bool) {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return services.ProductInput{}, false
	}
	name, okN := validate.Name(req.Name)
	category, okC := validate.Category(req.Category)
	if !okN || !okC || !validate.Money(req.Price) || !validate.Money(req.Cost) || req.Quantity < 0 {
		return services.ProductInput{}, false
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return services.ProductInput{
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Category:    category,
		Brand:       req.Brand,
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		ImagesJSON:  req.Images,
		Active:      active,
	}, true
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, okIn := h.parse(c)
	if !okIn {
		return badRequest(c, "product")
	}
	p, err := h.Catalog.Create(in)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return ok(c, fiber.StatusCreated, p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "id")
	}
	in, okIn := h.parse(c)
	if !okIn {
		return badRequest(c, "product")
	}
	p, err := h.Catalog.Update(id, in)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": p.ID})
	return ok(c, fiber.StatusOK, p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "id")
	}
	if err := h.Catalog.Delete(id); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return ok(c, fiber.StatusOK, fiber.Map{})
}
