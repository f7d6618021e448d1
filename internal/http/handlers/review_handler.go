package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

type addReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Add(c *fiber.Ctx) error {
	productID, okID := validate.ID(c.Params("productId"))
	if !okID {
		return badRequest(c, "productId")
	}
	var req addReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	if !validate.Rating(req.Rating) {
		return badRequest(c, "rating")
	}
	comment, okC := validate.Comment(req.Comment)
	if !okC {
		return badRequest(c, "comment")
	}

	rev, err := h.Reviews.Add(productID, currentUser(c).ID, req.Rating, comment)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "review.add", map[string]any{"product_id": productID, "review_id": rev.ID})
	return ok(c, fiber.StatusCreated, rev)
}

func (h *ReviewHandler) ListByProduct(c *fiber.Ctx) error {
	productID, okID := validate.ID(c.Params("productId"))
	if !okID {
		return badRequest(c, "productId")
	}
	out, err := h.Reviews.ListByProduct(productID)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "id")
	}
	if err := h.Reviews.Delete(id, currentUser(c)); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "review.delete", map[string]any{"review_id": id})
	return ok(c, fiber.StatusOK, fiber.Map{})
}
