package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
)

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": code, "message": msg},
	})
}

// failErr maps domain errors to client-facing codes. Anything unrecognized is
// logged and answered with a generic 500 so internals never leak.
func failErr(c *fiber.Ctx, err error) error {
	var (
		stock   *domain.InsufficientStockError
		noProd  *domain.ProductNotFoundError
		noItem  *domain.ItemNotFoundError
		noOrder *domain.OrderNotFoundError
		noUser  *domain.UserNotFoundError
	)
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return fail(c, fiber.StatusBadRequest, "EMPTY_CART", err.Error())
	case errors.Is(err, domain.ErrCartNotFound):
		return fail(c, fiber.StatusNotFound, "CART_NOT_FOUND", err.Error())
	case errors.As(err, &stock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"code":      "INSUFFICIENT_STOCK",
				"message":   stock.Error(),
				"productId": stock.ProductID,
				"available": stock.Available,
			},
		})
	case errors.As(err, &noProd):
		return fail(c, fiber.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error())
	case errors.As(err, &noItem):
		return fail(c, fiber.StatusNotFound, "ITEM_NOT_FOUND", err.Error())
	case errors.As(err, &noOrder):
		return fail(c, fiber.StatusNotFound, "ORDER_NOT_FOUND", err.Error())
	case errors.As(err, &noUser):
		return fail(c, fiber.StatusNotFound, "USER_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domain.ErrOrderUnpaid):
		return fail(c, fiber.StatusBadRequest, "ORDER_UNPAID", err.Error())
	case errors.Is(err, services.ErrBadCreds):
		return fail(c, fiber.StatusUnauthorized, "BAD_CREDENTIALS", err.Error())
	case errors.Is(err, repos.ErrDuplicateEmail):
		return fail(c, fiber.StatusBadRequest, "DUPLICATE_EMAIL", err.Error())
	case errors.Is(err, repos.ErrDuplicateReview):
		return fail(c, fiber.StatusBadRequest, "DUPLICATE_REVIEW", err.Error())
	}
	applog.Error(c, "request.fail", err, nil)
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", "Something went wrong. Please try again.")
}

func badRequest(c *fiber.Ctx, field string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return fail(c, fiber.StatusBadRequest, "VALIDATION", "invalid "+field)
}
