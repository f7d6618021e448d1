package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	email, okE := validate.Email(req.Email)
	if !okE {
		return badRequest(c, "email")
	}
	name, okN := validate.Name(req.Name)
	if !okN {
		return badRequest(c, "name")
	}
	if !validate.Password(req.Password) {
		return badRequest(c, "password")
	}

	u, tok, err := h.Auth.Register(email, name, req.Password)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return ok(c, fiber.StatusCreated, fiber.Map{"user": u, "token": tok})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	u, tok, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return failErr(c, err)
	}
	applog.Info(c, "auth.login", map[string]any{"user_id": u.ID})
	return ok(c, fiber.StatusOK, fiber.Map{"user": u, "token": tok})
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, currentUser(c))
}
