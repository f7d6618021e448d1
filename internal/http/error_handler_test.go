package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// Unhandled errors must surface as a generic JSON body with no internals.
func TestErrorHandlerNeverLeaks(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   fiber.Map{"code": "INTERNAL", "message": "Something went wrong. Please try again."},
			})
		},
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "secret trace") {
		t.Fatalf("internal detail leaked: %s", body)
	}
	if !strings.Contains(string(body), "INTERNAL") {
		t.Fatalf("missing generic error code: %s", body)
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"code": "NOT_FOUND", "message": "route not found"},
		})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/nope", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
	env := decode(t, resp)
	if env.Error.Code != "NOT_FOUND" {
		t.Fatalf("code = %q", env.Error.Code)
	}
}

func TestUnknownProductIs404(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("GET", "/api/v1/products/does-not-exist", "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if env := decode(t, resp); env.Error.Code != "PRODUCT_NOT_FOUND" {
		t.Fatalf("code = %q", env.Error.Code)
	}
}
