package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"storefront/internal/http/handlers"
	"storefront/internal/repos"
	"storefront/internal/services"
)

// newTestApp builds the API surface against a fresh in-memory DB, mirroring
// the route table in cmd/storefront. Rate limiters are left off here; the
// throttle test wires its own.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	authSvc := services.NewAuthService(repos.NewUserRepo(db), "test-secret", time.Hour)
	deps := handlers.NewDeps(db, authSvc, nil)
	requireUser := handlers.RequireUser(authSvc)
	requireAdmin := handlers.RequireAdmin(authSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   fiber.Map{"code": "INTERNAL", "message": "Something went wrong. Please try again."},
			})
		},
	})

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", deps.AuthHandler.Login)
	auth.Get("/me", requireUser, deps.AuthHandler.Me)

	products := api.Group("/products")
	products.Get("/", deps.ProductHandler.List)
	products.Get("/:id", deps.ProductHandler.Detail)
	products.Get("/:id/availability", deps.ProductHandler.Availability)
	products.Post("/", requireAdmin, deps.ProductHandler.Create)
	products.Put("/:id", requireAdmin, deps.ProductHandler.Update)
	products.Delete("/:id", requireAdmin, deps.ProductHandler.Delete)
	products.Get("/:productId/reviews", deps.ReviewHandler.ListByProduct)
	products.Post("/:productId/reviews", requireUser, deps.ReviewHandler.Add)
	api.Delete("/reviews/:id", requireUser, deps.ReviewHandler.Delete)

	cart := api.Group("/cart", requireUser)
	cart.Get("/", deps.CartHandler.Get)
	cart.Post("/", deps.CartHandler.Add)
	cart.Put("/:itemId", deps.CartHandler.UpdateItem)
	cart.Delete("/:itemId", deps.CartHandler.RemoveItem)
	cart.Delete("/", deps.CartHandler.Clear)

	orders := api.Group("/orders", requireUser)
	orders.Post("/", deps.OrderHandler.Place)
	orders.Get("/myorders", deps.OrderHandler.History)
	orders.Get("/:id", deps.OrderHandler.Get)
	orders.Put("/:id/pay", deps.OrderHandler.Pay)
	orders.Put("/:id/deliver", requireAdmin, deps.OrderHandler.Deliver)

	payment := api.Group("/payment")
	payment.Post("/create-payment-intent", requireUser, deps.PaymentHandler.CreateIntent)
	payment.Post("/webhook", deps.PaymentHandler.Webhook)

	admin := api.Group("/admin", requireAdmin)
	admin.Get("/users", deps.AdminHandler.ListUsers)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Get("/dashboard-stats", deps.AdminHandler.DashboardStats)
	admin.Post("/stock", deps.AdminHandler.UpdateStock)

	return app, db
}

func jsonReq(method, target, token string, body any) *http.Request {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		ProductID string `json:"productId"`
		Available int    `json:"available"`
	} `json:"error"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

// loginAs authenticates an account and returns its token.
func loginAs(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/v1/auth/login", "", fiber.Map{
		"email": email, "password": password,
	}))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if body.Data.Token == "" {
		t.Fatal("empty token")
	}
	return body.Data.Token
}
