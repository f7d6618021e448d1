package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
)

func main() {
	cfg := config.Load()

	if err := applog.Init("storefront", cfg.Env, cfg.LogFile); err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer applog.Sync()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a generic body; never leak internals
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   fiber.Map{"code": "INTERNAL", "message": "Something went wrong. Please try again."},
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   fiber.Map{"code": "RATE_LIMITED", "message": "too many requests, retry later"},
			})
		},
	}))

	deps := handlers.NewDeps(db, authSvc, nil)
	requireUser := handlers.RequireUser(authSvc)
	requireAdmin := handlers.RequireAdmin(authSvc)

	api := app.Group("/api/v1")

	// Auth (login throttled harder than the rest of the API)
	auth := api.Group("/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   fiber.Map{"code": "RATE_LIMITED", "message": "too many login attempts, retry later"},
			})
		},
	}), deps.AuthHandler.Login)
	auth.Get("/me", requireUser, deps.AuthHandler.Me)

	// Catalog
	products := api.Group("/products")
	products.Get("/", deps.ProductHandler.List)
	products.Get("/:id", deps.ProductHandler.Detail)
	products.Get("/:id/availability", deps.ProductHandler.Availability)
	products.Post("/", requireAdmin, deps.ProductHandler.Create)
	products.Put("/:id", requireAdmin, deps.ProductHandler.Update)
	products.Delete("/:id", requireAdmin, deps.ProductHandler.Delete)

	// Reviews
	products.Get("/:productId/reviews", deps.ReviewHandler.ListByProduct)
	products.Post("/:productId/reviews", requireUser, deps.ReviewHandler.Add)
	api.Delete("/reviews/:id", requireUser, deps.ReviewHandler.Delete)

	// Cart
	cart := api.Group("/cart", requireUser)
	cart.Get("/", deps.CartHandler.Get)
	cart.Post("/", deps.CartHandler.Add)
	cart.Put("/:itemId", deps.CartHandler.UpdateItem)
	cart.Delete("/:itemId", deps.CartHandler.RemoveItem)
	cart.Delete("/", deps.CartHandler.Clear)

	// Orders
	orders := api.Group("/orders", requireUser)
	orders.Post("/", deps.OrderHandler.Place)
	orders.Get("/myorders", deps.OrderHandler.History)
	orders.Get("/:id", deps.OrderHandler.Get)
	orders.Put("/:id/pay", deps.OrderHandler.Pay)
	orders.Put("/:id/deliver", requireAdmin, deps.OrderHandler.Deliver)

	// Payment (webhook is public so the gateway can reach it)
	payment := api.Group("/payment")
	payment.Post("/create-payment-intent", requireUser, deps.PaymentHandler.CreateIntent)
	payment.Post("/webhook", deps.PaymentHandler.Webhook)

	// Admin
	admin := api.Group("/admin", requireAdmin)
	admin.Get("/users", deps.AdminHandler.ListUsers)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Get("/dashboard-stats", deps.AdminHandler.DashboardStats)
	admin.Post("/stock", deps.AdminHandler.UpdateStock)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"code": "NOT_FOUND", "message": "route not found"},
		})
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		applog.Info(nil, "server.shutdown", nil)
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
