package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gemlight/internal/cache"
	"gemlight/internal/config"
	"gemlight/internal/http/handlers"
	applog "gemlight/internal/log"
	"gemlight/internal/metrics"
	"gemlight/internal/repos"
	"gemlight/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	pc, err := cache.NewProductCache(cfg.RedisAddr, "", cfg.RedisDB)
	if err != nil {
		log.Printf("[warn] redis unavailable, serving without product cache: %v", err)
	}

	authSvc := services.NewAuthService(repos.NewUserRepo(db), cfg.JWTSecret)
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/media/") || p == "/metrics" || p == "/healthz"
		},
	}))

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /media -> %s", mediaDir)

	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc, pc)

	// Catalog
	app.Get("/api/products", deps.CatalogHandler.List)
	app.Get("/api/products/:id", deps.CatalogHandler.Get)
	app.Get("/api/categories", deps.CatalogHandler.Categories)

	// Reviews
	app.Get("/api/products/:id/reviews", deps.ReviewHandler.List)
	app.Post("/api/products/:id/reviews", handlers.RequireUser(authSvc), deps.ReviewHandler.Post)

	// Cart
	app.Get("/api/cart", deps.CartHandler.Get)
	app.Post("/api/cart", deps.CartHandler.Add)
	app.Put("/api/cart/:id", deps.CartHandler.Update)
	app.Delete("/api/cart/:id", deps.CartHandler.Remove)

	// Wishlist
	app.Get("/api/wishlist", deps.WishlistHandler.List)
	app.Post("/api/wishlist", deps.WishlistHandler.Save)
	app.Delete("/api/wishlist/:productId", deps.WishlistHandler.Unsave)

	// Orders
	app.Post("/api/orders", deps.OrderHandler.Place)
	app.Get("/api/orders", handlers.RequireUser(authSvc), deps.OrderHandler.History)
	app.Get("/api/orders/:id", deps.OrderHandler.Get)

	// Newsletter
	app.Post("/api/newsletter/subscribe", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	}), deps.NewsletterHandler.Subscribe)

	// Auth (login throttled)
	app.Post("/api/auth/register", authH.Register)
	app.Post("/api/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, retry later"})
		},
	}), authH.Login)
	app.Get("/api/auth/me", handlers.RequireUser(authSvc), authH.Me)

	// Admin
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)

	api := app.Group("/api/admin", handlers.RequireAdmin(authSvc))
	api.Get("/stats", deps.AdminHandler.Stats)
	api.Get("/orders", deps.AdminHandler.Orders)
	api.Put("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	api.Get("/customers", deps.AdminHandler.Customers)
	api.Post("/products", deps.AdminHandler.CreateProduct)
	api.Put("/products/:id", deps.AdminHandler.UpdateProduct)
	api.Delete("/products/:id", deps.AdminHandler.ArchiveProduct)
	api.Put("/products/:id/stock", deps.AdminHandler.SetStock)

	// Observability
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	// Keep the low-stock gauge fresh without a request in the hot path.
	invRepo := repos.NewInventoryRepo(db)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := invRepo.CountLowStock(10); err == nil {
				metrics.LowStockProducts.Set(float64(n))
			}
		}
	}()

	log.Fatal(app.Listen(":" + cfg.Port))
}
