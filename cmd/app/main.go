package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/storefront-backend/internal/address"
	"github.com/wichananm65/storefront-backend/internal/admin"
	"github.com/wichananm65/storefront-backend/internal/auth"
	"github.com/wichananm65/storefront-backend/internal/cart"
	"github.com/wichananm65/storefront-backend/internal/category"
	"github.com/wichananm65/storefront-backend/internal/config"
	"github.com/wichananm65/storefront-backend/internal/db"
	"github.com/wichananm65/storefront-backend/internal/events"
	"github.com/wichananm65/storefront-backend/internal/order"
	"github.com/wichananm65/storefront-backend/internal/product"
	"github.com/wichananm65/storefront-backend/internal/recommended"
	"github.com/wichananm65/storefront-backend/internal/review"
	"github.com/wichananm65/storefront-backend/internal/server"
	"github.com/wichananm65/storefront-backend/internal/user"
	"github.com/wichananm65/storefront-backend/internal/wishlist"
)

func main() {
	_ = godotenv.Load()
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	// prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Fatalf("migrations: %v", err)
		}
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer conn.Close()

	revoked := newRevocationStore(ctx, cfg.RedisAddr, logger)
	publisher, closePublisher := newPublisher(cfg.AMQPURL, logger)
	defer closePublisher()

	app := server.New(server.Options{AllowOrigins: cfg.CORSAllowOrigins, Logger: logger})
	if err := registerRoutes(ctx, app, conn, cfg, revoked, publisher, logger); err != nil {
		logger.Fatalf("setup: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront-api listening on %s", cfg.Addr)
		if err := app.Listen(cfg.Addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
}

func registerRoutes(ctx context.Context, app *fiber.App, conn *sql.DB, cfg config.Config, revoked auth.RevocationStore, publisher events.Publisher, logger *log.Logger) error {
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	gate := auth.New(cfg.JWTSecret, revoked, logger)

	adminService := admin.NewService(admin.NewPostgresRepository(conn))
	if cfg.SeedAdmin() {
		if _, err := adminService.EnsureSeed(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}

	userService := user.NewService(user.NewPostgresRepository(conn))
	addressService := address.NewService(address.NewPostgresRepository(conn))
	productService := product.NewService(product.NewPostgresRepository(conn))
	categoryService := category.NewService(category.NewPostgresRepository(conn))
	reviewService := review.NewService(review.NewPostgresRepository(conn), productService)
	cartService := cart.NewService(cart.NewPostgresRepository(conn), productService)
	wishlistService := wishlist.NewService(wishlist.NewPostgresRepository(conn), productService)
	orderService := order.NewService(order.NewPostgresRepository(conn), publisher, logger)
	recommendedService := recommended.NewService(recommended.NewPostgresRepository(conn))

	api := app.Group("/api")
	api.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "CORS is working!"})
	})

	admin.NewHandler(adminService, tokens).RegisterRoutes(api)
	user.NewHandler(userService, tokens, revoked, addressService).RegisterRoutes(api, gate)
	// before products so the static segment wins over :id
	recommended.NewHandler(recommendedService).RegisterRoutes(api)
	product.NewHandler(productService).RegisterRoutes(api, gate)
	category.NewHandler(categoryService).RegisterRoutes(api, gate)
	review.NewHandler(reviewService).RegisterRoutes(api, gate)
	cart.NewHandler(cartService).RegisterRoutes(api, gate)
	wishlist.NewHandler(wishlistService).RegisterRoutes(api, gate)
	address.NewHandler(addressService).RegisterRoutes(api, gate)
	order.NewHandler(orderService).RegisterRoutes(api, gate)
	return nil
}

// newRevocationStore uses Redis when configured and reachable, otherwise an
// in-process store.
func newRevocationStore(ctx context.Context, addr string, logger *log.Logger) auth.RevocationStore {
	if addr == "" {
		return auth.NewMemoryRevocationStore()
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Printf("redis %s unreachable, token revocation kept in memory: %v", addr, err)
		_ = rdb.Close()
		return auth.NewMemoryRevocationStore()
	}
	logger.Printf("connected to redis at %s", addr)
	return auth.NewRedisRevocationStore(rdb)
}

// newPublisher connects to RabbitMQ when configured and falls back to
// logging events.
func newPublisher(url string, logger *log.Logger) (events.Publisher, func()) {
	fallback := events.NewLogPublisher(logger)
	if url == "" {
		return fallback, func() {}
	}
	conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		logger.Printf("rabbitmq unreachable, events will be logged: %v", err)
		return fallback, func() {}
	}
	pub, err := events.NewAMQPPublisher(conn)
	if err != nil {
		logger.Printf("rabbitmq channel: %v", err)
		_ = conn.Close()
		return fallback, func() {}
	}
	logger.Printf("publishing events to rabbitmq")
	return pub, func() {
		if err := pub.Close(); err != nil {
			logger.Printf("publisher close error: %v", err)
		}
		_ = conn.Close()
	}
}
