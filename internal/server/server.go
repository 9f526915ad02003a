package server

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Options struct {
	AllowOrigins []string
	Logger       *log.Logger
}

// New builds the fiber app with the shared middleware chain and the JSON
// error handler. Routes are registered by the caller.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "storefront-api",
		ErrorHandler: ErrorHandler(opts.Logger),
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	setupCORS(app, opts.AllowOrigins)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

func setupCORS(app *fiber.App, origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// ErrorHandler renders every error as {"error": "..."}. Errors that are not
// *fiber.Error are logged and reported as 500 without leaking details.
func ErrorHandler(l *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error."

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else if l != nil {
			l.Printf("%s %s: %v", c.Method(), c.Path(), err)
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
