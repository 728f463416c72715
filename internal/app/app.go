package app

import (
	"zplemu/internal/handlers"
	"zplemu/internal/journal"
	u "zplemu/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
)

// SetupApp creates and configures a new Fiber app instance
func SetupApp(cfg u.Config, rec journal.Recorder) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		DisableStartupMessage: true,
		BodyLimit:             cfg.Limits.MaxPayloadBytes,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			u.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		},
	})

	RegisterMiddleware(app, cfg)
	RegisterRoutes(app, cfg, rec)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

// RegisterRoutes mounts all route handlers to the app
func RegisterRoutes(app *fiber.App, cfg u.Config, rec journal.Recorder) {
	v1 := app.Group("/v1")

	svc := handlers.NewLabelService(cfg, handlers.NewEmulator(cfg), rec)

	v1.Post("/print", svc.HandlePrint)
	v1.Get("/prints", svc.HandleRecent)

	v1.Get("/monitor", monitor.New())
}
