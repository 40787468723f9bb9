// Package api serves the settings surface over HTTP.
package api

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/InTheBottle/SeasonalWeatherSKSE/internal/app"
)

// NewServer builds the fiber app with middleware and routes. Access lines go to accessLog.
func NewServer(a *app.App, version string, accessLog io.Writer) *fiber.App {
	if accessLog == nil {
		accessLog = io.Discard
	}
	server := fiber.New(fiber.Config{
		AppName:               "Seasonal Weather " + version,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	server.Use(recover.New())
	server.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
		Output: accessLog,
	}))
	SetupRoutes(server, NewHandler(a, version))
	return server
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(server *fiber.App, h *Handler) {
	server.Get("/health", h.HealthCheck)

	api := server.Group("/api/v1")
	{
		api.Get("/status", h.GetStatus)
		api.Post("/refresh", h.Refresh)

		api.Get("/regions", h.ListRegions)
		api.Get("/regions/:id", h.GetRegion)

		api.Put("/override", h.SetOverride)
		api.Delete("/override", h.ClearOverride)

		api.Get("/config", h.GetConfig)
		api.Put("/config", h.UpdateConfig)
		api.Post("/config/save", h.SaveConfig)
		api.Post("/config/load", h.LoadConfig)
		api.Post("/config/reset", h.ResetConfig)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
