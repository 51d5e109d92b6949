package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
)

// SetupRoutes registers the REST routes. Every v1 route except health runs under requestTimeout.
func SetupRoutes(app *fiber.App, deps *Dependencies, requestTimeout time.Duration) {
	app.Use(requestid.New())
	app.Use(AccessLogMiddleware(deps.Log))

	app.Get("/v1/health", HealthHandler())

	v1 := app.Group("/v1")
	v1.Post("/search", timeout.NewWithContext(SearchHandler(deps), requestTimeout))
	v1.Get("/sessions/:id", timeout.NewWithContext(GetSessionHandler(deps), requestTimeout))
	v1.Delete("/sessions/:id", timeout.NewWithContext(DeleteSessionHandler(deps), requestTimeout))
	v1.Post("/geocode", timeout.NewWithContext(GeocodeHandler(deps), requestTimeout))
	v1.Get("/facilities/count", timeout.NewWithContext(FacilityCountHandler(deps), requestTimeout))
}
