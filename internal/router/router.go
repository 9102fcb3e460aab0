package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/handler"
	"github.com/0ui-labs/smart-youtube-bookmarks-sub001/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Field  *handler.FieldHandler
	Schema *handler.SchemaHandler
	Value  *handler.ValueHandler
	Stats  *handler.StatsHandler
	Health *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
// Authentication and list-ownership resolution happen upstream; every /api
// route assumes the caller is already authorized for the list in the path.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Health checks and metrics (before API group)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	readLimit := middleware.NewReadRateLimiter().Handler()
	fieldWriteLimit := middleware.NewFieldWriteRateLimiter().Handler()
	valueWriteLimit := middleware.NewValueWriteRateLimiter().Handler()

	// API routes
	api := app.Group("/api")

	// Field definition routes
	api.Post("/lists/:listId/custom-fields", h.Field.Create, fieldWriteLimit)
	api.Get("/lists/:listId/custom-fields", h.Field.List, readLimit)
	api.Post("/lists/:listId/custom-fields/check-duplicate", h.Field.CheckDuplicate, readLimit)
	api.Get("/lists/:listId/custom-fields/stats", h.Stats.GetStats, readLimit)
	api.Put("/custom-fields/:fieldId", h.Field.Update, fieldWriteLimit)
	api.Delete("/custom-fields/:fieldId", h.Field.Delete, fieldWriteLimit)

	// Schema routes
	api.Post("/lists/:listId/schemas", h.Schema.Create, fieldWriteLimit)
	api.Get("/lists/:listId/schemas", h.Schema.List, readLimit)
	api.Get("/lists/:listId/schemas/:schemaId", h.Schema.Get, readLimit)
	api.Put("/lists/:listId/schemas/:schemaId", h.Schema.Update, fieldWriteLimit)
	api.Delete("/lists/:listId/schemas/:schemaId", h.Schema.Delete, fieldWriteLimit)

	// Schema composition routes
	api.Get("/lists/:listId/schemas/:schemaId/fields", h.Schema.ListFields, readLimit)
	api.Post("/lists/:listId/schemas/:schemaId/fields", h.Schema.AddField, fieldWriteLimit)
	api.Put("/lists/:listId/schemas/:schemaId/fields/:fieldId", h.Schema.UpdateField, fieldWriteLimit)
	api.Delete("/lists/:listId/schemas/:schemaId/fields/:fieldId", h.Schema.RemoveField, fieldWriteLimit)

	// Video value routes
	api.Put("/videos/:videoId/fields", h.Value.SetValues, valueWriteLimit)
	api.Get("/videos/:videoId/fields", h.Value.GetValues, readLimit)
}
