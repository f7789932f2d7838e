package handler

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the property listing API. Reads are public; writes
// sit behind the bearer-token middleware.
func RegisterRoutes(app *fiber.App, h *ListingHandler, requireAuth fiber.Handler) {
	api := app.Group("/api/v1/properties")
	api.Get("/", h.List)
	api.Get("/:id", h.GetByID)

	api.Post("/", requireAuth, h.Create)
	api.Put("/:id", requireAuth, h.Update)
	api.Delete("/:id", requireAuth, h.Delete)
}
