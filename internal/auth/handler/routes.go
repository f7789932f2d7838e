package handler

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the auth API. limiter guards the unauthenticated
// credential endpoints and may be nil (tests).
func RegisterRoutes(app *fiber.App, h *AuthHandler, limiter fiber.Handler) {
	guarded := func(handlers ...fiber.Handler) []fiber.Handler {
		if limiter == nil {
			return handlers
		}
		return append([]fiber.Handler{limiter}, handlers...)
	}

	api := app.Group("/api/v1")
	api.Post("/register", guarded(h.Register)...)
	api.Post("/login", guarded(h.Login)...)
	api.Post("/refresh", guarded(h.Refresh)...)

	api.Delete("/session", h.RequireAuth, h.Logout)
	api.Delete("/sessions", h.RequireAuth, h.LogoutAll)

	mfa := api.Group("/mfa", h.RequireAuth)
	mfa.Post("/enable", h.EnableMFA)
	mfa.Post("/confirm", h.ConfirmMFA)
	mfa.Post("/disable", h.DisableMFA)
}
