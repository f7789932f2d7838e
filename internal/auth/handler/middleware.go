package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	authconstant "github.com/akiliz/swedish-eco-property-hub-sub000/pkg/constant"
)

const (
	localUserID = "user_id"
	localEmail  = "email"
)

// RequireAuth verifies the bearer access token. When the token service
// hands back a near-expiry replacement, it is exposed to the client via the
// X-New-Access-Token response header; the presented token keeps working
// until its natural expiry.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	claims, replacement, err := h.tokenService.VerifyAccessToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	if replacement != "" {
		c.Set(authconstant.NewAccessTokenHeader, replacement)
	}

	c.Locals(localUserID, claims.UserID)
	c.Locals(localEmail, claims.Email)

	return c.Next()
}
