package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/aldiprst/flightreview_be/internal/models"
	"github.com/aldiprst/flightreview_be/internal/utils"
)

// RequireAdmin rejects any caller whose session does not carry the ADMIN
// role. Responds 401, not 403: the gate treats a non-admin session the same
// as no session at all.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Locals("user")
		if raw == nil {
			return fiber.ErrUnauthorized
		}

		token, ok := raw.(*jwt.Token)
		if !ok || token == nil {
			return fiber.ErrUnauthorized
		}

		claims, ok := token.Claims.(*utils.Claims)
		if !ok {
			return fiber.ErrUnauthorized
		}

		role := strings.ToUpper(strings.TrimSpace(claims.Role))
		if role != string(models.RoleAdmin) {
			return fiber.ErrUnauthorized
		}

		return c.Next()
	}
}
