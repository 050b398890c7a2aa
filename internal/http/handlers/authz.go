package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"gemlight/internal/domain"
	applog "gemlight/internal/log"
	"gemlight/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return ""
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// RequireUser rejects requests without a valid bearer token with 401;
// the contract for "not authenticated".
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		u, err := auth.UserFromToken(tok)
		if err != nil {
			applog.Security(c, "access.denied.token", nil)
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAdmin additionally enforces the ADMIN role (403, not 401, so a
// logged-in customer can tell the difference).
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		u, err := auth.UserFromToken(tok)
		if err != nil {
			applog.Security(c, "access.denied.token", nil)
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if u.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", map[string]any{"user": u.ID})
			return jsonError(c, fiber.StatusForbidden, "admin access required")
		}
		c.Locals("user", u)
		return c.Next()
	}
}
