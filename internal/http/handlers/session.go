package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderSessionID carries the anonymous session identifier generated by the
// client; anonymous cart and wishlist rows are keyed by it.
const HeaderSessionID = "X-Session-ID"

// ensureSID resolves the caller's session id: header first, then the sid
// cookie, else a fresh id (also set as a cookie for browser clients).
func ensureSID(c *fiber.Ctx) string {
	sid := c.Get(HeaderSessionID)
	if sid == "" {
		sid = c.Cookies("sid")
	}
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	c.Locals("session_id", sid)
	return sid
}

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
