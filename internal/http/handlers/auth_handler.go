package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "gemlight/internal/log"
	"gemlight/internal/services"
	"gemlight/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register serves POST /api/auth/register and returns a bearer token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		applog.Security(c, "auth.register.fail", map[string]any{"reason": "bad_email"})
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "name must be 1-40 characters")
	}
	if !validate.Password(req.Password) {
		return jsonError(c, fiber.StatusBadRequest, "password must be 8-64 chars with upper, lower, digit and symbol")
	}

	u, tok, err := h.Auth.Register(sid, email, name, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return jsonError(c, fiber.StatusConflict, "email already registered")
		}
		applog.Error(c, "auth.register.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not register")
	}
	applog.Audit(c, "auth.register", map[string]any{"email": u.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": tok, "user": u})
}

// Login serves POST /api/auth/login. Invalid credentials are always a 401,
// never a 500-class response.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	u, tok, err := h.Auth.Login(sid, email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{"token": tok, "user": u})
}

// Me serves GET /api/auth/me, the "am I logged in" probe. A missing or
// bad token is the contract's 401, handled by RequireUser.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
