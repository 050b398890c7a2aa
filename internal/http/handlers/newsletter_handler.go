package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "gemlight/internal/log"
	"gemlight/internal/metrics"
	"gemlight/internal/repos"
	"gemlight/internal/validate"
)

type NewsletterHandler struct {
	Repo *repos.NewsletterRepo
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe serves POST /api/newsletter/subscribe; duplicates no-op.
func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	created, err := h.Repo.Subscribe(email)
	if err != nil {
		applog.Error(c, "newsletter.subscribe.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not subscribe")
	}
	if created {
		metrics.NewsletterSubscriptions.Inc()
		applog.Audit(c, "newsletter.subscribe", map[string]any{"email": email})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"subscribed": true})
}
