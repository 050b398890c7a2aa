package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "gemlight/internal/log"
	"gemlight/internal/services"
	"gemlight/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

type postReviewRequest struct {
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

// List serves GET /api/products/:id/reviews.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	reviews, err := h.Reviews.List(pid)
	if err != nil {
		applog.Error(c, "reviews.list.fail", err, map[string]any{"product": pid})
		return jsonError(c, fiber.StatusInternalServerError, "could not load reviews")
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

// Post serves POST /api/products/:id/reviews (auth). One review per user
// per product; a re-post replaces the earlier one.
func (h *ReviewHandler) Post(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	var req postReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if len(req.Body) > 2000 {
		return jsonError(c, fiber.StatusBadRequest, "review too long")
	}
	if err := h.Reviews.Post(pid, u.ID, req.Rating, req.Body); err != nil {
		if errors.Is(err, services.ErrBadRating) {
			return jsonError(c, fiber.StatusBadRequest, "rating must be between 1 and 5")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		applog.Error(c, "reviews.post.fail", err, map[string]any{"product": pid})
		return jsonError(c, fiber.StatusInternalServerError, "could not save review")
	}
	applog.Audit(c, "reviews.post", map[string]any{"product": pid, "rating": req.Rating})
	return c.SendStatus(fiber.StatusCreated)
}
