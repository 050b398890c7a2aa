package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "gemlight/internal/log"
	"gemlight/internal/services"
	"gemlight/internal/validate"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

type wishlistRequest struct {
	ProductID string `json:"productId"`
}

// List serves GET /api/wishlist.
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Wish.List(sid)
	if err != nil {
		applog.Error(c, "wishlist.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load wishlist")
	}
	return c.JSON(fiber.Map{"items": items})
}

// Save serves POST /api/wishlist; re-adding a saved product is a no-op.
func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req wishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing productId")
	}
	if err := h.Wish.Save(sid, pid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		applog.Error(c, "wishlist.save.fail", err, map[string]any{"product": pid})
		return jsonError(c, fiber.StatusInternalServerError, "could not save item")
	}
	applog.Audit(c, "wishlist.save", map[string]any{"product": pid})
	return c.SendStatus(fiber.StatusCreated)
}

// Unsave serves DELETE /api/wishlist/:productId; absent entries no-op.
func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing productId")
	}
	if _, err := h.Wish.Unsave(sid, pid); err != nil {
		applog.Error(c, "wishlist.unsave.fail", err, map[string]any{"product": pid})
		return jsonError(c, fiber.StatusInternalServerError, "could not unsave item")
	}
	applog.Audit(c, "wishlist.unsave", map[string]any{"product": pid})
	return c.SendStatus(fiber.StatusNoContent)
}
