package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "gemlight/internal/log"
	"gemlight/internal/metrics"
	"gemlight/internal/services"
	"gemlight/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type addCartRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

// Get serves GET /api/cart.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load cart")
	}
	return c.JSON(cv)
}

// Add serves POST /api/cart. The same (productId, variantId) pair
// increments the existing line instead of creating a duplicate.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req addCartRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return jsonError(c, fiber.StatusBadRequest, "missing productId")
	}
	qty := validate.QtyInt(req.Quantity)

	itemID, err := h.Cart.Add(sid, pid, req.VariantID, qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": pid})
		return jsonError(c, fiber.StatusInternalServerError, "could not add to cart")
	}
	metrics.CartAdds.Inc()
	applog.Audit(c, "cart.add", map[string]any{"product": pid, "variant": req.VariantID, "qty": qty})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": itemID})
}

// Update serves PUT /api/cart/:id.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing item id")
	}
	var req updateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	qty := validate.QtyInt(req.Quantity)

	found, err := h.Cart.UpdateQty(sid, itemID, qty)
	if err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"item": itemID})
		return jsonError(c, fiber.StatusInternalServerError, "could not update cart")
	}
	if !found {
		return jsonError(c, fiber.StatusNotFound, "no such cart line")
	}
	applog.Audit(c, "cart.update", map[string]any{"item": itemID, "qty": qty})
	return c.SendStatus(fiber.StatusNoContent)
}

// Remove serves DELETE /api/cart/:id. Removing an already-absent line is a
// benign no-op so duplicate UI actions don't surface errors.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing item id")
	}
	if _, err := h.Cart.Remove(sid, itemID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"item": itemID})
		return jsonError(c, fiber.StatusInternalServerError, "could not remove item")
	}
	applog.Audit(c, "cart.remove", map[string]any{"item": itemID})
	return c.SendStatus(fiber.StatusNoContent)
}
