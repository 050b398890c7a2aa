package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "gemlight/internal/log"
	"gemlight/internal/metrics"
	"gemlight/internal/repos"
	"gemlight/internal/services"
	"gemlight/internal/validate"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Repo  *repos.OrderRepo
	Auth  *services.AuthService
}

type placeOrderRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Place serves POST /api/orders: checkout from the session cart.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return jsonError(c, fiber.StatusBadRequest, "name must be 1-40 characters")
	}

	orderID, total, err := h.Order.Place(sid, services.Contact{Name: name, Email: email})
	if err != nil {
		if errors.Is(err, services.ErrCartEmpty) {
			return jsonError(c, fiber.StatusBadRequest, "cart is empty")
		}
		if errors.Is(err, services.ErrInsufficientStock) {
			applog.Security(c, "order.place.stock", map[string]any{"error": err.Error()})
			return jsonError(c, fiber.StatusConflict, "insufficient stock; please review quantities")
		}
		applog.Error(c, "order.place.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not place order")
	}
	metrics.OrdersPlaced.Inc()
	applog.Audit(c, "order.place", map[string]any{"order_id": orderID, "total": total})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": orderID, "total": total})
}

// Get serves GET /api/orders/:id. Owner (session or linked user) or admin.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}

	sid := c.Get(HeaderSessionID)
	if sid == "" {
		sid = c.Cookies("sid")
	}
	var uID, uRole string
	if tok := bearerToken(c); tok != "" && h.Auth != nil {
		if u, err := h.Auth.UserFromToken(tok); err == nil {
			uID, uRole = u.ID, u.Role
		}
	}
	owner := (sid != "" && sid == o.SessionID) || (uID != "" && uID == o.UserID)
	if !owner && uRole != "ADMIN" {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	return c.JSON(fiber.Map{"order": o, "items": items})
}

// History serves GET /api/orders for the current user.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}
	orders, err := h.Repo.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load orders")
	}
	// Pre-login orders are only linked through the session id.
	if len(orders) == 0 {
		sid := c.Get(HeaderSessionID)
		if sid == "" {
			sid = c.Cookies("sid")
		}
		if sid != "" {
			if sessOrders, err := h.Repo.ListBySession(sid); err == nil && len(sessOrders) > 0 {
				orders = sessOrders
			}
		}
	}
	return c.JSON(fiber.Map{"orders": orders})
}
