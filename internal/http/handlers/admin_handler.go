package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"gemlight/internal/domain"
	applog "gemlight/internal/log"
	"gemlight/internal/repos"
	"gemlight/internal/services"
	"gemlight/internal/validate"
)

type AdminHandler struct {
	OrderRepo *repos.OrderRepo
	Inv       *repos.InventoryRepo
	Users     *repos.UserRepo
	Prods     *repos.ProductRepo
	News      *repos.NewsletterRepo
	Catalog   *services.CatalogService
}

// lowStockThreshold matches the top of the watcher's "low" bucket.
const lowStockThreshold = 10

// Dashboard serves GET /admin, the one server-rendered page.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	st, _ := h.OrderRepo.Stats()
	low, _ := h.Inv.CountLowStock(lowStockThreshold)
	subs, _ := h.News.Count()
	rows, _ := h.Inv.ListAll()
	ords, _ := h.OrderRepo.ListLatest(25)
	return render(c, "admin_dashboard", fiber.Map{
		"Stats": st, "LowStock": low, "Subscribers": subs,
		"Inventory": rows, "Orders": ords,
	})
}

// Stats serves GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.OrderRepo.Stats()
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load stats")
	}
	low, err := h.Inv.CountLowStock(lowStockThreshold)
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load stats")
	}
	customers, err := h.Users.ListCustomers()
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load stats")
	}
	subs, _ := h.News.Count()
	return c.JSON(fiber.Map{
		"orders":      st.Orders,
		"revenue":     st.Revenue,
		"customers":   len(customers),
		"lowStock":    low,
		"subscribers": subs,
	})
}

// Orders serves GET /api/admin/orders.
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	ords, err := h.OrderRepo.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load orders")
	}
	return c.JSON(fiber.Map{"orders": ords})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

var validStatuses = map[string]bool{
	"PLACED": true, "PAID": true, "SHIPPED": true, "DELIVERED": true, "CANCELED": true,
}

// UpdateOrderStatus serves PUT /api/admin/orders/:id/status.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing order id")
	}
	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil || !validStatuses[req.Status] {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}
	if err := h.OrderRepo.UpdateStatus(id, req.Status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return jsonError(c, fiber.StatusBadRequest, "could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": req.Status})
	return c.SendStatus(fiber.StatusNoContent)
}

// Customers serves GET /api/admin/customers.
func (h *AdminHandler) Customers(c *fiber.Ctx) error {
	users, err := h.Users.ListCustomers()
	if err != nil {
		applog.Error(c, "admin.customers.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load customers")
	}
	return c.JSON(fiber.Map{"customers": users})
}

type productRequest struct {
	ID          string   `json:"id"`
	CategoryID  string   `json:"categoryId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Metal       string   `json:"metal"`
	Gemstone    string   `json:"gemstone"`
	BasePrice   float64  `json:"basePrice"`
	Currency    string   `json:"currency"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
}

func (r *productRequest) toDomain() (domain.Product, bool) {
	if _, ok := validate.ID(r.ID); !ok {
		return domain.Product{}, false
	}
	if _, ok := validate.ID(r.CategoryID); !ok {
		return domain.Product{}, false
	}
	if _, ok := validate.Metal(r.Metal); !ok {
		return domain.Product{}, false
	}
	if r.Title == "" || len(r.Title) > 120 || r.BasePrice < 0 || r.Stock < 0 {
		return domain.Product{}, false
	}
	currency := r.Currency
	if currency == "" {
		currency = "USD"
	}
	imgs, _ := json.Marshal(r.Images)
	return domain.Product{
		ID: r.ID, CategoryID: r.CategoryID, Title: r.Title, Description: r.Description,
		Metal: r.Metal, Gemstone: r.Gemstone, BasePrice: r.BasePrice, Currency: currency,
		Stock: r.Stock, ImagesJSON: string(imgs),
	}, true
}

// CreateProduct serves POST /api/admin/products.
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	p, ok := req.toDomain()
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product")
	}
	if err := h.Prods.Create(p); err != nil {
		applog.Error(c, "admin.products.create.fail", err, map[string]any{"product": p.ID})
		return jsonError(c, fiber.StatusBadRequest, "could not create product")
	}
	h.Catalog.Invalidate(c.Context())
	applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID})
	return c.SendStatus(fiber.StatusCreated)
}

// UpdateProduct serves PUT /api/admin/products/:id.
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing product id")
	}
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	req.ID = id
	p, ok := req.toDomain()
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product")
	}
	if err := h.Prods.Update(p); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product": id})
		return jsonError(c, fiber.StatusBadRequest, "could not update product")
	}
	h.Catalog.Invalidate(c.Context())
	applog.Audit(c, "admin.products.update", map[string]any{"product": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// ArchiveProduct serves DELETE /api/admin/products/:id (soft delete).
func (h *AdminHandler) ArchiveProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing product id")
	}
	if err := h.Prods.Archive(id); err != nil {
		applog.Error(c, "admin.products.archive.fail", err, map[string]any{"product": id})
		return jsonError(c, fiber.StatusBadRequest, "could not archive product")
	}
	h.Catalog.Invalidate(c.Context())
	applog.Audit(c, "admin.products.archive", map[string]any{"product": id})
	return c.SendStatus(fiber.StatusNoContent)
}

type stockRequest struct {
	Stock int `json:"stock"`
}

// SetStock serves PUT /api/admin/products/:id/stock.
func (h *AdminHandler) SetStock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing product id")
	}
	var req stockRequest
	if err := c.BodyParser(&req); err != nil || req.Stock < 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid stock")
	}
	if err := h.Inv.SetStock(id, req.Stock); err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"product": id, "stock": req.Stock})
		return jsonError(c, fiber.StatusBadRequest, "could not save stock")
	}
	h.Catalog.Invalidate(c.Context())
	applog.Audit(c, "admin.inventory.save", map[string]any{"product": id, "stock": req.Stock})
	return c.SendStatus(fiber.StatusNoContent)
}
