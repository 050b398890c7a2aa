package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "gemlight/internal/log"
	"gemlight/internal/repos"
	"gemlight/internal/services"
	"gemlight/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// List serves GET /api/products, the authoritative listing the inventory
// watcher polls. Filters: category, search, minPrice, maxPrice, metal,
// gemstone, limit.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	q := repos.ProductQuery{}

	if raw := strings.TrimSpace(c.Query("search")); raw != "" {
		s, ok := validate.Q(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "search", "value": raw})
			return jsonError(c, fiber.StatusBadRequest, "enter a valid search keyword")
		}
		q.Search = strings.ToLower(s)
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return jsonError(c, fiber.StatusBadRequest, "invalid category")
		}
		q.CategoryID = id
	}
	if raw := strings.TrimSpace(c.Query("metal")); raw != "" {
		m, ok := validate.Metal(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "metal"})
			return jsonError(c, fiber.StatusBadRequest, "invalid metal")
		}
		q.Metal = m
	}
	if raw := strings.TrimSpace(c.Query("gemstone")); raw != "" {
		g, ok := validate.Gemstone(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "gemstone"})
			return jsonError(c, fiber.StatusBadRequest, "invalid gemstone")
		}
		q.Gemstone = g
	}
	if raw := c.Query("minPrice"); raw != "" {
		p, ok := validate.Price(raw)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid minPrice")
		}
		q.MinPrice = p
	}
	if raw := c.Query("maxPrice"); raw != "" {
		p, ok := validate.Price(raw)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid maxPrice")
		}
		q.MaxPrice = p
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.Limit = n
		}
	}

	products, err := h.Catalog.ListProducts(c.Context(), q)
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(products)
}

// Get serves GET /api/products/:id.
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || p.ID == "" || !p.Active {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	return c.JSON(p)
}

// Categories serves GET /api/categories.
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		applog.Error(c, "categories.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load categories")
	}
	return c.JSON(cats)
}
