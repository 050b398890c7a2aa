package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"gemlight/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// ProductQuery carries the listing filters from /api/products.
type ProductQuery struct {
	CategoryID string
	Search     string
	Metal      string
	Gemstone   string
	MinPrice   float64
	MaxPrice   float64 // 0 means unbounded
	Limit      int
	Offset     int
}

const productCols = `
  id, category_id, title, description, metal, COALESCE(gemstone,'') AS gemstone,
  base_price, currency, stock, COALESCE(images_json,'[]') AS images_json, active,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) List(q ProductQuery) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if q.Search != "" {
		where += ` AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)`
		pat := "%" + q.Search + "%"
		args = append(args, pat, pat)
	}
	if q.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, q.CategoryID)
	}
	if q.Metal != "" {
		where += ` AND metal = ?`
		args = append(args, q.Metal)
	}
	if q.Gemstone != "" {
		where += ` AND LOWER(gemstone) = LOWER(?)`
		args = append(args, q.Gemstone)
	}
	if q.MinPrice > 0 {
		where += ` AND base_price >= ?`
		args = append(args, q.MinPrice)
	}
	if q.MaxPrice > 0 {
		where += ` AND base_price <= ?`
		args = append(args, q.MaxPrice)
	}
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	sql := `SELECT ` + productCols + `
	  FROM products
	  WHERE ` + where + `
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?`
	args = append(args, limit, q.Offset)

	var out []domain.Product
	err := r.db.Select(&out, sql, args...)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// Create inserts a product (admin).
func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,category_id,title,description,metal,gemstone,base_price,currency,stock,images_json,active,created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,1,CURRENT_TIMESTAMP)
	`, p.ID, p.CategoryID, p.Title, p.Description, p.Metal, p.Gemstone, p.BasePrice, p.Currency, p.Stock, p.ImagesJSON)
	return err
}

// Update rewrites the editable fields (admin).
func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products SET category_id=?, title=?, description=?, metal=?, gemstone=?,
	    base_price=?, currency=?, images_json=?, updated_at=?
	  WHERE id=?
	`, p.CategoryID, p.Title, p.Description, p.Metal, p.Gemstone, p.BasePrice, p.Currency, p.ImagesJSON,
		time.Now().UTC().Format(time.RFC3339), p.ID)
	return err
}

// Archive hides a product from the storefront without deleting rows.
func (r *ProductRepo) Archive(id string) error {
	_, err := r.db.Exec(`UPDATE products SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
	return err
}
