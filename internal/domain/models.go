package domain

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

// Product is both the storage row and the wire shape returned by
// /api/products; the watcher client decodes the same struct.
type Product struct {
	ID          string   `db:"id" json:"id"`
	CategoryID  string   `db:"category_id" json:"categoryId"`
	Title       string   `db:"title" json:"title"`
	Description string   `db:"description" json:"description,omitempty"`
	Metal       string   `db:"metal" json:"metal"` // GOLD | SILVER | PLATINUM | ROSE_GOLD
	Gemstone    string   `db:"gemstone" json:"gemstone,omitempty"`
	BasePrice   float64  `db:"base_price" json:"basePrice"`
	Currency    string   `db:"currency" json:"currency"`
	Stock       int      `db:"stock" json:"stock"`
	ImagesJSON  string   `db:"images_json" json:"-"`
	Images      []string `db:"-" json:"images"`
	Active      bool     `db:"active" json:"-"`
	CreatedAt   string   `db:"created_at" json:"createdAt"`
	UpdatedAt   string   `db:"updated_at" json:"updatedAt,omitempty"`
}

type Review struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	UserID    string `db:"user_id" json:"userId"`
	UserName  string `db:"user_name" json:"userName"`
	Rating    int    `db:"rating" json:"rating"`
	Body      string `db:"body" json:"body,omitempty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
