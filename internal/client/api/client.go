// Package api is the typed HTTP client for the gemlight storefront API.
// Every request carries the session id; authenticated requests add the
// bearer token captured at login.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"gemlight/internal/client/session"
	"gemlight/internal/domain"
	"gemlight/internal/http/handlers"
)

// StatusError is any non-2xx response. The message is exactly
// "<status>: <body>" so callers and logs see both at a glance.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Body)
}

func IsUnauthorized(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Status == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Status == http.StatusNotFound
}

// MissPolicy decides how a lookup treats 401/404: surface the error, or
// report "not there" as a nil result. Session-probing calls like Me use
// NilOnMissing because an expired token is an answer, not a failure.
type MissPolicy int

const (
	FailOnMissing MissPolicy = iota
	NilOnMissing
)

type Client struct {
	base     string
	http     *http.Client
	sessions *session.Provider
	token    string
}

func New(baseURL string, sessions *session.Provider) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		base:     baseURL,
		http:     &http.Client{Timeout: 15 * time.Second, Jar: jar},
		sessions: sessions,
	}
}

// SetToken installs (or with "" clears) the bearer token.
func (c *Client) SetToken(tok string) { c.token = tok }

func (c *Client) HasToken() bool { return c.token != "" }

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(handlers.HeaderSessionID, c.sessions.SessionID())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// ProductQuery mirrors the catalog list filters. Zero values are omitted
// from the query string.
type ProductQuery struct {
	Category string
	Search   string
	Metal    string
	Gemstone string
	MinPrice float64
	MaxPrice float64
	Limit    int
}

func (q ProductQuery) encode() string {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Metal != "" {
		v.Set("metal", q.Metal)
	}
	if q.Gemstone != "" {
		v.Set("gemstone", q.Gemstone)
	}
	if q.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products"+q.encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchProducts satisfies the monitor's fetcher with the unfiltered
// listing.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	return c.ListProducts(ctx, ProductQuery{})
}

func (c *Client) GetProduct(ctx context.Context, id string, miss MissPolicy) (*domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &out)
	if err != nil {
		if miss == NilOnMissing && (IsNotFound(err) || IsUnauthorized(err)) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

type CartLine struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"productId"`
	VariantID  string  `json:"variantId,omitempty"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	PriceAtAdd float64 `json:"priceAtAdd"`
	Subtotal   float64 `json:"subtotal"`
}

type Cart struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToCart returns the server-side line id.
func (c *Client) AddToCart(ctx context.Context, productID, variantID string, qty int) (string, error) {
	body := map[string]any{"productId": productID, "variantId": variantID, "quantity": qty}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/cart", body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) UpdateCartQty(ctx context.Context, lineID string, qty int) error {
	body := map[string]any{"quantity": qty}
	return c.do(ctx, http.MethodPut, "/api/cart/"+url.PathEscape(lineID), body, nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, lineID string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/"+url.PathEscape(lineID), nil, nil)
}

type WishlistItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Metal     string  `json:"metal"`
	BasePrice float64 `json:"basePrice"`
	Stock     int     `json:"stock"`
	AddedAt   string  `json:"addedAt"`
}

func (c *Client) Wishlist(ctx context.Context) ([]WishlistItem, error) {
	var out struct {
		Items []WishlistItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/wishlist", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) SaveToWishlist(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodPost, "/api/wishlist", map[string]any{"productId": productID}, nil)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/wishlist/"+url.PathEscape(productID), nil, nil)
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login captures the bearer token on success so subsequent calls are
// authenticated.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	body := map[string]any{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.User, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var out authResponse
	body := map[string]any{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.User, nil
}

// Me resolves the current user; a missing or expired token yields
// (nil, nil) rather than an error.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	if err != nil {
		if IsUnauthorized(err) || IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

type orderResponse struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

// PlaceOrder checks out the session's cart.
func (c *Client) PlaceOrder(ctx context.Context, name, email string) (string, float64, error) {
	var out orderResponse
	body := map[string]any{"name": name, "email": email}
	if err := c.do(ctx, http.MethodPost, "/api/orders", body, &out); err != nil {
		return "", 0, err
	}
	return out.ID, out.Total, nil
}
