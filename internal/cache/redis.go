package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"gemlight/internal/domain"
	"gemlight/internal/repos"
)

const listTTL = 10 * time.Second

// ProductCache fronts the product listing reads. A nil *ProductCache is a
// valid no-op cache, so callers never branch on whether redis is configured.
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(addr, password string, db int) (*ProductCache, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Printf("[cache] redis connected addr=%s db=%d", addr, db)
	return &ProductCache{client: rdb}, nil
}

func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// ListKey derives a cache key from the listing filters.
func ListKey(q repos.ProductQuery) string {
	return fmt.Sprintf("products:%s:%s:%s:%s:%g:%g:%d:%d",
		q.CategoryID, q.Search, q.Metal, q.Gemstone, q.MinPrice, q.MaxPrice, q.Limit, q.Offset)
}

func (c *ProductCache) GetList(ctx context.Context, key string) ([]domain.Product, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var out []domain.Product
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *ProductCache) SetList(ctx context.Context, key string, ps []domain.Product) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(ps)
	if err != nil {
		return
	}
	// Cache failures are invisible to callers; the DB read already succeeded.
	_ = c.client.Set(ctx, key, raw, listTTL).Err()
}

// Flush drops all cached listings (admin product/stock writes).
func (c *ProductCache) Flush(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, "products:*", 100).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
}
