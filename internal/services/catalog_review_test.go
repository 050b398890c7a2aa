package services_test

import (
	"context"
	"testing"

	"gemlight/internal/repos"
	"gemlight/internal/services"
)

func TestCatalogListAndFilters(t *testing.T) {
	db := memdb(t)
	// nil cache: the service must run cache-less
	svc := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db), nil)

	all, err := svc.ListProducts(context.Background(), repos.ProductQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 5 {
		t.Fatalf("expected seeded catalog, got %d products", len(all))
	}

	gold, err := svc.ListProducts(context.Background(), repos.ProductQuery{Metal: "GOLD"})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range gold {
		if p.Metal != "GOLD" {
			t.Fatalf("metal filter leaked %s (%s)", p.ID, p.Metal)
		}
	}

	hits, err := svc.ListProducts(context.Background(), repos.ProductQuery{Search: "sapphire"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 {
		t.Fatal("search for seeded sapphire ring found nothing")
	}
}

func TestCatalogGetDecodesImages(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db), nil)

	p, err := svc.GetProduct("ring-solitaire-001")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "ring-solitaire-001" {
		t.Fatalf("wrong product: %+v", p)
	}
	if p.Images == nil {
		t.Fatal("images not decoded from json column")
	}
}

func TestReviewUpsertReplacesOwnReview(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)
	svc := services.NewReviewService(repos.NewReviewRepo(db), repos.NewProductRepo(db))

	u, err := users.ByEmail("maya@gemlight.test")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Post("neck-pearl-001", u.ID, 4, "lovely"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Post("neck-pearl-001", u.ID, 5, "even better on second look"); err != nil {
		t.Fatal(err)
	}

	rows, err := svc.List("neck-pearl-001")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("one review per user per product, got %d", len(rows))
	}
	if rows[0].Rating != 5 {
		t.Fatalf("upsert did not replace rating: %+v", rows[0])
	}
}

func TestWishlistSaveIsIdempotent(t *testing.T) {
	db := memdb(t)
	svc := services.NewWishlistService(repos.NewWishlistRepo(db), repos.NewProductRepo(db))

	sid := "wish-session"
	if err := svc.Save(sid, "brac-tennis-001"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Save(sid, "brac-tennis-001"); err != nil {
		t.Fatal(err)
	}

	items, err := svc.List(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 wishlist entry, got %d", len(items))
	}

	found, err := svc.Unsave(sid, "never-added")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("unsaving an absent product should report found=false")
	}
}
