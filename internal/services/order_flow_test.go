package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"gemlight/internal/repos"
	"gemlight/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestOrderFlow_AddCartCheckout(t *testing.T) {
	db := memdb(t)

	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, invRepo, orderRepo)

	sid := "test-session"
	if _, err := cartSvc.Add(sid, "ring-solitaire-001", "size-7", 2); err != nil {
		t.Fatal(err)
	}

	cv, err := cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Total <= 0 {
		t.Fatalf("bad cart view: %+v", cv)
	}

	oid, total, err := orderSvc.Place(sid, services.Contact{Name: "Tester", Email: "t@e.com"})
	if err != nil {
		t.Fatal(err)
	}
	if oid == "" || total != cv.Total {
		t.Fatalf("bad order: id=%q total=%v want %v", oid, total, cv.Total)
	}

	// seeded stock 8, minus the 2 ordered
	stock, err := invRepo.Stock("ring-solitaire-001")
	if err != nil {
		t.Fatal(err)
	}
	if stock != 6 {
		t.Fatalf("want stock=6, got %d", stock)
	}

	// cart cleared after checkout
	cv, err = cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 0 {
		t.Fatalf("cart not cleared: %+v", cv.Items)
	}
}

func TestOrderFlow_EmptyCart(t *testing.T) {
	db := memdb(t)
	orderSvc := services.NewOrderService(repos.NewCartRepo(db), repos.NewInventoryRepo(db), repos.NewOrderRepo(db))

	_, _, err := orderSvc.Place("empty-session", services.Contact{})
	if !errors.Is(err, services.ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty, got %v", err)
	}
}

func TestOrderFlow_InsufficientStock(t *testing.T) {
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, repos.NewInventoryRepo(db), repos.NewOrderRepo(db))

	// ring-sapphire-002 is seeded with stock 2; variants of the same
	// product draw from the same pool.
	sid := "greedy-session"
	if _, err := cartSvc.Add(sid, "ring-sapphire-002", "size-6", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.Add(sid, "ring-sapphire-002", "size-7", 1); err != nil {
		t.Fatal(err)
	}

	_, _, err := orderSvc.Place(sid, services.Contact{})
	if !errors.Is(err, services.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}

	// nothing decremented on the failed pre-check
	stock, _ := repos.NewInventoryRepo(db).Stock("ring-sapphire-002")
	if stock != 2 {
		t.Fatalf("stock changed on failed order: %d", stock)
	}
}

func TestCartUpsertKeepsOneLine(t *testing.T) {
	db := memdb(t)
	cartSvc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))

	sid := "upsert-session"
	id1, err := cartSvc.Add(sid, "neck-pearl-001", "", 1)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := cartSvc.Add(sid, "neck-pearl-001", "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Fatalf("line id changed on upsert: %s vs %s", id1, id2)
	}

	cv, err := cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Items[0].Qty != 3 {
		t.Fatalf("want one line with qty 3, got %+v", cv.Items)
	}
}

func TestCartRemoveAbsentLineIsNoop(t *testing.T) {
	db := memdb(t)
	cartSvc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))

	found, err := cartSvc.Remove("some-session", "no-such-line")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("removing an absent line should report found=false")
	}
}
