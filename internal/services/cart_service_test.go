package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"simplestore/internal/repos"
	"simplestore/internal/services"
)

func openCartDB(t *testing.T) (*sqlx.DB, *services.CartService) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	svc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))
	return db, svc
}

func userID(t *testing.T, db *sqlx.DB, username string) string {
	t.Helper()
	var id string
	if err := db.Get(&id, `SELECT id FROM users WHERE username=?`, username); err != nil {
		t.Fatalf("seeded user %s missing: %v", username, err)
	}
	return id
}

func productID(t *testing.T, db *sqlx.DB, name string) string {
	t.Helper()
	var id string
	if err := db.Get(&id, `SELECT id FROM products WHERE name=?`, name); err != nil {
		t.Fatalf("seeded product %s missing: %v", name, err)
	}
	return id
}

func amount(t *testing.T, svc *services.CartService, owner string) int {
	t.Helper()
	n, err := svc.Amount(owner)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestAddOutOfStockLeavesCartUnchanged(t *testing.T) {
	db, svc := openCartDB(t)
	alice := userID(t, db, "alice")
	blueChair := productID(t, db, "blue chair") // seeded with total_stock = 0

	err := svc.Add(alice, blueChair)
	var oos *services.OutOfStockError
	if !errors.As(err, &oos) {
		t.Fatalf("want OutOfStockError, got %v", err)
	}
	if got, want := oos.Error(), `Product "blue chair" is out of STOCK!`; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}

	if amount(t, svc, alice) != 0 {
		t.Fatal("amount changed by rejected add")
	}
	lines, err := svc.Lines(alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 0 {
		t.Fatal("membership changed by rejected add")
	}
}

func TestAddThenRemoveRestoresPriorState(t *testing.T) {
	db, svc := openCartDB(t)
	alice := userID(t, db, "alice")
	redChair := productID(t, db, "red chair")

	if err := svc.Add(alice, redChair); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add(alice, redChair); err != nil {
		t.Fatal(err)
	}
	if amount(t, svc, alice) != 2 {
		t.Fatalf("amount = %d after two adds, want 2", amount(t, svc, alice))
	}

	if err := svc.Remove(alice, redChair); err != nil {
		t.Fatal(err)
	}
	if amount(t, svc, alice) != 1 {
		t.Fatalf("amount = %d after one remove, want 1", amount(t, svc, alice))
	}
	lines, _ := svc.Lines(alice)
	if len(lines) != 1 || lines[0].Qty != 1 {
		t.Fatalf("membership after add,add,remove: %+v", lines)
	}

	if err := svc.Remove(alice, redChair); err != nil {
		t.Fatal(err)
	}
	if amount(t, svc, alice) != 0 {
		t.Fatal("amount not back to prior value")
	}
	lines, _ = svc.Lines(alice)
	if len(lines) != 0 {
		t.Fatal("membership not back to prior multiset")
	}
}

func TestRemoveMissingProductFailsWholeUnitOfWork(t *testing.T) {
	db, svc := openCartDB(t)
	alice := userID(t, db, "alice")
	redChair := productID(t, db, "red chair")

	if err := svc.Remove(alice, redChair); !errors.Is(err, repos.ErrNotInCart) {
		t.Fatalf("want ErrNotInCart, got %v", err)
	}
	if amount(t, svc, alice) != 0 {
		t.Fatal("amount drifted on failed remove")
	}
}

func TestExists(t *testing.T) {
	db, svc := openCartDB(t)
	alice := userID(t, db, "alice")
	redChair := productID(t, db, "red chair")
	redTable := productID(t, db, "red table")

	if err := svc.Add(alice, redChair); err != nil {
		t.Fatal(err)
	}
	if in, _ := svc.Exists(alice, redChair); !in {
		t.Fatal("added product reported missing")
	}
	if in, _ := svc.Exists(alice, redTable); in {
		t.Fatal("absent product reported present")
	}
}

func TestClearEmptiesCartRegardlessOfSize(t *testing.T) {
	db, svc := openCartDB(t)
	alice := userID(t, db, "alice")
	redChair := productID(t, db, "red chair")
	redTable := productID(t, db, "red table")

	// clearing an already empty cart is fine
	if err := svc.Clear(alice); err != nil {
		t.Fatal(err)
	}
	if amount(t, svc, alice) != 0 {
		t.Fatal("amount nonzero after clearing empty cart")
	}

	for i := 0; i < 3; i++ {
		if err := svc.Add(alice, redChair); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.Add(alice, redTable); err != nil {
		t.Fatal(err)
	}
	if err := svc.Clear(alice); err != nil {
		t.Fatal(err)
	}
	if amount(t, svc, alice) != 0 {
		t.Fatal("amount nonzero after clear")
	}
	lines, _ := svc.Lines(alice)
	if len(lines) != 0 {
		t.Fatalf("lines remain after clear: %+v", lines)
	}
}

// Stock gates adds only at zero; it is never decremented by cart activity.
// A stock=1 product can therefore be added twice by the same buyer.
func TestStockAndCartAreIndependentCounters(t *testing.T) {
	db, svc := openCartDB(t)
	alice := userID(t, db, "alice")
	bob := userID(t, db, "bob")

	catalog := services.NewCatalogService(repos.NewProductRepo(db))
	p, err := catalog.Create(alice, "lone lamp", "only one in stock", 12.0, 1, "/static/img/lamp.jpg")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Add(bob, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add(bob, p.ID); err != nil {
		t.Fatalf("second add of stock=1 product should succeed, got %v", err)
	}
	if amount(t, svc, bob) != 2 {
		t.Fatalf("amount = %d, want 2", amount(t, svc, bob))
	}

	var stock int
	if err := db.Get(&stock, `SELECT total_stock FROM products WHERE id=?`, p.ID); err != nil {
		t.Fatal(err)
	}
	if stock != 1 {
		t.Fatalf("total_stock = %d, cart adds must not touch stock", stock)
	}
}
