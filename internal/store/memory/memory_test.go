package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"ydvendas/backend/internal/domain"
	"ydvendas/backend/internal/store"
)

func TestListSalesNewestFirstWithStableTies(t *testing.T) {
	s := New()
	ctx := context.Background()

	product, err := s.CreateProduct(ctx, domain.Product{Name: "Caneca", SalePriceCents: 3500, Stock: 10})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	// Two sales share a timestamp; the later id must win the tie.
	for _, at := range []time.Time{base, base.Add(time.Hour), base.Add(time.Hour)} {
		if _, err := s.RecordSale(ctx, product.ID, 1, at); err != nil {
			t.Fatalf("record sale: %v", err)
		}
	}

	sales, err := s.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 3 {
		t.Fatalf("expected 3 sales, got %d", len(sales))
	}
	if sales[0].ID != 3 || sales[1].ID != 2 || sales[2].ID != 1 {
		t.Fatalf("expected order [3 2 1], got [%d %d %d]", sales[0].ID, sales[1].ID, sales[2].ID)
	}
}

func TestDeleteProductOrphansItsSales(t *testing.T) {
	s := New()
	ctx := context.Background()

	product, err := s.CreateProduct(ctx, domain.Product{Name: "Caderno", SalePriceCents: 2490, CostPriceCents: 900, Stock: 5})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := s.RecordSale(ctx, product.ID, 2, time.Now().UTC()); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	if err := s.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	sales, err := s.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("ledger must survive the delete, got %d rows", len(sales))
	}
	if sales[0].ProductName != "" {
		t.Fatalf("orphaned sale must lose its product name, got %q", sales[0].ProductName)
	}
	if sales[0].SalePriceCents != 2490 || sales[0].TotalPriceCents != 4980 {
		t.Fatalf("frozen prices must survive the delete, got %+v", sales[0])
	}
}

func TestCreateUserDuplicateEmailCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, domain.UserAccount{Name: "Yasmin", Email: "yasmin@example.com", PasswordHash: "x"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := s.CreateUser(ctx, domain.UserAccount{Name: "Outra", Email: "YASMIN@example.com", PasswordHash: "y"})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestNewSeededHasDemoCatalogAndUser(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	products, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) == 0 {
		t.Fatalf("expected seeded catalog")
	}

	user, err := s.GetUserByEmail(ctx, "demo@ydvendas.local")
	if err != nil {
		t.Fatalf("get demo user: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "demo123" {
		t.Fatalf("seed password must be stored hashed")
	}
}
