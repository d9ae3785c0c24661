package memory

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ydvendas/backend/internal/domain"
	"ydvendas/backend/internal/store"
)

// Store is a mutex-guarded in-memory Repository used for dev mode and
// tests. Sale recording holds the write lock across both the ledger insert
// and the stock decrement, so the two writes are atomic here too.
type Store struct {
	mu            sync.RWMutex
	products      map[int64]domain.Product
	sales         []domain.Sale
	usersByEmail  map[string]domain.UserAccount
	nextProductID int64
	nextSaleID    int64
	nextUserID    int64
}

func New() *Store {
	return &Store{
		products:      make(map[int64]domain.Product),
		sales:         make([]domain.Sale, 0, 64),
		usersByEmail:  make(map[string]domain.UserAccount),
		nextProductID: 1,
		nextSaleID:    1,
		nextUserID:    1,
	}
}

// NewSeeded returns a store preloaded with a demo catalog and a demo user
// so the backend is usable without Postgres. The demo password comes from
// SEED_USER_PASSWORD when set.
func NewSeeded() *Store {
	s := New()

	now := time.Now().UTC()
	seed := []domain.Product{
		{Name: "Camiseta Básica", SalePriceCents: 4990, CostPriceCents: 2100, Category: "vestuário", Stock: 40},
		{Name: "Caneca Esmaltada", SalePriceCents: 3590, CostPriceCents: 1400, Category: "cozinha", Stock: 25},
		{Name: "Caderno A5", SalePriceCents: 2490, CostPriceCents: 900, Category: "papelaria", Stock: 60},
		{Name: "Garrafa Térmica 500ml", SalePriceCents: 7900, CostPriceCents: 3600, Category: "cozinha", Stock: 18},
		{Name: "Chaveiro Artesanal", SalePriceCents: 1290, CostPriceCents: 350, Category: "acessórios", Stock: 80},
	}
	for _, p := range seed {
		p.ID = s.nextProductID
		s.nextProductID++
		s.products[p.ID] = p
	}

	password := "demo123"
	if v := strings.TrimSpace(envSeedPassword()); v != "" {
		password = v
	} else {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_USER_PASSWORD to override.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[memory-store] failed to hash seed password: %v", err)
	}
	s.usersByEmail["demo@ydvendas.local"] = domain.UserAccount{
		ID:           s.nextUserID,
		Name:         "Demo",
		Email:        "demo@ydvendas.local",
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	s.nextUserID++

	return s
}

func envSeedPassword() string {
	return os.Getenv("SEED_USER_PASSWORD")
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *Store) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	found := p
	return &found, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.SalePriceCents < 0 || product.CostPriceCents < 0 {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.nextProductID
	s.nextProductID++
	s.products[product.ID] = product

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.SalePriceCents < 0 || product.CostPriceCents < 0 {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.products[product.ID] = product

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	// Hard delete. Existing sales keep their product_id and frozen prices;
	// they become orphans with an empty product name in listings.
	delete(s.products, id)
	return nil
}

func (s *Store) RecordSale(_ context.Context, productID int64, quantity int, at time.Time) (*domain.Sale, error) {
	if quantity < 1 {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return nil, store.ErrNotFound
	}

	if at.IsZero() {
		at = time.Now().UTC()
	}

	sale := domain.Sale{
		ID:              s.nextSaleID,
		ProductID:       productID,
		ProductName:     product.Name,
		Quantity:        quantity,
		SalePriceCents:  product.SalePriceCents,
		CostPriceCents:  product.CostPriceCents,
		TotalPriceCents: product.SalePriceCents * int64(quantity),
		Date:            at,
	}
	s.nextSaleID++
	s.sales = append(s.sales, sale)

	// Stock may go negative; recording never rejects on insufficient stock.
	product.Stock -= quantity
	s.products[productID] = product

	created := sale
	return &created, nil
}

func (s *Store) ListSales(_ context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := make([]domain.Sale, len(s.sales))
	copy(sales, s.sales)
	for i := range sales {
		if p, ok := s.products[sales[i].ProductID]; ok {
			sales[i].ProductName = p.Name
		} else {
			sales[i].ProductName = ""
		}
	}
	sort.SliceStable(sales, func(i, j int) bool {
		if sales[i].Date.Equal(sales[j].Date) {
			return sales[i].ID > sales[j].ID
		}
		return sales[i].Date.After(sales[j].Date)
	})
	return sales, nil
}

func (s *Store) GetRollingStats(_ context.Context, now time.Time) (domain.RollingStats, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	now = now.UTC()

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.RollingStats
	for _, sale := range s.sales {
		date := sale.Date.UTC()
		if !date.Before(dayStart) && date.Before(dayStart.Add(24*time.Hour)) {
			stats.TodayCents += sale.TotalPriceCents
		}
		if !date.Before(weekStart) {
			stats.WeekCents += sale.TotalPriceCents
		}
		if !date.Before(monthStart) {
			stats.MonthCents += sale.TotalPriceCents
		}
	}
	return stats, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) (*domain.UserAccount, error) {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" || user.Name == "" || user.PasswordHash == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		return nil, store.ErrDuplicateEmail
	}

	user.ID = s.nextUserID
	s.nextUserID++
	user.Email = email
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.usersByEmail[email] = user

	created := user
	return &created, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, store.ErrNotFound
	}
	found := user
	return &found, nil
}
