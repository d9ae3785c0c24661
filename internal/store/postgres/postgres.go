package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"ydvendas/backend/internal/domain"
	"ydvendas/backend/internal/store"
	"ydvendas/backend/internal/store/postgres/migrations"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrations.Up(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sale_price_cents, cost_price_cents, category, stock, image
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SalePriceCents, &p.CostPriceCents, &p.Category, &p.Stock, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, sale_price_cents, cost_price_cents, category, stock, image
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.SalePriceCents, &p.CostPriceCents, &p.Category, &p.Stock, &p.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.SalePriceCents < 0 || product.CostPriceCents < 0 {
		return nil, store.ErrInvalidInput
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, sale_price_cents, cost_price_cents, category, stock, image, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,now(),now())
		RETURNING id
	`, product.Name, product.SalePriceCents, product.CostPriceCents, product.Category, product.Stock, product.Image).Scan(&product.ID)
	if err != nil {
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.SalePriceCents < 0 || product.CostPriceCents < 0 {
		return nil, store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, sale_price_cents = $3, cost_price_cents = $4, category = $5, stock = $6, image = $7, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Name, product.SalePriceCents, product.CostPriceCents, product.Category, product.Stock, product.Image)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RecordSale performs the read-prices + insert-sale + decrement-stock
// sequence in one serializable transaction with the product row locked, so
// concurrent sales of the same product cannot lose stock updates.
func (s *Store) RecordSale(ctx context.Context, productID int64, quantity int, at time.Time) (*domain.Sale, error) {
	if quantity < 1 {
		return nil, store.ErrInvalidInput
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var name string
	var salePriceCents, costPriceCents int64
	err = tx.QueryRowContext(ctx, `
		SELECT name, sale_price_cents, cost_price_cents
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, productID).Scan(&name, &salePriceCents, &costPriceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	sale := domain.Sale{
		ProductID:       productID,
		ProductName:     name,
		Quantity:        quantity,
		SalePriceCents:  salePriceCents,
		CostPriceCents:  costPriceCents,
		TotalPriceCents: salePriceCents * int64(quantity),
		Date:            at,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO sales (product_id, quantity, sale_price_cents, cost_price_cents, total_price_cents, date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, date
	`, sale.ProductID, sale.Quantity, sale.SalePriceCents, sale.CostPriceCents, sale.TotalPriceCents, sale.Date).Scan(&sale.ID, &sale.Date)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1
	`, productID, quantity); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &sale, nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.product_id, COALESCE(p.name, ''), s.quantity,
		       s.sale_price_cents, s.cost_price_cents, s.total_price_cents, s.date
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id
		ORDER BY s.date DESC, s.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, 128)
	for rows.Next() {
		var sale domain.Sale
		if err := rows.Scan(&sale.ID, &sale.ProductID, &sale.ProductName, &sale.Quantity,
			&sale.SalePriceCents, &sale.CostPriceCents, &sale.TotalPriceCents, &sale.Date); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sales, nil
}

func (s *Store) GetRollingStats(ctx context.Context, now time.Time) (domain.RollingStats, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	now = now.UTC()

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var stats domain.RollingStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(total_price_cents) FILTER (WHERE date >= $1 AND date < $2), 0),
			COALESCE(SUM(total_price_cents) FILTER (WHERE date >= $3), 0),
			COALESCE(SUM(total_price_cents) FILTER (WHERE date >= $4), 0)
		FROM sales
	`, dayStart, dayStart.Add(24*time.Hour), weekStart, monthStart).Scan(&stats.TodayCents, &stats.WeekCents, &stats.MonthCents)
	if err != nil {
		return domain.RollingStats{}, err
	}
	return stats, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) (*domain.UserAccount, error) {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" || user.Name == "" || user.PasswordHash == "" {
		return nil, store.ErrInvalidInput
	}
	user.Email = email

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, created_at)
		VALUES ($1,$2,$3,now())
		RETURNING id, created_at
	`, user.Name, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateEmail
		}
		return nil, err
	}

	created := user
	return &created, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	var user domain.UserAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
