package store

import (
	"context"
	"errors"
	"time"

	"ydvendas/backend/internal/domain"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrInvalidInput   = errors.New("invalid input")
)

type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// RecordSale freezes the product's current prices into a new ledger row
	// and decrements the product's stock, atomically. Returns ErrNotFound
	// when the product id does not resolve; neither write happens then.
	RecordSale(ctx context.Context, productID int64, quantity int, at time.Time) (*domain.Sale, error)

	// ListSales returns the full ledger, joined with the product name,
	// ordered by date descending (id descending for equal timestamps).
	ListSales(ctx context.Context) ([]domain.Sale, error)

	GetRollingStats(ctx context.Context, now time.Time) (domain.RollingStats, error)

	CreateUser(ctx context.Context, user domain.UserAccount) (*domain.UserAccount, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.UserAccount, error)
}
