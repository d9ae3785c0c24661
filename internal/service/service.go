package service

import (
	"context"
	"log"
	"strings"
	"time"

	"ydvendas/backend/internal/cache"
	"ydvendas/backend/internal/domain"
	"ydvendas/backend/internal/store"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

const statsCacheKey = "stats:rolling"

type Service struct {
	repo          store.Repository
	stats         cache.StatsCache
	statsCacheTTL time.Duration
}

func New(repo store.Repository, stats cache.StatsCache, statsCacheTTL time.Duration) *Service {
	if stats == nil {
		stats = cache.NoopStatsCache{}
	}
	if statsCacheTTL <= 0 {
		statsCacheTTL = 15 * time.Second
	}

	return &Service{
		repo:          repo,
		stats:         stats,
		statsCacheTTL: statsCacheTTL,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)

	if req.Name == "" || req.SalePriceCents < 0 || req.CostPriceCents < 0 {
		return domain.Product{}, store.ErrInvalidInput
	}

	created, err := s.repo.CreateProduct(ctx, domain.Product{
		Name:           req.Name,
		SalePriceCents: req.SalePriceCents,
		CostPriceCents: req.CostPriceCents,
		Category:       req.Category,
		Stock:          req.Stock,
		Image:          req.Image,
	})
	if err != nil {
		return domain.Product{}, err
	}
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, req domain.ProductUpdateRequest) (domain.Product, error) {
	existing, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.SalePriceCents != nil {
		if *req.SalePriceCents < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.SalePriceCents = *req.SalePriceCents
	}
	if req.CostPriceCents != nil {
		if *req.CostPriceCents < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.CostPriceCents = *req.CostPriceCents
	}
	if req.Category != nil {
		updated.Category = strings.TrimSpace(*req.Category)
	}
	if req.Stock != nil {
		updated.Stock = *req.Stock
	}
	if req.Image != nil {
		updated.Image = *req.Image
	}

	// Editing a product never touches recorded sales: their frozen prices
	// stay as captured at recording time.
	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.DeleteProduct(ctx, id)
}

// RecordSale creates a ledger row with the product's prices frozen at this
// instant and decrements its stock. Both writes happen atomically in the
// repository.
func (s *Service) RecordSale(ctx context.Context, req domain.SaleCreateRequest) (domain.Sale, error) {
	if req.Quantity < 1 {
		return domain.Sale{}, store.ErrInvalidInput
	}

	sale, err := s.repo.RecordSale(ctx, req.ProductID, req.Quantity, time.Now().UTC())
	if err != nil {
		return domain.Sale{}, err
	}

	if err := s.stats.Invalidate(ctx, statsCacheKey); err != nil {
		log.Printf("[service] WARN: failed to invalidate stats cache: %v", err)
	}

	return *sale, nil
}

// ListSales returns the ledger for the given period, newest first. The
// repository always hands back the full ledger; the period filter is
// applied here over that complete fetch.
func (s *Service) ListSales(ctx context.Context, period domain.ReportPeriod) ([]domain.Sale, error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return FilterSalesByPeriod(sales, period, time.Now().UTC()), nil
}

// FilterSalesByPeriod keeps the sales matching the period relative to now:
// week means date >= now - 7 days; month means same calendar month and
// year as now, not a rolling 30 days.
func FilterSalesByPeriod(sales []domain.Sale, period domain.ReportPeriod, now time.Time) []domain.Sale {
	if period == domain.PeriodAll || period == "" {
		return sales
	}

	now = now.UTC()
	weekStart := now.Add(-7 * 24 * time.Hour)

	filtered := make([]domain.Sale, 0, len(sales))
	for _, sale := range sales {
		date := sale.Date.UTC()
		switch period {
		case domain.PeriodWeek:
			if !date.Before(weekStart) {
				filtered = append(filtered, sale)
			}
		case domain.PeriodMonth:
			if date.Year() == now.Year() && date.Month() == now.Month() {
				filtered = append(filtered, sale)
			}
		}
	}
	return filtered
}

// RollingStats returns the today/week/month revenue sums, served from the
// stats cache when a fresh entry exists.
func (s *Service) RollingStats(ctx context.Context) (domain.RollingStats, error) {
	if cached, ok, err := s.stats.Get(ctx, statsCacheKey); err != nil {
		log.Printf("[service] WARN: stats cache read failed: %v", err)
	} else if ok {
		return *cached, nil
	}

	stats, err := s.repo.GetRollingStats(ctx, time.Now().UTC())
	if err != nil {
		return domain.RollingStats{}, err
	}

	if err := s.stats.Set(ctx, statsCacheKey, &stats, s.statsCacheTTL); err != nil {
		log.Printf("[service] WARN: stats cache write failed: %v", err)
	}

	return stats, nil
}
