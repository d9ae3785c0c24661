package cache

import (
	"context"
	"time"

	"ydvendas/backend/internal/domain"
)

// StatsCache holds the rolling revenue stats between recomputations. The
// ledger is the source of truth; entries are short-lived and dropped
// whenever a sale is recorded.
type StatsCache interface {
	Get(ctx context.Context, key string) (*domain.RollingStats, bool, error)
	Set(ctx context.Context, key string, value *domain.RollingStats, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type NoopStatsCache struct{}

func (NoopStatsCache) Get(_ context.Context, _ string) (*domain.RollingStats, bool, error) {
	return nil, false, nil
}

func (NoopStatsCache) Set(_ context.Context, _ string, _ *domain.RollingStats, _ time.Duration) error {
	return nil
}

func (NoopStatsCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
