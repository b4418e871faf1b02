package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/uniadmin/ums-api/internal/models"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
)

const (
	statsCacheKey     = "dashboard:stats"
	statsCachePattern = "dashboard:*"
)

type statsRepository interface {
	Summary(ctx context.Context) (*models.DashboardStats, error)
}

// DashboardService aggregates entity counts for the landing page.
type DashboardService struct {
	repo    statsRepository
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(repo statsRepository, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Stats returns the aggregate counts, served from cache when possible.
// The second return reports whether the response came from cache.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	var cached models.DashboardStats
	if hit, err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	stats, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard stats")
	}
	s.metrics.ObserveDBQuery("dashboard_stats", time.Since(start))

	if err := s.cache.Set(ctx, statsCacheKey, stats, s.ttl); err != nil {
		s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
	}

	return stats, false, nil
}
