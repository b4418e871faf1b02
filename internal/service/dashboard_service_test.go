package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniadmin/ums-api/internal/models"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
)

type fakeCacheRepo struct {
	entries map[string][]byte
	sets    int
	deletes []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string][]byte)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = payload
	f.sets++
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	f.deletes = append(f.deletes, pattern)
	for key := range f.entries {
		delete(f.entries, key)
	}
	return nil
}

type fakeStatsRepo struct {
	stats *models.DashboardStats
	calls int
}

func (f *fakeStatsRepo) Summary(ctx context.Context) (*models.DashboardStats, error) {
	f.calls++
	return f.stats, nil
}

func TestDashboardServiceStatsCachesSummary(t *testing.T) {
	repo := &fakeStatsRepo{stats: &models.DashboardStats{Courses: 12, Programs: 30, PendingPrograms: 4, ApprovedPrograms: 20}}
	cacheRepo := newFakeCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(repo, cache, nil, time.Minute, zap.NewNop())

	stats, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 12, stats.Courses)
	assert.Equal(t, 1, cacheRepo.sets)

	stats, cached, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 30, stats.Programs)
	assert.Equal(t, 1, repo.calls)
}

func TestDashboardServiceStatsCacheDisabled(t *testing.T) {
	repo := &fakeStatsRepo{stats: &models.DashboardStats{Courses: 3}}
	cache := NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
	svc := NewDashboardService(repo, cache, nil, time.Minute, zap.NewNop())

	for i := 0; i < 2; i++ {
		stats, cached, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, 3, stats.Courses)
	}
	assert.Equal(t, 2, repo.calls)
}

func TestDashboardServiceStatsObservesQueryTiming(t *testing.T) {
	repo := &fakeStatsRepo{stats: &models.DashboardStats{Courses: 1}}
	metrics := NewMetricsService()
	cache := NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
	svc := NewDashboardService(repo, cache, metrics, time.Minute, zap.NewNop())

	_, _, err := svc.Stats(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `db_query_duration_seconds_count{query="dashboard_stats"} 1`)
}

func TestDashboardServiceStatsRefreshedAfterInvalidate(t *testing.T) {
	repo := &fakeStatsRepo{stats: &models.DashboardStats{Courses: 1}}
	cacheRepo := newFakeCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(repo, cache, nil, time.Minute, zap.NewNop())

	_, _, err := svc.Stats(context.Background())
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(context.Background(), "dashboard:*"))
	repo.stats = &models.DashboardStats{Courses: 2}

	stats, cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, stats.Courses)
	assert.Equal(t, []string{"dashboard:*"}, cacheRepo.deletes)
}
