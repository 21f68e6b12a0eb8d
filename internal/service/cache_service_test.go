package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCacheRepo struct{ *cacheRepoStub }

func (f *failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection reset")
}

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(newCacheRepoStub(), nil, 0, nil, false)
	assert.False(t, svc.Enabled())
	var out map[string]int
	assert.False(t, svc.Get(context.Background(), "k", &out))
	assert.NoError(t, svc.Set(context.Background(), "k", 1, 0))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
}

func TestCacheServiceHitAndMiss(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newCacheRepoStub(), metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out map[string]int
	assert.False(t, svc.Get(ctx, "gpa:summary:u:FIVE_POINT", &out))
	require.NoError(t, svc.Set(ctx, "gpa:summary:u:FIVE_POINT", map[string]int{"units": 16}, 0))
	assert.True(t, svc.Get(ctx, "gpa:summary:u:FIVE_POINT", &out))
	assert.Equal(t, 16, out["units"])

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheMisses))
	assert.Equal(t, 0.5, testutil.ToFloat64(metrics.cacheHitRatio))

	require.NoError(t, svc.Invalidate(ctx, "gpa:summary:u:*"))
	assert.False(t, svc.Get(ctx, "gpa:summary:u:FIVE_POINT", &out))

	require.NoError(t, svc.Set(ctx, "gpa:summary:u:FOUR_POINT", map[string]int{"units": 4}, 0))
	require.NoError(t, svc.Delete(ctx, "gpa:summary:u:FOUR_POINT", "gpa:summary:u:FIVE_POINT"))
	assert.False(t, svc.Get(ctx, "gpa:summary:u:FOUR_POINT", &out))
}

func TestCacheServiceBackendErrorIsMiss(t *testing.T) {
	repo := &failingCacheRepo{cacheRepoStub: newCacheRepoStub()}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	var out map[string]int
	assert.False(t, svc.Get(context.Background(), "k", &out))
}
