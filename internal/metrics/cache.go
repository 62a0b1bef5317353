package metrics

import (
	"context"
	"time"

	"github.com/go-authgate/apigate/internal/core"
)

// userCounter defines the store operation needed by CacheWrapper.
type userCounter interface {
	CountUsersByAuthSource(ctx context.Context, authSource string) (int64, error)
}

// CacheWrapper provides a read-through cache for gauge data so several
// instances sharing a cache do not all query the database on every tick.
type CacheWrapper struct {
	store userCounter
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store userCounter, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetUsersCount retrieves the number of users with authSource.
func (m *CacheWrapper) GetUsersCount(
	ctx context.Context,
	authSource string,
	ttl time.Duration,
) (int64, error) {
	return m.cache.GetWithFetch(
		ctx,
		"users:"+authSource,
		ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountUsersByAuthSource(ctx, authSource)
		},
	)
}
