package directory

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-authgate/apigate/internal/core"
	"github.com/go-authgate/apigate/internal/models"
)

const userCacheKeyPrefix = "user:"

var _ core.UserDirectory = (*CachedDirectory)(nil)

// CachedDirectory puts a cache-aside layer in front of another directory.
// Only found users are cached; a not-found answer always reaches the
// underlying directory again. Cache failures fall back to the underlying
// directory.
type CachedDirectory struct {
	next    core.UserDirectory
	cache   core.Cache[models.User]
	ttl     time.Duration
	metrics core.Recorder
}

// NewCachedDirectory wraps next with cache.
func NewCachedDirectory(
	next core.UserDirectory,
	cache core.Cache[models.User],
	ttl time.Duration,
	metrics core.Recorder,
) *CachedDirectory {
	return &CachedDirectory{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

func (d *CachedDirectory) FindByUsername(
	ctx context.Context,
	username string,
) (*models.User, error) {
	var fetched atomic.Bool

	user, err := d.cache.GetWithFetch(
		ctx,
		userCacheKeyPrefix+username,
		d.ttl,
		func(ctx context.Context, _ string) (models.User, error) {
			fetched.Store(true)
			found, err := d.next.FindByUsername(ctx, username)
			if err != nil {
				return models.User{}, err
			}
			if found == nil {
				return models.User{}, errUserNotFound
			}
			return *found, nil
		},
	)

	switch {
	case err == nil:
		if fetched.Load() {
			d.metrics.RecordUserCache("miss")
		} else {
			d.metrics.RecordUserCache("hit")
		}
		return &user, nil
	case errors.Is(err, errUserNotFound):
		d.metrics.RecordUserCache("miss")
		return nil, nil
	case fetched.Load():
		return nil, err
	}

	// The cache failed before consulting the directory.
	d.metrics.RecordUserCache("error")
	log.Printf("[Cache] user lookup for %q failed, using %s directory: %v", username, d.next.Name(), err)
	return d.next.FindByUsername(ctx, username)
}

func (d *CachedDirectory) CompareCredential(
	ctx context.Context,
	user *models.User,
	password string,
) (bool, error) {
	return d.next.CompareCredential(ctx, user, password)
}

// Name returns the underlying directory name.
func (d *CachedDirectory) Name() string {
	return d.next.Name()
}

// Invalidate drops username from the cache.
func (d *CachedDirectory) Invalidate(ctx context.Context, username string) error {
	return d.cache.Delete(ctx, userCacheKeyPrefix+username)
}
