package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-authgate/apigate/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	counts map[string]int64
	calls  int
	err    error
}

func (f *fakeCounter) CountUsersByAuthSource(_ context.Context, authSource string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[authSource], nil
}

func TestCacheWrapper_GetUsersCount(t *testing.T) {
	store := &fakeCounter{counts: map[string]int64{"local": 4, "http_api": 2}}
	wrapper := NewCacheWrapper(store, cache.NewMemoryCache[int64]())
	ctx := context.Background()

	count, err := wrapper.GetUsersCount(ctx, "local", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	// Served from cache
	count, err = wrapper.GetUsersCount(ctx, "local", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Equal(t, 1, store.calls)

	count, err = wrapper.GetUsersCount(ctx, "http_api", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 2, store.calls)
}

func TestCacheWrapper_StoreError(t *testing.T) {
	dbErr := errors.New("database locked")
	store := &fakeCounter{err: dbErr}
	wrapper := NewCacheWrapper(store, cache.NewMemoryCache[int64]())

	_, err := wrapper.GetUsersCount(context.Background(), "local", time.Minute)
	assert.ErrorIs(t, err, dbErr)
}
