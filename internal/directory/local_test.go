package directory

import (
	"context"
	"testing"

	"github.com/go-authgate/apigate/internal/config"
	"github.com/go-authgate/apigate/internal/models"
	"github.com/go-authgate/apigate/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), store.DriverSQLite, ":memory:", &config.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLocalDirectory_FindByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreateLocalUser(ctx, "alice", "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)

	dir := NewLocalDirectory(s)

	user, err := dir.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)

	missing, err := dir.FindByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLocalDirectory_StoreFailureIsError(t *testing.T) {
	s, err := store.New(context.Background(), store.DriverSQLite, ":memory:", &config.Config{})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	user, err := NewLocalDirectory(s).FindByUsername(context.Background(), "admin")
	assert.Error(t, err)
	assert.Nil(t, user)
}

func TestLocalDirectory_CompareCredential(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice, err := s.CreateLocalUser(ctx, "alice", "alice@example.com", "Alice", "s3cret")
	require.NoError(t, err)

	dir := NewLocalDirectory(s)

	ok, err := dir.CompareCredential(ctx, alice, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.CompareCredential(ctx, alice, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	external := &models.User{Username: "ext", AuthSource: models.AuthSourceHTTPAPI}
	ok, err = dir.CompareCredential(ctx, external, "anything")
	require.NoError(t, err)
	assert.False(t, ok, "accounts without a local hash never match")

	corrupt := &models.User{Username: "bad", PasswordHash: "not-a-bcrypt-hash"}
	_, err = dir.CompareCredential(ctx, corrupt, "anything")
	assert.Error(t, err)
}

func TestLocalDirectory_Name(t *testing.T) {
	assert.Equal(t, "local", NewLocalDirectory(nil).Name())
}
