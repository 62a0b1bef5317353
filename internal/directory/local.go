package directory

import (
	"context"
	"errors"

	"github.com/go-authgate/apigate/internal/core"
	"github.com/go-authgate/apigate/internal/models"
	"github.com/go-authgate/apigate/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// Directory names
const (
	NameLocal   = "local"
	NameHTTPAPI = "http_api"
)

var _ core.UserDirectory = (*LocalDirectory)(nil)

// UserStore is the read side of the user store the local directory needs.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// LocalDirectory resolves users from the local database and compares
// passwords against their bcrypt hashes.
type LocalDirectory struct {
	store UserStore
}

// NewLocalDirectory creates a directory backed by s.
func NewLocalDirectory(s UserStore) *LocalDirectory {
	return &LocalDirectory{store: s}
}

// FindByUsername returns (nil, nil) when no such user exists.
func (d *LocalDirectory) FindByUsername(
	ctx context.Context,
	username string,
) (*models.User, error) {
	user, err := d.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// CompareCredential checks password against the stored bcrypt hash.
// Accounts without a local hash never match.
func (d *LocalDirectory) CompareCredential(
	_ context.Context,
	user *models.User,
	password string,
) (bool, error) {
	if user == nil || !user.HasPassword() {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// Corrupt hash in the store; not the caller's fault.
		return false, err
	}
}

// Name returns directory name for logging
func (d *LocalDirectory) Name() string {
	return NameLocal
}
