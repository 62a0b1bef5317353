package core

import (
	"context"

	"github.com/go-authgate/apigate/internal/models"
)

// UserDirectory is the identity store the authentication pipeline resolves
// credentials against.
//
// FindByUsername returns (nil, nil) when no record exists; a non-nil error
// always means the store itself failed.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// CompareCredential reports whether password matches the stored credential
	// of user. Implementations must compare in constant time.
	CompareCredential(ctx context.Context, user *models.User, password string) (bool, error)
	Name() string
}
