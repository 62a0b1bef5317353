package auth

import (
	"context"
	"fmt"

	"github.com/go-authgate/apigate/internal/core"
	"github.com/go-authgate/apigate/internal/token"
)

// TokenVerifier checks a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// BearerVerifier authenticates bearer tokens. The directory is consulted
// only after the token itself verified.
type BearerVerifier struct {
	tokens    TokenVerifier
	directory core.UserDirectory
}

// NewBearerVerifier creates a bearer verifier.
func NewBearerVerifier(tokens TokenVerifier, directory core.UserDirectory) *BearerVerifier {
	return &BearerVerifier{tokens: tokens, directory: directory}
}

// Verify resolves raw to an identity. A non-nil error wraps
// ErrDependencyFailure; every other failure is a rejected Result.
func (v *BearerVerifier) Verify(ctx context.Context, raw string) (Result, error) {
	if raw == "" {
		return reject(ReasonMissingCredential, ""), nil
	}

	claims, err := v.tokens.Verify(raw)
	if err != nil {
		return reject(ReasonInvalidSignatureOrExpired, ""), nil
	}
	if claims.Subject == "" {
		return reject(ReasonInvalidSignatureOrExpired, ""), nil
	}

	identity, err := v.directory.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s lookup: %v", ErrDependencyFailure, v.directory.Name(), err)
	}
	if identity == nil {
		return reject(ReasonUnknownSubject, claims.Subject), nil
	}

	return allow(identity), nil
}

// Strategy adapts v for a Dispatcher.
func (v *BearerVerifier) Strategy() Strategy {
	return func(ctx context.Context, cred Credential) (Result, error) {
		return v.Verify(ctx, cred.Token)
	}
}
