package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-authgate/apigate/internal/core"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown and timing
// equalization is on. Its plaintext is random and never stored.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: failed to generate dummy hash: %v", err))
	}
	return hash
})

// BasicVerifier authenticates username/password pairs.
type BasicVerifier struct {
	directory      core.UserDirectory
	equalizeTiming bool
}

// BasicOption configures a BasicVerifier.
type BasicOption func(*BasicVerifier)

// WithEqualizedTiming makes an unknown username cost one password
// comparison, like a known username with a wrong password.
func WithEqualizedTiming(enabled bool) BasicOption {
	return func(v *BasicVerifier) {
		v.equalizeTiming = enabled
	}
}

// NewBasicVerifier creates a basic credential verifier.
func NewBasicVerifier(directory core.UserDirectory, opts ...BasicOption) *BasicVerifier {
	v := &BasicVerifier{directory: directory}
	for _, opt := range opts {
		opt(v)
	}
	if v.equalizeTiming {
		dummyHash()
	}
	return v
}

// Verify resolves username and checks password against the stored
// credential. A non-nil error wraps ErrDependencyFailure.
func (v *BasicVerifier) Verify(ctx context.Context, username, password string) (Result, error) {
	if username == "" || password == "" {
		return reject(ReasonMissingCredential, username), nil
	}

	identity, err := v.directory.FindByUsername(ctx, username)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s lookup: %v", ErrDependencyFailure, v.directory.Name(), err)
	}
	if identity == nil {
		if v.equalizeTiming {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		}
		return reject(ReasonUnknownSubject, username), nil
	}

	ok, err := v.directory.CompareCredential(ctx, identity, password)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s compare: %v", ErrDependencyFailure, v.directory.Name(), err)
	}
	if !ok {
		return reject(ReasonBadPassword, username), nil
	}

	return allow(identity), nil
}

// Strategy adapts v for a Dispatcher.
func (v *BasicVerifier) Strategy() Strategy {
	return func(ctx context.Context, cred Credential) (Result, error) {
		return v.Verify(ctx, cred.Username, cred.Password)
	}
}
