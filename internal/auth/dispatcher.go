package auth

import "context"

// Strategy verifies one kind of credential.
type Strategy func(ctx context.Context, cred Credential) (Result, error)

// Dispatcher routes a credential to the strategy registered for its kind.
type Dispatcher struct {
	strategies map[CredentialKind]Strategy
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{strategies: make(map[CredentialKind]Strategy)}
}

// Register binds s to kind, replacing any earlier binding. Register is not
// safe to call once the dispatcher is serving requests.
func (d *Dispatcher) Register(kind CredentialKind, s Strategy) *Dispatcher {
	d.strategies[kind] = s
	return d
}

// Supports reports whether a strategy is registered for kind.
func (d *Dispatcher) Supports(kind CredentialKind) bool {
	_, ok := d.strategies[kind]
	return ok
}

// Resolve verifies cred. A missing credential is rejected without calling
// any strategy; a kind with no strategy is rejected as malformed.
func (d *Dispatcher) Resolve(ctx context.Context, cred Credential) (Result, error) {
	if cred.Kind == CredentialMissing {
		return reject(ReasonMissingCredential, ""), nil
	}

	strategy, ok := d.strategies[cred.Kind]
	if !ok {
		return reject(ReasonMalformedCredential, ""), nil
	}

	return strategy(ctx, cred)
}
