package auth

import "errors"

// ErrDependencyFailure marks a failure of the identity directory itself.
// It is never an authentication decision and must not be reported as 401.
var ErrDependencyFailure = errors.New("identity directory unavailable")
