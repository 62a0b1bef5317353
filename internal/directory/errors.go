package directory

import "errors"

var (
	// HTTP API errors
	ErrHTTPAPIConnection  = errors.New("failed to connect to directory API")
	ErrHTTPAPIInvalidResp = errors.New("invalid response from directory API")

	// errUserNotFound carries a not-found result through the cache fetch path.
	// It never leaves this package.
	errUserNotFound = errors.New("user not found")
)
