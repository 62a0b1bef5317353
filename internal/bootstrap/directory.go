package bootstrap

import (
	"fmt"
	"log"

	"github.com/go-authgate/apigate/internal/auth"
	"github.com/go-authgate/apigate/internal/client"
	"github.com/go-authgate/apigate/internal/config"
	"github.com/go-authgate/apigate/internal/core"
	"github.com/go-authgate/apigate/internal/directory"
	"github.com/go-authgate/apigate/internal/metrics"
	"github.com/go-authgate/apigate/internal/models"
	"github.com/go-authgate/apigate/internal/store"
	"github.com/go-authgate/apigate/internal/token"
)

// initializeDirectory builds the identity directory selected by AUTH_MODE,
// optionally fronted by the user cache, and instruments it.
func initializeDirectory(
	cfg *config.Config,
	db *store.Store,
	userCache core.Cache[models.User],
	m metrics.Recorder,
) (core.UserDirectory, error) {
	var dir core.UserDirectory

	switch cfg.AuthMode {
	case config.AuthModeHTTPAPI:
		retryClient, err := client.CreateRetryClient(client.DirectoryOptions(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP API directory client: %w", err)
		}
		dir = directory.NewHTTPAPIDirectory(cfg.HTTPAPIURL, retryClient)
		log.Printf(
			"Directory: http_api (url=%s, auth_mode=%s, max_retries=%d)",
			cfg.HTTPAPIURL,
			cfg.HTTPAPIAuthMode,
			cfg.HTTPAPIMaxRetries,
		)
	default:
		dir = directory.NewLocalDirectory(db)
		log.Printf("Directory: local (driver=%s)", cfg.DatabaseDriver)
	}

	if userCache != nil {
		dir = directory.NewCachedDirectory(dir, userCache, cfg.UserCacheTTL, m)
	}

	return directory.NewInstrumentedDirectory(dir, m), nil
}

// initializeVerifiers creates the bearer and basic verifiers sharing one directory
func initializeVerifiers(
	cfg *config.Config,
	dir core.UserDirectory,
) (*auth.BearerVerifier, *auth.BasicVerifier) {
	var opts []token.VerifierOption
	if cfg.JWTIssuer != "" {
		opts = append(opts, token.WithIssuer(cfg.JWTIssuer))
	}
	if cfg.JWTLeeway > 0 {
		opts = append(opts, token.WithLeeway(cfg.JWTLeeway))
	}

	bearer := auth.NewBearerVerifier(token.NewVerifier(cfg.JWTSecret, opts...), dir)
	basic := auth.NewBasicVerifier(dir, auth.WithEqualizedTiming(cfg.BasicAuthEqualizeTiming))
	return bearer, basic
}
