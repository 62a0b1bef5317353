package bootstrap

import (
	"context"
	"net/http"

	"github.com/go-authgate/apigate/internal/auth"
	"github.com/go-authgate/apigate/internal/config"
	"github.com/go-authgate/apigate/internal/core"
	"github.com/go-authgate/apigate/internal/metrics"
	"github.com/go-authgate/apigate/internal/models"
	"github.com/go-authgate/apigate/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      metrics.Recorder
	MetricsCache         core.Cache[int64]
	MetricsCacheCloser   func() error
	UserCache            core.Cache[models.User]
	UserCacheCloser      func() error
	RateLimitRedisClient *redis.Client

	// Authentication
	Directory      core.UserDirectory
	BearerVerifier *auth.BearerVerifier
	BasicVerifier  *auth.BasicVerifier

	// HTTP
	Router *gin.Engine
	Server *http.Server
}

// Run initializes and starts the application
func Run(cfg *config.Config) error {
	ctx := context.Background()
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 3: Initialize the authentication pipeline
	if err := app.initializeAuthentication(); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database, metrics, caches, and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Database
	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, app.MetricsCacheCloser, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Identity cache
	app.UserCache, app.UserCacheCloser, err = initializeUserCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeAuthentication builds the directory chain and both verifiers
func (app *Application) initializeAuthentication() error {
	var err error

	app.Directory, err = initializeDirectory(
		app.Config,
		app.DB,
		app.UserCache,
		app.MetricsRecorder,
	)
	if err != nil {
		return err
	}

	app.BearerVerifier, app.BasicVerifier = initializeVerifiers(app.Config, app.Directory)
	return nil
}

// initializeHTTPLayer sets up router and server
func (app *Application) initializeHTTPLayer() error {
	var err error

	app.Router, err = setupRouter(
		app.Config,
		app.DB,
		verifierSet{bearer: app.BearerVerifier, basic: app.BasicVerifier},
		app.MetricsRecorder,
		app.RateLimitRedisClient,
	)
	if err != nil {
		return err
	}

	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// closeInfrastructure releases whatever was opened before a startup failure
func (app *Application) closeInfrastructure() {
	if app.RateLimitRedisClient != nil {
		_ = app.RateLimitRedisClient.Close()
	}
	if app.UserCacheCloser != nil {
		_ = app.UserCacheCloser()
	}
	if app.MetricsCacheCloser != nil {
		_ = app.MetricsCacheCloser()
	}
	if app.DB != nil {
		_ = app.DB.Close()
	}
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	// Add jobs
	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Config, app.Server)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addMemoryCacheSweepJob(m, app.UserCache)
	addCacheCleanupJob(m, "User cache", app.UserCacheCloser)
	addCacheCleanupJob(m, "Metrics cache", app.MetricsCacheCloser)
	addDatabaseShutdownJob(m, app.DB)

	// Wait for graceful shutdown
	<-m.Done()
}
