package bootstrap

import (
	"log"

	"github.com/go-authgate/apigate/internal/auth"
	"github.com/go-authgate/apigate/internal/config"
	"github.com/go-authgate/apigate/internal/handlers"
	"github.com/go-authgate/apigate/internal/metrics"
	"github.com/go-authgate/apigate/internal/middleware"
	"github.com/go-authgate/apigate/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type verifierSet struct {
	bearer *auth.BearerVerifier
	basic  *auth.BasicVerifier
}

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	v verifierSet,
	prometheusMetrics metrics.Recorder,
	rateLimitRedisClient *redis.Client,
) (*gin.Engine, error) {
	setupGinMode(cfg)
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.IPMiddleware())

	r.GET("/health", handlers.NewHealthHandler(db, cfg.DirectoryTimeout).Check)

	setupMetricsEndpoint(r, cfg)

	apiLimiter, err := setupRateLimiting(cfg, rateLimitRedisClient)
	if err != nil {
		return nil, err
	}

	setupAPIRoutes(r, cfg, v, prometheusMetrics, apiLimiter)

	logServerStartup(cfg)

	return r, nil
}

// setupAPIRoutes mounts the gated identity endpoints. The rate limiter runs
// before the gate so throttled requests never reach the directory.
func setupAPIRoutes(
	r *gin.Engine,
	cfg *config.Config,
	v verifierSet,
	m metrics.Recorder,
	apiLimiter gin.HandlerFunc,
) {
	gateOpts := []middleware.GateOption{
		middleware.WithDirectoryTimeout(cfg.DirectoryTimeout),
		middleware.WithRecorder(m),
	}
	profile := handlers.NewProfileHandler()

	api := r.Group("/api", apiLimiter)
	{
		api.GET("/me", middleware.RequireBearer(v.bearer, gateOpts...), profile.Me)
		api.GET("/basic/me", middleware.RequireBasic(v.basic, gateOpts...), profile.Me)
	}
}

// setupMetricsEndpoint configures Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	if gin.Mode() == gin.TestMode {
		return
	}
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("Authentication mode: %s", cfg.AuthMode)
	log.Printf("API gateway starting on %s", cfg.ServerAddr)
	log.Printf("  Bearer: GET /api/me")
	log.Printf("  Basic:  GET /api/basic/me")
	log.Printf("Default user: admin (check logs for password if first run)")
}
