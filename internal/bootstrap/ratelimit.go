package bootstrap

import (
	"fmt"
	"log"

	"github.com/go-authgate/apigate/internal/config"
	"github.com/go-authgate/apigate/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// setupRateLimiting returns the limiter placed in front of the protected API.
// A pass-through handler is returned when rate limiting is disabled.
func setupRateLimiting(cfg *config.Config, redisClient *redis.Client) (gin.HandlerFunc, error) {
	if !cfg.EnableRateLimit {
		log.Println("Rate limiting disabled")
		return func(c *gin.Context) { c.Next() }, nil
	}

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)

	if storeType == middleware.RateLimitStoreRedis {
		log.Printf("Rate limiting enabled (store: redis, %d req/min)", cfg.APIRateLimit)
	} else {
		log.Printf(
			"Rate limiting enabled (store: memory, single instance only, %d req/min)",
			cfg.APIRateLimit,
		)
	}

	limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.APIRateLimit,
		StoreType:         storeType,
		RedisClient:       redisClient, // nil for memory store
		CleanupInterval:   cfg.RateLimitCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}
	return limiter, nil
}
