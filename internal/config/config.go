package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Authentication mode constants
const (
	AuthModeLocal   = "local"
	AuthModeHTTPAPI = "http_api"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// User cache type constants
const (
	UserCacheTypeNone       = "none"
	UserCacheTypeMemory     = "memory"
	UserCacheTypeRedis      = "redis"
	UserCacheTypeRedisAside = "redis-aside"
)

// Metrics cache type constants
const (
	MetricsCacheTypeMemory     = "memory"
	MetricsCacheTypeRedis      = "redis"
	MetricsCacheTypeRedisAside = "redis-aside"
)

const (
	environmentProduction = "production"
	minProductionSecret   = 32
	defaultJWTSecret      = "your-256-bit-secret-change-in-production"
)

type Config struct {
	// Server settings
	ServerAddr   string
	Environment  string
	IsProduction bool

	// JWT verification settings
	JWTSecret string
	JWTIssuer string        // Expected "iss" claim; empty disables the check
	JWTLeeway time.Duration // Clock skew tolerated on exp/iat

	// Database
	DatabaseDriver       string // "sqlite" or "postgres"
	DatabaseDSN          string // Database connection string (DSN or path)
	DefaultAdminPassword string // Seeded admin password; random when empty

	// Directory
	AuthMode                string        // "local" or "http_api"
	DirectoryTimeout        time.Duration // Deadline for a single directory call
	BasicAuthEqualizeTiming bool          // Compare against a dummy hash for unknown users

	// HTTP API directory
	HTTPAPIURL                string
	HTTPAPITimeout            time.Duration
	HTTPAPIInsecureSkipVerify bool
	HTTPAPIAuthMode           string // Authentication mode: "none", "simple", or "hmac"
	HTTPAPIAuthSecret         string // Shared secret for authentication
	HTTPAPIAuthHeader         string // Custom header name for simple mode (default: "X-API-Secret")
	HTTPAPIMaxRetries         int    // Maximum retry attempts (default: 3)
	HTTPAPIRetryDelay         time.Duration
	HTTPAPIMaxRetryDelay      time.Duration

	// User cache
	UserCacheType        string        // "none", "memory", "redis", "redis-aside"
	UserCacheTTL         time.Duration // Server-side TTL of a cached identity
	UserCacheClientTTL   time.Duration // Client-side TTL (redis-aside only)
	UserCacheSizePerConn int           // Client-side cache size per connection in MB (redis-aside only)

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	APIRateLimit             int    // Requests per minute per client IP on protected routes
	RateLimitCleanupInterval time.Duration

	// Metrics
	MetricsEnabled bool
	MetricsToken   string // Bearer token guarding /metrics; empty leaves it open

	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheType           string        // "memory", "redis", "redis-aside"
	MetricsCacheClientTTL      time.Duration // Client-side TTL (redis-aside only)
	MetricsCacheSizePerConn    int           // Client-side cache size per connection in MB (redis-aside only)

	// Timeouts
	DBInitTimeout         time.Duration
	DBCloseTimeout        time.Duration
	RedisConnTimeout      time.Duration
	RedisCloseTimeout     time.Duration
	CacheInitTimeout      time.Duration
	CacheCloseTimeout     time.Duration
	ServerShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "apigate.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	environment := getEnv("ENVIRONMENT", "development")

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		Environment:  environment,
		IsProduction: environment == environmentProduction,

		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
		JWTIssuer: getEnv("JWT_ISSUER", ""),
		JWTLeeway: getEnvDuration("JWT_LEEWAY", 0),

		DatabaseDriver:       driver,
		DatabaseDSN:          dsn,
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", ""),

		AuthMode:                getEnv("AUTH_MODE", AuthModeLocal),
		DirectoryTimeout:        getEnvDuration("DIRECTORY_TIMEOUT", 5*time.Second),
		BasicAuthEqualizeTiming: getEnvBool("BASIC_AUTH_EQUALIZE_TIMING", false),

		HTTPAPIURL:                getEnv("HTTP_API_URL", ""),
		HTTPAPITimeout:            getEnvDuration("HTTP_API_TIMEOUT", 10*time.Second),
		HTTPAPIInsecureSkipVerify: getEnvBool("HTTP_API_INSECURE_SKIP_VERIFY", false),
		HTTPAPIAuthMode:           getEnv("HTTP_API_AUTH_MODE", "none"),
		HTTPAPIAuthSecret:         getEnv("HTTP_API_AUTH_SECRET", ""),
		HTTPAPIAuthHeader:         getEnv("HTTP_API_AUTH_HEADER", "X-API-Secret"),
		HTTPAPIMaxRetries:         getEnvInt("HTTP_API_MAX_RETRIES", 3),
		HTTPAPIRetryDelay:         getEnvDuration("HTTP_API_RETRY_DELAY", 1*time.Second),
		HTTPAPIMaxRetryDelay:      getEnvDuration("HTTP_API_MAX_RETRY_DELAY", 10*time.Second),

		UserCacheType:        getEnv("USER_CACHE_TYPE", UserCacheTypeNone),
		UserCacheTTL:         getEnvDuration("USER_CACHE_TTL", time.Minute),
		UserCacheClientTTL:   getEnvDuration("USER_CACHE_CLIENT_TTL", 30*time.Second),
		UserCacheSizePerConn: getEnvInt("USER_CACHE_SIZE_PER_CONN", 32),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		APIRateLimit:             getEnvInt("API_RATE_LIMIT", 120),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),

		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),
		MetricsCacheType:           getEnv("METRICS_CACHE_TYPE", MetricsCacheTypeMemory),
		MetricsCacheClientTTL:      getEnvDuration("METRICS_CACHE_CLIENT_TTL", 10*time.Second),
		MetricsCacheSizePerConn:    getEnvInt("METRICS_CACHE_SIZE_PER_CONN", 32),

		DBInitTimeout:         getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		DBCloseTimeout:        getEnvDuration("DB_CLOSE_TIMEOUT", 5*time.Second),
		RedisConnTimeout:      getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		RedisCloseTimeout:     getEnvDuration("REDIS_CLOSE_TIMEOUT", 5*time.Second),
		CacheInitTimeout:      getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		CacheCloseTimeout:     getEnvDuration("CACHE_CLOSE_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// Validate checks value ranges and combinations that Load cannot reject on its own.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProduction {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed in production")
		}
		if len(c.JWTSecret) < minProductionSecret {
			return fmt.Errorf(
				"JWT_SECRET must be at least %d bytes in production",
				minProductionSecret,
			)
		}
	}

	switch c.AuthMode {
	case AuthModeLocal:
	case AuthModeHTTPAPI:
		if c.HTTPAPIURL == "" {
			return errors.New("HTTP_API_URL is required when AUTH_MODE=http_api")
		}
	default:
		return fmt.Errorf("invalid AUTH_MODE value: %q (must be: local, http_api)", c.AuthMode)
	}

	if c.DirectoryTimeout <= 0 {
		return fmt.Errorf("DIRECTORY_TIMEOUT must be positive, got %s", c.DirectoryTimeout)
	}

	if c.EnableRateLimit {
		switch c.RateLimitStore {
		case RateLimitStoreMemory:
		case RateLimitStoreRedis:
			if c.RedisAddr == "" {
				return errors.New(`RATE_LIMIT_STORE="redis" requires REDIS_ADDR`)
			}
		default:
			return fmt.Errorf(
				"invalid RATE_LIMIT_STORE value: %q (must be: memory, redis)",
				c.RateLimitStore,
			)
		}
		if c.APIRateLimit <= 0 {
			return fmt.Errorf("API_RATE_LIMIT must be positive, got %d", c.APIRateLimit)
		}
	}

	if c.MetricsEnabled && c.MetricsGaugeUpdateEnabled {
		if c.MetricsGaugeUpdateInterval <= 0 {
			return fmt.Errorf(
				"METRICS_GAUGE_UPDATE_INTERVAL must be positive, got %s",
				c.MetricsGaugeUpdateInterval,
			)
		}
		switch c.MetricsCacheType {
		case MetricsCacheTypeMemory:
		case MetricsCacheTypeRedis, MetricsCacheTypeRedisAside:
			if c.RedisAddr == "" {
				return fmt.Errorf("METRICS_CACHE_TYPE=%q requires REDIS_ADDR", c.MetricsCacheType)
			}
		default:
			return fmt.Errorf(
				"invalid METRICS_CACHE_TYPE value: %q (must be: memory, redis, redis-aside)",
				c.MetricsCacheType,
			)
		}
	}

	switch c.UserCacheType {
	case UserCacheTypeNone:
	case UserCacheTypeMemory, UserCacheTypeRedis, UserCacheTypeRedisAside:
		if c.UserCacheTTL <= 0 {
			return fmt.Errorf("USER_CACHE_TTL must be positive, got %s", c.UserCacheTTL)
		}
		if c.UserCacheType != UserCacheTypeMemory && c.RedisAddr == "" {
			return fmt.Errorf("USER_CACHE_TYPE=%q requires REDIS_ADDR", c.UserCacheType)
		}
	default:
		return fmt.Errorf(
			"invalid USER_CACHE_TYPE value: %q (must be: none, memory, redis, redis-aside)",
			c.UserCacheType,
		)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
