package bootstrap

import (
	"fmt"
	"log"

	"github.com/go-authgate/apigate/internal/config"
)

// validateAllConfiguration validates all configuration settings and warns
// about combinations that are legal but unsafe outside development.
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, warning := range configurationWarnings(cfg) {
		log.Printf("WARNING: %s", warning)
	}
	return nil
}

func configurationWarnings(cfg *config.Config) []string {
	var warnings []string

	if cfg.AuthMode == config.AuthModeHTTPAPI {
		if cfg.HTTPAPIInsecureSkipVerify {
			warnings = append(warnings,
				"HTTP_API_INSECURE_SKIP_VERIFY is enabled; directory TLS certificates are not verified")
		}
		if cfg.HTTPAPIAuthMode == "none" {
			warnings = append(warnings,
				"HTTP_API_AUTH_MODE=none; requests to the identity directory are unauthenticated")
		}
	}

	if cfg.IsProduction && cfg.MetricsEnabled && cfg.MetricsToken == "" {
		warnings = append(warnings, "METRICS_TOKEN is empty; /metrics is publicly readable")
	}

	if cfg.IsProduction && !cfg.EnableRateLimit {
		warnings = append(warnings,
			"rate limiting is disabled; credential guessing against /api is unthrottled")
	}

	return warnings
}
