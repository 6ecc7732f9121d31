package cache

import (
	"log/slog"
	"time"

	"leadpulse/internal/pkg/config"
)

// LoadRetention reads the dedup window from CACHE_RETENTION. Every binary
// that builds a cache goes through this loader so the API server and the
// poller suppress re-opens over the same window.
func LoadRetention(logger *slog.Logger) time.Duration {
	retention, result := config.LoadEnvDuration(
		"CACHE_RETENTION", DefaultRetention, config.ValidatePositiveDuration)
	for _, warning := range result.Warnings {
		logger.Warn("Configuration fallback applied",
			slog.String("field", "CacheRetention"),
			slog.String("warning", warning))
	}
	return retention
}
