// Package worker runs the polling fallback for environments where the CRM
// cannot reach the webhook endpoint. It periodically queries the CRM event
// log and feeds discovered opens into the shared ingestion pipeline.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"leadpulse/internal/pkg/config"
)

// WorkerConfig holds configuration for the polling worker.
//
// The lookback must exceed the poll interval so consecutive windows overlap
// and no event can fall between polls. Overlap produces re-fetches of
// already-seen events; the dedup cache suppresses those.
type WorkerConfig struct {
	// PollInterval is the time between event-log queries.
	// Default: 5 minutes.
	PollInterval time.Duration

	// PollLookback is the trailing window each query covers.
	// Must be greater than PollInterval. Default: 10 minutes.
	PollLookback time.Duration

	// HealthPort is the port for the liveness/readiness HTTP server.
	// Range: 1024-65535. Default: 9091.
	HealthPort int

	// StartupNotice, when true, sends a plain-text notification to the
	// configured destinations when the poller starts.
	StartupNotice bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:  5 * time.Minute,
		PollLookback:  10 * time.Minute,
		HealthPort:    9091,
		StartupNotice: true,
	}
}

// Validate checks the configuration, collecting every violation.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidatePositiveDuration(c.PollInterval); err != nil {
		errs = append(errs, fmt.Errorf("poll interval: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.PollLookback); err != nil {
		errs = append(errs, fmt.Errorf("poll lookback: %w", err))
	}
	if c.PollLookback <= c.PollInterval {
		errs = append(errs, fmt.Errorf(
			"poll lookback %s must exceed poll interval %s", c.PollLookback, c.PollInterval))
	}
	if err := config.ValidateIntRange(1024, 65535)(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with fail-open fallback to defaults. It never returns an invalid
// configuration: when the loaded interval/lookback pair leaves coverage
// gaps, the lookback is widened to twice the interval.
//
// Environment variables:
//   - POLL_INTERVAL: duration, e.g. "300s" (default: 5m)
//   - POLL_LOOKBACK: duration, e.g. "600s" (default: 10m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default: 9091)
//   - STARTUP_NOTICE: boolean (default: true)
func LoadConfigFromEnv(logger *slog.Logger) WorkerConfig {
	cfg := DefaultConfig()
	var result config.ConfigLoadResult

	cfg.PollInterval, result = config.LoadEnvDuration(
		"POLL_INTERVAL", cfg.PollInterval, config.ValidatePositiveDuration)
	logWarnings(logger, "PollInterval", result)

	cfg.PollLookback, result = config.LoadEnvDuration(
		"POLL_LOOKBACK", cfg.PollLookback, config.ValidatePositiveDuration)
	logWarnings(logger, "PollLookback", result)

	cfg.HealthPort, result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort,
		func(v int) error { return config.ValidateIntRange(1024, 65535)(v) })
	logWarnings(logger, "HealthPort", result)

	cfg.StartupNotice, result = config.LoadEnvBool("STARTUP_NOTICE", cfg.StartupNotice)
	logWarnings(logger, "StartupNotice", result)

	if cfg.PollLookback <= cfg.PollInterval {
		widened := 2 * cfg.PollInterval
		logger.Warn("poll lookback does not cover the poll interval, widening",
			slog.Duration("lookback", cfg.PollLookback),
			slog.Duration("interval", cfg.PollInterval),
			slog.Duration("widened_lookback", widened))
		cfg.PollLookback = widened
	}
	return cfg
}

func logWarnings(logger *slog.Logger, field string, result config.ConfigLoadResult) {
	for _, warning := range result.Warnings {
		logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}
}
