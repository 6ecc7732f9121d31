// Package config provides reusable environment-variable loaders with
// validation and automatic fallback to defaults.
//
// Loaders never return errors: an unset variable silently yields the
// default, while a set-but-invalid value yields the default plus a
// warning the caller is expected to log. This fail-open strategy keeps
// services bootable even with broken configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ConfigLoadResult represents the result of loading one configuration value.
//
// Fields:
//   - Warnings: warning messages, one per fallback applied
//   - FallbackApplied: true if the default was used due to a parse or
//     validation failure (not merely because the variable was unset)
type ConfigLoadResult struct {
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString loads a string value from an environment variable.
// If the environment variable is not set, the default value is returned.
// No validation is performed.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvBool loads a boolean value from an environment variable.
// Accepts the forms understood by strconv.ParseBool ("true", "1", "false", ...).
// Unset or unparsable values yield the default; unparsable values add a warning.
func LoadEnvBool(envKey string, defaultValue bool) (bool, ConfigLoadResult) {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue, ConfigLoadResult{}
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fallbackResult(envKey, value, err, fmt.Sprintf("%t", defaultValue))
	}
	return parsed, ConfigLoadResult{}
}

// LoadEnvInt loads an integer value from an environment variable with
// optional validation. Parsing or validation failure yields the default
// plus a warning.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) (int, ConfigLoadResult) {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue, ConfigLoadResult{}
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fallbackResult(envKey, value, err, strconv.Itoa(defaultValue))
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return defaultValue, fallbackResult(envKey, value, err, strconv.Itoa(defaultValue))
		}
	}
	return parsed, ConfigLoadResult{}
}

// LoadEnvDuration loads a duration value from an environment variable with
// optional validation. The value must be in time.ParseDuration format
// (e.g. "300s", "5m", "24h"). Parsing or validation failure yields the
// default plus a warning.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) (time.Duration, ConfigLoadResult) {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue, ConfigLoadResult{}
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fallbackResult(envKey, value, err, defaultValue.String())
	}

	if validator != nil {
		if err := validator(parsed); err != nil {
			return defaultValue, fallbackResult(envKey, value, err, defaultValue.String())
		}
	}
	return parsed, ConfigLoadResult{}
}

// fallbackResult builds the standard warning for a fallback application.
//
// Warning format:
//
//	"Invalid {envKey}='{value}': {error}, falling back to default '{default}'"
func fallbackResult(envKey, value string, err error, defaultValue string) ConfigLoadResult {
	return ConfigLoadResult{
		Warnings: []string{fmt.Sprintf(
			"Invalid %s='%s': %v, falling back to default '%s'",
			envKey, value, err, defaultValue,
		)},
		FallbackApplied: true,
	}
}
