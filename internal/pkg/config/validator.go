package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration returns an error when the duration is zero or negative.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive, got %v", d)
	}
	return nil
}

// ValidateIntRange returns a validator that checks an integer is within
// [min, max] inclusive.
func ValidateIntRange(min, max int) func(int) error {
	return func(v int) error {
		if v < min || v > max {
			return fmt.Errorf("must be between %d and %d, got %d", min, max, v)
		}
		return nil
	}
}

// ValidatePort checks that a port number is in the unprivileged range.
func ValidatePort(port int) error {
	if port < 1024 || port > 65535 {
		return fmt.Errorf("must be between 1024 and 65535, got %d", port)
	}
	return nil
}
