package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	HealthCheck       time.Duration // Timeout for service/panel health checks
	PollInterval      time.Duration // Interval between readiness polls
	Command           time.Duration // Timeout for individual host commands
	Install           time.Duration // Timeout for package/engine installation
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - STACKUP_TIMEOUT_HEALTH_CHECK (default: 2m)
//   - STACKUP_POLL_INTERVAL (default: 2s)
//   - STACKUP_TIMEOUT_COMMAND (default: 2m)
//   - STACKUP_TIMEOUT_INSTALL (default: 10m)
//   - STACKUP_RETRY_MAX_ATTEMPTS (default: 5)
//   - STACKUP_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		HealthCheck:       parseDuration("STACKUP_TIMEOUT_HEALTH_CHECK", 2*time.Minute),
		PollInterval:      parseDuration("STACKUP_POLL_INTERVAL", 2*time.Second),
		Command:           parseDuration("STACKUP_TIMEOUT_COMMAND", 2*time.Minute),
		Install:           parseDuration("STACKUP_TIMEOUT_INSTALL", 10*time.Minute),
		RetryMaxAttempts:  parseInt("STACKUP_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("STACKUP_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return n
}
