// Package config provides configuration management for the dispatch
// engine. Values are loaded from environment variables with sensible
// defaults and validated before use.
//
// Environment Variables:
//
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - API_PREFIX: Reserved path prefix whose responses serialize the full
//     response envelope (default: /api)
//   - EVENT_FILE: Path of a recorded platform event the local harness
//     feeds through one dispatch (harness only; default: empty, read stdin)
//   - ENTRY: Entry function the local harness simulates - get, post,
//     install, open, edit, change, selection_change, form_submit
//     (harness only; default: get)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"os"
	"strings"

	"script-router/internal/common/errors"
)

// Config holds all configuration values for the dispatch engine. All
// fields correspond to environment variables that can be set to override
// the defaults.
type Config struct {
	// LogLevel is the logging level (debug, info, warn, error)
	LogLevel string
	// APIPrefix marks the path subtree that serializes the full envelope
	APIPrefix string
	// EventFile is the recorded event the local harness dispatches
	EventFile string
	// Entry names the entry function the local harness simulates
	Entry string
}

// Load creates a new Config with values from the environment. It does not
// validate; call Validate() on the result before use.
func Load() *Config {
	return &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		APIPrefix: getEnv("API_PREFIX", "/api"),
		EventFile: getEnv("EVENT_FILE", ""),
		Entry:     getEnv("ENTRY", "get"),
	}
}

// Validate ensures all configuration values are usable.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.ConfigError("LOG_LEVEL must be one of debug, info, warn, error")
	}

	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		return errors.ConfigError("API_PREFIX must start with '/'")
	}

	switch strings.ToLower(c.Entry) {
	case "get", "post", "install", "open", "edit", "change", "selection_change", "form_submit":
	default:
		return errors.ConfigError("ENTRY must name a platform entry function")
	}

	return nil
}

// getEnv retrieves an environment variable value or returns a default
// value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
