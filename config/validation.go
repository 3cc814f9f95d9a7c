package config

import (
	"fmt"
	"slices"
	"strings"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

func Validate(cfg *Config) error {
	if err := validateApp(&cfg.App); err != nil {
		return fmt.Errorf("app config: %w", err)
	}

	if err := validateHTTP(&cfg.HTTP); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := validateAuth(&cfg.Auth); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

// validateApp requires Name and Version to be non-empty and Env to be one of
// EnvDevelopment, EnvStaging, or EnvProduction.
func validateApp(cfg *AppConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if cfg.Version == "" {
		return fmt.Errorf("app version is required")
	}

	validEnvs := []string{EnvDevelopment, EnvStaging, EnvProduction}
	if !slices.Contains(validEnvs, cfg.Env) {
		return fmt.Errorf("invalid environment: %s (must be one of: %s)",
			cfg.Env, strings.Join(validEnvs, ", "))
	}

	return nil
}

func validateHTTP(cfg *HTTPConfig) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if cfg.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive")
	}

	if cfg.InitialBackoff < 0 {
		return fmt.Errorf("initial backoff must not be negative")
	}

	if cfg.CompressMinRatio <= 0 || cfg.CompressMinRatio > 1 {
		return fmt.Errorf("compress min ratio must be in (0, 1]: %v", cfg.CompressMinRatio)
	}

	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	if cfg.MaxPayloadLogBytes < 0 {
		return fmt.Errorf("max payload log bytes must not be negative")
	}

	return nil
}

func validateAuth(cfg *AuthConfig) error {
	if cfg.MinTokenValidity < 0 {
		return fmt.Errorf("min token validity must not be negative")
	}

	return nil
}

func validateLog(cfg *LogConfig) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	if !slices.Contains(validLevels, cfg.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			cfg.Level, strings.Join(validLevels, ", "))
	}

	validFormats := []string{"json", "console"}
	if !slices.Contains(validFormats, cfg.Output.Format) {
		return fmt.Errorf("invalid log output format: %s (must be one of: %s)",
			cfg.Output.Format, strings.Join(validFormats, ", "))
	}

	return nil
}
