package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/skillfolio/apiclient/httpclient"
)

// EnvPrefix namespaces the environment variables read by Load.
// APICLIENT_HTTP_TIMEOUT=5s maps to the key http.timeout.
const EnvPrefix = "APICLIENT_"

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. YAML configuration files (first existing path wins, "config.yaml" when none given)
// 3. Default values (lowest priority)
func Load(paths ...string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if len(paths) == 0 {
		paths = []string{"config.yaml"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		break
	}

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finish(k)
}

// LoadBytes loads configuration from an in-memory YAML document layered over
// the defaults. Environment variables are not consulted.
func LoadBytes(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config bytes: %w", err)
	}

	return finish(k)
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(envprovider.Provider(EnvPrefix, ".", func(s string) string {
		// APICLIENT_HTTP_MAXATTEMPTS -> http.maxattempts
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil)
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "apiclient",
		"app.version": "v1.0.0",
		"app.env":     EnvDevelopment,
		"app.debug":   false,

		"http.baseurl":            "",
		"http.timeout":            httpclient.DefaultTimeout.String(),
		"http.maxattempts":        httpclient.DefaultMaxAttempts,
		"http.initialbackoff":     httpclient.DefaultInitialBackoff.String(),
		"http.compressminratio":   httpclient.DefaultCompressMinRatio,
		"http.ratelimit":          0,
		"http.rateburst":          0,
		"http.logpayloads":        false,
		"http.maxpayloadlogbytes": httpclient.DefaultMaxPayloadLogBytes,
		"http.traceidheader":      httpclient.HeaderXRequestID,

		"auth.mintokenvalidity": httpclient.DefaultMinTokenValidity.String(),
		"auth.singleflight":     false,
		"auth.failuremessage":   "",

		"log.level":         "info",
		"log.pretty":        false,
		"log.output.format": "json",
		"log.output.file":   "",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// String returns the raw string value of an arbitrary key, for custom
// settings outside the typed sections.
func (c *Config) String(key string) string {
	if c.k == nil {
		return ""
	}
	return c.k.String(key)
}

// HTTPClient maps the loaded settings onto an httpclient.Config. Collaborators
// (token store, auth service, hooks) are wired by the caller.
func (c *Config) HTTPClient() httpclient.Config {
	return httpclient.Config{
		Timeout:            c.HTTP.Timeout,
		MaxAttempts:        c.HTTP.MaxAttempts,
		InitialBackoff:     c.HTTP.InitialBackoff,
		MinTokenValidity:   c.Auth.MinTokenValidity,
		CompressMinRatio:   c.HTTP.CompressMinRatio,
		RateLimit:          c.HTTP.RateLimit,
		RateBurst:          c.HTTP.RateBurst,
		LogPayloads:        c.HTTP.LogPayloads,
		MaxPayloadLogBytes: c.HTTP.MaxPayloadLogBytes,
		TraceIDHeader:      c.HTTP.TraceIDHeader,
	}
}
