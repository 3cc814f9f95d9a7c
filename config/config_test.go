package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytesDefaults(t *testing.T) {
	cfg, err := LoadBytes(nil)
	require.NoError(t, err)

	assert.Equal(t, "apiclient", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Env)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 4, cfg.HTTP.MaxAttempts)
	assert.Equal(t, time.Second, cfg.HTTP.InitialBackoff)
	assert.Equal(t, 0.9, cfg.HTTP.CompressMinRatio)
	assert.Equal(t, 1024, cfg.HTTP.MaxPayloadLogBytes)
	assert.Equal(t, "X-Request-ID", cfg.HTTP.TraceIDHeader)
	assert.Equal(t, 30*time.Second, cfg.Auth.MinTokenValidity)
	assert.False(t, cfg.Auth.SingleFlight)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Output.Format)
}

func TestLoadBytesOverrides(t *testing.T) {
	yamlConfig := []byte(`
app:
  name: skillfolio-web
  env: production
http:
  timeout: 5s
  maxattempts: 2
  ratelimit: 10
  rateburst: 20
auth:
  mintokenvalidity: 1m
  singleflight: true
log:
  level: debug
`)

	cfg, err := LoadBytes(yamlConfig)
	require.NoError(t, err)

	assert.Equal(t, "skillfolio-web", cfg.App.Name)
	assert.Equal(t, EnvProduction, cfg.App.Env)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.MaxAttempts)
	assert.Equal(t, float64(10), cfg.HTTP.RateLimit)
	assert.Equal(t, 20, cfg.HTTP.RateBurst)
	assert.Equal(t, time.Minute, cfg.Auth.MinTokenValidity)
	assert.True(t, cfg.Auth.SingleFlight)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, time.Second, cfg.HTTP.InitialBackoff)
}

func TestLoadBytesInvalidYAML(t *testing.T) {
	_, err := LoadBytes([]byte("{not: valid: yaml"))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("http:\n  maxattempts: 6\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.HTTP.MaxAttempts)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.HTTP.MaxAttempts)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APICLIENT_HTTP_MAXATTEMPTS", "7")
	t.Setenv("APICLIENT_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.HTTP.MaxAttempts)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  maxattempts: 6\n"), 0o600))

	t.Setenv("APICLIENT_HTTP_MAXATTEMPTS", "9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.HTTP.MaxAttempts)
}

func TestStringAccessor(t *testing.T) {
	cfg, err := LoadBytes([]byte("custom:\n  endpoint: https://api.example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.String("custom.endpoint"))
	assert.Equal(t, "", cfg.String("custom.missing"))
}

func TestHTTPClientMapping(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
http:
  timeout: 10s
  maxattempts: 3
  initialbackoff: 500ms
  ratelimit: 5
  rateburst: 10
  logpayloads: true
auth:
  mintokenvalidity: 45s
`))
	require.NoError(t, err)

	hc := cfg.HTTPClient()
	assert.Equal(t, 10*time.Second, hc.Timeout)
	assert.Equal(t, 3, hc.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, hc.InitialBackoff)
	assert.Equal(t, 45*time.Second, hc.MinTokenValidity)
	assert.Equal(t, float64(5), hc.RateLimit)
	assert.Equal(t, 10, hc.RateBurst)
	assert.True(t, hc.LogPayloads)
}
