package httpclient

import (
	nethttp "net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/skillfolio/apiclient/auth"
	"github.com/skillfolio/apiclient/logger"
)

// Builder assembles a Client from explicit collaborators. All dependencies
// are injected here; the client performs no global lookups.
type Builder struct {
	config *Config
	logger logger.Logger
}

// NewBuilder creates a builder with default configuration.
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		logger: log,
		config: &Config{
			Timeout:            DefaultTimeout,
			MaxAttempts:        DefaultMaxAttempts,
			InitialBackoff:     DefaultInitialBackoff,
			MinTokenValidity:   DefaultMinTokenValidity,
			CompressMinRatio:   DefaultCompressMinRatio,
			MaxPayloadLogBytes: DefaultMaxPayloadLogBytes,
		},
	}
}

// WithConfig replaces the whole configuration. Zero-valued core fields are
// filled back in with defaults at Build time.
func (b *Builder) WithConfig(config *Config) *Builder {
	if config != nil {
		b.config = config
	}
	return b
}

// WithTimeout sets the per-attempt transport timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithMaxAttempts bounds the number of network attempts per call.
func (b *Builder) WithMaxAttempts(attempts int) *Builder {
	b.config.MaxAttempts = attempts
	return b
}

// WithInitialBackoff sets the delay before the second attempt.
func (b *Builder) WithInitialBackoff(backoff time.Duration) *Builder {
	b.config.InitialBackoff = backoff
	return b
}

// WithMinTokenValidity sets the pre-flight refresh window.
func (b *Builder) WithMinTokenValidity(window time.Duration) *Builder {
	b.config.MinTokenValidity = window
	return b
}

// WithTokenStore wires the shared token store.
func (b *Builder) WithTokenStore(store auth.TokenStore) *Builder {
	b.config.TokenStore = store
	return b
}

// WithAuthService wires the authentication provider.
func (b *Builder) WithAuthService(svc auth.Service) *Builder {
	b.config.Auth = svc
	return b
}

// WithNotifier wires the user-visible notification sink.
func (b *Builder) WithNotifier(notifier auth.Notifier) *Builder {
	b.config.Notifier = notifier
	return b
}

// WithOnSessionExpired registers the forced-logout redirect hook.
func (b *Builder) WithOnSessionExpired(hook func()) *Builder {
	b.config.OnSessionExpired = hook
	return b
}

// WithRateLimit caps outbound requests per second.
func (b *Builder) WithRateLimit(perSecond float64, burst int) *Builder {
	b.config.RateLimit = perSecond
	b.config.RateBurst = burst
	return b
}

// WithDefaultHeaders sets headers attached to every request.
func (b *Builder) WithDefaultHeaders(headers map[string]string) *Builder {
	b.config.DefaultHeaders = headers
	return b
}

// WithPayloadLogging enables debug-level payload logging capped at maxBytes.
func (b *Builder) WithPayloadLogging(maxBytes int) *Builder {
	b.config.LogPayloads = true
	if maxBytes > 0 {
		b.config.MaxPayloadLogBytes = maxBytes
	}
	return b
}

// WithRequestInterceptor appends a request interceptor.
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor appends a response interceptor.
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithTransport overrides the underlying RoundTripper.
func (b *Builder) WithTransport(transport nethttp.RoundTripper) *Builder {
	b.config.Transport = transport
	return b
}

// Build creates the client.
func (b *Builder) Build() Client {
	cfg := b.config
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	if cfg.MinTokenValidity <= 0 {
		cfg.MinTokenValidity = DefaultMinTokenValidity
	}
	if cfg.CompressMinRatio <= 0 || cfg.CompressMinRatio > 1 {
		cfg.CompressMinRatio = DefaultCompressMinRatio
	}
	if cfg.MaxPayloadLogBytes <= 0 {
		cfg.MaxPayloadLogBytes = DefaultMaxPayloadLogBytes
	}

	c := &client{
		config: cfg,
		logger: b.logger,
		httpClient: &nethttp.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		sleep:    sleepContext,
		compress: compressBrotli,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}
