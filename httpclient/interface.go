// Package httpclient implements a resilient HTTP client: bearer-token
// lifecycle management with proactive and 401-triggered refresh, retries
// with exponential backoff on transient failures, and conditional Brotli
// compression of request bodies. Every terminal failure is reported as a
// structured *apierror.Error.
package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/skillfolio/apiclient/auth"
	"github.com/skillfolio/apiclient/trace"
)

const (
	// HeaderXRequestID is the standard header name for request tracing
	HeaderXRequestID = trace.HeaderXRequestID
	// HeaderTraceParent is the W3C trace context header name
	HeaderTraceParent = trace.HeaderTraceParent
	// HeaderTraceState is the W3C trace context "tracestate" header name
	HeaderTraceState = trace.HeaderTraceState

	// ContentEncodingBrotli is the Content-Encoding value for Brotli-compressed bodies
	ContentEncodingBrotli = "br"
)

// Defaults applied by the builder and by Request normalization.
const (
	// DefaultMaxAttempts bounds the number of network attempts per call.
	DefaultMaxAttempts = 4
	// DefaultInitialBackoff is the delay before the second attempt; later
	// delays double per attempt.
	DefaultInitialBackoff = time.Second
	// DefaultMinTokenValidity is the window before expiry in which a token
	// is refreshed ahead of dispatch.
	DefaultMinTokenValidity = 30 * time.Second
	// DefaultCompressMinRatio is the maximum compressed/original size ratio
	// for compression to be worthwhile.
	DefaultCompressMinRatio = 0.9
	// DefaultTimeout is the per-attempt transport timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxPayloadLogBytes caps logged body previews.
	DefaultMaxPayloadLogBytes = 1024
)

// DefaultRetriableStatus returns the status codes retried by default.
func DefaultRetriableStatus() []int {
	return []int{nethttp.StatusTooManyRequests, nethttp.StatusBadGateway, nethttp.StatusServiceUnavailable}
}

// Client defines the REST client interface for making HTTP requests
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Put(ctx context.Context, req *Request) (*Response, error)
	Patch(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)
}

// Request describes a single logical call. It is read-only for the client;
// the zero value of every optional field selects the documented default.
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte

	// ExpectedStatus lists the status codes treated as success (default: 200).
	// A 401 listed here resolves normally instead of triggering a token refresh.
	ExpectedStatus []int
	// ExpectedContentType, when set, must match the response Content-Type.
	ExpectedContentType string
	// SkipAuth disables the Authorization header and all token handling.
	SkipAuth bool
	// RetriableStatus overrides the retried status codes (default: 429, 502, 503).
	RetriableStatus []int
	// RetryOnNetworkFailure makes transport errors count as retriable attempts.
	RetryOnNetworkFailure bool
	// DisableCompression sends the body uncompressed regardless of size.
	DisableCompression bool

	// Service and Function identify the calling site in structured errors and logs.
	Service  string
	Function string
	// FailureMessage is the user-visible notification on a forced logout.
	FailureMessage string
}

// Response represents an HTTP response with tracking information
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics
type Stats struct {
	ElapsedTime time.Duration
	CallCount   int64
}

// RequestInterceptor is called before sending the request
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after receiving the response
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// Config holds the client configuration and its injected collaborators.
// TokenStore and Auth are required for authenticated requests; Notifier and
// OnSessionExpired are optional hooks fired on a forced logout.
type Config struct {
	Timeout          time.Duration
	MaxAttempts      int
	InitialBackoff   time.Duration
	MinTokenValidity time.Duration
	// CompressMinRatio is the maximum compressed/original ratio under which
	// a compressed body is actually sent.
	CompressMinRatio float64
	// RateLimit caps outbound requests per second; zero means unlimited.
	RateLimit float64
	RateBurst int

	DefaultHeaders       map[string]string
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor

	// LogPayloads enables debug-level logging of headers and body payloads
	LogPayloads bool
	// MaxPayloadLogBytes caps the number of body bytes logged when LogPayloads is enabled
	MaxPayloadLogBytes int
	// TraceIDHeader configures the header name used for request ID propagation (default: X-Request-ID)
	TraceIDHeader string
	// Transport overrides the underlying RoundTripper (default: http.DefaultTransport)
	Transport nethttp.RoundTripper

	TokenStore auth.TokenStore
	Auth       auth.Service
	Notifier   auth.Notifier
	// OnSessionExpired runs after a forced logout, letting the application
	// redirect to its sign-in surface.
	OnSessionExpired func()
}

// NewTraceIDInterceptor creates a request interceptor that adds the
// X-Request-ID header from context when not already present.
func NewTraceIDInterceptor() RequestInterceptor {
	return NewTraceIDInterceptorFor(HeaderXRequestID)
}

// NewTraceIDInterceptorFor creates an interceptor that uses a custom header name
func NewTraceIDInterceptorFor(header string) RequestInterceptor {
	if header == "" {
		header = HeaderXRequestID
	}
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, trace.EnsureRequestID(ctx))
		}
		return nil
	}
}
