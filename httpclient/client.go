package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/skillfolio/apiclient/apierror"
	"github.com/skillfolio/apiclient/logger"
	"github.com/skillfolio/apiclient/trace"
)

const (
	headerAuthorization   = "Authorization"
	headerContentType     = "Content-Type"
	headerContentEncoding = "Content-Encoding"

	contentTypeJSON = "application/json"

	defaultFailureMessage = "Your session has expired. Please sign in again."
)

// client implements Client. One refresh-and-retry is performed per call at
// most; concurrent calls each run the token lifecycle independently (refresh
// idempotency is the auth.Service's contract, wrap it with auth.SingleFlight
// to deduplicate).
type client struct {
	config     *Config
	httpClient *nethttp.Client
	logger     logger.Logger
	limiter    *rate.Limiter
	callCount  atomic.Int64

	// injectable for deterministic retry/compression tests
	sleep    func(ctx context.Context, d time.Duration) error
	compress func(body []byte) ([]byte, error)
}

// Get issues a GET request.
func (c *client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, req)
}

// Post issues a POST request.
func (c *client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, req)
}

// Put issues a PUT request.
func (c *client) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPut, req)
}

// Patch issues a PATCH request.
func (c *client) Patch(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPatch, req)
}

// Delete issues a DELETE request.
func (c *client) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, req)
}

// Do runs the full request lifecycle: pre-flight token check, dispatch with
// backoff retries on retriable statuses, reactive refresh on 401, and
// response validation. It resolves with a Response whose status is in the
// expected set, or rejects with a *apierror.Error.
func (c *client) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if req == nil || req.URL == "" {
		return nil, c.newError(apierror.CodeAPIError, "missing request URL", method, req)
	}

	token, apiErr := c.preflight(ctx, method, req)
	if apiErr != nil {
		return nil, apiErr
	}

	body, encoding := c.prepareBody(req)

	requestID := trace.EnsureRequestID(ctx)
	expected := req.ExpectedStatus
	if len(expected) == 0 {
		expected = []int{nethttp.StatusOK}
	}
	retriable := req.RetriableStatus
	if len(retriable) == 0 {
		retriable = DefaultRetriableStatus()
	}

	authRetried := false

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			// The delay grows with the number of completed attempts: the
			// first retry is immediate, later ones double the wait.
			if err := c.sleep(ctx, Backoff(attempt-1, c.config.InitialBackoff)); err != nil {
				return nil, c.newError(apierror.CodeFailedToFetch, "request cancelled during backoff", method, req).WithCause(err)
			}
		}

		// Every attempt counts against the limiter, retries included.
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, c.newError(apierror.CodeFailedToFetch, "rate limiter wait aborted", method, req).WithCause(err)
			}
		}

		resp, err := c.dispatch(ctx, method, req, body, encoding, token, requestID)
		if err != nil {
			var structured *apierror.Error
			if errors.As(err, &structured) {
				return nil, structured
			}
			if req.RetryOnNetworkFailure && attempt < c.config.MaxAttempts {
				c.logger.Warn().
					Err(err).
					Str("url", req.URL).
					Int("attempt", attempt).
					Msg("Network failure, retrying")
				continue
			}
			return nil, c.newError(apierror.CodeFailedToFetch, "network request failed", method, req).WithCause(err)
		}

		// A 401 the caller listed as expected resolves like any other
		// expected status; only unexpected 401s trigger the refresh path.
		if resp.StatusCode == nethttp.StatusUnauthorized && !req.SkipAuth && !containsStatus(expected, resp.StatusCode) {
			refreshedToken, retry, authErr := c.handleUnauthorized(ctx, method, req, token, authRetried)
			if authErr != nil {
				return nil, authErr
			}
			if retry {
				token = refreshedToken
				authRetried = true
				// Re-run the same attempt slot so the refresh retry does
				// not consume a backoff slot on the first attempt.
				attempt--
				continue
			}
		}

		if containsStatus(expected, resp.StatusCode) {
			if req.ExpectedContentType != "" && !matchesContentType(resp.Headers.Get(headerContentType), req.ExpectedContentType) {
				return nil, c.newError(apierror.CodeInvalidResponseHeader, "unexpected response content type", method, req).
					WithStatus(resp.StatusCode).
					WithCause(fmt.Errorf("got %q, want %q", resp.Headers.Get(headerContentType), req.ExpectedContentType))
			}
			c.logResponse(resp, requestID)
			return resp, nil
		}

		if containsStatus(retriable, resp.StatusCode) {
			if attempt < c.config.MaxAttempts {
				c.logger.Warn().
					Int("status", resp.StatusCode).
					Str("url", req.URL).
					Int("attempt", attempt).
					Msg("Retriable response status, backing off")
				continue
			}
			return nil, c.newError(apierror.CodeAPIError, "retries exhausted", method, req).
				WithStatus(resp.StatusCode).
				WithCause(responseCause(resp))
		}

		return nil, c.newError(apierror.CodeAPIError, "unexpected response status", method, req).
			WithStatus(resp.StatusCode).
			WithCause(responseCause(resp))
	}

	// Unreachable: the loop always returns. Kept for compiler completeness.
	return nil, c.newError(apierror.CodeAPIError, "no attempts made", method, req)
}

// preflight resolves the bearer token for authenticated requests, refreshing
// it proactively when it expires within the configured validity window.
// It returns an empty token for unauthenticated requests.
func (c *client) preflight(ctx context.Context, method string, req *Request) (string, *apierror.Error) {
	if req.SkipAuth {
		return "", nil
	}
	if c.config.TokenStore == nil || c.config.Auth == nil {
		return "", c.newError(apierror.CodeAPIError, "no authentication collaborators configured", method, req)
	}

	token, ok := c.config.TokenStore.Token()
	if !ok {
		return "", c.newError(apierror.CodeAPIError, "no token available", method, req)
	}

	validity := c.config.Auth.CheckToken(token)
	if !validity.Valid {
		return "", c.newError(apierror.CodeAuthError, "token invalid before dispatch", method, req).WithCause(validity.Cause)
	}

	if validity.ExpiresWithin(c.config.MinTokenValidity, time.Now()) {
		c.logger.Debug().
			Str("url", req.URL).
			Dur("remaining_validity", time.Until(validity.ExpiresAt)).
			Msg("Token close to expiry, refreshing before dispatch")

		if err := c.config.Auth.RefreshToken(ctx); err != nil {
			return "", c.sessionFailure(ctx, method, req, err)
		}
		logger.IncrementRefreshCounter(ctx)

		token, ok = c.config.TokenStore.Token()
		if !ok {
			return "", c.newError(apierror.CodeAPIError, "no token available after refresh", method, req)
		}
	}

	return token, nil
}

// prepareBody compresses the request body when it qualifies and the gain
// beats the configured threshold. Compression failures are logged and the
// original body is sent unchanged.
func (c *client) prepareBody(req *Request) (body []byte, encoding string) {
	body = req.Body
	if len(body) == 0 || req.DisableCompression {
		return body, ""
	}
	if !compressible(c.contentTypeFor(req)) {
		return body, ""
	}

	compressed, err := c.compress(body)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("url", req.URL).
			Int("body_size", len(body)).
			Msg("Body compression failed, sending uncompressed")
		return body, ""
	}
	if !worthCompressing(len(body), len(compressed), c.config.CompressMinRatio) {
		return body, ""
	}
	return compressed, ContentEncodingBrotli
}

// contentTypeFor resolves the effective Content-Type of the request body.
func (c *client) contentTypeFor(req *Request) string {
	if ct, ok := req.Headers[headerContentType]; ok {
		return ct
	}
	if ct, ok := c.config.DefaultHeaders[headerContentType]; ok {
		return ct
	}
	return contentTypeJSON
}

// dispatch performs one network attempt and wraps the raw response.
// Interceptor failures come back as *apierror.Error and are terminal;
// any other error is a transport-level failure.
func (c *client) dispatch(ctx context.Context, method string, req *Request, body []byte, encoding, token, requestID string) (*Response, error) {
	var reader io.Reader = nethttp.NoBody
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, req.URL, reader)
	if err != nil {
		return nil, err
	}

	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if len(body) > 0 && httpReq.Header.Get(headerContentType) == "" {
		httpReq.Header.Set(headerContentType, contentTypeJSON)
	}
	if encoding != "" {
		httpReq.Header.Set(headerContentEncoding, encoding)
	}
	if token != "" {
		httpReq.Header.Set(headerAuthorization, "Bearer "+token)
	}

	traceHeader := c.config.TraceIDHeader
	if traceHeader == "" {
		traceHeader = HeaderXRequestID
	}
	if httpReq.Header.Get(traceHeader) == "" {
		httpReq.Header.Set(traceHeader, requestID)
	}
	if tp, ok := trace.ParentFromContext(ctx); ok {
		httpReq.Header.Set(HeaderTraceParent, tp)
		if ts, ok := trace.StateFromContext(ctx); ok {
			httpReq.Header.Set(HeaderTraceState, ts)
		}
	}

	for _, interceptor := range c.config.RequestInterceptors {
		if err := interceptor(ctx, httpReq); err != nil {
			return nil, c.newError(apierror.CodeAPIError, "request interceptor failed", method, req).WithCause(err)
		}
	}

	c.logRequest(httpReq, body, requestID)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	logger.IncrementHTTPCounter(ctx)
	logger.AddHTTPElapsed(ctx, elapsed.Nanoseconds())
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       data,
		Headers:    httpResp.Header,
		Stats: Stats{
			ElapsedTime: elapsed,
			CallCount:   c.callCount.Add(1),
		},
	}

	for _, interceptor := range c.config.ResponseInterceptors {
		if err := interceptor(ctx, httpReq, httpResp); err != nil {
			return nil, c.newError(apierror.CodeAPIError, "response interceptor failed", method, req).WithCause(err)
		}
	}

	return resp, nil
}

// handleUnauthorized implements the reactive 401 path: refresh when the
// local token turned out expired, fail when the server revoked a token that
// still looks valid locally. retry is true when the caller should re-dispatch
// with the refreshed token.
func (c *client) handleUnauthorized(ctx context.Context, method string, req *Request, token string, alreadyRetried bool) (refreshed string, retry bool, apiErr *apierror.Error) {
	validity := c.config.Auth.CheckToken(token)
	if validity.Valid {
		// Server-side revocation: the token looks fine locally, refreshing
		// would not help.
		return "", false, c.newError(apierror.CodeAuthError, "token rejected by server", method, req).
			WithStatus(nethttp.StatusUnauthorized)
	}

	if alreadyRetried {
		return "", false, c.newError(apierror.CodeAuthError, "still unauthorized after token refresh", method, req).
			WithStatus(nethttp.StatusUnauthorized).
			WithCause(validity.Cause)
	}

	c.logger.Debug().
		Str("url", req.URL).
		Msg("401 with expired token, refreshing")

	if err := c.config.Auth.RefreshToken(ctx); err != nil {
		return "", false, c.sessionFailure(ctx, method, req, err)
	}
	logger.IncrementRefreshCounter(ctx)

	newToken, ok := c.config.TokenStore.Token()
	if !ok {
		return "", false, c.newError(apierror.CodeAPIError, "no token available after refresh", method, req)
	}
	return newToken, true, nil
}

// sessionFailure handles a failed refresh: when the provider session is gone
// the user is logged out, notified, and the application redirect hook runs.
func (c *client) sessionFailure(ctx context.Context, method string, req *Request, refreshErr error) *apierror.Error {
	valid, err := c.config.Auth.ProviderSessionValid(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Provider session check failed")
	}
	if err == nil && valid {
		return c.newError(apierror.CodeAuthError, "token refresh failed", method, req).WithCause(refreshErr)
	}

	if logoutErr := c.config.Auth.Logout(ctx); logoutErr != nil {
		c.logger.Warn().Err(logoutErr).Msg("Logout failed during session teardown")
	}

	message := req.FailureMessage
	if message == "" {
		message = defaultFailureMessage
	}
	if c.config.Notifier != nil {
		c.config.Notifier.Notify(message)
	}
	if c.config.OnSessionExpired != nil {
		c.config.OnSessionExpired()
	}

	return c.newError(apierror.CodeAuthError, "session expired", method, req).WithCause(refreshErr)
}

// newError builds the structured error skeleton shared by every failure path.
func (c *client) newError(code apierror.Code, message, method string, req *Request) *apierror.Error {
	e := apierror.New(code, message)
	if req != nil {
		e.WithOrigin(req.Service, req.Function).WithRequest(method, requestPath(req.URL))
	} else {
		e.WithRequest(method, "")
	}
	return e
}

// requestPath extracts the path portion of a URL for error reporting.
func requestPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" {
		return rawURL
	}
	return parsed.Path
}

func containsStatus(statuses []int, status int) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// matchesContentType reports whether the response Content-Type satisfies the
// expected value, ignoring parameters such as charset.
func matchesContentType(got, want string) bool {
	if got == "" {
		return false
	}
	if idx := strings.IndexByte(got, ';'); idx >= 0 {
		got = got[:idx]
	}
	return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
}

// responseCause summarizes a failed response body for error reporting.
func responseCause(resp *Response) error {
	const maxBody = 256
	body := resp.Body
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	if len(body) == 0 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
}
