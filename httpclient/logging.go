package httpclient

import (
	nethttp "net/http"
)

// logRequest records an outbound request at info level, with an optional
// debug-level payload preview when LogPayloads is enabled.
func (c *client) logRequest(req *nethttp.Request, body []byte, requestID string) {
	event := c.logger.Info().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID)

	if len(req.Header) > 0 {
		event = event.Int("header_count", len(req.Header))
	}
	if len(body) > 0 {
		event = event.Int("body_size", len(body))
	}
	event.Msg("REST client request")

	if !c.config.LogPayloads {
		return
	}

	preview, truncated := c.payloadPreview(body)
	debug := c.logger.Debug().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Interface("headers", req.Header).
		Int("body_size", len(body)).
		Str("body_truncated", boolString(truncated))
	if preview != nil {
		debug = debug.Bytes("body_preview", preview)
	}
	debug.Msg("REST client request")
}

// logResponse records an inbound response at info level, with an optional
// debug-level payload preview when LogPayloads is enabled.
func (c *client) logResponse(resp *Response, requestID string) {
	event := c.logger.Info().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("call_count", resp.Stats.CallCount).
		Str("request_id", requestID)

	if len(resp.Body) > 0 {
		event = event.Int("body_size", len(resp.Body))
	}
	event.Msg("REST client response")

	if !c.config.LogPayloads {
		return
	}

	preview, truncated := c.payloadPreview(resp.Body)
	debug := c.logger.Debug().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Interface("headers", resp.Headers).
		Int("body_size", len(resp.Body)).
		Str("body_truncated", boolString(truncated))
	if preview != nil {
		debug = debug.Bytes("body_preview", preview)
	}
	debug.Msg("REST client response")
}

// payloadPreview caps a body at MaxPayloadLogBytes for logging.
func (c *client) payloadPreview(body []byte) (preview []byte, truncated bool) {
	maxBytes := c.config.MaxPayloadLogBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPayloadLogBytes
	}
	if len(body) > maxBytes {
		return body[:maxBytes], true
	}
	return body, false
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
