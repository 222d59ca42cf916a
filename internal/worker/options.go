package worker

// Functional options that configure the Client during construction. Kept in a
// standalone file so the available knobs are discoverable at a glance.

import (
	"context"
	"net/http"
	"net/http/httputil"

	"github.com/rs/zerolog/log"
)

// Option mutates the Client during New().
type Option func(*Client)

// WithHTTPClient injects a custom *http.Client. Useful for setting transport
// timeouts, tracing or custom TLS settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken fixes a static bearer token for every request.
func WithToken(token string) Option {
	return WithTokenSource(func(context.Context) (string, error) { return token, nil })
}

// WithTokenSource installs a per-request token resolver, e.g. one backed by
// an external auth session.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithDebugLogging wraps the client's transport such that every
// request/response pair is dumped to the log.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) {
		if !enabled {
			return
		}
		transport := c.http.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		c.http.Transport = &debugTransport{base: transport}
	}
}

type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(dump)).Msg("worker request")
	}
	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("worker request failed")
		return nil, err
	}
	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(dump)).Msg("worker response")
	}
	return resp, nil
}
