package httpclient

import (
	"fmt"
	"io"
	"net/http"

	"github.com/norsktest/finaut-go/auth"
)

// AuthTransport is an http.RoundTripper that automatically adds Authorization
// headers to outgoing HTTP requests.
//
// It wraps an existing transport (typically http.DefaultTransport) and injects
// the header obtained from Source before each request. When the server answers
// 401 Unauthorized and Source implements auth.Invalidator, the cached
// credentials are invalidated and the request is retried exactly once with a
// fresh header. Requests whose bodies cannot be replayed are not retried.
type AuthTransport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Source provides Authorization header values.
	Source auth.HeaderSource
}

// NewAuthTransport creates a new AuthTransport with the given header source.
// The base transport defaults to http.DefaultTransport if not specified.
func NewAuthTransport(source auth.HeaderSource, base http.RoundTripper) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &AuthTransport{
		Base:   base,
		Source: source,
	}
}

// RoundTrip implements the http.RoundTripper interface.
// The header fetch respects the request context's cancellation and deadline.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source == nil {
		return nil, fmt.Errorf("httpclient: header source is nil")
	}

	resp, err := t.roundTripOnce(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// The API rejected the token. Invalidate and retry once with a fresh one;
	// a second 401 is returned to the caller as-is.
	inv, ok := t.Source.(auth.Invalidator)
	if !ok {
		return resp, nil
	}
	inv.Invalidate()

	retry, ok := rewoundRequest(req)
	if !ok {
		return resp, nil
	}

	// Drain so the underlying connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return t.roundTripOnce(retry)
}

// roundTripOnce injects the Authorization header into a clone of req and
// performs a single exchange on the base transport.
func (t *AuthTransport) roundTripOnce(req *http.Request) (*http.Response, error) {
	header, err := t.Source.AuthorizationHeader(req.Context())
	if err != nil {
		return nil, fmt.Errorf("httpclient: failed to get authorization header: %w", err)
	}

	// Clone the request to avoid modifying the original
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", header)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(reqClone)
}

// rewoundRequest returns a copy of req whose body can be sent again.
// Requests without a body are replayable as-is; otherwise GetBody is required.
func rewoundRequest(req *http.Request) (*http.Request, bool) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, true
	}
	if req.GetBody == nil {
		return nil, false
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}

	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, true
}
