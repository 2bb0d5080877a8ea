package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	// DefaultRefreshBuffer is subtracted from a token's expiry when deciding
	// whether it is still usable. It absorbs clock skew and in-flight latency
	// between the validity check and the server seeing the request.
	DefaultRefreshBuffer = 60 * time.Second

	// DefaultTokenExpiry is assumed when the token endpoint omits expires_in.
	DefaultTokenExpiry = 3600 * time.Second

	// defaultRequestTimeout bounds each token endpoint call.
	defaultRequestTimeout = 30 * time.Second
)

// Logger is an interface for optional logging in TokenManager.
// Implementations can log token refresh events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// HeaderSource produces Authorization header values for outbound requests.
// It is implemented by TokenManager and BasicAuth.
type HeaderSource interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// Invalidator is implemented by header sources whose cached credentials can be
// discarded, forcing a fresh fetch on next use. Callers invoke it after the
// wrapped API rejects a request with HTTP 401.
type Invalidator interface {
	Invalidate()
}

// TokenManager manages OAuth2 tokens obtained through the client credentials
// flow. It caches the current token, refreshes it DefaultRefreshBuffer before
// expiry, and is safe for concurrent access.
type TokenManager struct {
	config        *clientcredentials.Config
	token         *oauth2.Token
	mu            sync.RWMutex
	ctx           context.Context // fallback context for GetToken
	httpClient    *http.Client
	refreshBuffer time.Duration
	logger        Logger // optional logger
}

// Option is a functional option for configuring TokenManager.
type Option func(*TokenManager)

// WithLogger sets a custom logger for token refresh events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(tm *TokenManager) {
		tm.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
// This is a convenience option that sets the logger to log.Default().
func WithLoggingEnabled() Option {
	return func(tm *TokenManager) {
		tm.logger = log.Default()
	}
}

// WithHTTPClient sets the HTTP client used for token endpoint calls.
// The default client has a 30 second timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(tm *TokenManager) {
		tm.httpClient = client
	}
}

// WithRefreshBuffer overrides the safety margin subtracted from the token
// expiry when deciding whether a refresh is needed. The default is
// DefaultRefreshBuffer.
func WithRefreshBuffer(buffer time.Duration) Option {
	return func(tm *TokenManager) {
		tm.refreshBuffer = buffer
	}
}

// NewTokenManager creates a new OAuth2 token manager using client credentials flow.
//
// Parameters:
//   - ctx: Context for token requests (used as fallback by GetToken)
//   - tokenURL: OAuth2 token endpoint (e.g., "https://api.norsktest.no/o/token/")
//   - clientID: OAuth2 client identifier
//   - clientSecret: OAuth2 client secret
//   - scopes: Space-separated list of OAuth2 scopes (e.g., "read write")
//   - opts: Optional configuration options
func NewTokenManager(ctx context.Context, tokenURL, clientID, clientSecret, scopes string, opts ...Option) *TokenManager {
	// Split scopes by whitespace to avoid sending a single concatenated scope.
	scopesList := strings.Fields(scopes)

	// Keep token requests independent from caller cancellations while preserving values.
	if ctx == nil {
		ctx = context.Background()
	} else {
		ctx = context.WithoutCancel(ctx)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopesList,
		// The endpoint expects the credentials in the form body, not a
		// Basic Authorization header.
		AuthStyle: oauth2.AuthStyleInParams,
	}

	tm := &TokenManager{
		config:        config,
		ctx:           ctx,
		httpClient:    &http.Client{Timeout: defaultRequestTimeout},
		refreshBuffer: DefaultRefreshBuffer,
	}

	// Apply options
	for _, opt := range opts {
		opt(tm)
	}

	return tm
}

// GetTokenWithContext returns a valid access token, fetching or refreshing if necessary.
// This method respects the provided context's cancellation and deadline.
// It is thread-safe and uses double-checked locking to minimize lock contention.
//
// Parameters:
//   - ctx: Context for the token request (used for cancellation and deadlines)
//
// Returns:
//   - string: Valid access token
//   - error: *AuthenticationError if the refresh fails; the cached token is left unchanged
func (tm *TokenManager) GetTokenWithContext(ctx context.Context) (string, error) {
	// Use background context if nil
	if ctx == nil {
		ctx = context.Background()
	}

	// Fast path: check if we have a valid token without write lock
	tm.mu.RLock()
	if tm.tokenValid() {
		token := tm.token.AccessToken
		tm.mu.RUnlock()
		return token, nil
	}
	tm.mu.RUnlock()

	// Token is missing or inside the refresh buffer, fetch a new one
	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine might have refreshed)
	if tm.tokenValid() {
		return tm.token.AccessToken, nil
	}

	return tm.refreshLocked(ctx)
}

// GetToken returns a valid access token, fetching or refreshing if necessary.
// It uses the context supplied at construction and cannot be cancelled by the
// caller; prefer GetTokenWithContext where a request context is available.
func (tm *TokenManager) GetToken() (string, error) {
	return tm.GetTokenWithContext(tm.ctx)
}

// AuthorizationHeader returns an Authorization header value of the form
// "Bearer <token>", refreshing the token first when needed. It implements
// HeaderSource.
func (tm *TokenManager) AuthorizationHeader(ctx context.Context) (string, error) {
	token, err := tm.GetTokenWithContext(ctx)
	if err != nil {
		return "", err
	}
	return "Bearer " + token, nil
}

// Invalidate discards the cached token so that the next access fetches a fresh
// one. It is idempotent and is typically called after the API rejects a
// request with HTTP 401.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.token = nil
}

// refreshLocked fetches a new token from the endpoint. The write lock must be
// held. On failure the cached token is left exactly as it was.
func (tm *TokenManager) refreshLocked(ctx context.Context) (string, error) {
	// Route the fetch through the manager's HTTP client so the per-call
	// timeout applies regardless of the caller's context.
	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, tm.httpClient)

	token, err := tm.config.Token(tokenCtx)
	if err != nil {
		return "", &AuthenticationError{Message: "failed to fetch token", Err: err}
	}

	if token.AccessToken == "" {
		return "", &AuthenticationError{Message: "invalid token response: missing access_token"}
	}

	// The endpoint may omit expires_in; assume the default lifetime then.
	if token.Expiry.IsZero() {
		token.Expiry = time.Now().Add(DefaultTokenExpiry)
	}

	tm.token = token

	// Log only if logger is configured
	if tm.logger != nil {
		tm.logger.Printf("auth: obtained new access token (expires: %s)", token.Expiry.Format(time.RFC3339))
	}

	return token.AccessToken, nil
}

// tokenValid reports whether the cached token is still usable with the
// refresh buffer applied. A token expiring within the buffer counts as stale.
func (tm *TokenManager) tokenValid() bool {
	if tm.token == nil || tm.token.AccessToken == "" {
		return false
	}
	return time.Until(tm.token.Expiry) > tm.refreshBuffer
}

// UnaryClientInterceptor returns a gRPC unary client interceptor that automatically
// adds OAuth2 Bearer tokens to request metadata.
//
// The interceptor adds the token as "authorization: Bearer <token>" to the outgoing
// request context metadata. If token fetch fails, the RPC call is aborted with an error.
// The interceptor respects the RPC context's cancellation and deadline.
func (tm *TokenManager) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		header, err := tm.AuthorizationHeader(ctx)
		if err != nil {
			return err
		}

		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", header)

		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// StreamClientInterceptor returns a gRPC stream client interceptor that automatically
// adds OAuth2 Bearer tokens to request metadata.
//
// The interceptor adds the token as "authorization: Bearer <token>" to the outgoing
// request context metadata. If token fetch fails, stream creation is aborted with an error.
func (tm *TokenManager) StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		header, err := tm.AuthorizationHeader(ctx)
		if err != nil {
			return nil, err
		}

		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", header)

		return streamer(ctx, desc, cc, method, opts...)
	}
}
