// Package auth provides OAuth2 client-credentials authentication for the FinAut API.
//
// The central type is TokenManager: it caches bearer tokens, refreshes them 60 seconds
// before expiry, and can be invalidated when the API rejects a token. Token fetches
// honor contexts for cancellation, are thread-safe, and can log refresh events via an
// optional Logger. BasicAuth offers a stateless alternative for test environments.
//
// # Features
//
//   - Client-credentials flow with automatic caching and early refresh
//   - Invalidate to force a fresh token after an HTTP 401 from the API
//   - Context-aware token fetching with cancellation and deadline support
//   - gRPC unary and stream client interceptors that inject Bearer tokens
//   - Optional logging (WithLogger, WithLoggingEnabled)
//   - Basic authentication mode for non-production use
//
// # Quick Start
//
//	tm := auth.NewTokenManager(
//	    ctx,
//	    "https://api.norsktest.no/o/token/",
//	    "client-id",
//	    "client-secret",
//	    "read write",
//	)
//
//	header, err := tm.AuthorizationHeader(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	req.Header.Set("Authorization", header)
//
// # Notes
//
//   - Refresh failures surface as *AuthenticationError and never clobber a cached token.
//   - TokenManager is safe for concurrent use and uses double-checked locking.
package auth
