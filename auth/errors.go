package auth

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// AuthenticationError is returned when a token refresh fails for any reason:
// transport errors, a non-success status from the token endpoint, or a
// malformed token response. The cached token state is never modified when an
// AuthenticationError is returned.
type AuthenticationError struct {
	// Message describes what failed.
	Message string

	// Err is the underlying transport or endpoint error, if any.
	Err error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Message, e.Err)
	}
	return "auth: " + e.Message
}

// Unwrap returns the underlying error.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Response returns the token endpoint's HTTP response when the failure came
// from a non-success status, or nil otherwise. The response body has already
// been consumed; use Body for its contents.
func (e *AuthenticationError) Response() *http.Response {
	var re *oauth2.RetrieveError
	if errors.As(e.Err, &re) {
		return re.Response
	}
	return nil
}

// Body returns the raw token endpoint response body for diagnostics, or nil
// when the failure happened before a response was received.
func (e *AuthenticationError) Body() []byte {
	var re *oauth2.RetrieveError
	if errors.As(e.Err, &re) {
		return re.Body
	}
	return nil
}
