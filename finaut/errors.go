package finaut

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Sentinel errors for API failure categories. Match them with errors.Is:
//
//	if errors.Is(err, finaut.ErrNotFound) { ... }
var (
	// ErrAuthentication marks HTTP 401 responses that persisted after the
	// automatic token refresh and retry.
	ErrAuthentication = errors.New("authentication failed")

	// ErrPermissionDenied marks HTTP 403 responses.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound marks HTTP 404 responses and empty search results.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation marks HTTP 422 responses.
	ErrValidation = errors.New("validation failed")

	// ErrRateLimited marks HTTP 429 responses.
	ErrRateLimited = errors.New("rate limited")

	// ErrServer marks HTTP 5xx responses.
	ErrServer = errors.New("server error")
)

// APIError is returned for any non-success API response. Use errors.Is with
// the sentinel errors above to branch on the failure category.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Message is the error detail extracted from the response body, or a
	// fallback derived from the status.
	Message string

	// Body is the raw response body for diagnostics.
	Body []byte

	// RetryAfter is the server-requested backoff for rate-limited requests,
	// zero when absent or not applicable.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("finaut: HTTP %d: %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the package's sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthentication:
		return e.StatusCode == http.StatusUnauthorized
	case ErrPermissionDenied:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode == http.StatusUnprocessableEntity
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// newAPIError builds an *APIError from an error response, extracting the
// detail or message field the API puts in its JSON error bodies.
func newAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	message := ""
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if detail, ok := payload["detail"].(string); ok {
			message = detail
		} else if msg, ok := payload["message"].(string); ok {
			message = msg
		}
	}
	if message == "" {
		if len(body) > 0 {
			message = string(body)
		} else {
			message = http.StatusText(resp.StatusCode)
		}
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Body:       body,
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			apiErr.RetryAfter = time.Duration(seconds) * time.Second
		}
	}

	return apiErr
}
