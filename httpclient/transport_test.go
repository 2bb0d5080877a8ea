package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/norsktest/finaut-go/auth"
	"github.com/norsktest/finaut-go/internal/testutil"
)

func newTokenManager(tb testing.TB, server *testutil.MockOAuth2Server) *auth.TokenManager {
	tb.Helper()

	return auth.NewTokenManager(context.Background(), server.URL+"/o/token/", "client", "secret", "read write",
		auth.WithHTTPClient(server.Client))
}

func newMockOAuth2Server(tb testing.TB) *testutil.MockOAuth2Server {
	tb.Helper()

	return testutil.NewMockOAuth2Server(tb, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/o/token/" {
			tb.Fatalf("unexpected token path: %s", req.URL.Path)
		}
		if req.Method != http.MethodPost {
			tb.Fatalf("unexpected token method: %s", req.Method)
		}

		return testutil.StaticJSONResponse(`{
			"access_token": "mock-access-token",
			"token_type": "Bearer",
			"expires_in": 3600
		}`)(req)
	})
}

func TestNewAuthTransport(t *testing.T) {
	authServer := newMockOAuth2Server(t)
	defer authServer.Close()

	tm := newTokenManager(t, authServer)

	transport := NewAuthTransport(tm, nil)

	if transport.Source != tm {
		t.Error("Source not set correctly")
	}

	if transport.Base == nil {
		t.Error("Base should default to a transport")
	}
}

func TestNewAuthTransport_WithCustomBase(t *testing.T) {
	authServer := newMockOAuth2Server(t)
	defer authServer.Close()

	tm := newTokenManager(t, authServer)

	customTransport := &http.Transport{}
	transport := NewAuthTransport(tm, customTransport)

	if transport.Base != customTransport {
		t.Error("Base should be set to custom transport")
	}
}

func TestAuthTransport_RoundTrip(t *testing.T) {
	authServer := newMockOAuth2Server(t)
	defer authServer.Close()

	tm := newTokenManager(t, authServer)
	baseTransport := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		authHeader := req.Header.Get("Authorization")
		if authHeader != "Bearer mock-access-token" {
			t.Errorf("unexpected Authorization header: %s", authHeader)
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("success")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})

	client := &http.Client{Transport: NewAuthTransport(tm, baseTransport)}

	resp, err := client.Get("https://api.norsktest.no/finautapi/v1/user/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status: %d", resp.StatusCode)
	}
}

func TestAuthTransport_RoundTrip_NilSource(t *testing.T) {
	transport := &AuthTransport{}

	req, err := http.NewRequest(http.MethodGet, "https://api.norsktest.no/", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	_, err = transport.RoundTrip(req)
	if err == nil {
		t.Fatal("expected error for nil source, got nil")
	}
}

func TestAuthTransport_RoundTrip_HeaderSourceError(t *testing.T) {
	authServer := testutil.NewMockOAuth2Server(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("token fetch failed")
	})
	defer authServer.Close()

	tm := newTokenManager(t, authServer)
	transport := NewAuthTransport(tm, testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Error("base transport should not be reached when the header fetch fails")
		return nil, nil
	}))

	req, err := http.NewRequest(http.MethodGet, "https://api.norsktest.no/", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	_, err = transport.RoundTrip(req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var authErr *auth.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Errorf("expected *auth.AuthenticationError in chain, got %v", err)
	}
}

func TestAuthTransport_RoundTrip_RetryOn401(t *testing.T) {
	var tokenCount int
	authServer := testutil.NewMockOAuth2Server(t, func(req *http.Request) (*http.Response, error) {
		tokenCount++
		body := `{"access_token": "token-1", "expires_in": 3600}`
		if tokenCount > 1 {
			body = `{"access_token": "token-2", "expires_in": 3600}`
		}
		return testutil.StaticJSONResponse(body)(req)
	})
	defer authServer.Close()

	tm := newTokenManager(t, authServer)

	var apiTokens []string
	baseTransport := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		token := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
		apiTokens = append(apiTokens, token)

		// First token is rejected, the retried request succeeds.
		if token == "token-1" {
			return &http.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       io.NopCloser(strings.NewReader(`{"detail": "token expired"}`)),
				Header:     make(http.Header),
				Request:    req,
			}, nil
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("ok")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})

	client := &http.Client{Transport: NewAuthTransport(tm, baseTransport)}

	resp, err := client.Get("https://api.norsktest.no/finautapi/v1/user/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 after retry, got %d", resp.StatusCode)
	}

	if len(apiTokens) != 2 || apiTokens[0] != "token-1" || apiTokens[1] != "token-2" {
		t.Errorf("expected retry with a fresh token, got %v", apiTokens)
	}

	if tokenCount != 2 {
		t.Errorf("expected 2 token fetches, got %d", tokenCount)
	}
}

func TestAuthTransport_RoundTrip_SingleRetryOn401(t *testing.T) {
	authServer := newMockOAuth2Server(t)
	defer authServer.Close()

	tm := newTokenManager(t, authServer)

	var attempts int
	baseTransport := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		attempts++
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader(`{"detail": "nope"}`)),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})

	client := &http.Client{Transport: NewAuthTransport(tm, baseTransport)}

	resp, err := client.Get("https://api.norsktest.no/finautapi/v1/user/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	// A persistent 401 is surfaced to the caller after exactly one retry.
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}

	if attempts != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", attempts)
	}
}

func TestAuthTransport_RoundTrip_RetryReplaysBody(t *testing.T) {
	authServer := newMockOAuth2Server(t)
	defer authServer.Close()

	tm := newTokenManager(t, authServer)

	var bodies []string
	var attempts int
	baseTransport := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		attempts++
		payload, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		bodies = append(bodies, string(payload))

		status := http.StatusUnauthorized
		if attempts > 1 {
			status = http.StatusCreated
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader("{}")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})

	client := &http.Client{Transport: NewAuthTransport(tm, baseTransport)}

	resp, err := client.Post("https://api.norsktest.no/finautapi/v1/user/", "application/json",
		bytes.NewReader([]byte(`{"persnr": "01234567890"}`)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201 after retry, got %d", resp.StatusCode)
	}

	if len(bodies) != 2 || bodies[0] != bodies[1] {
		t.Errorf("expected the retried request to replay the body, got %v", bodies)
	}
}

func TestAuthTransport_RoundTrip_NoRetryWithoutInvalidator(t *testing.T) {
	ba := auth.NewBasicAuth("test_user", "test_pass")

	var attempts int
	baseTransport := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		attempts++
		if got := req.Header.Get("Authorization"); got != "Basic dGVzdF91c2VyOnRlc3RfcGFzcw==" {
			t.Errorf("unexpected Authorization header: %s", got)
		}
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader("denied")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})

	client := &http.Client{Transport: NewAuthTransport(ba, baseTransport)}

	resp, err := client.Get("https://api.norsktest.no/finautapi/v1/user/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	// Basic auth has nothing to invalidate, so no retry happens.
	if attempts != 1 {
		t.Errorf("expected a single attempt, got %d", attempts)
	}
}

func TestAuthTransport_RoundTrip_RealServer(t *testing.T) {
	server := testutil.NewLocalHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Basic dGVzdF91c2VyOnRlc3RfcGFzcw==" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := &http.Client{Transport: NewAuthTransport(auth.NewBasicAuth("test_user", "test_pass"), nil)}

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestAuthTransport_RoundTrip_DoesNotMutateOriginal(t *testing.T) {
	authServer := newMockOAuth2Server(t)
	defer authServer.Close()

	tm := newTokenManager(t, authServer)
	baseTransport := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("ok")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})

	transport := NewAuthTransport(tm, baseTransport)

	req, err := http.NewRequest(http.MethodGet, "https://api.norsktest.no/", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	defer resp.Body.Close()

	if req.Header.Get("Authorization") != "" {
		t.Error("original request must not be mutated")
	}
}
