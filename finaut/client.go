package finaut

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/norsktest/finaut-go/auth"
	"github.com/norsktest/finaut-go/httpclient"
)

// Version is the client library version, sent in the User-Agent header.
const Version = "0.1.0"

const (
	// DefaultHost is the production FinAut API host.
	DefaultHost = "https://api.norsktest.no"

	// DefaultTimeout bounds each API request.
	DefaultTimeout = 30 * time.Second

	// TokenScope is the OAuth2 scope requested for API tokens.
	TokenScope = "read write"

	apiVersion = "v1"
	userAgent  = "finaut-go/" + Version
)

// Client is the FinAut API client. Each Client owns its credentials and token
// manager; construct one per set of credentials rather than sharing state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	source     auth.HeaderSource
	logger     auth.Logger

	Users             *UserService
	Companies         *CompanyService
	Departments       *DepartmentService
	UserStatus        *UserStatusService
	Results           *ResultService
	CompetencyResults *CompetencyResultService
	Employment        *EmploymentService
}

type clientConfig struct {
	host               string
	timeout            time.Duration
	transport          http.RoundTripper
	insecureSkipVerify bool
	basicUsername      string
	basicPassword      string
	useBasicAuth       bool
	logger             auth.Logger
}

// Option is a functional option for configuring Client.
type Option func(*clientConfig)

// WithHost overrides the API host. The default is DefaultHost.
func WithHost(host string) Option {
	return func(c *clientConfig) {
		c.host = host
	}
}

// WithTimeout sets the per-request timeout. The default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithTransport sets the base transport for API and token endpoint calls.
// Useful for tests and custom connection pooling.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *clientConfig) {
		c.transport = transport
	}
}

// WithInsecureSkipVerify disables TLS certificate verification (NOT RECOMMENDED
// for production).
func WithInsecureSkipVerify() Option {
	return func(c *clientConfig) {
		c.insecureSkipVerify = true
	}
}

// WithBasicAuth switches the client to HTTP Basic authentication with the
// given username and password instead of OAuth2. Intended for test
// environments; the client credentials passed to New are ignored.
func WithBasicAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.useBasicAuth = true
		c.basicUsername = username
		c.basicPassword = password
	}
}

// WithLogger enables debug logging of requests, responses and token refreshes.
func WithLogger(logger auth.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// New creates a FinAut API client authenticating with the given OAuth2 client
// credentials.
//
// Parameters:
//   - clientID: OAuth2 client identifier
//   - clientSecret: OAuth2 client secret
//   - opts: Optional configuration options
func New(clientID, clientSecret string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		host:    DefaultHost,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	host := strings.TrimRight(cfg.host, "/")
	if host == "" {
		return nil, fmt.Errorf("finaut: host must not be empty")
	}

	var source auth.HeaderSource
	if cfg.useBasicAuth {
		source = auth.NewBasicAuth(cfg.basicUsername, cfg.basicPassword)
	} else {
		tokenURL := host + "/o/token/"
		var tmOpts []auth.Option
		if cfg.transport != nil {
			tmOpts = append(tmOpts, auth.WithHTTPClient(&http.Client{
				Transport: cfg.transport,
				Timeout:   cfg.timeout,
			}))
		}
		if cfg.logger != nil {
			tmOpts = append(tmOpts, auth.WithLogger(cfg.logger))
		}
		source = auth.NewTokenManager(context.Background(), tokenURL, clientID, clientSecret, TokenScope, tmOpts...)
	}

	builder := httpclient.NewBuilder().
		WithHeaderSource(source).
		WithTimeout(cfg.timeout)
	if cfg.transport != nil {
		builder = builder.WithBaseTransport(cfg.transport)
	}
	if cfg.insecureSkipVerify {
		builder = builder.WithInsecureSkipVerify()
	}

	hc, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("finaut: build HTTP client: %w", err)
	}

	c := &Client{
		baseURL:    host + "/finautapi/" + apiVersion + "/",
		httpClient: hc,
		source:     source,
		logger:     cfg.logger,
	}

	c.Users = &UserService{client: c}
	c.Companies = &CompanyService{client: c}
	c.Departments = &DepartmentService{client: c}
	c.UserStatus = &UserStatusService{client: c}
	c.Results = &ResultService{client: c}
	c.CompetencyResults = &CompetencyResultService{client: c}
	c.Employment = &EmploymentService{client: c}

	return c, nil
}

// BaseURL returns the versioned API base URL, ending in a slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResourceURL returns the canonical URL of a resource instance, e.g.
// ResourceURL("user", 123). The API cross-references resources by these URLs.
func (c *Client) ResourceURL(endpoint string, id int) string {
	return fmt.Sprintf("%s%s/%d/", c.baseURL, strings.Trim(endpoint, "/"), id)
}

// do performs an authenticated request against the API. The Authorization
// header is injected by the transport, which also handles the
// invalidate-and-retry-once dance on HTTP 401. Error statuses are mapped to
// *APIError; a decoded body is written to out when it is non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	u := c.baseURL + strings.TrimPrefix(endpoint, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("finaut: encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("finaut: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.logger != nil {
		c.logger.Printf("finaut: %s %s", method, u)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("finaut: request failed: %w", err)
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Printf("finaut: %s %s -> %d", method, u, resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("finaut: read response body: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("finaut: decode response: %w", err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, query, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, nil, body, out)
}

func (c *Client) put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, nil, body, out)
}

func (c *Client) patch(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPatch, endpoint, nil, body, out)
}

func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, nil)
}

// TestConnection reports whether the API root is reachable with the
// configured credentials.
func (c *Client) TestConnection(ctx context.Context) bool {
	err := c.get(ctx, "", nil, nil)
	if err != nil && c.logger != nil {
		c.logger.Printf("finaut: connection test failed: %v", err)
	}
	return err == nil
}
