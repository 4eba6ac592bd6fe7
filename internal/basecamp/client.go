package basecamp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"basecamp-mcp/pkg/logging"
)

const (
	// baseURLFormat is the account-scoped API root.
	baseURLFormat = "https://3.basecampapi.com/%s"

	defaultUserAgent = "basecamp-mcp (github.com/basecamp-mcp)"

	// maxPages bounds pagination so a malformed Link chain cannot loop
	// forever. Exceeding it is a PaginationError, never a silent truncation.
	maxPages = 200

	// maxRateLimitRetries bounds how often a single page request is retried
	// after a 429 before giving up.
	maxRateLimitRetries = 3

	requestTimeout = 60 * time.Second
)

// TokenSource yields a valid access token for each outgoing request.
// auth.Manager satisfies this.
type TokenSource interface {
	EnsureValid(ctx context.Context) (string, error)
}

// Client is an authenticated caller for the Basecamp 3 API, scoped to a
// single account. All requests go through the token source, so an expired
// access token is refreshed transparently before the request is sent.
type Client struct {
	baseURL    string
	userAgent  string
	tokens     TokenSource
	httpClient *http.Client

	// sleep is swapped out in tests so 429 retries don't take wall time.
	sleep func(time.Duration)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the account-derived API root. Used by tests to point
// the client at a local server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithUserAgent sets the User-Agent header sent with every request.
// Basecamp requires an identifying user agent.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func withSleeper(fn func(time.Duration)) ClientOption {
	return func(c *Client) { c.sleep = fn }
}

// NewClient returns a client for the given account.
func NewClient(accountID string, tokens TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    fmt.Sprintf(baseURLFormat, accountID),
		userAgent:  defaultUserAgent,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: requestTimeout},
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// absoluteURL joins path onto the account root, or passes through a URL that
// is already absolute (pagination follows server-issued next links verbatim).
func (c *Client) absoluteURL(path string, query url.Values) string {
	u := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		u = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

// do performs one authenticated request and returns the raw response. The
// caller owns the body. Any non-2xx status is drained into an *APIError.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, contentType string) (*http.Response, error) {
	token, err := c.tokens.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	logging.Debug("Basecamp", "Request %s %s", method, rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return resp, nil
}

// parseRetryAfter reads a Retry-After header given in seconds. A missing or
// malformed value yields zero; the retry loop substitutes its own backoff.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, c.absoluteURL(path, query), body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get fetches a single resource into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// Post creates a resource. out may be nil when the response body is
// irrelevant.
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, payload, out)
}

// Put replaces or triggers a resource.
func (c *Client) Put(ctx context.Context, path string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, payload, out)
}

// Patch partially updates a resource.
func (c *Client) Patch(ctx context.Context, path string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, payload, out)
}

// Delete removes a resource. Basecamp answers 204 with no body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// PostBinary uploads raw bytes (the attachments endpoint takes the file body
// directly, not a JSON envelope).
func (c *Client) PostBinary(ctx context.Context, path string, query url.Values, contentType string, data io.Reader, out any) error {
	resp, err := c.do(ctx, http.MethodPost, c.absoluteURL(path, query), data, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
