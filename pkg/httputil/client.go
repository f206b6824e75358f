package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single request made through [Client].
const DefaultTimeout = 10 * time.Second

// Identity headers set by the upstream gateway and trusted by the server.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
)

// StatusError carries the HTTP status of a failed response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Client is a small JSON API client. It applies default headers to every
// request and classifies failures: transport errors and 5xx responses are
// wrapped in [RetryableError], 404 maps to [ErrNotFound].
type Client struct {
	base    string
	http    *http.Client
	headers map[string]string
}

// NewClient returns a Client for the API rooted at baseURL.
// Pass nil for headers if no default headers are needed.
func NewClient(baseURL string, headers map[string]string) *Client {
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    NewHTTPClient(),
		headers: headers,
	}
}

// NewHTTPClient creates an HTTP client with the standard timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.base }

// Do sends a request with in JSON-encoded as the body (when non-nil) and
// decodes a JSON response into out (when non-nil).
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	return c.DoWithHeaders(ctx, method, path, nil, in, out)
}

// DoWithHeaders is [Client.Do] with additional headers merged with the
// defaults. Request-specific headers override defaults for the same key.
func (c *Client) DoWithHeaders(ctx context.Context, method, path string, headers map[string]string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	serr := &StatusError{Code: code, Body: strings.TrimSpace(string(msg))}
	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, serr)
	case code >= 500 || code == http.StatusTooManyRequests:
		return &RetryableError{Err: fmt.Errorf("%w: %w", ErrNetwork, serr)}
	default:
		return fmt.Errorf("%w: %w", ErrNetwork, serr)
	}
}

// Status returns the HTTP status code carried by err, or 0.
func Status(err error) int {
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Code
	}
	return 0
}
