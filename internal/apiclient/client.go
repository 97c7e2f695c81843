// Package apiclient is the single network chokepoint between the console and
// the upstream support API.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:4000/api"
	// DefaultTimeout is the fixed per-request timeout.
	DefaultTimeout = 10 * time.Second
)

// TokenSource resolves the bearer token of the session carried by ctx and
// revokes it when the upstream rejects it.
type TokenSource interface {
	Token(ctx context.Context) string
	Revoke(ctx context.Context)
}

// Observer receives one call per completed upstream request.
type Observer interface {
	ObserveCall(method, resource, outcome string, elapsed time.Duration)
}

// Client wraps resty with the console's auth and error conventions.
type Client struct {
	httpClient     *resty.Client
	baseURL        string
	timeout        time.Duration
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	observer       Observer
	logger         *slog.Logger
}

// Config represents client configuration
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Debug     bool

	// Tokens supplies the Authorization header. Nil means anonymous.
	Tokens TokenSource
	// OnUnauthorized runs after a 401 revoked the session token.
	OnUnauthorized func(ctx context.Context)
	Observer       Observer
	Logger         *slog.Logger
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// New creates a client. Retries are disabled: a failed call is reported to
// the caller immediately.
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = "gotrs-console/1.0"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	var httpClient *resty.Client
	if config.HTTPClient != nil {
		httpClient = resty.NewWithClient(config.HTTPClient)
	} else {
		httpClient = resty.New()
	}
	httpClient.
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetTimeout(config.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetDebug(config.Debug)

	c := &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(config.BaseURL, "/"),
		timeout:        config.Timeout,
		tokens:         config.Tokens,
		onUnauthorized: config.OnUnauthorized,
		observer:       config.Observer,
		logger:         config.Logger,
	}

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		c.setAuth(req)
		return nil
	})
	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		return c.handleError(resp)
	})

	return c
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the fixed request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

func (c *Client) setAuth(req *resty.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(req.Context()); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
}

// handleError converts non-2xx responses into typed errors. A 401 also
// revokes the session token and notifies the unauthorized hook, whichever
// caller triggered it.
func (c *Client) handleError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		ctx := resp.Request.Context()
		if c.tokens != nil {
			c.tokens.Revoke(ctx)
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return ErrUnauthorized
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && (body.Error != "" || body.Message != "") {
		message := body.Message
		details := body.Error
		if message == "" {
			message, details = body.Error, ""
		}
		return NewAPIError(resp.StatusCode(), message, body.Code, details)
	}

	switch resp.StatusCode() {
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusInternalServerError:
		return ErrInternalServer
	default:
		return NewAPIError(resp.StatusCode(), http.StatusText(resp.StatusCode()), "", string(resp.Body()))
	}
}

// Do issues method against path with optional query and JSON body and
// decodes a successful response into result when it is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	req := c.httpClient.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)

	if err != nil && (resp == nil || resp.RawResponse == nil) {
		err = &NetworkError{Operation: method, URL: c.baseURL + path, Err: err}
	}
	c.observe(method, path, err, elapsed)

	if err != nil {
		c.logger.Debug("upstream call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("kind", Kind(err)),
			slog.Any("error", err))
		return err
	}
	return nil
}

func (c *Client) observe(method, path string, err error, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveCall(method, resourceOf(path), Kind(err), elapsed)
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, result)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, result)
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, result)
}

// Patch performs a PATCH request
func (c *Client) Patch(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, result interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, result)
}

// PathEscape joins a resource prefix with an escaped id segment.
func PathEscape(prefix, id string, rest ...string) string {
	p := fmt.Sprintf("%s/%s", prefix, url.PathEscape(id))
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

// resourceOf reduces a request path to its first segment so metrics stay
// low-cardinality ("/tickets/TK-1/messages" -> "tickets").
func resourceOf(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
