// Package apiclient issues authenticated JSON requests to the inventory backend.
package apiclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Observer receives one notification per backend call.
type Observer interface {
	ObserveAPICall(method, resource string, status int, elapsed time.Duration)
}

// Config collects the client settings.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Logger   *slog.Logger
	Observer Observer
}

// Client wraps a resty client configured for the backend.
type Client struct {
	rest     *resty.Client
	logger   *slog.Logger
	observer Observer
}

// New constructs a Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rest := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{rest: rest, logger: logger, observer: cfg.Observer}
}

// Get issues a GET request and returns the raw 2xx body.
func (c *Client) Get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// Do sends one request. A body that cannot be marshalled becomes
// *EncodeError and is never sent, transport failures become *NetworkError,
// and non-2xx answers are classified into the backend error taxonomy.
func (c *Client) Do(ctx context.Context, method, path string, query map[string]string, body any) ([]byte, error) {
	req := c.rest.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID(ctx))
	if token := TokenFromContext(ctx); token != "" {
		req.SetAuthToken(token)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.logger.Error("encode backend request",
				slog.String("method", method),
				slog.String("path", path),
				slog.Any("error", err))
			return nil, &EncodeError{Method: method, Path: path, Err: err}
		}
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	c.observe(method, path, status, time.Since(start))

	if err != nil {
		c.logger.Warn("backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err))
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}
	if resp.IsSuccess() {
		return resp.Body(), nil
	}
	classified := classify(method, path, status, resp.Body())
	c.logger.Debug("backend request rejected",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status))
	return nil, classified
}

func (c *Client) observe(method, path string, status int, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveAPICall(method, resourceName(path), status, elapsed)
}

// requestID propagates the inbound chi request id, or mints a new one.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

// resourceName keeps metric cardinality low: /products/12 -> products.
func resourceName(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "root"
	}
	parts := strings.Split(trimmed, "/")
	if parts[0] == "stats" && len(parts) > 1 {
		return "stats/" + parts[1]
	}
	return parts[0]
}
